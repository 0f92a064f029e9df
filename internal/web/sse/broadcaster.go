package sse

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/web/templates/components"
)

// Countdown stream event names
const (
	EventCountdown = "countdown"
	EventEnded     = "ended"
)

// CTAElementID is the element the register button is swapped into
const CTAElementID = "register-cta"

// Renderer turns countdown snapshots into HTML fragments
type Renderer struct {
	tr *i18n.Translator
}

// NewRenderer creates a new Renderer
func NewRenderer(tr *i18n.Translator) *Renderer {
	return &Renderer{tr: tr}
}

// CountdownData builds the countdown component data for a snapshot
func (r *Renderer) CountdownData(snap model.Snapshot) components.CountdownData {
	return components.CountdownData{
		Snapshot:   snap,
		StatusText: r.tr.StatusText(snap.Status),
	}
}

// CTALabel is the register button text
func (r *Renderer) CTALabel() string {
	return r.tr.T(i18n.MsgRegisterNow, nil)
}

// RenderSnapshot renders the event name and payload for a snapshot.
// The payload is the countdown content plus an out-of-band swap of the
// register button so it enables or disables with the status.
func (r *Renderer) RenderSnapshot(ctx context.Context, snap model.Snapshot) (string, string, error) {
	var countdown bytes.Buffer
	if err := components.Countdown(r.CountdownData(snap)).Render(ctx, &countdown); err != nil {
		return "", "", err
	}
	var button bytes.Buffer
	if err := components.RegisterButton(snap.IsLive(), r.CTALabel()).Render(ctx, &button); err != nil {
		return "", "", err
	}

	event := EventCountdown
	if snap.Status == model.StatusEnded {
		event = EventEnded
	}
	return event, countdown.String() + WrapForOOBSwap(CTAElementID, button.String()), nil
}

// RenderEvent renders a snapshot as a complete SSE message
func (r *Renderer) RenderEvent(ctx context.Context, snap model.Snapshot) ([]byte, error) {
	event, html, err := r.RenderSnapshot(ctx, snap)
	if err != nil {
		return nil, err
	}
	return FormatEvent(event, html), nil
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}

// Broadcaster publishes countdown snapshots to the hub
type Broadcaster struct {
	hub      *Hub
	renderer *Renderer
	logger   *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, renderer *Renderer, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:      hub,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends a snapshot to every stream. The ended snapshot is the last
// event; the hub closes all streams after delivering it.
func (b *Broadcaster) Publish(snap model.Snapshot) {
	event, html, err := b.renderer.RenderSnapshot(context.Background(), snap)
	if err != nil {
		b.logger.Error("sse failed to render countdown", slog.Any("error", err))
		return
	}
	if event == EventEnded {
		b.hub.BroadcastFinal(event, html)
		return
	}
	b.hub.BroadcastEvent(event, html)
}
