package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

// Countdown stream event names
const (
	EventCountdown = "countdown"
	EventEnded     = "ended"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream the live registration countdown",
		Long: `Connect to the countdown SSE endpoint and print each tick.

Events:
  - countdown: Time remaining until registration opens or closes
  - ended: Registration has ended; the stream closes afterwards

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			return streamEvents(ctx, out)
		},
	}

	return cmd
}

// CountdownEvent is one parsed countdown stream event
type CountdownEvent struct {
	Time       time.Time      `json:"time"`
	Event      string         `json:"event"`
	Status     string         `json:"status,omitempty"`
	StatusText string         `json:"status_text,omitempty"`
	Remaining  *RemainingTime `json:"remaining,omitempty"`
	Data       string         `json:"-"`
}

func streamEvents(ctx context.Context, out *Output) error {
	// The stream is served by the page router, not under /api
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/events/countdown"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	out.Verbosef("Connected to %s\n", url)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent == EventCountdown || currentEvent == EventEnded {
				evt := ParseCountdownEvent(currentEvent, strings.Join(dataLines, "\n"))
				evt.Time = time.Now()
				out.Print(evt)
				if currentEvent == EventEnded {
					return nil
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil {
		// Context cancellation is expected
		if ctx.Err() != nil {
			out.Verbosef("Disconnected\n")
			return nil
		}
		return fmt.Errorf("stream error: %w", err)
	}

	out.Verbosef("Disconnected\n")
	return nil
}

// ParseCountdownEvent extracts the status and remaining time from the
// countdown fragment carried in an event's data.
func ParseCountdownEvent(event, data string) CountdownEvent {
	evt := CountdownEvent{Event: event, Data: data}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(data))
	if err != nil {
		return evt
	}

	statusLine := doc.Find(".status-line").First()
	evt.Status, _ = statusLine.Attr("data-status")
	evt.StatusText = strings.TrimSpace(statusLine.Text())

	units := doc.Find("[data-unit]")
	if units.Length() == 0 {
		return evt
	}
	var rem RemainingTime
	units.Each(func(_ int, s *goquery.Selection) {
		unit, _ := s.Attr("data-unit")
		value, err := strconv.Atoi(strings.TrimSpace(s.Text()))
		if err != nil {
			return
		}
		switch unit {
		case "days":
			rem.Days = value
		case "hours":
			rem.Hours = value
		case "minutes":
			rem.Minutes = value
		case "seconds":
			rem.Seconds = value
		}
	})
	evt.Remaining = &rem
	return evt
}
