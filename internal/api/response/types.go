package response

import (
	"time"

	"github.com/mcoot/itpreg/internal/model"
)

// Health is the response for the health check
type Health struct {
	Status string `json:"status"`
}

// Remaining is the time left until the next window boundary
type Remaining struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Status describes the registration window right now
type Status struct {
	Status    string     `json:"status"`
	Remaining *Remaining `json:"remaining"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Now       time.Time  `json:"now"`
}

// StatusFromSnapshot converts a snapshot and its window
func StatusFromSnapshot(snap model.Snapshot, window model.Window) Status {
	var remaining *Remaining
	if snap.Remaining != nil {
		remaining = &Remaining{
			Days:    snap.Remaining.Days,
			Hours:   snap.Remaining.Hours,
			Minutes: snap.Remaining.Minutes,
			Seconds: snap.Remaining.Seconds,
		}
	}
	return Status{
		Status:    string(snap.Status),
		Remaining: remaining,
		Start:     window.Start,
		End:       window.End,
		Now:       snap.At,
	}
}

// Options lists every choice the registration form accepts
type Options struct {
	Genders  []model.Option `json:"genders"`
	Branches []model.Option `json:"branches"`
	Sections []model.Option `json:"sections"`
	Domains  []model.Option `json:"domains"`
}

// SecondaryDomains lists the secondary domain choices for a primary domain
type SecondaryDomains struct {
	Primary string         `json:"primary"`
	Options []model.Option `json:"options"`
}

// Registration is the response after a successful submission
type Registration struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url,omitempty"`
}
