package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format  string
	w       io.Writer
	verbose bool
}

// NewOutput creates a new Output formatter
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w, verbose: cfg != nil && cfg.Verbose}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

// Verbosef prints progress notes in text mode when --verbose is set
func (o *Output) Verbosef(format string, args ...any) {
	if o.verbose && o.format != "json" {
		_, _ = fmt.Fprintf(o.w, format, args...)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	if _, stream := data.(CountdownEvent); !stream {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case HealthResult:
		o.printHealthResult(v)
	case StatusResult:
		o.printStatusResult(v)
	case OptionsResult:
		o.printOptionsResult(v)
	case SecondaryDomainsResult:
		o.printSecondaryDomains(v)
	case RegistrationResult:
		o.printRegistrationResult(v)
	case CountdownEvent:
		o.printCountdownEvent(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Registration window statuses
const (
	StatusBefore = "before"
	StatusLive   = "live"
	StatusEnded  = "ended"
)

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// RemainingTime response type
type RemainingTime struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (r RemainingTime) String() string {
	return fmt.Sprintf("%02dd %02dh %02dm %02ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}

// StatusResult response type
type StatusResult struct {
	Status    string         `json:"status"`
	Remaining *RemainingTime `json:"remaining"`
	Start     time.Time      `json:"start"`
	End       time.Time      `json:"end"`
	Now       time.Time      `json:"now"`
}

// Option response type
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsResult response type
type OptionsResult struct {
	Genders  []Option `json:"genders"`
	Branches []Option `json:"branches"`
	Sections []Option `json:"sections"`
	Domains  []Option `json:"domains"`
}

// SecondaryDomainsResult response type
type SecondaryDomainsResult struct {
	Primary string   `json:"primary"`
	Options []Option `json:"options"`
}

// RegistrationRequest is the body of a registration submission
type RegistrationRequest struct {
	Name               string `json:"name"`
	Gender             string `json:"gender"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"registrationNumber"`
	Branch             string `json:"branch"`
	Section            string `json:"section,omitempty"`
	WhatsAppNumber     string `json:"whatsappNumber"`
	PrimaryDomain      string `json:"primaryDomain"`
	SecondaryDomain    string `json:"secondaryDomain"`
	GitHubURL          string `json:"githubUrl"`
	ProjectLink1       string `json:"projectLink1,omitempty"`
	ProjectLink2       string `json:"projectLink2,omitempty"`
	ResumeLink         string `json:"resumeLink,omitempty"`
}

// RegistrationResult response type
type RegistrationResult struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func (o *Output) printStatusResult(s StatusResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", s.Status)
	if s.Remaining != nil {
		label := "Closes in"
		if s.Status == StatusBefore {
			label = "Opens in"
		}
		_, _ = fmt.Fprintf(o.w, "%s: %s\n", label, s.Remaining)
	}
	_, _ = fmt.Fprintf(o.w, "Window: %s to %s\n",
		s.Start.Format(time.RFC1123), s.End.Format(time.RFC1123))
}

func (o *Output) printOptionsResult(r OptionsResult) {
	sections := []struct {
		title string
		opts  []Option
	}{
		{"Genders", r.Genders},
		{"Branches", r.Branches},
		{"Sections", r.Sections},
		{"Domains", r.Domains},
	}
	for i, s := range sections {
		if i > 0 {
			_, _ = fmt.Fprintln(o.w)
		}
		_, _ = fmt.Fprintf(o.w, "%s:\n", s.title)
		for _, opt := range s.opts {
			_, _ = fmt.Fprintf(o.w, "  %s\n", opt.Value)
		}
	}
}

func (o *Output) printSecondaryDomains(r SecondaryDomainsResult) {
	values := make([]string, len(r.Options))
	for i, opt := range r.Options {
		values[i] = opt.Value
	}
	_, _ = fmt.Fprintf(o.w, "Secondary domains for %s: %s\n", r.Primary, strings.Join(values, ", "))
}

func (o *Output) printRegistrationResult(r RegistrationResult) {
	_, _ = fmt.Fprintln(o.w, r.Message)
	if r.RedirectURL != "" {
		_, _ = fmt.Fprintf(o.w, "Next: %s\n", r.RedirectURL)
	}
}

func (o *Output) printCountdownEvent(e CountdownEvent) {
	timestamp := e.Time.Format("2006-01-02 15:04:05")
	text := e.StatusText
	if e.Remaining != nil {
		text += " " + e.Remaining.String()
	}
	_, _ = fmt.Fprintf(o.w, "[%s] %s: %s\n", timestamp, e.Event, text)
}
