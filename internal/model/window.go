package model

import "time"

// Status is the registration phase derived from the current time
type Status string

const (
	StatusBefore Status = "before" // Window has not opened yet
	StatusLive   Status = "live"   // Registration is open
	StatusEnded  Status = "ended"  // Window has closed (terminal)
)

// Window is the fixed interval during which registration is open
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow creates a Window, rejecting an end before the start
func NewWindow(start, end time.Time) (Window, error) {
	if end.Before(start) {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: start, End: end}, nil
}

// StatusAt returns the status at the given instant
// Both boundaries count as live.
func (w Window) StatusAt(now time.Time) Status {
	switch {
	case now.Before(w.Start):
		return StatusBefore
	case now.After(w.End):
		return StatusEnded
	default:
		return StatusLive
	}
}

// RemainingAt returns the time left until the next boundary
// Returns nil once the window has ended.
func (w Window) RemainingAt(now time.Time) *RemainingTime {
	switch w.StatusAt(now) {
	case StatusBefore:
		rt := NewRemainingTime(w.Start.Sub(now))
		return &rt
	case StatusLive:
		rt := NewRemainingTime(w.End.Sub(now))
		return &rt
	default:
		return nil
	}
}

// SnapshotAt captures status and remaining time at the given instant
func (w Window) SnapshotAt(now time.Time) Snapshot {
	return Snapshot{
		Status:    w.StatusAt(now),
		Remaining: w.RemainingAt(now),
		At:        now,
	}
}

// RemainingTime is a days/hours/minutes/seconds breakdown of a duration
type RemainingTime struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// NewRemainingTime decomposes d, truncating to whole seconds
// Negative durations clamp to zero.
func NewRemainingTime(d time.Duration) RemainingTime {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	const (
		msPerSecond = int64(1000)
		msPerMinute = 60 * msPerSecond
		msPerHour   = 60 * msPerMinute
		msPerDay    = 24 * msPerHour
	)

	return RemainingTime{
		Days:    int(ms / msPerDay),
		Hours:   int(ms % msPerDay / msPerHour),
		Minutes: int(ms % msPerHour / msPerMinute),
		Seconds: int(ms % msPerMinute / msPerSecond),
	}
}

// Snapshot is the countdown state at one instant
type Snapshot struct {
	Status    Status
	Remaining *RemainingTime // nil when ended
	At        time.Time
}

// IsLive reports whether registration is open in this snapshot
func (s Snapshot) IsLive() bool {
	return s.Status == StatusLive
}
