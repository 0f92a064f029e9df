package model

import "errors"

// Common errors used across the application
var (
	// Window errors
	ErrInvalidWindow = errors.New("window end is before start")

	// Submission errors
	ErrRegistrationClosed = errors.New("registration is not open")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrValidation         = errors.New("registration failed validation")

	// Remote API errors
	ErrRemoteRejected    = errors.New("registration rejected by server")
	ErrRemoteUnavailable = errors.New("registration server unavailable")
)
