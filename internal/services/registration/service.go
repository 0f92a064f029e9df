package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/metrics"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/remote"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/storage"
)

// DefaultLockTTL bounds how long an abandoned in-flight lock blocks a client
const DefaultLockTTL = time.Minute

// lockMargin keeps a lock alive a little past the slowest remote call
const lockMargin = 5 * time.Second

// Registrar submits a registration to the system of record
type Registrar interface {
	Register(ctx context.Context, reg model.Registration) (*remote.Response, error)
}

// ValidationError carries per-field messages for a rejected submission
type ValidationError struct {
	Registration model.Registration
	Fields       model.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d invalid field(s)", len(e.Fields))
}

// Unwrap lets callers match with errors.Is(err, model.ErrValidation)
func (e *ValidationError) Unwrap() error {
	return model.ErrValidation
}

// Outcome describes a successful submission
type Outcome struct {
	Registration model.Registration
	Message      string
	// RedirectURL is the chat group link, empty when none is configured
	RedirectURL string
}

// Config holds settings for the registration service
type Config struct {
	ChatGroupURL string
	LockTTL      time.Duration
	// RemoteTimeout raises LockTTL so a lock never expires mid-request
	RemoteTimeout time.Duration
}

// Service validates registrations and forwards them to the remote API
type Service struct {
	countdown *countdown.Service
	storage   storage.Storage
	registrar Registrar
	validator *Validator
	tr        *i18n.Translator
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cfg       Config
}

// New creates a registration service
func New(
	countdownService *countdown.Service,
	store storage.Storage,
	registrar Registrar,
	tr *i18n.Translator,
	m *metrics.Metrics,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.LockTTL == 0 {
		cfg.LockTTL = DefaultLockTTL
	}
	if floor := cfg.RemoteTimeout + lockMargin; cfg.RemoteTimeout > 0 && cfg.LockTTL < floor {
		cfg.LockTTL = floor
	}
	return &Service{
		countdown: countdownService,
		storage:   store,
		registrar: registrar,
		validator: NewValidator(tr),
		tr:        tr,
		metrics:   m,
		logger:    logger.With(slog.String("component", "registration")),
		cfg:       cfg,
	}
}

// Validate checks a raw submission without sending it
func (s *Service) Validate(raw model.Registration) (model.Registration, model.FieldErrors) {
	return s.validator.Validate(raw)
}

// Submit validates raw and sends it to the remote API once
// Only one submission per client may be in flight at a time.
func (s *Service) Submit(ctx context.Context, clientID string, raw model.Registration) (*Outcome, error) {
	if s.countdown.Status() != model.StatusLive {
		s.metrics.RecordSubmission(metrics.OutcomeClosed)
		return nil, model.ErrRegistrationClosed
	}

	reg, fieldErrs := s.validator.Validate(raw)
	if fieldErrs.HasErrors() {
		s.metrics.RecordSubmission(metrics.OutcomeInvalid)
		s.metrics.RecordValidationErrors(fieldErrs)
		return nil, &ValidationError{Registration: reg, Fields: fieldErrs}
	}

	token := uuid.NewString()
	acquired, err := s.storage.AcquireSubmission(ctx, clientID, token, s.cfg.LockTTL)
	if err != nil {
		s.metrics.RecordSubmission(metrics.OutcomeError)
		return nil, fmt.Errorf("failed to acquire submission lock: %w", err)
	}
	if !acquired {
		s.metrics.RecordSubmission(metrics.OutcomeInFlight)
		return nil, model.ErrSubmissionInFlight
	}
	defer func() {
		if err := s.storage.ReleaseSubmission(context.WithoutCancel(ctx), clientID, token); err != nil {
			s.logger.Error("failed to release submission lock",
				slog.String("client_id", clientID),
				slog.Any("error", err))
		}
	}()

	start := time.Now()
	resp, err := s.registrar.Register(ctx, reg)
	s.metrics.RemoteLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, model.ErrRemoteRejected):
			s.metrics.RecordSubmission(metrics.OutcomeRejected)
		case errors.Is(err, model.ErrRemoteUnavailable):
			s.metrics.RecordSubmission(metrics.OutcomeUnavailable)
		default:
			s.metrics.RecordSubmission(metrics.OutcomeError)
		}
		s.logger.Warn("registration failed",
			slog.String("client_id", clientID),
			slog.Any("error", err))
		return nil, err
	}

	s.metrics.RecordSubmission(metrics.OutcomeSuccess)
	s.logger.Info("registration submitted",
		slog.String("client_id", clientID),
		slog.String("primary_domain", reg.PrimaryDomain),
		slog.Int("remote_status", resp.Status))

	message := resp.Message
	if message == "" {
		message = s.tr.T(i18n.MsgRegistrationSucceeded, nil)
	}

	return &Outcome{
		Registration: reg,
		Message:      message,
		RedirectURL:  s.cfg.ChatGroupURL,
	}, nil
}

// Describe turns a Submit error into a user-facing notice
func (s *Service) Describe(err error) string {
	var remoteErr *remote.Error
	switch {
	case errors.As(err, &remoteErr):
		return s.tr.T(i18n.MsgRegistrationFailed, map[string]any{"Reason": remoteErr.Message})
	case errors.Is(err, model.ErrValidation):
		return s.tr.T(i18n.MsgFormInvalid, nil)
	case errors.Is(err, model.ErrRegistrationClosed):
		return s.tr.T(i18n.MsgRegistrationClosed, nil)
	case errors.Is(err, model.ErrSubmissionInFlight):
		return s.tr.T(i18n.MsgSubmissionInFlight, nil)
	default:
		return s.tr.T(i18n.MsgRegistrationFailed, map[string]any{"Reason": err.Error()})
	}
}
