package registration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/itpreg/internal/dependencies/mocks"
	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/metrics"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/remote"
	"github.com/mcoot/itpreg/internal/services/countdown"
	"github.com/mcoot/itpreg/internal/storage/memory"
	"github.com/mcoot/itpreg/internal/testutil"
)

var (
	windowStart = time.Date(2025, 2, 13, 17, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2025, 2, 18, 23, 59, 59, 0, time.UTC)
)

// fakeRegistrar records calls and returns a canned result
type fakeRegistrar struct {
	mu      sync.Mutex
	calls   []model.Registration
	resp    *remote.Response
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeRegistrar) Register(ctx context.Context, reg model.Registration) (*remote.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, reg)
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return f.resp, f.err
}

func (f *fakeRegistrar) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type ServiceSuite struct {
	suite.Suite
	clock     *mocks.MockClock
	storage   *memory.Storage
	registrar *fakeRegistrar
	metrics   *metrics.Metrics
	service   *Service
	ctx       context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	window, err := model.NewWindow(windowStart, windowEnd)
	s.Require().NoError(err)

	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(windowStart.Add(time.Hour))
	s.storage = memory.New(s.clock)
	s.registrar = &fakeRegistrar{resp: &remote.Response{Status: http.StatusCreated}}
	s.metrics = metrics.New()
	s.service = New(
		countdown.New(window, s.clock, logger),
		s.storage,
		s.registrar,
		i18n.NewTranslator("en", logger),
		s.metrics,
		Config{ChatGroupURL: "https://chat.whatsapp.com/itp2025"},
		logger,
	)
	s.ctx = context.Background()
}

func (s *ServiceSuite) submissions(outcome string) float64 {
	return promtest.ToFloat64(s.metrics.Submissions.WithLabelValues(outcome))
}

func (s *ServiceSuite) TestSubmitSuccess() {
	raw := validRegistration()
	raw.Email = "ASHA@EXAMPLE.COM"

	outcome, err := s.service.Submit(s.ctx, "client-1", raw)
	s.Require().NoError(err)

	s.Equal("Registration successful!", outcome.Message)
	s.Equal("https://chat.whatsapp.com/itp2025", outcome.RedirectURL)
	s.Require().Equal(1, s.registrar.callCount())
	s.Equal("asha@example.com", s.registrar.calls[0].Email)
	s.Equal(1.0, s.submissions(metrics.OutcomeSuccess))
}

func (s *ServiceSuite) TestSubmitUsesServerMessage() {
	s.registrar.resp = &remote.Response{Status: http.StatusOK, Message: "See you on the 20th"}

	outcome, err := s.service.Submit(s.ctx, "client-1", validRegistration())
	s.Require().NoError(err)
	s.Equal("See you on the 20th", outcome.Message)
}

func (s *ServiceSuite) TestSubmitReleasesLockAfterSuccess() {
	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
	s.Require().NoError(err)
	s.Equal(0, s.storage.InFlightCount())
}

func (s *ServiceSuite) TestSubmitBeforeWindowIsClosed() {
	s.clock.Set(windowStart.Add(-time.Second))

	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
	s.ErrorIs(err, model.ErrRegistrationClosed)
	s.Equal(0, s.registrar.callCount())
	s.Equal(1.0, s.submissions(metrics.OutcomeClosed))
}

func (s *ServiceSuite) TestSubmitAfterWindowIsClosed() {
	s.clock.Set(windowEnd.Add(time.Second))

	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
	s.ErrorIs(err, model.ErrRegistrationClosed)
}

func (s *ServiceSuite) TestSubmitAtEndBoundaryIsAccepted() {
	s.clock.Set(windowEnd)

	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
	s.NoError(err)
}

func (s *ServiceSuite) TestSubmitSameDomainsRejected() {
	raw := validRegistration()
	raw.SecondaryDomain = raw.PrimaryDomain

	_, err := s.service.Submit(s.ctx, "client-1", raw)

	var verr *ValidationError
	s.Require().True(errors.As(err, &verr))
	s.ErrorIs(err, model.ErrValidation)
	s.Contains(verr.Fields, model.FieldSecondaryDomain)
	s.Equal(raw.Name, verr.Registration.Name, "entered values are returned for re-display")
	s.Equal(0, s.registrar.callCount())
	s.Equal(1.0, promtest.ToFloat64(s.metrics.ValidationErrors.WithLabelValues(model.FieldSecondaryDomain)))
}

func (s *ServiceSuite) TestSubmitRemoteRejected() {
	s.registrar.resp = nil
	s.registrar.err = &remote.Error{Status: http.StatusBadRequest, Message: "duplicate"}

	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())

	s.ErrorIs(err, model.ErrRemoteRejected)
	s.Contains(s.service.Describe(err), "duplicate")
	s.Equal(1.0, s.submissions(metrics.OutcomeRejected))
	s.Equal(0, s.storage.InFlightCount(), "lock released after failure")
}

func (s *ServiceSuite) TestSubmitRemoteUnavailable() {
	s.registrar.resp = nil
	s.registrar.err = fmt.Errorf("%w: connection refused", model.ErrRemoteUnavailable)

	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())

	s.ErrorIs(err, model.ErrRemoteUnavailable)
	s.Contains(s.service.Describe(err), "connection refused")
	s.Equal(1.0, s.submissions(metrics.OutcomeUnavailable))
}

func (s *ServiceSuite) TestSubmitNoRetryOnFailure() {
	s.registrar.resp = nil
	s.registrar.err = fmt.Errorf("%w: timeout", model.ErrRemoteUnavailable)

	_, _ = s.service.Submit(s.ctx, "client-1", validRegistration())
	s.Equal(1, s.registrar.callCount())
}

func (s *ServiceSuite) TestSubmitWhileInFlightIsRejected() {
	block := make(chan struct{})
	s.registrar.block = block
	s.registrar.entered = make(chan struct{}, 1)

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
		firstDone <- err
	}()
	<-s.registrar.entered

	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
	s.ErrorIs(err, model.ErrSubmissionInFlight)

	// Other clients are not blocked
	s.registrar.mu.Lock()
	s.registrar.block = nil
	s.registrar.entered = nil
	s.registrar.mu.Unlock()
	_, err = s.service.Submit(s.ctx, "client-2", validRegistration())
	s.NoError(err)

	// Once the first call completes, client-1 may submit again
	close(block)
	s.NoError(<-firstDone)

	_, err = s.service.Submit(s.ctx, "client-1", validRegistration())
	s.NoError(err)
	s.Equal(1.0, s.submissions(metrics.OutcomeInFlight))
}

func (s *ServiceSuite) TestSlowSubmissionKeepsNewerLock() {
	first := make(chan struct{})
	s.registrar.block = first
	s.registrar.entered = make(chan struct{}, 1)

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
		firstDone <- err
	}()
	<-s.registrar.entered

	// The first call outlives its lock and the client submits again
	s.clock.Advance(2 * DefaultLockTTL)
	second := make(chan struct{})
	s.registrar.mu.Lock()
	s.registrar.block = second
	s.registrar.mu.Unlock()

	secondDone := make(chan error, 1)
	go func() {
		_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
		secondDone <- err
	}()
	<-s.registrar.entered

	close(first)
	s.NoError(<-firstDone)

	_, err := s.service.Submit(s.ctx, "client-1", validRegistration())
	s.ErrorIs(err, model.ErrSubmissionInFlight)

	close(second)
	s.NoError(<-secondDone)
	s.Equal(0, s.storage.InFlightCount())
}

func (s *ServiceSuite) TestLockTTLCoversRemoteTimeout() {
	logger := testutil.NopLogger()
	window, err := model.NewWindow(windowStart, windowEnd)
	s.Require().NoError(err)

	svc := New(
		countdown.New(window, s.clock, logger),
		s.storage,
		s.registrar,
		i18n.NewTranslator("en", logger),
		s.metrics,
		Config{LockTTL: time.Minute, RemoteTimeout: 3 * time.Minute},
		logger,
	)
	s.Greater(svc.cfg.LockTTL, 3*time.Minute)

	s.Equal(DefaultLockTTL, s.service.cfg.LockTTL)
}

func (s *ServiceSuite) TestDescribe() {
	s.Equal("Registration is not open right now.", s.service.Describe(model.ErrRegistrationClosed))
	s.Equal("Your previous submission is still being processed.", s.service.Describe(model.ErrSubmissionInFlight))
	s.Equal("Please correct the highlighted fields.", s.service.Describe(&ValidationError{}))
}
