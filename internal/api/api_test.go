package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/itpreg/internal/api/apierr"
	"github.com/mcoot/itpreg/internal/api/response"
	"github.com/mcoot/itpreg/internal/factory"
	"github.com/mcoot/itpreg/internal/model"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp

	mu           sync.Mutex
	remoteStatus int
	remoteBody   string
	remoteCalls  int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		remoteStatus: http.StatusCreated,
		remoteBody:   `{"message":"Registration successful!"}`,
	}
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		ts.mu.Lock()
		ts.remoteCalls++
		status, body := ts.remoteStatus, ts.remoteBody
		ts.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(remote.Close)

	ts.app = factory.NewTestApp(remote.URL)
	t.Cleanup(func() { _ = ts.app.Close() })
	ts.handler = ts.app.Handler()
	return ts
}

func (ts *testServer) respond(status int, body string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.remoteStatus = status
	ts.remoteBody = body
}

func (ts *testServer) calls() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.remoteCalls
}

func (ts *testServer) request(method, path string, body any, clientID string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func validRegistration() model.Registration {
	return model.Registration{
		Name:               "Asha Rao",
		Gender:             "female",
		Email:              "Asha@Example.com",
		RegistrationNumber: "2024123456",
		Branch:             "Computer Science and Engineering",
		Section:            "B",
		WhatsAppNumber:     "9876543210",
		PrimaryDomain:      "Web Dev",
		SecondaryDomain:    "AI/ML",
		GitHubURL:          "https://github.com/asha",
	}
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.Health
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(*factory.TestApp)
		wantStatus    string
		wantRemaining bool
	}{
		{"before window", (*factory.TestApp).SetBeforeWindow, "before", true},
		{"live", (*factory.TestApp).SetLive, "live", true},
		{"after window", (*factory.TestApp).SetAfterWindow, "ended", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			tt.setup(ts.app)

			rr := ts.request(http.MethodGet, "/api/v1/status", nil, "")
			require.Equal(t, http.StatusOK, rr.Code)

			var resp response.Status
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantRemaining, resp.Remaining != nil)
			assert.True(t, resp.Start.Equal(ts.app.Window.Start))
			assert.True(t, resp.End.Equal(ts.app.Window.End))
		})
	}
}

func TestStatus_RemainingCountsDownToStart(t *testing.T) {
	ts := newTestServer(t)
	ts.app.MockClock.Set(ts.app.Window.Start.Add(-90061 * time.Second))

	rr := ts.request(http.MethodGet, "/api/v1/status", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Status
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotNil(t, resp.Remaining)
	assert.Equal(t, response.Remaining{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}, *resp.Remaining)
}

func TestStatus_EndedEncodesNullRemaining(t *testing.T) {
	ts := newTestServer(t)
	ts.app.SetAfterWindow()

	rr := ts.request(http.MethodGet, "/api/v1/status", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"remaining":null`)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
}

func TestOptions(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/options", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Options
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, model.Genders, resp.Genders)
	assert.Equal(t, model.Branches, resp.Branches)
	assert.Len(t, resp.Sections, 14)
	assert.Len(t, resp.Domains, 8)
}

func TestSecondaryDomains(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/options/secondary-domains?primary=Web+Dev", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.SecondaryDomains
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Web Dev", resp.Primary)
	assert.Len(t, resp.Options, 7)
	for _, opt := range resp.Options {
		assert.NotEqual(t, "Web Dev", opt.Value)
	}
}

func TestSecondaryDomains_UnknownPrimary(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/options/secondary-domains?primary=Knitting", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestCreateRegistration_Success(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "client-1")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "client-1", rr.Header().Get("X-Client-ID"))

	var resp response.Registration
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Registration successful!", resp.Message)
	assert.Equal(t, 1, ts.calls())
}

func TestCreateRegistration_GeneratesClientID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Client-ID"))
}

func TestCreateRegistration_ValidationFailed(t *testing.T) {
	ts := newTestServer(t)

	reg := validRegistration()
	reg.WhatsAppNumber = "98765432101"
	reg.SecondaryDomain = reg.PrimaryDomain

	rr := ts.request(http.MethodPost, "/api/v1/registrations", reg, "client-1")
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeValidationFailed, apiErr.Code)
	assert.Contains(t, apiErr.Fields, model.FieldWhatsAppNumber)
	assert.Contains(t, apiErr.Fields, model.FieldSecondaryDomain)
	assert.NotContains(t, apiErr.Fields, model.FieldName)
	assert.Zero(t, ts.calls(), "invalid submissions never reach the remote API")
}

func TestCreateRegistration_InvalidBody(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestCreateRegistration_Closed(t *testing.T) {
	ts := newTestServer(t)
	ts.app.SetBeforeWindow()

	rr := ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "client-1")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeRegistrationClosed, decodeError(t, rr).Code)
	assert.Zero(t, ts.calls())
}

func TestCreateRegistration_InFlight(t *testing.T) {
	ts := newTestServer(t)

	acquired, err := ts.app.Storage.AcquireSubmission(context.Background(), "client-1", "held", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	rr := ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "client-1")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeSubmissionInFlight, decodeError(t, rr).Code)
	assert.Zero(t, ts.calls())

	// A different client is unaffected
	rr = ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "client-2")
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateRegistration_RemoteRejected(t *testing.T) {
	ts := newTestServer(t)
	ts.respond(http.StatusBadRequest, `{"message":"duplicate"}`)

	rr := ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "client-1")
	require.Equal(t, http.StatusBadGateway, rr.Code)

	apiErr := decodeError(t, rr)
	assert.Equal(t, apierr.CodeRemoteRejected, apiErr.Code)
	assert.Contains(t, apiErr.Message, "duplicate")
	assert.Equal(t, http.StatusBadRequest, apiErr.RemoteStatus)

	// The lock is released after a failure
	ts.respond(http.StatusCreated, `{"message":"ok"}`)
	rr = ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "client-1")
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestCreateRegistration_RemoteUnavailable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	app := factory.NewTestApp(deadURL)
	t.Cleanup(func() { _ = app.Close() })

	b, _ := json.Marshal(validRegistration())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/registrations", bytes.NewReader(b))
	rr := httptest.NewRecorder()
	app.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, apierr.CodeRemoteUnavailable, decodeError(t, rr).Code)
}

func TestUnknownAPIRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeNotFound, decodeError(t, rr).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	ts.request(http.MethodPost, "/api/v1/registrations", validRegistration(), "client-1")

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `itpreg_submissions_total{outcome="success"} 1`)
	assert.Contains(t, body, `itpreg_http_request_seconds_count{method="POST",status="201",surface="api"} 1`)
}
