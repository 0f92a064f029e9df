package web_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/itpreg/internal/factory"
)

func TestRegisterPage_RendersFormWhileLive(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/register")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsElement(t, doc, "form#registration-form")
	assertNotContainsElement(t, doc, "#registration-closed")
	for _, name := range []string{"name", "email", "registrationNumber", "whatsappNumber", "githubUrl", "projectLink1", "projectLink2", "resumeLink"} {
		assertContainsElement(t, doc, `input[name="`+name+`"]`)
	}
	for _, name := range []string{"gender", "branch", "section", "primaryDomain", "secondaryDomain"} {
		assertContainsElement(t, doc, `select[name="`+name+`"]`)
	}
	assertContainsText(t, doc, `button[type="submit"] .label-busy`, "Registering...")

	hxDisabled, _ := doc.Find("form#registration-form").Attr("hx-disabled-elt")
	assert.Contains(t, hxDisabled, "button")
}

func TestRegisterPage_ClosedBeforeWindow(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.SetBeforeWindow()

	doc := parseHTML(ts.get("/register").Body)
	assertContainsElement(t, doc, "#registration-closed")
	assertNotContainsElement(t, doc, "form#registration-form")
}

func TestRegister_SuccessResetsFormAndShowsNotice(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/register", validForm())
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/register", rr.Header().Get("Location"))
	assert.Equal(t, 1, ts.remote.callCount())

	rr = ts.followRedirect(rr)
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsText(t, doc, ".flash-success", "Registration successful!")
	assert.Empty(t, inputValue(doc, "name"))
	assert.Empty(t, inputValue(doc, "email"))
	assert.Empty(t, selectedValue(doc, "branch"))
	assertNotContainsElement(t, doc, `meta[http-equiv="refresh"]`)

	// The notice shows once
	doc = parseHTML(ts.get("/register").Body)
	assertNotContainsElement(t, doc, ".flash-success")
}

func TestRegister_SuccessOverHTMXUsesHXRedirect(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.postHTMX("/register", validForm())
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "/register", rr.Header().Get("HX-Redirect"))
}

func TestRegister_SuccessForwardsToChatGroup(t *testing.T) {
	ts := newWebTestServer(t, factory.WithChatGroup("https://chat.example.com/join"))

	rr := ts.followRedirect(ts.post("/register", validForm()))
	doc := parseHTML(rr.Body)

	refresh, ok := doc.Find(`meta[http-equiv="refresh"]`).Attr("content")
	require.True(t, ok)
	assert.Contains(t, refresh, "url=https://chat.example.com/join")
	href, _ := doc.Find(".chat-group a").Attr("href")
	assert.Equal(t, "https://chat.example.com/join", href)
}

func TestRegister_RemoteRejectionKeepsValues(t *testing.T) {
	ts := newWebTestServer(t)
	ts.remote.respond(http.StatusBadRequest, `{"message":"duplicate"}`)

	rr := ts.post("/register", validForm())
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsText(t, doc, "#form-notice", "duplicate")
	assert.Equal(t, "Asha Rao", inputValue(doc, "name"))
	assert.Equal(t, "asha@example.com", inputValue(doc, "email"))
	assert.Equal(t, "2024123456", inputValue(doc, "registrationNumber"))
	assert.Equal(t, "Computer Science and Engineering", selectedValue(doc, "branch"))
	assert.Equal(t, "AI/ML", selectedValue(doc, "secondaryDomain"))
	assertNotContainsElement(t, doc, ".flash-success")
}

func TestRegister_RemoteServerErrorIsBadGateway(t *testing.T) {
	ts := newWebTestServer(t)
	ts.remote.respond(http.StatusInternalServerError, `{"message":"database down"}`)

	rr := ts.post("/register", validForm())
	require.Equal(t, http.StatusBadGateway, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "#form-notice", "database down")
}

func TestRegister_RemoteUnreachable(t *testing.T) {
	ts := newWebTestServer(t)
	ts.remote.server.Close()

	rr := ts.post("/register", validForm())
	require.Equal(t, http.StatusBadGateway, rr.Code)
	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#form-notice", "Registration failed")
	assert.Equal(t, "Asha Rao", inputValue(doc, "name"))
}

func TestRegister_WhatsAppNumberLength(t *testing.T) {
	tests := []struct {
		name   string
		number string
		valid  bool
	}{
		{name: "nine digits", number: "987654321", valid: false},
		{name: "eleven digits", number: "98765432101", valid: false},
		{name: "ten digits", number: "9876543210", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newWebTestServer(t)
			form := validForm()
			form.Set("whatsappNumber", tt.number)

			rr := ts.post("/register", form)
			if tt.valid {
				assert.Equal(t, http.StatusSeeOther, rr.Code)
				assert.Equal(t, 1, ts.remote.callCount())
				return
			}

			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			doc := parseHTML(rr.Body)
			assertContainsText(t, doc, `.field-error[data-field="whatsappNumber"]`, "10 digits")
			assertContainsElement(t, doc, `#field-whatsappNumber.invalid`)
			assert.Equal(t, tt.number, inputValue(doc, "whatsappNumber"))
			assert.Equal(t, 0, ts.remote.callCount())
		})
	}
}

func TestRegister_SameDomainsRejected(t *testing.T) {
	ts := newWebTestServer(t)
	form := validForm()
	form.Set("secondaryDomain", "Web Dev")

	rr := ts.post("/register", form)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsText(t, doc, `.field-error[data-field="secondaryDomain"]`, "differ")
	assertContainsText(t, doc, "#form-notice", "highlighted")
	assertNotContainsElement(t, doc, `select[name="secondaryDomain"] option[value="Web Dev"]`)
	assert.Equal(t, 0, ts.remote.callCount())
}

func TestRegister_ClosedWindowRedirectsWithNotice(t *testing.T) {
	ts := newWebTestServer(t)
	ts.app.SetAfterWindow()

	rr := ts.post("/register", validForm())
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, 0, ts.remote.callCount())

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "not open")
	assertContainsText(t, doc, "#registration-closed", "Registration has ended")
}

func TestRegister_InFlightSubmissionConflicts(t *testing.T) {
	ts := newWebTestServer(t)

	// The first page view assigns the browser its client ID
	ts.get("/register")
	cookie, ok := ts.cookies.cookies["itpreg_client"]
	require.True(t, ok)

	acquired, err := ts.app.Storage.AcquireSubmission(context.Background(), cookie.Value, "held", time.Minute)
	require.NoError(t, err)
	require.True(t, acquired)

	rr := ts.post("/register", validForm())
	require.Equal(t, http.StatusConflict, rr.Code)
	assertContainsText(t, parseHTML(rr.Body), "#form-notice", "still being processed")
	assert.Equal(t, 0, ts.remote.callCount())
}

func TestSecondaryOptions_ExcludesPrimaryAndClearsConflict(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/register/secondary-options?primaryDomain=Web+Dev&secondaryDomain=Web+Dev")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	assertContainsElement(t, doc, "#secondary-domain-field")
	assertNotContainsElement(t, doc, `option[value="Web Dev"]`)
	// Seven remaining domains plus the placeholder
	assert.Equal(t, 8, doc.Find("option").Length())
	assert.Empty(t, selectedValue(doc, "secondaryDomain"))
}

func TestSecondaryOptions_KeepsCompatibleChoice(t *testing.T) {
	ts := newWebTestServer(t)

	doc := parseHTML(ts.get("/register/secondary-options?primaryDomain=Web+Dev&secondaryDomain=Blender").Body)
	assert.Equal(t, "Blender", selectedValue(doc, "secondaryDomain"))
}
