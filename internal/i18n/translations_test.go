package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/testutil"
)

func TestTranslatesKnownMessage(t *testing.T) {
	tr := NewTranslator("en", testutil.NopLogger())
	assert.Equal(t, "WhatsApp number must be 10 digits.", tr.T(MsgWhatsAppNumberInvalid, nil))
}

func TestTemplateData(t *testing.T) {
	tr := NewTranslator("en", testutil.NopLogger())
	assert.Equal(t, "Registration failed: duplicate", tr.T(MsgRegistrationFailed, map[string]any{"Reason": "duplicate"}))
}

func TestUnknownLocaleFallsBackToEnglish(t *testing.T) {
	tr := NewTranslator("not a locale", testutil.NopLogger())
	assert.Equal(t, "Invalid email address.", tr.T(MsgEmailInvalid, nil))
}

func TestUnknownMessageReturnsID(t *testing.T) {
	tr := NewTranslator("en", testutil.NopLogger())
	assert.Equal(t, "NoSuchMessage", tr.T("NoSuchMessage", nil))
}

func TestStatusText(t *testing.T) {
	tr := NewTranslator("en", testutil.NopLogger())
	assert.Equal(t, "Registration opens in:", tr.StatusText(model.StatusBefore))
	assert.Equal(t, "Registration is live! Register now before it ends.", tr.StatusText(model.StatusLive))
	assert.Equal(t, "Registration has ended. Thank you for your interest.", tr.StatusText(model.StatusEnded))
}
