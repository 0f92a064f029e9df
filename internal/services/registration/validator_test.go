package registration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/model"
	"github.com/mcoot/itpreg/internal/testutil"
)

func validRegistration() model.Registration {
	return model.Registration{
		Name:               "Asha Rao",
		Gender:             "female",
		Email:              "asha@example.com",
		RegistrationNumber: "2024001234",
		Branch:             "Computer Science and Engineering",
		Section:            "B",
		WhatsAppNumber:     "9876543210",
		PrimaryDomain:      "Web Dev",
		SecondaryDomain:    "AI/ML",
		GitHubURL:          "https://github.com/asha-rao",
		ProjectLink1:       "https://asha.dev/portfolio",
		ResumeLink:         "https://drive.google.com/file/d/abc/view",
	}
}

func newTestValidator() *Validator {
	return NewValidator(i18n.NewTranslator("en", testutil.NopLogger()))
}

func TestValidateAcceptsValidRegistration(t *testing.T) {
	_, errs := newTestValidator().Validate(validRegistration())
	assert.Empty(t, errs)
}

func TestValidateNormalizes(t *testing.T) {
	raw := validRegistration()
	raw.Name = "  Asha Rao "
	raw.Email = " Asha.Rao@Example.COM "

	reg, errs := newTestValidator().Validate(raw)

	assert.Empty(t, errs)
	assert.Equal(t, "Asha Rao", reg.Name)
	assert.Equal(t, "asha.rao@example.com", reg.Email)
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.Registration)
		field   string
		message string
	}{
		{"name too short", func(r *model.Registration) { r.Name = "A" }, model.FieldName, "at least 2"},
		{"name only spaces", func(r *model.Registration) { r.Name = "    " }, model.FieldName, "at least 2"},
		{"gender missing", func(r *model.Registration) { r.Gender = "" }, model.FieldGender, "gender"},
		{"gender unknown", func(r *model.Registration) { r.Gender = "robot" }, model.FieldGender, "gender"},
		{"email without at", func(r *model.Registration) { r.Email = "asha.example.com" }, model.FieldEmail, "email"},
		{"email without tld", func(r *model.Registration) { r.Email = "asha@localhost" }, model.FieldEmail, "email"},
		{"email with display name", func(r *model.Registration) { r.Email = "Asha <asha@example.com>" }, model.FieldEmail, "email"},
		{"registration number 9 digits", func(r *model.Registration) { r.RegistrationNumber = "123456789" }, model.FieldRegistrationNumber, "10 digits"},
		{"registration number letters", func(r *model.Registration) { r.RegistrationNumber = "20240O1234" }, model.FieldRegistrationNumber, "10 digits"},
		{"branch missing", func(r *model.Registration) { r.Branch = "" }, model.FieldBranch, "branch"},
		{"section unknown", func(r *model.Registration) { r.Section = "Z" }, model.FieldSection, "section"},
		{"whatsapp 9 digits", func(r *model.Registration) { r.WhatsAppNumber = "987654321" }, model.FieldWhatsAppNumber, "10 digits"},
		{"whatsapp 11 digits", func(r *model.Registration) { r.WhatsAppNumber = "98765432101" }, model.FieldWhatsAppNumber, "10 digits"},
		{"whatsapp with plus", func(r *model.Registration) { r.WhatsAppNumber = "+919876543" }, model.FieldWhatsAppNumber, "10 digits"},
		{"primary missing", func(r *model.Registration) { r.PrimaryDomain = "" }, model.FieldPrimaryDomain, "primary"},
		{"secondary missing", func(r *model.Registration) { r.SecondaryDomain = "" }, model.FieldSecondaryDomain, "secondary"},
		{"secondary same as primary", func(r *model.Registration) { r.SecondaryDomain = r.PrimaryDomain }, model.FieldSecondaryDomain, "differ"},
		{"github missing", func(r *model.Registration) { r.GitHubURL = "" }, model.FieldGitHubURL, "GitHub"},
		{"github other host", func(r *model.Registration) { r.GitHubURL = "https://gitlab.com/asha" }, model.FieldGitHubURL, "GitHub"},
		{"github too deep", func(r *model.Registration) { r.GitHubURL = "https://github.com/asha/repo/tree/main" }, model.FieldGitHubURL, "GitHub"},
		{"project link not a url", func(r *model.Registration) { r.ProjectLink1 = "my project" }, model.FieldProjectLink1, "link"},
		{"project link 2 ftp", func(r *model.Registration) { r.ProjectLink2 = "ftp://files.example.com/x" }, model.FieldProjectLink2, "link"},
		{"resume link bare host", func(r *model.Registration) { r.ResumeLink = "drive.google.com/x" }, model.FieldResumeLink, "link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRegistration()
			tt.mutate(&raw)

			_, errs := newTestValidator().Validate(raw)

			assert.Len(t, errs, 1, "expected exactly one field error, got %v", errs)
			msg, ok := errs[tt.field]
			if assert.True(t, ok, "expected error on %s, got %v", tt.field, errs) {
				assert.Contains(t, strings.ToLower(msg), strings.ToLower(tt.message))
			}
		})
	}
}

func TestValidateAcceptsExactlyTenDigits(t *testing.T) {
	raw := validRegistration()
	raw.WhatsAppNumber = "0123456789"
	raw.RegistrationNumber = "9999999999"

	_, errs := newTestValidator().Validate(raw)
	assert.Empty(t, errs)
}

func TestValidateOptionalFieldsMayBeEmpty(t *testing.T) {
	raw := validRegistration()
	raw.Section = ""
	raw.ProjectLink1 = ""
	raw.ProjectLink2 = ""
	raw.ResumeLink = ""

	_, errs := newTestValidator().Validate(raw)
	assert.Empty(t, errs)
}

func TestValidateGitHubRepoURL(t *testing.T) {
	for _, u := range []string{
		"https://github.com/asha",
		"https://www.github.com/asha/",
		"http://github.com/asha/induction-2025",
	} {
		raw := validRegistration()
		raw.GitHubURL = u
		_, errs := newTestValidator().Validate(raw)
		assert.Empty(t, errs, u)
	}
}

func TestValidateEmptySubmissionReportsAllRequired(t *testing.T) {
	_, errs := newTestValidator().Validate(model.Registration{})

	for _, field := range []string{
		model.FieldName, model.FieldGender, model.FieldEmail, model.FieldRegistrationNumber,
		model.FieldBranch, model.FieldWhatsAppNumber, model.FieldPrimaryDomain,
		model.FieldSecondaryDomain, model.FieldGitHubURL,
	} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, model.FieldSection)
	assert.NotContains(t, errs, model.FieldResumeLink)
}

func TestSecondaryOptions(t *testing.T) {
	opts, keep := SecondaryOptions("Web Dev", "AI/ML")
	assert.False(t, model.HasOption(opts, "Web Dev"))
	assert.Equal(t, "AI/ML", keep)

	_, keep = SecondaryOptions("AI/ML", "AI/ML")
	assert.Empty(t, keep, "conflicting secondary should be cleared")

	opts, keep = SecondaryOptions("", "")
	assert.Len(t, opts, len(model.Domains))
	assert.Empty(t, keep)

	_, keep = SecondaryOptions("Web Dev", "Knitting")
	assert.Empty(t, keep, "unknown secondary should be cleared")
}
