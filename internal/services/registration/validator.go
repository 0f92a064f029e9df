package registration

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mcoot/itpreg/internal/i18n"
	"github.com/mcoot/itpreg/internal/model"
)

var (
	tenDigitsPattern = regexp.MustCompile(`^\d{10}$`)
	githubPattern    = regexp.MustCompile(`^https?://(www\.)?github\.com/[A-Za-z0-9_.-]+(/[A-Za-z0-9_.-]+)?/?$`)
	linkPattern      = regexp.MustCompile(`^https?://[^\s/$.?#][^\s]*$`)
)

// Validator checks a raw form submission field by field
type Validator struct {
	tr *i18n.Translator
}

// NewValidator creates a validator whose messages come from tr
func NewValidator(tr *i18n.Translator) *Validator {
	return &Validator{tr: tr}
}

// Validate normalizes raw and checks every field
// The returned registration is trimmed with a lowercased email and is only
// meaningful when the returned FieldErrors is empty.
func (v *Validator) Validate(raw model.Registration) (model.Registration, model.FieldErrors) {
	reg := Normalize(raw)
	errs := make(model.FieldErrors)

	if utf8.RuneCountInString(reg.Name) < 2 {
		errs[model.FieldName] = v.tr.T(i18n.MsgNameTooShort, nil)
	}

	if !model.HasOption(model.Genders, reg.Gender) {
		errs[model.FieldGender] = v.tr.T(i18n.MsgGenderRequired, nil)
	}

	if !validEmail(reg.Email) {
		errs[model.FieldEmail] = v.tr.T(i18n.MsgEmailInvalid, nil)
	}

	if !tenDigitsPattern.MatchString(reg.RegistrationNumber) {
		errs[model.FieldRegistrationNumber] = v.tr.T(i18n.MsgRegistrationNumberInvalid, nil)
	}

	if !model.HasOption(model.Branches, reg.Branch) {
		errs[model.FieldBranch] = v.tr.T(i18n.MsgBranchRequired, nil)
	}

	if reg.Section != "" && !model.HasOption(model.Sections, reg.Section) {
		errs[model.FieldSection] = v.tr.T(i18n.MsgSectionInvalid, nil)
	}

	if !tenDigitsPattern.MatchString(reg.WhatsAppNumber) {
		errs[model.FieldWhatsAppNumber] = v.tr.T(i18n.MsgWhatsAppNumberInvalid, nil)
	}

	if !model.HasOption(model.Domains, reg.PrimaryDomain) {
		errs[model.FieldPrimaryDomain] = v.tr.T(i18n.MsgPrimaryDomainRequired, nil)
	}

	switch {
	case !model.HasOption(model.Domains, reg.SecondaryDomain):
		errs[model.FieldSecondaryDomain] = v.tr.T(i18n.MsgSecondaryDomainRequired, nil)
	case reg.SecondaryDomain == reg.PrimaryDomain:
		errs[model.FieldSecondaryDomain] = v.tr.T(i18n.MsgSecondaryDomainSameAsPrimary, nil)
	}

	if !githubPattern.MatchString(reg.GitHubURL) {
		errs[model.FieldGitHubURL] = v.tr.T(i18n.MsgGitHubURLInvalid, nil)
	}

	for field, link := range map[string]string{
		model.FieldProjectLink1: reg.ProjectLink1,
		model.FieldProjectLink2: reg.ProjectLink2,
		model.FieldResumeLink:   reg.ResumeLink,
	} {
		if link != "" && !validLink(link) {
			errs[field] = v.tr.T(i18n.MsgLinkInvalid, nil)
		}
	}

	return reg, errs
}

// Normalize trims every field and lowercases the email
func Normalize(raw model.Registration) model.Registration {
	values := raw.Values()
	for k, val := range values {
		values[k] = strings.TrimSpace(val)
	}
	reg := model.RegistrationFromValues(values)
	reg.Email = strings.ToLower(reg.Email)
	return reg
}

// SecondaryOptions returns the secondary domain choices for a primary domain
// along with the secondary value to keep; a choice equal to primary is cleared.
func SecondaryOptions(primary, secondary string) ([]model.Option, string) {
	opts := model.SecondaryDomainOptions(primary)
	if secondary != "" && (secondary == primary || !model.HasOption(opts, secondary)) {
		secondary = ""
	}
	return opts, secondary
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

func validLink(s string) bool {
	if !linkPattern.MatchString(s) {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}
