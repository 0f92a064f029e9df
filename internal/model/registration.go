package model

// Registration is a single validated form submission
// JSON names match the remote registration API.
type Registration struct {
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

// Form field names, shared by the HTML form, the JSON API and field errors
const (
	FieldName               = "name"
	FieldGender             = "gender"
	FieldEmail              = "email"
	FieldRegistrationNumber = "registrationNumber"
	FieldBranch             = "branch"
	FieldSection            = "section"
	FieldWhatsAppNumber     = "whatsappNumber"
	FieldPrimaryDomain      = "primaryDomain"
	FieldSecondaryDomain    = "secondaryDomain"
	FieldGitHubURL          = "githubUrl"
	FieldProjectLink1       = "projectLink1"
	FieldProjectLink2       = "projectLink2"
	FieldResumeLink         = "resumeLink"
)

// Fields lists every form field in display order
var Fields = []string{
	FieldName,
	FieldGender,
	FieldEmail,
	FieldRegistrationNumber,
	FieldBranch,
	FieldSection,
	FieldWhatsAppNumber,
	FieldPrimaryDomain,
	FieldSecondaryDomain,
	FieldGitHubURL,
	FieldProjectLink1,
	FieldProjectLink2,
	FieldResumeLink,
}

// Values returns the registration as a field name -> value map
func (r Registration) Values() map[string]string {
	return map[string]string{
		FieldName:               r.Name,
		FieldGender:             r.Gender,
		FieldEmail:              r.Email,
		FieldRegistrationNumber: r.RegistrationNumber,
		FieldBranch:             r.Branch,
		FieldSection:            r.Section,
		FieldWhatsAppNumber:     r.WhatsAppNumber,
		FieldPrimaryDomain:      r.PrimaryDomain,
		FieldSecondaryDomain:    r.SecondaryDomain,
		FieldGitHubURL:          r.GitHubURL,
		FieldProjectLink1:       r.ProjectLink1,
		FieldProjectLink2:       r.ProjectLink2,
		FieldResumeLink:         r.ResumeLink,
	}
}

// RegistrationFromValues builds a Registration from a field name -> value map
// Unknown keys are ignored; missing keys are left empty.
func RegistrationFromValues(v map[string]string) Registration {
	return Registration{
		Name:               v[FieldName],
		Gender:             v[FieldGender],
		Email:              v[FieldEmail],
		RegistrationNumber: v[FieldRegistrationNumber],
		Branch:             v[FieldBranch],
		Section:            v[FieldSection],
		WhatsAppNumber:     v[FieldWhatsAppNumber],
		PrimaryDomain:      v[FieldPrimaryDomain],
		SecondaryDomain:    v[FieldSecondaryDomain],
		GitHubURL:          v[FieldGitHubURL],
		ProjectLink1:       v[FieldProjectLink1],
		ProjectLink2:       v[FieldProjectLink2],
		ResumeLink:         v[FieldResumeLink],
	}
}

// FieldErrors maps a field name to a user-facing message
type FieldErrors map[string]string

// HasErrors reports whether any field failed validation
func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}
