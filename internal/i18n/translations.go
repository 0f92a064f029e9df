package i18n

import (
	"embed"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"

	"github.com/mcoot/itpreg/internal/model"
)

//go:embed active.*.toml
var localeFS embed.FS

// Message IDs
const (
	MsgNameTooShort                 = "NameTooShort"
	MsgGenderRequired               = "GenderRequired"
	MsgEmailInvalid                 = "EmailInvalid"
	MsgRegistrationNumberInvalid    = "RegistrationNumberInvalid"
	MsgBranchRequired               = "BranchRequired"
	MsgSectionInvalid               = "SectionInvalid"
	MsgWhatsAppNumberInvalid        = "WhatsAppNumberInvalid"
	MsgPrimaryDomainRequired        = "PrimaryDomainRequired"
	MsgSecondaryDomainRequired      = "SecondaryDomainRequired"
	MsgSecondaryDomainSameAsPrimary = "SecondaryDomainSameAsPrimary"
	MsgGitHubURLInvalid             = "GitHubURLInvalid"
	MsgLinkInvalid                  = "LinkInvalid"

	MsgRegistrationSucceeded = "RegistrationSucceeded"
	MsgRegistrationFailed    = "RegistrationFailed"
	MsgRegistrationClosed    = "RegistrationClosed"
	MsgSubmissionInFlight    = "SubmissionInFlight"
	MsgFormInvalid           = "FormInvalid"

	MsgStatusBefore = "StatusBefore"
	MsgStatusLive   = "StatusLive"
	MsgStatusEnded  = "StatusEnded"
	MsgRegisterNow  = "RegisterNow"
	MsgTagline      = "Tagline"
)

// Translator is a thin wrapper around go-i18n's Bundle/Localizer
type Translator struct {
	localizer *i18n.Localizer
	logger    *slog.Logger
}

// NewTranslator builds a Translator for the given locale, falling back to English
func NewTranslator(locale string, logger *slog.Logger) *Translator {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		logger.Error("i18n: failed to list catalogs", slog.Any("error", err))
	}
	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			logger.Error("i18n: failed to load catalog",
				slog.String("file", entry.Name()),
				slog.Any("error", err))
		}
	}

	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}

	return &Translator{
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		logger:    logger,
	}
}

// T renders the message identified by id
// Falls back to the id itself when the message is unknown.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Warn("i18n: localize failed", slog.String("id", id), slog.Any("error", err))
		return id
	}
	return msg
}

// StatusText returns the landing page line for a registration status
func (t *Translator) StatusText(status model.Status) string {
	switch status {
	case model.StatusLive:
		return t.T(MsgStatusLive, nil)
	case model.StatusEnded:
		return t.T(MsgStatusEnded, nil)
	default:
		return t.T(MsgStatusBefore, nil)
	}
}
