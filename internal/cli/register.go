package cli

import (
	"github.com/spf13/cobra"
)

func newRegisterCmd() *cobra.Command {
	var req RegistrationRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Submit a registration",
		Long: `Submit a registration through the server, which validates it and
forwards it to the remote registration API.

Field errors are listed one per line when validation fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RegistrationResult

			if err := client.Post(cmd.Context(), "/api/v1/registrations", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Name, "name", "", "Full name")
	f.StringVar(&req.Gender, "gender", "", "Gender: male, female, prefer not to say")
	f.StringVar(&req.Email, "email", "", "Email address")
	f.StringVar(&req.RegistrationNumber, "registration-number", "", "10 digit registration number")
	f.StringVar(&req.Branch, "branch", "", "Branch (see 'itpreg options')")
	f.StringVar(&req.Section, "section", "", "Section A-N (optional)")
	f.StringVar(&req.WhatsAppNumber, "whatsapp", "", "10 digit WhatsApp number")
	f.StringVar(&req.PrimaryDomain, "primary-domain", "", "Primary domain")
	f.StringVar(&req.SecondaryDomain, "secondary-domain", "", "Secondary domain, different from the primary")
	f.StringVar(&req.GitHubURL, "github", "", "GitHub profile URL")
	f.StringVar(&req.ProjectLink1, "project-link-1", "", "Project link (optional)")
	f.StringVar(&req.ProjectLink2, "project-link-2", "", "Second project link (optional)")
	f.StringVar(&req.ResumeLink, "resume", "", "Resume link (optional)")

	for _, name := range []string{"name", "gender", "email", "registration-number", "branch",
		"whatsapp", "primary-domain", "secondary-domain", "github"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
