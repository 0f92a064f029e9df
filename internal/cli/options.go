package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newOptionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the choices the registration form accepts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result OptionsResult

			if err := client.Get(cmd.Context(), "/api/v1/options", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}

	cmd.AddCommand(newSecondaryDomainsCmd())

	return cmd
}

func newSecondaryDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secondary <primary-domain>",
		Short: "List secondary domains available for a primary domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SecondaryDomainsResult

			path := "/api/v1/options/secondary-domains?primary=" + url.QueryEscape(args[0])
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output, cmd.OutOrStdout())
			out.Print(result)
			return nil
		},
	}
}
