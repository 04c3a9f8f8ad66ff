package cli

import (
	"signupform/models"
	"signupform/web"

	"github.com/spf13/cobra"
)

// newSandboxCmd creates the sandbox subcommand.
func newSandboxCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "sandbox",
		Short: "Run only the local sandbox signup endpoint",
		Long: `Run a local stand-in for the challenge signup endpoint and print a
bearer token that it accepts. Point SIGNUP_ENDPOINT and SIGNUP_TOKEN at it
to exercise the form without the real service.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			cleanup, err := startSandbox(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			token, err := models.IssueSandboxToken("signupform-sandbox")
			if err != nil {
				return err
			}

			srv := web.NewServer(web.ServerConfig{
				Address: cfg.ListenAddr,
				Verbose: verbose,
				Sandbox: true,
			})

			cmd.Printf("SIGNUP_ENDPOINT=%s\n", sandboxEndpoint(cfg.ListenAddr))
			cmd.Printf("SIGNUP_TOKEN=%s\n", token)
			return web.Run(srv, cfg.ListenAddr)
		},
	}

	cmd.Flags().BoolVar(&verbose, "verbose", false, "verbose server logging")

	return cmd
}
