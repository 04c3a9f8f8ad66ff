package cli

import (
	"context"

	"signupform/models"

	"github.com/rohanthewiz/logger"
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the signupform CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signupform",
		Short: "Create-user form for the challenge signup API",
		Long: `signupform validates a password against the signup policy and creates
a user through the challenge signup endpoint, from a web page, a terminal
form or the command line.`,
		SilenceUsage: true,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newSandboxCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newSubmitCmd())

	return cmd
}

// Execute runs the root command; ctx is handed to every subcommand.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the config and applies its log level.
func loadConfig() (*models.SignupConfig, error) {
	cfg, err := models.LoadSignupConfig(configFile)
	if err != nil {
		return nil, err
	}
	logger.SetLogLevel(cfg.LogLevel)
	return cfg, nil
}
