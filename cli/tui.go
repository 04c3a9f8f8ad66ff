package cli

import (
	"signupform/models"
	"signupform/tui"

	"github.com/rohanthewiz/logger"
	"github.com/spf13/cobra"
)

// newTUICmd creates the tui subcommand.
func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Fill in the create-user form in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := models.NewSignupClient(cfg)
			if err != nil {
				return err
			}

			created, err := tui.Run(cmd.Context(), client, func(bool) {
				logger.Info("User created from terminal form")
			})
			if err != nil {
				return err
			}
			if !created {
				cmd.Println("No user created.")
			}
			return nil
		},
	}
}
