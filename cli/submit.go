package cli

import (
	"bufio"
	"io"
	"strings"

	"signupform/models"

	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
)

// newSubmitCmd creates the submit subcommand.
func newSubmitCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "submit --username <name>",
		Short: "Create a user non-interactively",
		Long: `Create a user through the signup endpoint. The password is read from
the first line of standard input so it never shows up in the process list.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := models.NewSignupClient(cfg)
			if err != nil {
				return err
			}

			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}

			form := models.NewForm(func(bool) {
				cmd.Printf("User %s was created successfully.\n", username)
			})
			form.SetUsername(username)
			form.SetPassword(password)

			res := form.Submit(cmd.Context(), client)
			if res.OK() {
				return nil
			}
			if res.Kind == models.ResultRefused {
				for _, e := range form.Snapshot().ValidationErrors {
					cmd.PrintErrln(e)
				}
				if username == "" {
					return serr.New("username is required")
				}
				return errPolicyViolated
			}
			return serr.New(res.Message())
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username to create")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// readPassword returns the first line of r without its line ending.
func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", serr.Wrap(err, "failed to read password from stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
