package cli

import (
	"signupform/models"

	"github.com/rohanthewiz/serr"
	"github.com/spf13/cobra"
)

// errPolicyViolated makes check exit non-zero for an invalid password.
var errPolicyViolated = serr.New("password does not meet the policy")

// newCheckCmd creates the check subcommand.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <password>",
		Short: "Check a password against the signup policy",
		Long: `Check a password against the signup policy and print every rule it
violates, in order. Exits with status 1 when the password is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			errs := models.ValidatePassword(args[0])
			if len(errs) == 0 {
				cmd.Println("ok")
				return nil
			}
			for _, e := range errs {
				cmd.Println(e)
			}
			return errPolicyViolated
		},
	}
}
