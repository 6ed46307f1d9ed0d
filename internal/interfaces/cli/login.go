package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mohammadpnp/account-import/internal/application/auth"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
)

func newLoginCommand(deps func() Deps) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := deps()
			w := cmd.OutOrStdout()

			if d.Watcher != nil {
				unsubscribe := d.Watcher.Subscribe(func(user *domain.SignedInUser) {
					if user != nil {
						fmt.Fprintln(w, domain.LoggedInAs(user.Email))
					}
				})
				defer unsubscribe()
			}

			out, err := d.PasswordSignIn.Execute(cmd.Context(), auth.SignInWithPasswordInput{
				Email:    email,
				Password: password,
			})
			if out.Alert != "" {
				fmt.Fprintln(w, out.Alert)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}
