package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// getSecret is an indirection used to facilitate testing.
var getSecret = GetSecret

func (a *App) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Log in with an access token (prompted without echo when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				t, err := getSecret("Access token", a.out)
				if err != nil {
					return err
				}
				token = t
			}
			return a.loginWith(cmd.Context(), token)
		},
	}
}

// loginWith installs token and loads the user's materials and inbox.
func (a *App) loginWith(ctx context.Context, token string) error {
	email, err := a.authService.Login(ctx, token)
	if err != nil {
		return err
	}
	a.println(success("Logged in as " + email))
	a.setCurrentFolder(nil)
	return a.bootstrap(ctx)
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the access token and the loaded materials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.setService.Close()
			a.materialService.Reset()
			a.authService.Logout()
			a.setCurrentFolder(nil)
			a.println("Logged out")
			return nil
		},
	}
}
