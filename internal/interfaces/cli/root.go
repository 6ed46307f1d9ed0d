package cli

import (
	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/account-import/internal/application/account"
	"github.com/mohammadpnp/account-import/internal/application/auth"
)

// Deps are the use cases the commands drive.
type Deps struct {
	RunImport      app.RunImport
	PasswordSignIn auth.SignInWithPassword
	Watcher        *auth.StateWatcher
}

// Loader builds Deps from the parsed flags. The returned func releases them.
type Loader func(configFile string) (Deps, func(), error)

// NewRootCommand wires the subcommands. Loaded deps are released once the
// subcommand returns, whether or not it failed.
func NewRootCommand(load Loader) *cobra.Command {
	var (
		configFile string
		deps       Deps
		cleanup    func()
	)

	root := &cobra.Command{
		Use:           "importctl",
		Short:         "Import accounts from spreadsheets and sign in",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, release, err := load(configFile)
			if err != nil {
				return err
			}
			deps, cleanup = loaded, release
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file")

	release := func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}
	for _, cmd := range []*cobra.Command{
		newImportCommand(func() Deps { return deps }),
		newLoginCommand(func() Deps { return deps }),
	} {
		root.AddCommand(releaseAfter(cmd, release))
	}
	return root
}

func releaseAfter(cmd *cobra.Command, release func()) *cobra.Command {
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		defer release()
		return run(cmd, args)
	}
	return cmd
}
