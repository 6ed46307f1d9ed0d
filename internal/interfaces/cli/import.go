package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	app "github.com/mohammadpnp/account-import/internal/application/account"
	domain "github.com/mohammadpnp/account-import/internal/domain/account"
	infrafile "github.com/mohammadpnp/account-import/internal/infrastructure/file"
)

func newImportCommand(deps func() Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Create accounts from a .csv, .xlsx or .xls file",
		Long: `Creates one account per row that has both an email and a password column,
then writes a profile for each created account. Without a file argument the
path is asked for interactively; an empty answer cancels silently.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var picker app.FilePicker = infrafile.NewPromptPicker(cmd.InOrStdin(), cmd.OutOrStdout())
			if len(args) == 1 {
				picker = infrafile.StaticPicker{Path: args[0]}
			}

			out, err := app.PickAndRun(cmd.Context(), picker, deps().RunImport)
			if err != nil {
				if errors.Is(err, domain.ErrSelectionCancelled) {
					return nil
				}
				return err
			}

			printReport(cmd, out.Report)
			return nil
		},
	}
}

func printReport(cmd *cobra.Command, report domain.ImportReport) {
	w := cmd.OutOrStdout()
	if report.Title != "" {
		fmt.Fprintln(w, report.Title)
	}
	fmt.Fprint(w, report.Message)
	if report.Kind != domain.ReportFailures {
		fmt.Fprintln(w)
	}
}
