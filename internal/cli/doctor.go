package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the dense-order invariant of every board and list",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}

			report, err := s.Doctor(cmd.Context(), fix)
			if err != nil {
				return writeErr(cmd, err)
			}
			if report.Fixed > 0 {
				app.logger().WithField("rows", report.Fixed).Warn("doctor re-densified containers")
			}

			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
				"fixed":     report.Fixed,
			}
			hints := []string{}
			if report.HasErrors() && !fix {
				hints = append(hints, "kanban doctor --fix")
			}

			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}

			// Issues already repaired by --fix do not fail the run.
			if fail && report.HasErrors() && !fix {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Re-densify containers whose order has gaps or duplicates")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
