package commands

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
)

// AuditCmd reports interview records whose persisted fields match no stage.
// Such records never show on the board, so they are easy to miss.
var AuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List interview records that match no pipeline stage",
	Long: `List interview records that match no pipeline stage.

Exits non-zero when at least one record is found.`,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	id, err := careerID()
	if err != nil {
		return err
	}
	cfg := config.Load()

	interviews, err := newClient(cfg).ListInterviews(cmd.Context(), id)
	if err != nil {
		return err
	}

	found := auditInterviews(interviews)
	if len(found) == 0 {
		pterm.Success.Printfln("All %d records match a stage", len(interviews))
		return nil
	}

	if err := writeAudit(cmd.OutOrStdout(), found); err != nil {
		return err
	}
	return errors.Newf("%d of %d records match no stage", len(found), len(interviews))
}

// auditInterviews classifies every record and returns the failures.
func auditInterviews(interviews []models.Interview) []*pipeline.UnknownStageError {
	var out []*pipeline.UnknownStageError
	for i := range interviews {
		if _, err := pipeline.Locate(&interviews[i]); err != nil {
			var unknown *pipeline.UnknownStageError
			if errors.As(err, &unknown) {
				out = append(out, unknown)
			}
		}
	}
	return out
}

func writeAudit(w io.Writer, found []*pipeline.UnknownStageError) error {
	rows := pterm.TableData{{"Interview", "Current Step", "Status"}}
	for _, u := range found {
		rows = append(rows, []string{u.InterviewID.String(), u.CurrentStep, u.Status})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).WithWriter(w).Render()
}
