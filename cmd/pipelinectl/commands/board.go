package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/client"
	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
)

// BoardCmd loads a career's board and prints how many candidates sit in
// each bucket.
var BoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show candidate counts per stage for a career",
	RunE:  runBoard,
}

func runBoard(cmd *cobra.Command, args []string) error {
	id, err := careerID()
	if err != nil {
		return err
	}
	cfg := config.Load()

	session := client.NewSession(newClient(cfg), id, models.Actor{})
	loadErr := session.Load(cmd.Context())
	unknown := pipeline.UnknownStages(loadErr)
	if loadErr != nil && len(unknown) == 0 {
		return loadErr
	}

	if err := writeBoard(cmd.OutOrStdout(), session.Board()); err != nil {
		return err
	}
	for _, u := range unknown {
		pterm.Warning.Printfln("left off the board: %s", u.Error())
	}
	return nil
}

func writeBoard(w io.Writer, board *pipeline.Board) error {
	rows := pterm.TableData{{"Stage", "Active", "Dropped"}}
	rows = append(rows, []string{string(pipeline.StageApplied), fmt.Sprint(len(board.Unscreened())), "-"})
	for _, name := range pipeline.StageNames() {
		bucket := board.Bucket(name)
		rows = append(rows, []string{
			string(name),
			fmt.Sprint(len(bucket.Candidates)),
			fmt.Sprint(len(bucket.DroppedCandidates)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).WithWriter(w).Render()
}
