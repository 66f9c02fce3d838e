package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"alfredoptarigan/hiring-pipeline/internal/pipeline"
)

// StagesCmd prints the built-in stage table.
var StagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "Print the pipeline stage table",
	Long: `Print the ordered stage table: each stage's persisted fields and its
forward endorsement target.

Examples:
  pipelinectl stages                 # Table view
  pipelinectl stages --format yaml   # YAML, one document`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeStages(cmd.OutOrStdout(), pipeline.Stages(), stagesFormat)
	},
}

var stagesFormat string

func init() {
	StagesCmd.Flags().StringVar(&stagesFormat, "format", "table", "Output format: table, json, yaml")
}

func writeStages(w io.Writer, stages []pipeline.Stage, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(stages, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal stages to JSON")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml":
		data, err := yaml.Marshal(stages)
		if err != nil {
			return errors.Wrap(err, "failed to marshal stages to YAML")
		}
		_, err = fmt.Fprintf(w, "# hiring pipeline stages\n%s", string(data))
		return err

	case "table":
		rows := pterm.TableData{{"#", "Stage", "Step", "Status", "Next"}}
		for i, s := range stages {
			next := "-"
			if s.NextStage != nil {
				next = string(s.NextStage.Name)
			}
			rows = append(rows, []string{
				fmt.Sprint(i + 1),
				string(s.Name),
				s.CurrentStage.Step,
				s.CurrentStage.Status,
				next,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).WithWriter(w).Render()

	default:
		return errors.Newf("unsupported format: %s (supported: table, json, yaml)", format)
	}
}
