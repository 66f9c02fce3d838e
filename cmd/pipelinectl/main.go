package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/cmd/pipelinectl/commands"
	"alfredoptarigan/hiring-pipeline/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pipelinectl",
	Short: "Operate the hiring pipeline from the terminal",
	Long: `pipelinectl - inspect and drive the hiring pipeline.

Examples:
  pipelinectl stages --format yaml          # Print the stage table
  pipelinectl board --career <id>           # Show bucket counts for a career
  pipelinectl audit --career <id>           # List records no stage matches
  pipelinectl move endorse <id> --career <id>
  pipelinectl ingest --career <id> brief.pdf`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(false)
	},
}

func init() {
	commands.AddPersistentFlags(rootCmd)

	rootCmd.AddCommand(commands.StagesCmd)
	rootCmd.AddCommand(commands.BoardCmd)
	rootCmd.AddCommand(commands.AuditCmd)
	rootCmd.AddCommand(commands.MoveCmd)
	rootCmd.AddCommand(commands.IngestCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
