package commands

import (
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

// IngestCmd embeds reference PDFs for a career into the vector store, where
// CV screening retrieves them as context.
var IngestCmd = &cobra.Command{
	Use:   "ingest <file.pdf>...",
	Short: "Embed career reference PDFs into the vector store",
	Long: `Embed career reference PDFs into the vector store.

Examples:
  pipelinectl ingest --career <id> job_description.pdf
  pipelinectl ingest --career <id> --type scoring_rubric rubric.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

var ingestTypeFlag string

func init() {
	IngestCmd.Flags().StringVar(&ingestTypeFlag, "type", models.DocumentTypeCareerBrief, "Document type stored with each chunk")
}

func runIngest(cmd *cobra.Command, args []string) error {
	id, err := careerID()
	if err != nil {
		return err
	}
	cfg := config.Load()
	ctx := cmd.Context()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryInitialDelay)
	if err != nil {
		return errors.Wrap(err, "failed to initialize Gemini")
	}
	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		return errors.Wrap(err, "failed to initialize Qdrant")
	}
	if err := qdrantService.InitCollection(ctx); err != nil {
		return errors.Wrap(err, "failed to initialize collection")
	}

	ingest := services.NewIngestService(geminiService, qdrantService, services.NewPDFParserService(), services.NewTextChunker())

	var failed int
	start := time.Now()
	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			pterm.Error.Printfln("%s: %v", path, err)
			failed++
			continue
		}

		spinner, _ := pterm.DefaultSpinner.Start("Ingesting " + filepath.Base(path))
		stored, err := ingest.IngestPDF(ctx, id, ingestTypeFlag, path)
		if err != nil {
			spinner.Fail(filepath.Base(path) + ": " + err.Error())
			failed++
			continue
		}
		spinner.Success(filepath.Base(path) + ": " + pterm.Sprintf("%d chunks", stored))
	}

	pterm.Info.Printfln("Processed %d files in %s", len(args), time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		return errors.Newf("%d of %d files failed", failed, len(args))
	}
	return nil
}
