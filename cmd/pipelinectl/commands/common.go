package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/client"
	"alfredoptarigan/hiring-pipeline/internal/config"
)

var (
	apiURLFlag   string
	careerIDFlag string
)

// AddPersistentFlags registers the flags every command shares.
func AddPersistentFlags(root *cobra.Command) {
	root.PersistentFlags().StringVar(&apiURLFlag, "api", "", "Pipeline API base URL (default $PIPELINE_API_URL)")
	root.PersistentFlags().StringVar(&careerIDFlag, "career", "", "Career ID")
}

func newClient(cfg *config.Config) *client.Client {
	base := apiURLFlag
	if base == "" {
		base = cfg.Client.BaseURL
	}
	return client.NewClient(base, cfg.Client.Timeout)
}

func careerID() (uuid.UUID, error) {
	if careerIDFlag == "" {
		return uuid.Nil, errors.New("--career is required")
	}
	id, err := uuid.Parse(careerIDFlag)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "invalid career id %q", careerIDFlag)
	}
	return id, nil
}
