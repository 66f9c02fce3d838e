package commands

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/client"
	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
)

// MoveCmd runs one recruiter action against a candidate through an
// optimistic board session.
var MoveCmd = &cobra.Command{
	Use:   "move <action> <interview-id>",
	Short: "Endorse, drop, reconsider, hire or resolve a retake request",
	Long: `Run one recruiter action against a candidate.

Actions: endorse, drop, reconsider, retake-approve, retake-reject, hire.

Examples:
  pipelinectl move endorse <id> --career <id> --actor-email rina@example.com
  pipelinectl move endorse <id> --to "Job Offered" --career <id> --actor-email rina@example.com
  pipelinectl move drop <id> --career <id> --actor-email rina@example.com --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

var (
	moveToFlag         string
	moveActorNameFlag  string
	moveActorEmailFlag string
	moveYesFlag        bool
)

func init() {
	MoveCmd.Flags().StringVar(&moveToFlag, "to", "", "Destination stage for endorse")
	MoveCmd.Flags().StringVar(&moveActorNameFlag, "actor-name", "", "Name recorded on the audit trail")
	MoveCmd.Flags().StringVar(&moveActorEmailFlag, "actor-email", "", "Email recorded on the audit trail")
	MoveCmd.Flags().BoolVarP(&moveYesFlag, "yes", "y", false, "Skip the confirmation prompt")
}

func runMove(cmd *cobra.Command, args []string) error {
	action, err := pipeline.ParseAction(args[0])
	if err != nil {
		return err
	}
	if action == pipeline.ActionScreen {
		return errors.New("screen is run by the screening worker")
	}
	interviewID, err := uuid.Parse(args[1])
	if err != nil {
		return errors.Wrapf(err, "invalid interview id %q", args[1])
	}
	if moveToFlag != "" && action != pipeline.ActionEndorse {
		return errors.New("--to is only valid with endorse")
	}
	if moveActorEmailFlag == "" {
		return errors.New("--actor-email is required")
	}
	id, err := careerID()
	if err != nil {
		return err
	}
	cfg := config.Load()

	var opts []client.SessionOption
	if !moveYesFlag {
		opts = append(opts, client.WithConfirmer(confirmProposal))
	}
	actor := models.Actor{Name: moveActorNameFlag, Email: moveActorEmailFlag}
	session := client.NewSession(newClient(cfg), id, actor, opts...)

	if err := session.Load(cmd.Context()); err != nil && len(pipeline.UnknownStages(err)) == 0 {
		return err
	}

	t, err := runAction(cmd, session, action, interviewID)
	if err != nil {
		var failure *pipeline.PersistenceFailure
		if errors.As(err, &failure) {
			pterm.Error.Println(failure.UserMessage())
		}
		return err
	}

	if t.NoOp {
		pterm.Info.Println("Candidate is already in that stage, nothing to do")
		return nil
	}
	pterm.Success.Printfln("%s: %s -> %s", action, t.From, t.To)
	return nil
}

func runAction(cmd *cobra.Command, s *client.Session, action pipeline.Action, id uuid.UUID) (*pipeline.Transition, error) {
	ctx := cmd.Context()
	switch action {
	case pipeline.ActionEndorse:
		if moveToFlag != "" {
			dest, err := pipeline.ParseStageName(moveToFlag)
			if err != nil {
				return nil, err
			}
			return s.Drag(ctx, id, dest)
		}
		return s.Endorse(ctx, id)
	case pipeline.ActionDrop:
		return s.Drop(ctx, id)
	case pipeline.ActionReconsider:
		return s.Reconsider(ctx, id)
	case pipeline.ActionRetakeApprove:
		return s.ApproveRetake(ctx, id)
	case pipeline.ActionRetakeReject:
		return s.RejectRetake(ctx, id)
	case pipeline.ActionHire:
		return s.Hire(ctx, id)
	}
	return nil, errors.Newf("unsupported action %q", action)
}

func confirmProposal(_ context.Context, p *pipeline.Proposal) (bool, error) {
	return pterm.DefaultInteractiveConfirm.Show(
		fmt.Sprintf("%s candidate %s (%s -> %s)?", p.Action, p.CandidateID, p.Source, p.Destination),
	)
}
