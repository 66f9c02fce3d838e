package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

type ScreeningService interface {
	ScreenCandidate(ctx context.Context, screeningID uuid.UUID) error
	Get(id uuid.UUID) (*models.ScreeningResponse, error)
}

type screeningService struct {
	screeningRepo   repositories.ScreeningRepository
	docRepo         repositories.DocumentRepository
	careerRepo      repositories.CareerRepository
	pipelineService PipelineService
	geminiService   GeminiService
	qdrantService   QdrantService
	pdfParser       PDFParserService
	promptBuilder   *PromptBuilder
	maxRetries      int
}

func NewScreeningService(
	screeningRepo repositories.ScreeningRepository,
	docRepo repositories.DocumentRepository,
	careerRepo repositories.CareerRepository,
	pipelineService PipelineService,
	geminiService GeminiService,
	qdrantService QdrantService,
	pdfParser PDFParserService,
	maxRetries int,
) ScreeningService {
	return &screeningService{
		screeningRepo:   screeningRepo,
		docRepo:         docRepo,
		careerRepo:      careerRepo,
		pipelineService: pipelineService,
		geminiService:   geminiService,
		qdrantService:   qdrantService,
		pdfParser:       pdfParser,
		promptBuilder:   NewPromptBuilder(),
		maxRetries:      maxRetries,
	}
}

// CVScreeningResult is the JSON the model is asked to return.
type CVScreeningResult struct {
	MatchRate float64  `json:"match_rate"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Feedback  string   `json:"feedback"`
}

// ScreenCandidate scores the CV of a queued screening and moves the candidate
// onto the board. Failures are recorded on the screening.
func (s *screeningService) ScreenCandidate(ctx context.Context, screeningID uuid.UUID) error {
	if err := s.screeningRepo.UpdateStatus(screeningID, models.ScreeningProcessing); err != nil {
		return errors.Wrap(err, "failed to update status")
	}

	log := logger.Named("screening").With(logger.FieldScreeningID, screeningID)
	log.Infof("🔄 Starting CV screening")

	result, screening, err := s.score(ctx, screeningID)
	if err != nil {
		if updErr := s.screeningRepo.UpdateError(screeningID, err.Error()); updErr != nil {
			log.Errorw("failed to record screening error", logger.FieldError, updErr)
		}
		return err
	}

	// The candidate moves first: a screening only reads completed once its
	// interview is on the board.
	t, err := s.pipelineService.CompleteScreening(screening.InterviewID, result.MatchRate)
	if err != nil {
		s.recordMoveFailure(log, screeningID, err)
		return errors.Wrapf(err, "interview %s was not moved", screening.InterviewID)
	}

	if err := s.screeningRepo.UpdateResult(screeningID, &repositories.ScreeningUpdateData{
		MatchRate: result.MatchRate,
		Strengths: result.Strengths,
		Gaps:      result.Gaps,
		Feedback:  result.Feedback,
	}); err != nil {
		return errors.Wrapf(err, "interview %s moved but results were not saved", screening.InterviewID)
	}

	log.Infow("✅ CV screening completed",
		logger.FieldInterviewID, screening.InterviewID,
		"match_rate", result.MatchRate,
		logger.FieldStage, t.To.String())
	return nil
}

// recordMoveFailure settles a screening whose interview could not be moved.
// Failures that will not change on retry mark it failed; anything else puts
// it back in the queue for the poller.
func (s *screeningService) recordMoveFailure(log *zap.SugaredLogger, screeningID uuid.UUID, err error) {
	var invalid *pipeline.InvalidTransitionError
	var unknown *pipeline.UnknownStageError
	permanent := errors.As(err, &invalid) || errors.As(err, &unknown) || errors.Is(err, repositories.ErrNotFound)

	if permanent {
		if updErr := s.screeningRepo.UpdateError(screeningID, err.Error()); updErr != nil {
			log.Errorw("failed to record screening error", logger.FieldError, updErr)
		}
		return
	}

	log.Warnw("interview not moved, screening requeued", logger.FieldError, err)
	if updErr := s.screeningRepo.UpdateStatus(screeningID, models.ScreeningQueued); updErr != nil {
		log.Errorw("failed to requeue screening", logger.FieldError, updErr)
	}
}

func (s *screeningService) score(ctx context.Context, screeningID uuid.UUID) (*CVScreeningResult, *models.Screening, error) {
	screening, err := s.screeningRepo.FindByID(screeningID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get screening")
	}

	career, err := s.careerRepo.FindByID(screening.CareerID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get career")
	}

	cvDoc, err := s.docRepo.FindByID(screening.CVDocumentID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "CV document not found")
	}

	cv, err := s.pdfParser.ExtractTextWithMetaData(cvDoc.FilePath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse CV")
	}

	careerContext, err := s.retrieveContext(ctx, career)
	if err != nil {
		logger.Warnw("career context unavailable",
			logger.FieldCareerID, career.ID,
			logger.FieldError, err)
		careerContext = FormatRAGContext(nil)
	}

	prompt := s.promptBuilder.BuildCVScreeningPrompt(CleanText(cv.Text), careerContext, career.Title, career.Requirements)
	response, err := s.geminiService.GenerateTextWithRetry(ctx, prompt, 0.3, s.maxRetries)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to generate CV screening")
	}

	result, err := parseScreeningResult(response)
	if err != nil {
		return nil, nil, err
	}
	return result, screening, nil
}

func (s *screeningService) retrieveContext(ctx context.Context, career *models.Career) (string, error) {
	query := s.promptBuilder.BuildRetrievalQuery(career.Title, career.Requirements)

	embedding, err := s.geminiService.GenerateEmbedding(ctx, query)
	if err != nil {
		return "", errors.Wrap(err, "failed to generate query embedding")
	}

	results, err := s.qdrantService.SearchSimilar(ctx, embedding, career.ID.String(), 5)
	if err != nil {
		return "", err
	}
	return FormatRAGContext(results), nil
}

func (s *screeningService) Get(id uuid.UUID) (*models.ScreeningResponse, error) {
	screening, err := s.screeningRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	resp := &models.ScreeningResponse{
		ID:           screening.ID.String(),
		InterviewID:  screening.InterviewID.String(),
		Status:       string(screening.Status),
		ErrorMessage: screening.ErrorMessage,
	}

	if screening.Status == models.ScreeningCompleted && screening.MatchRate != nil {
		data := &models.ScreeningData{
			MatchRate: *screening.MatchRate,
			Strengths: []string(screening.Strengths),
			Gaps:      []string(screening.Gaps),
		}
		if screening.Feedback != nil {
			data.Feedback = *screening.Feedback
		}
		resp.Result = data
	}

	return resp, nil
}

// parseScreeningResult decodes the model output. A match rate above 1 is read
// as a percentage; anything outside both scales is rejected.
func parseScreeningResult(response string) (*CVScreeningResult, error) {
	if strings.TrimSpace(response) == "" {
		return nil, errors.New("empty response from model")
	}

	var result CVScreeningResult
	if err := json.Unmarshal([]byte(extractJSON(response)), &result); err != nil {
		return nil, errors.Wrapf(err, "failed to parse CV screening response: %q", response)
	}

	// Models sometimes answer on a 0-100 scale.
	if result.MatchRate > 1 && result.MatchRate <= 100 {
		result.MatchRate /= 100
	}
	if result.MatchRate < 0 || result.MatchRate > 1 {
		return nil, errors.Newf("match_rate %v is outside 0-1 and 0-100", result.MatchRate)
	}
	if result.Strengths == nil {
		result.Strengths = []string{}
	}
	if result.Gaps == nil {
		result.Gaps = []string{}
	}
	return &result, nil
}

// extractJSON strips markdown fences and returns the outermost JSON object or
// array in text.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	endObj := strings.LastIndex(text, "}")
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	startArr := strings.Index(text, "[")
	endArr := strings.LastIndex(text, "]")
	if startArr != -1 && endArr > startArr {
		return text[startArr : endArr+1]
	}

	return text
}
