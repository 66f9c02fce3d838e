package services

import (
	"context"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/logger"
	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

type CareerService interface {
	Create(ctx context.Context, req models.CreateCareerRequest) (*models.Career, error)
	Get(id uuid.UUID) (*models.Career, error)
	Apply(careerID uuid.UUID, input ApplyInput) (*models.ApplyResponse, error)
}

// ApplyInput is a candidate's application form.
type ApplyInput struct {
	Name  string
	Email string
	CV    *multipart.FileHeader
}

// JobQueue accepts screening IDs for background processing.
type JobQueue interface {
	EnqueueJob(id uuid.UUID)
}

type careerService struct {
	careerRepo     repositories.CareerRepository
	interviewRepo  repositories.InterviewRepository
	docRepo        repositories.DocumentRepository
	screeningRepo  repositories.ScreeningRepository
	storageService StorageService
	ingestService  IngestService
	queue          JobQueue
}

// NewCareerService wires the career flows. ingestService may be nil, in which
// case careers are created without vector context.
func NewCareerService(
	careerRepo repositories.CareerRepository,
	interviewRepo repositories.InterviewRepository,
	docRepo repositories.DocumentRepository,
	screeningRepo repositories.ScreeningRepository,
	storageService StorageService,
	ingestService IngestService,
	queue JobQueue,
) CareerService {
	return &careerService{
		careerRepo:     careerRepo,
		interviewRepo:  interviewRepo,
		docRepo:        docRepo,
		screeningRepo:  screeningRepo,
		storageService: storageService,
		ingestService:  ingestService,
		queue:          queue,
	}
}

func (s *careerService) Create(ctx context.Context, req models.CreateCareerRequest) (*models.Career, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalidInput("title is required")
	}

	career := &models.Career{
		ID:           uuid.New(),
		Title:        title,
		Description:  strings.TrimSpace(req.Description),
		Requirements: req.Requirements,
		Status:       models.CareerActive,
	}
	if err := s.careerRepo.Create(career); err != nil {
		return nil, err
	}

	if s.ingestService != nil {
		brief := careerBrief(career)
		if _, err := s.ingestService.IngestText(ctx, career.ID, career.ID.String(), models.DocumentTypeCareerBrief, brief); err != nil {
			logger.Warnw("career brief not ingested",
				logger.FieldCareerID, career.ID,
				logger.FieldError, err)
		}
	}

	return career, nil
}

func careerBrief(c *models.Career) string {
	var sb strings.Builder
	sb.WriteString(c.Title)
	if c.Description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(c.Description)
	}
	if len(c.Requirements) > 0 {
		sb.WriteString("\n\nRequirements:\n- ")
		sb.WriteString(strings.Join(c.Requirements, "\n- "))
	}
	return sb.String()
}

func (s *careerService) Get(id uuid.UUID) (*models.Career, error) {
	return s.careerRepo.FindByID(id)
}

// Apply stores the CV, opens an interview in the Applied step and queues its
// screening.
func (s *careerService) Apply(careerID uuid.UUID, input ApplyInput) (*models.ApplyResponse, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return nil, invalidInput("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, invalidInput("email %q is not valid", email)
	}
	if input.CV == nil {
		return nil, invalidInput("cv file is required")
	}

	career, err := s.careerRepo.FindByID(careerID)
	if err != nil {
		return nil, err
	}
	if career.Status != models.CareerActive {
		return nil, errors.Mark(errors.Newf("career %s is not accepting applications", careerID), ErrConflict)
	}

	existing, err := s.interviewRepo.FindByEmailAndCareer(email, careerID)
	switch {
	case err == nil:
		return nil, errors.Mark(
			errors.Newf("%s already applied to this career (interview %s)", email, existing.ID),
			ErrConflict)
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, err
	}

	filename, filePath, err := s.storageService.SaveFile(input.CV, models.DocumentTypeCV)
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: input.CV.Filename,
		FileType:         models.DocumentTypeCV,
		FilePath:         filePath,
	}
	if err := s.docRepo.Create(doc); err != nil {
		if delErr := s.storageService.DeleteFile(filename); delErr != nil {
			logger.Warnf("⚠️ Failed to clean up %s: %v", filename, delErr)
		}
		return nil, err
	}

	interview := &models.Interview{
		ID:                uuid.New(),
		CareerID:          careerID,
		CandidateName:     name,
		CandidateEmail:    email,
		CurrentStep:       models.StepApplied,
		Status:            models.StatusForCVScreening,
		ApplicationStatus: models.ApplicationOngoing,
		CVDocumentID:      &doc.ID,
	}
	if err := s.interviewRepo.Create(interview); err != nil {
		return nil, err
	}

	screening := &models.Screening{
		ID:           uuid.New(),
		InterviewID:  interview.ID,
		CareerID:     careerID,
		CVDocumentID: doc.ID,
		Status:       models.ScreeningQueued,
	}
	if err := s.screeningRepo.Create(screening); err != nil {
		return nil, err
	}

	s.queue.EnqueueJob(screening.ID)

	logger.Infow("application received",
		logger.FieldCareerID, careerID,
		logger.FieldInterviewID, interview.ID,
		logger.FieldScreeningID, screening.ID)

	return &models.ApplyResponse{
		InterviewID: interview.ID.String(),
		ScreeningID: screening.ID.String(),
		DocumentID:  doc.ID.String(),
		Status:      string(models.ScreeningQueued),
	}, nil
}
