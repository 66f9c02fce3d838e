package repositories

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
)

type InterviewRepository interface {
	Create(interview *models.Interview) error
	FindByID(id uuid.UUID) (*models.Interview, error)
	FindByEmailAndCareer(email string, careerID uuid.UUID) (*models.Interview, error)
	ListByCareer(careerID uuid.UUID) ([]models.Interview, error)
	// ApplyMutation writes the patch and its audit record atomically and
	// returns the updated interview.
	ApplyMutation(id uuid.UUID, patch pipeline.FieldPatch, record *models.TransactionRecord) (*models.Interview, error)
	ResetInterviewData(id uuid.UUID) error
	History(id uuid.UUID) ([]models.TransactionRecord, error)
	HistoryByCareer(careerID uuid.UUID) ([]models.TransactionRecord, error)
}

type interviewRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db, now: time.Now}
}

func (r *interviewRepository) Create(interview *models.Interview) error {
	if err := r.db.Create(interview).Error; err != nil {
		return errors.Wrap(err, "failed to create interview")
	}
	return nil
}

func (r *interviewRepository) FindByID(id uuid.UUID) (*models.Interview, error) {
	var iv models.Interview
	if err := r.db.Where("id = ?", id).First(&iv).Error; err != nil {
		return nil, notFound(err, "interview")
	}
	return &iv, nil
}

func (r *interviewRepository) FindByEmailAndCareer(email string, careerID uuid.UUID) (*models.Interview, error) {
	var iv models.Interview
	err := r.db.
		Where("career_id = ? AND LOWER(candidate_email) = LOWER(?)", careerID, email).
		First(&iv).Error
	if err != nil {
		return nil, notFound(err, "interview")
	}
	return &iv, nil
}

// ListByCareer returns every application for a career, newest activity first.
// Bucket ordering is applied by the pipeline package.
func (r *interviewRepository) ListByCareer(careerID uuid.UUID) ([]models.Interview, error) {
	var interviews []models.Interview
	err := r.db.
		Where("career_id = ?", careerID).
		Order("updated_at DESC, id DESC").
		Find(&interviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list interviews")
	}
	return interviews, nil
}

func (r *interviewRepository) ApplyMutation(id uuid.UUID, patch pipeline.FieldPatch, record *models.TransactionRecord) (*models.Interview, error) {
	var updated models.Interview

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Interview{}).
			Where("id = ?", id).
			Updates(patch.Columns(r.now()))
		if result.Error != nil {
			return errors.Wrap(result.Error, "failed to update interview")
		}
		if result.RowsAffected == 0 {
			return errors.Mark(errors.Newf("interview %s not found", id), ErrNotFound)
		}

		if record != nil {
			if err := tx.Create(record).Error; err != nil {
				return errors.Wrap(err, "failed to record transaction")
			}
		}

		if err := tx.Where("id = ?", id).First(&updated).Error; err != nil {
			return errors.Wrap(err, "failed to reload interview")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// ResetInterviewData clears the AI interview transcript and score ahead of a
// retake.
func (r *interviewRepository) ResetInterviewData(id uuid.UUID) error {
	result := r.db.Model(&models.Interview{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_interview_data":  datatypes.JSON("{}"),
			"ai_interview_score": gorm.Expr("NULL"),
			"updated_at":         r.now(),
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to reset interview data")
	}
	if result.RowsAffected == 0 {
		return errors.Mark(errors.Newf("interview %s not found", id), ErrNotFound)
	}
	return nil
}

func (r *interviewRepository) History(id uuid.UUID) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	err := r.db.
		Where("interview_id = ?", id).
		Order("timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load history")
	}
	return records, nil
}

func (r *interviewRepository) HistoryByCareer(careerID uuid.UUID) ([]models.TransactionRecord, error) {
	var records []models.TransactionRecord
	err := r.db.
		Joins("JOIN interviews ON interviews.id = interview_transactions.interview_id").
		Where("interviews.career_id = ?", careerID).
		Order("interview_transactions.timestamp ASC").
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to load career history")
	}
	return records, nil
}
