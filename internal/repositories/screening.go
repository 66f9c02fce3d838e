package repositories

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

type ScreeningRepository interface {
	Create(screening *models.Screening) error
	FindByID(id uuid.UUID) (*models.Screening, error)
	UpdateStatus(id uuid.UUID, status models.ScreeningStatus) error
	UpdateResult(id uuid.UUID, result *ScreeningUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Screening, error)
}

type ScreeningUpdateData struct {
	MatchRate float64
	Strengths []string
	Gaps      []string
	Feedback  string
}

type screeningRepository struct {
	db *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

func (r *screeningRepository) Create(screening *models.Screening) error {
	if err := r.db.Create(screening).Error; err != nil {
		return errors.Wrap(err, "failed to create screening")
	}
	return nil
}

func (r *screeningRepository) FindByID(id uuid.UUID) (*models.Screening, error) {
	var screening models.Screening
	if err := r.db.Where("id = ?", id).First(&screening).Error; err != nil {
		return nil, notFound(err, "screening")
	}
	return &screening, nil
}

func (r *screeningRepository) UpdateStatus(id uuid.UUID, status models.ScreeningStatus) error {
	return r.update(id, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}, "status")
}

func (r *screeningRepository) UpdateResult(id uuid.UUID, data *ScreeningUpdateData) error {
	return r.update(id, map[string]interface{}{
		"status":     models.ScreeningCompleted,
		"match_rate": data.MatchRate,
		"strengths":  pq.StringArray(data.Strengths),
		"gaps":       pq.StringArray(data.Gaps),
		"feedback":   data.Feedback,
		"updated_at": time.Now(),
	}, "result")
}

func (r *screeningRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"status":        models.ScreeningFailed,
		"error_message": errorMsg,
		"updated_at":    time.Now(),
	}, "error")
}

func (r *screeningRepository) update(id uuid.UUID, updates map[string]interface{}, what string) error {
	result := r.db.Model(&models.Screening{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to update %s", what)
	}

	if result.RowsAffected == 0 {
		return errors.Mark(errors.Newf("screening %s not found", id), ErrNotFound)
	}

	return nil
}

func (r *screeningRepository) FindPendingJobs(limit int) ([]models.Screening, error) {
	var screenings []models.Screening
	err := r.db.
		Where("status = ?", models.ScreeningQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&screenings).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to find pending jobs")
	}

	return screenings, nil
}
