package repositories

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

type CareerRepository interface {
	Create(career *models.Career) error
	FindByID(id uuid.UUID) (*models.Career, error)
	List() ([]models.Career, error)
}

type careerRepository struct {
	db *gorm.DB
}

func NewCareerRepository(db *gorm.DB) CareerRepository {
	return &careerRepository{db: db}
}

func (r *careerRepository) Create(career *models.Career) error {
	if err := r.db.Create(career).Error; err != nil {
		return errors.Wrap(err, "failed to create career")
	}
	return nil
}

func (r *careerRepository) FindByID(id uuid.UUID) (*models.Career, error) {
	var career models.Career
	if err := r.db.Where("id = ?", id).First(&career).Error; err != nil {
		return nil, notFound(err, "career")
	}
	return &career, nil
}

func (r *careerRepository) List() ([]models.Career, error) {
	var careers []models.Career
	if err := r.db.Order("created_at DESC").Find(&careers).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list careers")
	}
	return careers, nil
}
