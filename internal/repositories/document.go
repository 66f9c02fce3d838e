package repositories

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

type DocumentRepository interface {
	Create(document *models.Document) error
	FindByID(id uuid.UUID) (*models.Document, error)
	FindByIDs(ids []uuid.UUID) ([]models.Document, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// Create implements DocumentRepository.
func (d *documentRepository) Create(document *models.Document) error {
	if err := d.db.Create(document).Error; err != nil {
		return errors.Wrap(err, "failed to create document")
	}

	return nil
}

// FindByID implements DocumentRepository.
func (d *documentRepository) FindByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	if err := d.db.Where("id = ?", id).First(&doc).Error; err != nil {
		return nil, notFound(err, "document")
	}

	return &doc, nil
}

// FindByIDs implements DocumentRepository.
func (d *documentRepository) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	if err := d.db.Where("id IN ?", ids).Find(&docs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find documents")
	}

	return docs, nil
}
