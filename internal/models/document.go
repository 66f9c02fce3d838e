package models

import (
	"time"

	"github.com/google/uuid"
)

// Document file types.
const (
	DocumentTypeCV          = "cv"
	DocumentTypeCareerBrief = "career_brief"
)

type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"originalFilename"`
	FileType         string    `gorm:"type:text" json:"fileType"`
	FilePath         string    `gorm:"type:text" json:"-"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"createdAt"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updatedAt"`
}

func (d *Document) TableName() string {
	return "documents"
}
