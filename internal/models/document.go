package models

import (
	"time"

	"github.com/google/uuid"
)

// Document records a CV archived by the storage service.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID           string    `gorm:"type:text;index" json:"user_id"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FileType         string    `gorm:"type:text" json:"file_type"`
	StorageBackend   string    `gorm:"type:text" json:"storage_backend"`
	StorageKey       string    `gorm:"type:text" json:"storage_key"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
