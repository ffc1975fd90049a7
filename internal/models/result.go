package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StoredResult is an append-only record of one successful generation.
type StoredResult struct {
	ID           uuid.UUID                         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       string                            `gorm:"type:text;not null;index" json:"user_id"`
	JobTitle     string                            `gorm:"type:text" json:"job_title"`
	AIResponse   datatypes.JSONSlice[InterviewItem] `gorm:"column:ai_response;type:jsonb;not null" json:"AIResponse"`
	CVDocumentID *uuid.UUID                        `gorm:"type:uuid" json:"cv_document_id,omitempty"`
	CreatedAt    time.Time                         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	CVDocument *Document `gorm:"foreignKey:CVDocumentID" json:"-"`
}

func (StoredResult) TableName() string {
	return "cv_results"
}

type InterviewResponse struct {
	Items    []InterviewItem `json:"items"`
	ResultID string          `json:"result_id,omitempty"`
}

type CompareRequest struct {
	CVTexts         []string `json:"cv_texts"`
	JobTitle        string   `json:"job_title"`
	JobRequirements string   `json:"job_requirements"`
	JobDescription  string   `json:"job_description"`
}

type CompareResponse struct {
	Results []CVScore `json:"results"`
}

type ResultResponse struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	JobTitle     string          `json:"job_title,omitempty"`
	Items        []InterviewItem `json:"items"`
	CVDocumentID *string         `json:"cv_document_id,omitempty"`
	CVDocument   *Document       `json:"cv_document,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type SimilarQuestion struct {
	ResultID   string       `json:"result_id"`
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	Type       QuestionType `json:"type"`
	Difficulty Difficulty   `json:"difficulty"`
	Score      float32      `json:"score"`
}
