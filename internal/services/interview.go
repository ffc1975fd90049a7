package services

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/repositories"
)

// UploadedCV is the raw file behind a generation request.
type UploadedCV struct {
	Filename string
	Data     []byte
}

type InterviewService interface {
	Generate(ctx context.Context, req models.GenerationRequest) ([]models.InterviewItem, error)
	Save(ctx context.Context, userID, jobTitle string, cv UploadedCV, items []models.InterviewItem) (*models.StoredResult, error)
}

type interviewService struct {
	llm        LLMClient
	prompts    *PromptBuilder
	settings   GenerationSettings
	timeout    time.Duration
	resultRepo repositories.ResultRepository
	docRepo    repositories.DocumentRepository
	storage    StorageService
	bank       QuestionBank
}

// NewInterviewService wires the generation pipeline. bank may be nil, in
// which case results are not indexed.
func NewInterviewService(
	llm LLMClient,
	prompts *PromptBuilder,
	settings GenerationSettings,
	timeout time.Duration,
	resultRepo repositories.ResultRepository,
	docRepo repositories.DocumentRepository,
	storage StorageService,
	bank QuestionBank,
) InterviewService {
	return &interviewService{
		llm:        llm,
		prompts:    prompts,
		settings:   settings,
		timeout:    timeout,
		resultRepo: resultRepo,
		docRepo:    docRepo,
		storage:    storage,
		bank:       bank,
	}
}

// Generate builds the prompt, calls the model once and recovers the items.
// A typed request only accepts items of that type.
func (s *interviewService) Generate(ctx context.Context, req models.GenerationRequest) ([]models.InterviewItem, error) {
	if req.Type != "" && !req.Type.Valid() {
		return nil, apperrors.New(apperrors.KindInvalidInput, "type must be one of technical, behavioral, scenario, project")
	}
	if strings.TrimSpace(req.CVText) == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "CV text is empty")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Printf("🔄 Generating interview questions for %q (type=%q)", req.JobTitle, req.Type)

	prompt := s.prompts.BuildInterviewPrompt(req)
	raw, err := s.llm.Complete(ctx, prompt, s.settings)
	if err != nil {
		return nil, err
	}

	items, err := RecoverInterviewItems(raw, req.Type)
	if err != nil {
		log.Printf("❌ Failed to recover interview items: %v", err)
		return nil, err
	}

	log.Printf("✅ Generated %d interview items", len(items))
	return items, nil
}

// Save archives the CV, records it and stores the result. The archived
// object is removed again when a database write fails. Indexing into the
// question bank happens after the commit and only logs on failure.
func (s *interviewService) Save(ctx context.Context, userID, jobTitle string, cv UploadedCV, items []models.InterviewItem) (*models.StoredResult, error) {
	result := &models.StoredResult{
		ID:         uuid.New(),
		UserID:     userID,
		JobTitle:   jobTitle,
		AIResponse: datatypes.JSONSlice[models.InterviewItem](items),
		CreatedAt:  time.Now(),
	}

	key, err := s.storage.Save(ctx, cv.Data, cv.Filename, "cv")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindPersistence, "failed to archive CV", err)
	}

	if key != "" {
		doc := &models.Document{
			ID:               uuid.New(),
			UserID:           userID,
			OriginalFileName: cv.Filename,
			FileType:         strings.TrimPrefix(strings.ToLower(filepath.Ext(cv.Filename)), "."),
			StorageBackend:   s.storage.Backend(),
			StorageKey:       key,
			SizeBytes:        int64(len(cv.Data)),
			CreatedAt:        time.Now(),
		}

		if err := s.docRepo.Create(ctx, doc); err != nil {
			s.discardArchive(ctx, key)
			return nil, err
		}
		result.CVDocumentID = &doc.ID
	}

	if err := s.resultRepo.Create(ctx, result); err != nil {
		if key != "" {
			s.discardArchive(ctx, key)
		}
		return nil, err
	}

	log.Printf("💾 Stored result %s for user %s", result.ID, userID)

	if s.bank != nil {
		if err := s.bank.Index(ctx, result.ID.String(), items); err != nil {
			log.Printf("⚠️ Failed to index result %s into question bank: %v", result.ID, err)
		}
	}

	return result, nil
}

func (s *interviewService) discardArchive(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Printf("⚠️ Failed to remove archived CV %s: %v", key, err)
	}
}
