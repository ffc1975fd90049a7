package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/services"
)

type InterviewHandler struct {
	extractor   services.TextExtractor
	interviews  services.InterviewService
	maxFileSize int64
}

func NewInterviewHandler(
	extractor services.TextExtractor,
	interviews services.InterviewService,
	maxFileSize int64,
) *InterviewHandler {
	return &InterviewHandler{
		extractor:   extractor,
		interviews:  interviews,
		maxFileSize: maxFileSize,
	}
}

// HandleUpload handles POST /interview/upload. The generated set is stored
// against user_id.
func (h *InterviewHandler) HandleUpload(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.FormValue("user_id"))
	if userID == "" {
		return apperrors.New(apperrors.KindInvalidInput, "user_id is required")
	}

	job, err := jobFromForm(c)
	if err != nil {
		return err
	}

	cv, cvText, err := h.readCV(c)
	if err != nil {
		return err
	}

	items, err := h.interviews.Generate(c.UserContext(), models.GenerationRequest{
		CVText:          cvText,
		JobTitle:        job.Title,
		JobRequirements: job.Requirements,
		JobDescription:  job.Description,
	})
	if err != nil {
		return err
	}

	result, err := h.interviews.Save(c.UserContext(), userID, job.Title, cv, items)
	if err != nil {
		return err
	}

	return c.JSON(models.InterviewResponse{
		Items:    items,
		ResultID: result.ID.String(),
	})
}

// HandleGenerateType handles POST /interview/generate-type. The type is
// checked before the file is even read; nothing is persisted.
func (h *InterviewHandler) HandleGenerateType(c *fiber.Ctx) error {
	questionType := models.QuestionType(strings.ToLower(strings.TrimSpace(c.FormValue("type"))))
	if !questionType.Valid() {
		return apperrors.New(apperrors.KindInvalidInput, "Invalid type specified: must be one of technical, behavioral, scenario, project")
	}

	job, err := jobFromForm(c)
	if err != nil {
		return err
	}

	_, cvText, err := h.readCV(c)
	if err != nil {
		return err
	}

	items, err := h.interviews.Generate(c.UserContext(), models.GenerationRequest{
		CVText:          cvText,
		JobTitle:        job.Title,
		JobRequirements: job.Requirements,
		JobDescription:  job.Description,
		Type:            questionType,
	})
	if err != nil {
		return err
	}

	return c.JSON(models.InterviewResponse{Items: items})
}

func jobFromForm(c *fiber.Ctx) (models.JobPosting, error) {
	job := models.JobPosting{
		Title:        strings.TrimSpace(c.FormValue("job_title")),
		Requirements: strings.TrimSpace(c.FormValue("job_requirements")),
		Description:  strings.TrimSpace(c.FormValue("job_description")),
	}
	if job.Title == "" {
		return job, apperrors.New(apperrors.KindInvalidInput, "job_title is required")
	}
	return job, nil
}

func (h *InterviewHandler) readCV(c *fiber.Ctx) (services.UploadedCV, string, error) {
	fileHeader, err := c.FormFile("cv_file")
	if err != nil {
		return services.UploadedCV{}, "", apperrors.New(apperrors.KindInvalidInput, "cv_file is required")
	}

	cv, err := readUpload(fileHeader, h.maxFileSize)
	if err != nil {
		return services.UploadedCV{}, "", err
	}

	text, err := h.extractor.Extract(cv.Data, cv.Filename)
	if err != nil {
		return services.UploadedCV{}, "", err
	}

	return cv, text, nil
}

func readUpload(fileHeader *multipart.FileHeader, maxFileSize int64) (services.UploadedCV, error) {
	if fileHeader.Filename == "" {
		return services.UploadedCV{}, apperrors.New(apperrors.KindInvalidInput, "No file uploaded")
	}

	if maxFileSize > 0 && fileHeader.Size > maxFileSize {
		return services.UploadedCV{}, apperrors.New(apperrors.KindInvalidInput,
			fmt.Sprintf("CV file too large. Max size: %d bytes", maxFileSize))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return services.UploadedCV{}, apperrors.Wrap(apperrors.KindInvalidInput, "failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return services.UploadedCV{}, apperrors.Wrap(apperrors.KindInvalidInput, "failed to read uploaded file", err)
	}

	return services.UploadedCV{Filename: fileHeader.Filename, Data: data}, nil
}
