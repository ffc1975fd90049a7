package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/services"
)

type CompareHandler struct {
	comparator  services.Comparator
	extractor   services.TextExtractor
	maxFileSize int64
}

func NewCompareHandler(comparator services.Comparator, extractor services.TextExtractor, maxFileSize int64) *CompareHandler {
	return &CompareHandler{
		comparator:  comparator,
		extractor:   extractor,
		maxFileSize: maxFileSize,
	}
}

// HandleCompare handles POST /compare. CVs arrive either as a JSON body with
// cv_texts or as a multipart form with repeated cv_files.
func (h *CompareHandler) HandleCompare(c *fiber.Ctx) error {
	var req models.CompareRequest

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		parsed, err := h.fromMultipart(c)
		if err != nil {
			return err
		}
		req = parsed
	} else if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, "Invalid request payload", err)
	}

	if len(req.CVTexts) == 0 {
		return apperrors.New(apperrors.KindInvalidInput, "at least one CV is required")
	}

	scores, err := h.comparator.Compare(c.UserContext(), req.CVTexts, models.JobPosting{
		Title:        req.JobTitle,
		Requirements: req.JobRequirements,
		Description:  req.JobDescription,
	})
	if err != nil {
		return err
	}

	return c.JSON(models.CompareResponse{Results: scores})
}

func (h *CompareHandler) fromMultipart(c *fiber.Ctx) (models.CompareRequest, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return models.CompareRequest{}, apperrors.Wrap(apperrors.KindInvalidInput, "failed to parse multipart form", err)
	}

	req := models.CompareRequest{
		JobTitle:        firstValue(form.Value["job_title"]),
		JobRequirements: firstValue(form.Value["job_requirements"]),
		JobDescription:  firstValue(form.Value["job_description"]),
		CVTexts:         form.Value["cv_texts"],
	}

	for _, fileHeader := range form.File["cv_files"] {
		cv, err := readUpload(fileHeader, h.maxFileSize)
		if err != nil {
			return req, err
		}
		text, err := h.extractor.Extract(cv.Data, cv.Filename)
		if err != nil {
			return req, err
		}
		req.CVTexts = append(req.CVTexts, text)
	}

	return req, nil
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}
