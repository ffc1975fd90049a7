package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/services"
)

const (
	defaultSimilarLimit = 10
	maxSimilarLimit     = 50
)

type SearchHandler struct {
	bank services.QuestionBank
}

// NewSearchHandler accepts a nil bank; searches then report the question
// bank as unavailable.
func NewSearchHandler(bank services.QuestionBank) *SearchHandler {
	return &SearchHandler{bank: bank}
}

// HandleSimilar handles GET /interview/similar?q=&type=&limit=
func (h *SearchHandler) HandleSimilar(c *fiber.Ctx) error {
	if h.bank == nil {
		return apperrors.New(apperrors.KindUpstreamUnavailable, "question bank is not configured")
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return apperrors.New(apperrors.KindInvalidInput, "q is required")
	}

	questionType := models.QuestionType(strings.ToLower(c.Query("type")))
	if questionType != "" && !questionType.Valid() {
		return apperrors.New(apperrors.KindInvalidInput, "Invalid type specified")
	}

	limit := parseLimit(c.Query("limit"), defaultSimilarLimit, maxSimilarLimit)

	questions, err := h.bank.Search(c.UserContext(), query, questionType, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"results": questions,
	})
}
