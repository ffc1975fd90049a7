package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/repositories"
)

const (
	defaultResultLimit = 20
	maxResultLimit     = 100
)

type ResultHandler struct {
	resultRepo repositories.ResultRepository
	docRepo    repositories.DocumentRepository
}

func NewResultHandler(resultRepo repositories.ResultRepository, docRepo repositories.DocumentRepository) *ResultHandler {
	return &ResultHandler{
		resultRepo: resultRepo,
		docRepo:    docRepo,
	}
}

// HandleGetResult handles GET /interview/results/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	resultID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.New(apperrors.KindInvalidInput, "Invalid result ID format")
	}

	result, err := h.resultRepo.FindByID(c.UserContext(), resultID)
	if err != nil {
		return err
	}

	response := toResultResponse(result)

	if result.CVDocumentID != nil {
		doc, err := h.docRepo.FindByID(c.UserContext(), *result.CVDocumentID)
		switch {
		case err == nil:
			response.CVDocument = doc
		case apperrors.Is(err, apperrors.KindNotFound):
			log.Printf("⚠️ Archived CV %s of result %s not found", *result.CVDocumentID, result.ID)
		default:
			return err
		}
	}

	return c.JSON(response)
}

// HandleListResults handles GET /interview/results?user_id=&limit=
func (h *ResultHandler) HandleListResults(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return apperrors.New(apperrors.KindInvalidInput, "user_id is required")
	}

	limit := parseLimit(c.Query("limit"), defaultResultLimit, maxResultLimit)

	results, err := h.resultRepo.FindByUser(c.UserContext(), userID, limit)
	if err != nil {
		return err
	}

	responses := make([]models.ResultResponse, 0, len(results))
	for i := range results {
		responses = append(responses, toResultResponse(&results[i]))
	}

	return c.JSON(fiber.Map{
		"results": responses,
	})
}

func toResultResponse(result *models.StoredResult) models.ResultResponse {
	response := models.ResultResponse{
		ID:        result.ID.String(),
		UserID:    result.UserID,
		JobTitle:  result.JobTitle,
		Items:     result.AIResponse,
		CreatedAt: result.CreatedAt,
	}

	if result.CVDocumentID != nil {
		docID := result.CVDocumentID.String()
		response.CVDocumentID = &docID
	}

	return response
}

func parseLimit(raw string, def, max int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
