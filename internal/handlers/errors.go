package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"evaluno/interview-api/internal/apperrors"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindInvalidInput:        fiber.StatusBadRequest,
	apperrors.KindUnsupportedFormat:   fiber.StatusBadRequest,
	apperrors.KindExtraction:          fiber.StatusUnprocessableEntity,
	apperrors.KindInvalidCredentials:  fiber.StatusUnauthorized,
	apperrors.KindNotFound:            fiber.StatusNotFound,
	apperrors.KindDuplicateEmail:      fiber.StatusConflict,
	apperrors.KindNoRecoverableJSON:   fiber.StatusBadGateway,
	apperrors.KindValidation:          fiber.StatusBadGateway,
	apperrors.KindUpstream:            fiber.StatusBadGateway,
	apperrors.KindComparisonFailed:    fiber.StatusBadGateway,
	apperrors.KindUpstreamUnavailable: fiber.StatusServiceUnavailable,
	apperrors.KindPersistence:         fiber.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperrors.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return fiber.StatusInternalServerError
}

// ErrorHandler is the only place error kinds become HTTP responses. Causes
// are logged, clients only see the classified message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  fiberErr.Code,
		})
	}

	appErr, ok := apperrors.As(err)
	if !ok {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
			"code":  fiber.StatusInternalServerError,
		})
	}

	code := StatusFor(appErr.Kind)
	if code >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	}

	body := fiber.Map{
		"error": appErr.Message,
		"kind":  appErr.Kind,
		"code":  code,
	}
	if appErr.Status != 0 {
		body["upstream_status"] = appErr.Status
	}
	if excerpt := diagnosticExcerpt(err); excerpt != "" {
		body["excerpt"] = excerpt
	}

	return c.Status(code).JSON(body)
}

// Only unrecoverable model output carries an excerpt to the client, even
// when wrapped by the comparator.
func diagnosticExcerpt(err error) string {
	for err != nil {
		appErr, ok := apperrors.As(err)
		if !ok {
			return ""
		}
		if appErr.Kind == apperrors.KindNoRecoverableJSON {
			return appErr.Excerpt
		}
		err = appErr.Err
	}
	return ""
}
