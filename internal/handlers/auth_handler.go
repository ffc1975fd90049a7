package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/services"
)

type AuthHandler struct {
	auth services.AuthService
}

func NewAuthHandler(auth services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, "Invalid request payload", err)
	}

	userID, err := h.auth.Register(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id": userID,
	})
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.Wrap(apperrors.KindInvalidInput, "Invalid request payload", err)
	}

	token, err := h.auth.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// HandleMe handles GET /auth/me
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return apperrors.New(apperrors.KindInvalidCredentials, "missing bearer token")
	}

	claims, err := h.auth.ParseToken(strings.TrimSpace(token))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"email":     claims.Subject,
		"username":  claims.Username,
		"user_type": claims.UserType,
		"user_id":   claims.UserID,
	})
}
