package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
	"evaluno/interview-api/internal/repositories"
)

const defaultUserType = "candidate"

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (*Claims, error)
}

type authService struct {
	users  repositories.UserRepository
	hasher *PasswordHasher
	tokens *TokenIssuer
	// compared against when the account does not exist
	dummyHash string
}

func NewAuthService(users repositories.UserRepository, hasher *PasswordHasher, tokens *TokenIssuer) (AuthService, error) {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register inserts the user and lets the unique index on email decide
// duplicates.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "", apperrors.New(apperrors.KindInvalidInput, "a valid email is required")
	}
	if req.Password == "" {
		return "", apperrors.New(apperrors.KindInvalidInput, "password is required")
	}

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindPersistence, "failed to secure password", err)
	}

	userType := strings.TrimSpace(req.UserType)
	if userType == "" {
		userType = defaultUserType
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: hash,
		UserType:     userType,
		CreatedAt:    time.Now(),
	}

	if err := a.users.Create(ctx, user); err != nil {
		return "", err
	}

	log.Printf("👤 Registered user %s", user.ID)
	return user.ID.String(), nil
}

// Authenticate returns a signed token. A missing account and a wrong
// password both yield InvalidCredentials.
func (a *authService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := a.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !apperrors.Is(err, apperrors.KindNotFound) {
			return "", err
		}
		a.hasher.Verify(password, a.dummyHash)
		return "", invalidCredentials()
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return "", invalidCredentials()
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (a *authService) ParseToken(token string) (*Claims, error) {
	claims, err := a.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidCredentials, "invalid or expired token", err)
	}
	return claims, nil
}

func invalidCredentials() error {
	return apperrors.New(apperrors.KindInvalidCredentials, "invalid credentials")
}
