package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"evaluno/interview-api/internal/apperrors"
	"evaluno/interview-api/internal/models"
)

func newTestAuth(t *testing.T, repo *fakeUserRepo) AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, NewPasswordHasher(bcrypt.MinCost), NewTokenIssuer("test-secret", time.Hour))
	require.NoError(t, err)
	return svc
}

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	auth := newTestAuth(t, repo)
	ctx := context.Background()

	userID, err := auth.Register(ctx, models.RegisterRequest{
		Email:    "  Alice@Example.COM ",
		Username: "alice",
		Password: "correct horse",
	})
	require.NoError(t, err)

	stored := repo.users["alice@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, "candidate", stored.UserType)
	assert.NotContains(t, stored.PasswordHash, "correct horse")

	token, err := auth.Authenticate(ctx, "ALICE@example.com", "correct horse")
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "candidate", claims.UserType)
	assert.Equal(t, userID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newTestAuth(t, newFakeUserRepo())
	req := models.RegisterRequest{Email: "bob@example.com", Password: "pw", UserType: "recruiter"}

	_, err := auth.Register(context.Background(), req)
	require.NoError(t, err)

	req.Email = "BOB@example.com"
	_, err = auth.Register(context.Background(), req)
	assert.Equal(t, apperrors.KindDuplicateEmail, apperrors.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	auth := newTestAuth(t, newFakeUserRepo())

	_, err := auth.Register(context.Background(), models.RegisterRequest{Email: "nope", Password: "pw"})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))

	_, err = auth.Register(context.Background(), models.RegisterRequest{Email: "a@b.c"})
	assert.Equal(t, apperrors.KindInvalidInput, apperrors.KindOf(err))
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	auth := newTestAuth(t, newFakeUserRepo())
	ctx := context.Background()
	_, err := auth.Register(ctx, models.RegisterRequest{Email: "carol@example.com", Password: "right"})
	require.NoError(t, err)

	_, wrongPassword := auth.Authenticate(ctx, "carol@example.com", "wrong")
	_, unknownUser := auth.Authenticate(ctx, "nobody@example.com", "right")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(wrongPassword))
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(unknownUser))
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticateStoreFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.err = apperrors.Wrap(apperrors.KindPersistence, "failed to find user", errors.New("db down"))
	auth := newTestAuth(t, repo)

	_, err := auth.Authenticate(context.Background(), "a@b.c", "pw")
	assert.Equal(t, apperrors.KindPersistence, apperrors.KindOf(err))
}

func TestParseTokenRejectsTampering(t *testing.T) {
	auth := newTestAuth(t, newFakeUserRepo())

	_, err := auth.ParseToken("not.a.token")
	assert.Equal(t, apperrors.KindInvalidCredentials, apperrors.KindOf(err))
}
