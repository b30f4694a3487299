package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bscit-05-39008695/gamehub/internal/modules/user/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/user/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

func newUserUC(t *testing.T) (*UserUseCase, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Session{}))

	uc := NewUserUseCase(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		"test-secret",
		time.Hour,
		1000,
	)
	return uc, db
}

func TestRegisterCreatesFundedAccount(t *testing.T) {
	uc, db := newUserUC(t)
	ctx := context.Background()

	userID, err := uc.Register(ctx, "alice", "secret123", "alice@example.com")
	require.NoError(t, err)
	assert.Positive(t, userID)

	var user domain.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, 1000.0, user.Balance)
	assert.NotEqual(t, "secret123", user.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	uc, _ := newUserUC(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "", "secret123", "a@example.com")
	assertValidation(t, err)

	_, err = uc.Register(ctx, "bob", "short", "bob@example.com")
	assertValidation(t, err)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	uc, _ := newUserUC(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "carol", "secret123", "carol@example.com")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "carol", "secret123", "other@example.com")
	assertValidation(t, err)

	_, err = uc.Register(ctx, "other", "secret123", "carol@example.com")
	assertValidation(t, err)
}

func TestLoginAndValidateToken(t *testing.T) {
	uc, _ := newUserUC(t)
	ctx := context.Background()

	registeredID, err := uc.Register(ctx, "dave", "secret123", "dave@example.com")
	require.NoError(t, err)

	userID, token, refreshToken, expiresAt, err := uc.Login(ctx, "dave", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registeredID, userID)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, refreshToken)
	assert.True(t, expiresAt.After(time.Now()))

	claimedID, username, _, err := uc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claimedID)
	assert.Equal(t, "dave", username)
}

func TestLoginWrongPassword(t *testing.T) {
	uc, _ := newUserUC(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "erin", "secret123", "erin@example.com")
	require.NoError(t, err)

	_, _, _, _, err = uc.Login(ctx, "erin", "wrong")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	uc, _ := newUserUC(t)

	_, _, _, err := uc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsMissingClaims(t *testing.T) {
	uc, _ := newUserUC(t)

	// Correctly signed but carrying no user_id claim.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "mallory",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, _, _, err = uc.ValidateToken(context.Background(), signed)
	assert.ErrorContains(t, err, "invalid token claims")
}

func TestRefreshTokenIssuesNewAccessToken(t *testing.T) {
	uc, _ := newUserUC(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, "frank", "secret123", "frank@example.com")
	require.NoError(t, err)
	userID, _, refreshToken, _, err := uc.Login(ctx, "frank", "secret123")
	require.NoError(t, err)

	newToken, expiresAt, err := uc.RefreshToken(ctx, refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.True(t, expiresAt.After(time.Now()))

	claimedID, _, _, err := uc.ValidateToken(ctx, newToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claimedID)
}

func TestRefreshTokenRejectsUnknown(t *testing.T) {
	uc, _ := newUserUC(t)

	_, _, err := uc.RefreshToken(context.Background(), "deadbeef")
	assertValidation(t, err)
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
}
