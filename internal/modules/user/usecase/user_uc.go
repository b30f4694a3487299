// Package usecase implements registration, authentication and session
// handling for the user module.
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/bscit-05-39008695/gamehub/internal/modules/user/domain"
	"github.com/bscit-05-39008695/gamehub/internal/modules/user/repository"
	"github.com/bscit-05-39008695/gamehub/pkg/apperr"
)

// UserUseCase handles user-related business logic.
type UserUseCase struct {
	userRepo      *repository.UserRepository
	sessionRepo   *repository.SessionRepository
	jwtSecret     []byte
	tokenDuration time.Duration

	// initialBalance is credited to every new account.
	initialBalance float64
}

// NewUserUseCase creates a new user use case.
func NewUserUseCase(
	userRepo *repository.UserRepository,
	sessionRepo *repository.SessionRepository,
	jwtSecret string,
	tokenDuration time.Duration,
	initialBalance float64,
) *UserUseCase {
	return &UserUseCase{
		userRepo:       userRepo,
		sessionRepo:    sessionRepo,
		jwtSecret:      []byte(jwtSecret),
		tokenDuration:  tokenDuration,
		initialBalance: initialBalance,
	}
}

// Register registers a new user.
func (uc *UserUseCase) Register(ctx context.Context, username, password, email string) (int64, error) {
	if username == "" || password == "" || email == "" {
		return 0, apperr.New(apperr.CodeValidation, "username, password, and email are required")
	}
	if len(password) < 6 {
		return 0, apperr.New(apperr.CodeValidation, "password must be at least 6 characters")
	}

	exists, err := uc.userRepo.UsernameExists(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return 0, apperr.New(apperr.CodeValidation, "username already exists")
	}

	exists, err = uc.userRepo.EmailExists(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return 0, apperr.New(apperr.CodeValidation, "email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Email:        email,
		Balance:      uc.initialBalance,
		Status:       domain.UserStatusActive,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	return user.UserID, nil
}

// Login authenticates a user and returns an access token plus a
// refresh token.
func (uc *UserUseCase) Login(ctx context.Context, username, password string) (int64, string, string, time.Time, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return 0, "", "", time.Time{}, apperr.New(apperr.CodeValidation, "invalid username or password")
	}

	if !user.IsActive() {
		return 0, "", "", time.Time{}, apperr.New(apperr.CodeValidation, "user account is not active")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return 0, "", "", time.Time{}, apperr.New(apperr.CodeValidation, "invalid username or password")
	}

	token, expiresAt, err := uc.generateToken(user.UserID, user.Username)
	if err != nil {
		return 0, "", "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	refreshToken, err := uc.generateRefreshToken()
	if err != nil {
		return 0, "", "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	session := &domain.Session{
		SessionID: refreshToken,
		UserID:    user.UserID,
		Token:     token,
		ExpiresAt: expiresAt.Add(24 * time.Hour * 7),
	}
	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return 0, "", "", time.Time{}, fmt.Errorf("failed to create session: %w", err)
	}

	_ = uc.userRepo.UpdateLastLogin(ctx, user.UserID)

	return user.UserID, token, refreshToken, expiresAt, nil
}

// ValidateToken validates a JWT token and returns its identity claims.
func (uc *UserUseCase) ValidateToken(ctx context.Context, tokenString string) (int64, string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return uc.jwtSecret, nil
	})
	if err != nil {
		return 0, "", time.Time{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return 0, "", time.Time{}, fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", time.Time{}, fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, "", time.Time{}, fmt.Errorf("invalid token claims")
	}
	username, ok := claims["username"].(string)
	if !ok {
		return 0, "", time.Time{}, fmt.Errorf("invalid token claims")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return 0, "", time.Time{}, fmt.Errorf("invalid token claims")
	}

	return int64(userID), username, time.Unix(int64(exp), 0), nil
}

// Logout invalidates the sessions carrying the given access token.
func (uc *UserUseCase) Logout(ctx context.Context, token string) error {
	return uc.sessionRepo.DeleteByToken(ctx, token)
}

// Profile returns the account details for a user.
func (uc *UserUseCase) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

// RefreshToken issues a new access token for a valid refresh token.
func (uc *UserUseCase) RefreshToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	session, err := uc.sessionRepo.GetBySessionID(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, apperr.New(apperr.CodeValidation, "invalid refresh token")
	}

	if time.Now().After(session.ExpiresAt) {
		_ = uc.sessionRepo.Delete(ctx, session.SessionID)
		return "", time.Time{}, apperr.New(apperr.CodeValidation, "refresh token expired")
	}

	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return "", time.Time{}, err
	}
	if !user.IsActive() {
		return "", time.Time{}, apperr.New(apperr.CodeValidation, "user account is not active")
	}

	newToken, expiresAt, err := uc.generateToken(user.UserID, user.Username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	session.Token = newToken
	if err := uc.sessionRepo.Update(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to update session: %w", err)
	}

	return newToken, expiresAt, nil
}

func (uc *UserUseCase) generateToken(userID int64, username string) (string, time.Time, error) {
	expiresAt := time.Now().Add(uc.tokenDuration)

	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"exp":      expiresAt.Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (uc *UserUseCase) generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
