package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-trip-planner/config"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService issues and refreshes user credentials.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshSession(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	GetCurrentUser(ctx context.Context, userID string) (*User, error)
}

type AuthServiceImpl struct {
	logger *slog.Logger
	repo   AuthRepo
	jwtCfg config.JWTConfig
}

func NewAuthServiceImpl(repo AuthRepo, jwtCfg config.JWTConfig, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger: logger,
		repo:   repo,
		jwtCfg: jwtCfg,
	}
}

func (s *AuthServiceImpl) generateAccessToken(userID, username, email string) (string, error) {
	now := time.Now()
	expiry := s.jwtCfg.AccessExpiry
	if expiry == 0 {
		expiry = 30 * time.Minute
	}
	claims := Claims{
		UserID:   userID,
		Username: username,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwtCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.jwtCfg.Audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *AuthServiceImpl) refreshExpiry() time.Time {
	expiry := s.jwtCfg.RefreshExpiry
	if expiry == 0 {
		expiry = 7 * 24 * time.Hour
	}
	return time.Now().Add(expiry)
}

func (s *AuthServiceImpl) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", fmt.Errorf("username, email and password are required")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	userID, err := s.repo.CreateUser(ctx, username, email, string(hashed))
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "User registered", slog.String("user_id", userID))
	return userID, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", "", ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", ErrUnauthenticated
	}

	accessToken, err := s.generateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return "", "", err
	}
	refreshToken := uuid.NewString()
	if err := s.repo.StoreRefreshToken(ctx, user.ID, refreshToken, s.refreshExpiry()); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (string, string, error) {
	userID, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", ErrUnauthenticated
	}

	newAccessToken, err := s.generateAccessToken(user.ID, user.Username, user.Email)
	if err != nil {
		return "", "", err
	}
	newRefreshToken := uuid.NewString()
	if err := s.repo.StoreRefreshToken(ctx, user.ID, newRefreshToken, s.refreshExpiry()); err != nil {
		return "", "", err
	}
	if err := s.repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		s.logger.WarnContext(ctx, "Failed to revoke old refresh token", slog.Any("error", err))
	}
	return newAccessToken, newRefreshToken, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrUnauthenticated
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return err
	}
	// Force re-login everywhere after a password change.
	if err := s.repo.RevokeAllUserRefreshTokens(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "Failed to revoke refresh tokens after password change", slog.Any("error", err))
	}
	return nil
}
