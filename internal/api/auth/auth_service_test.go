package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-trip-planner/config"
)

type MockAuthRepo struct {
	mock.Mock
}

func (m *MockAuthRepo) CreateUser(ctx context.Context, username, email, hashedPassword string) (string, error) {
	args := m.Called(ctx, username, email, hashedPassword)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepo) GetUserByID(ctx context.Context, userID string) (*User, error) {
	args := m.Called(ctx, userID)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthRepo) UpdatePassword(ctx context.Context, userID, newHashedPassword string) error {
	args := m.Called(ctx, userID, newHashedPassword)
	return args.Error(0)
}

func (m *MockAuthRepo) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, token, expiresAt)
	return args.Error(0)
}

func (m *MockAuthRepo) GetRefreshToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepo) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:     "test-secret",
		Issuer:        "go-trip-planner",
		Audience:      "go-trip-planner-api",
		AccessExpiry:  30 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	}
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hashed)
}

func TestLogin_IssuesVerifiableAccessToken(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthServiceImpl(repo, testJWTConfig(), slog.Default())

	user := &User{ID: "user-1", Username: "ana", Email: "ana@example.com", Password: hashFor(t, "secret123")}
	repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()
	repo.On("StoreRefreshToken", mock.Anything, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	accessToken, refreshToken, err := svc.Login(context.Background(), "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, refreshToken)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "go-trip-planner", claims.Issuer)
	repo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthServiceImpl(repo, testJWTConfig(), slog.Default())

	user := &User{ID: "user-1", Email: "ana@example.com", Password: hashFor(t, "secret123")}
	repo.On("GetUserByEmail", mock.Anything, "ana@example.com").Return(user, nil).Once()

	_, _, err := svc.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthServiceImpl(repo, testJWTConfig(), slog.Default())

	var storedHash string
	repo.On("CreateUser", mock.Anything, "ana", "ana@example.com", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { storedHash = args.String(3) }).
		Return("user-1", nil).Once()

	userID, err := svc.Register(context.Background(), "ana", "ana@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.NotEqual(t, "secret123", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret123")))
}

func TestRegister_RequiresAllFields(t *testing.T) {
	svc := NewAuthServiceImpl(new(MockAuthRepo), testJWTConfig(), slog.Default())

	_, err := svc.Register(context.Background(), "ana", "", "secret123")
	assert.Error(t, err)
}

func TestRefreshSession_RotatesToken(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthServiceImpl(repo, testJWTConfig(), slog.Default())

	user := &User{ID: "user-1", Username: "ana", Email: "ana@example.com"}
	repo.On("GetRefreshToken", mock.Anything, "old-token").Return("user-1", nil).Once()
	repo.On("GetUserByID", mock.Anything, "user-1").Return(user, nil).Once()
	repo.On("StoreRefreshToken", mock.Anything, "user-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).
		Return(nil).Once()
	repo.On("RevokeRefreshToken", mock.Anything, "old-token").Return(nil).Once()

	accessToken, newRefreshToken, err := svc.RefreshSession(context.Background(), "old-token")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEqual(t, "old-token", newRefreshToken)
	repo.AssertExpectations(t)
}

func TestRefreshSession_RejectsExpiredToken(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthServiceImpl(repo, testJWTConfig(), slog.Default())

	repo.On("GetRefreshToken", mock.Anything, "stale").Return("", ErrUnauthenticated).Once()

	_, _, err := svc.RefreshSession(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestChangePassword_RevokesAllTokens(t *testing.T) {
	repo := new(MockAuthRepo)
	svc := NewAuthServiceImpl(repo, testJWTConfig(), slog.Default())

	user := &User{ID: "user-1", Email: "ana@example.com", Password: hashFor(t, "old-pass")}
	repo.On("GetUserByID", mock.Anything, "user-1").Return(user, nil).Once()
	repo.On("UpdatePassword", mock.Anything, "user-1", mock.AnythingOfType("string")).Return(nil).Once()
	repo.On("RevokeAllUserRefreshTokens", mock.Anything, "user-1").Return(nil).Once()

	err := svc.ChangePassword(context.Background(), "user-1", "old-pass", "new-pass")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
