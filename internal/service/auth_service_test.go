package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/freelance-market-backend/internal/models"
	"github.com/ignatzorin/freelance-market-backend/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-market-backend/internal/repository"
)

type mockAuthRepo struct {
	mock.Mock
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockAuthRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockAuthRepo) CreateSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockAuthRepo) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockAuthRepo) DeleteSession(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func testTokenManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Name:     "Иван Петров",
		Email:    "ivan@example.com",
		Password: "Password123",
		Role:     models.RoleFreelancer,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleFreelancer, result.User.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
}

func TestAuthService_Register_DefaultRoleClient(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Register(ctx, RegisterInput{
		Name:     "Иван Петров",
		Email:    "ivan@example.com",
		Password: "Password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RoleClient, result.User.Role)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Name:     "Иван Петров",
		Email:    "ivan@example.com",
		Password: "short",
	})

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(repository.ErrEmailExists)

	_, err := svc.Register(ctx, RegisterInput{
		Name:     "Иван Петров",
		Email:    "taken@example.com",
		Password: "Password123",
	})

	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	}

	repo.On("GetByEmail", ctx, user.Email).Return(user, nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "Password123"})

	assert.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	user := &models.User{ID: uuid.New(), Email: "ivan@example.com", PasswordHash: string(hash)}

	repo.On("GetByEmail", ctx, user.Email).Return(user, nil)

	_, err := svc.Login(ctx, LoginInput{Email: user.Email, Password: "WrongPassword1"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound)

	_, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "Password123"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	repo := new(mockAuthRepo)
	tm := testTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Role: models.RoleFreelancer}
	pair, exp, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	session := &models.Session{UserID: user.ID, RefreshToken: pair.RefreshToken, ExpiresAt: exp}

	repo.On("GetSessionByToken", ctx, pair.RefreshToken).Return(session, nil)
	repo.On("GetByID", ctx, user.ID).Return(user, nil)
	repo.On("DeleteSession", ctx, pair.RefreshToken).Return(nil)
	repo.On("CreateSession", ctx, mock.AnythingOfType("*models.Session")).Return(nil)

	result, err := svc.Refresh(ctx, pair.RefreshToken)

	assert.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, result.TokenPair.RefreshToken)
	repo.AssertCalled(t, "DeleteSession", ctx, pair.RefreshToken)
}

func TestAuthService_Refresh_UnknownSession(t *testing.T) {
	repo := new(mockAuthRepo)
	tm := testTokenManager()
	svc := NewAuthService(repo, tm)
	ctx := context.Background()

	user := &models.User{ID: uuid.New()}
	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	repo.On("GetSessionByToken", ctx, pair.RefreshToken).Return(nil, repository.ErrSessionNotFound)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	repo := new(mockAuthRepo)
	svc := NewAuthService(repo, testTokenManager())
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestTokenManager_ParseAccess(t *testing.T) {
	tm := testTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.RoleClient}

	pair, _, err := tm.GeneratePair(user)
	assert.NoError(t, err)

	userID, role, err := tm.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleClient, role)
}
