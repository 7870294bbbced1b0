package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/threadcart-backend/internal/users"
	pkgAuth "github.com/angelmondragon/threadcart-backend/pkg/auth"
	"github.com/angelmondragon/threadcart-backend/pkg/config"
	"github.com/angelmondragon/threadcart-backend/pkg/db/models"
	"github.com/angelmondragon/threadcart-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/threadcart-backend/pkg/errors"
	"github.com/angelmondragon/threadcart-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "secret",
	Issuer:            "threadcart",
	ExpirationMinutes: 30,
}

func TestServiceLoginMintsCustomerClaims(t *testing.T) {
	password := "customer-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Shopper One",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	svc, _ := buildTestService(t, user)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Shopper@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id %s in claims, got %s", user.ID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	if resp.RefreshToken == "" {
		t.Fatalf("expected refresh token to be set")
	}
	if resp.User == nil || resp.User.LastLoginAt == nil {
		t.Fatalf("expected last login to be recorded on the returned user")
	}
}

func TestServiceLoginRejectsWrongPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "shopper@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Name:         "Shopper One",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: "wrong-password",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsInactiveUser(t *testing.T) {
	password := "inactive-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "gone@example.com",
		PasswordHash: mustHashPassword(t, password),
		Name:         "Gone User",
		Role:         enums.UserRoleCustomer,
		IsActive:     false,
	}

	svc, _ := buildTestService(t, user)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    user.Email,
		Password: password,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceRegisterCreatesCustomer(t *testing.T) {
	svc, repo := buildTestService(t, nil)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "New Shopper",
		Email:    "New@Example.com",
		Password: "long-enough-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if repo.created == nil {
		t.Fatalf("expected a user to be created")
	}
	if repo.created.Email != "new@example.com" {
		t.Fatalf("expected lowercased email, got %q", repo.created.Email)
	}
	if repo.created.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %s", repo.created.Role)
	}
	if repo.created.PasswordHash == "long-enough-pass" {
		t.Fatalf("expected password to be hashed")
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected tokens on register response")
	}
}

func TestServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	existing := &models.User{
		ID:           uuid.New(),
		Email:        "taken@example.com",
		PasswordHash: "x",
		Name:         "Existing",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}

	svc, _ := buildTestService(t, existing)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Copycat",
		Email:    "taken@example.com",
		Password: "long-enough-pass",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	userID := uuid.New()
	oldAccessID := uuid.NewString()
	accessToken, err := pkgAuth.MintAccessToken(testJWTConfig, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleCustomer,
		JTI:    oldAccessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	svc, _ := buildTestService(t, nil)

	pair, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  accessToken,
		RefreshToken: "refresh-token",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, pair.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id to survive rotation")
	}
	if claims.ID == oldAccessID {
		t.Fatalf("expected a fresh jti after rotation")
	}
	if pair.RefreshToken != "rotated-refresh-token" {
		t.Fatalf("expected rotated refresh token, got %q", pair.RefreshToken)
	}
}

func TestServiceLogoutRevokesSession(t *testing.T) {
	svc, _ := buildTestService(t, nil)
	sessionMgr := svcSessionManager(t, svc)

	if err := svc.Logout(context.Background(), "some-access-id"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessionMgr.revoked) != 1 || sessionMgr.revoked[0] != "some-access-id" {
		t.Fatalf("expected session revoke for access id, got %v", sessionMgr.revoked)
	}
}

func buildTestService(t *testing.T, user *models.User) (Service, *stubUserRepo) {
	t.Helper()
	repo := &stubUserRepo{user: user}
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: &stubSessionManager{refreshToken: "refresh-token"},
		JWTConfig:      testJWTConfig,
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo
}

func svcSessionManager(t *testing.T, svc Service) *stubSessionManager {
	t.Helper()
	typed, ok := svc.(*service)
	if !ok {
		t.Fatalf("unexpected service type")
	}
	mgr, ok := typed.session.(*stubSessionManager)
	if !ok {
		t.Fatalf("unexpected session manager type")
	}
	return mgr
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user    *models.User
	created *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	model := dto.ToModel()
	model.ID = uuid.New()
	model.CreatedAt = time.Now().UTC()
	model.UpdatedAt = model.CreatedAt
	s.created = model
	return model, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
	revoked      []string
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return uuid.NewString(), "rotated-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}
