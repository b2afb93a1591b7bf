package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"moviegram/internal/config"
	"moviegram/internal/model"
	"moviegram/internal/service"
)

// =============================================================================
// MOCKS
// =============================================================================

type stubUserRepository struct {
	created *model.User
}

func (s *stubUserRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = 42
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	s.created = user
	return nil
}

func (s *stubUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (s *stubUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, model.ErrUserNotFound
}

func (s *stubUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return false, nil
}

func (s *stubUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (s *stubUserRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	return nil
}

func (s *stubUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error {
	return nil
}

func (s *stubUserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHashed string) error {
	return nil
}

func (s *stubUserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL, avatarKey string) error {
	return nil
}

type stubRefreshTokenRepository struct {
	stored []*model.RefreshToken
}

func (s *stubRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	s.stored = append(s.stored, token)
	return nil
}

func (s *stubRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	return nil, model.ErrRefreshTokenNotFound
}

func (s *stubRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	return nil
}

func (s *stubRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	return nil
}

func (s *stubRefreshTokenRepository) DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error) {
	return 0, nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 2592000,
	}
}

// =============================================================================
// REGISTER
// =============================================================================

// A fresh account should be logged in immediately, so the register response
// carries the same token pair a login would.
func TestAuthHandler_Register_ReturnsTokenPair(t *testing.T) {
	cfg := authTestConfig()
	userRepo := &stubUserRepository{}
	tokenRepo := &stubRefreshTokenRepository{}

	h := NewAuthHandler(
		service.NewUserService(userRepo, cfg),
		service.NewAuthService(tokenRepo, cfg),
		nil,
	)

	body, _ := json.Marshal(model.RegisterRequest{
		Username: "moviebuff",
		Email:    "buff@example.com",
		Password: "hunter22",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp model.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User == nil || resp.User.ID != 42 {
		t.Fatalf("expected created user in response, got %+v", resp.User)
	}
	if resp.AccessToken == "" {
		t.Error("expected a non-empty access token")
	}
	if resp.RefreshToken == "" {
		t.Error("expected a non-empty refresh token")
	}
	if resp.ExpiresIn != cfg.AccessTokenMaxAge {
		t.Errorf("expected expires_in %d, got %d", cfg.AccessTokenMaxAge, resp.ExpiresIn)
	}

	if len(tokenRepo.stored) != 1 {
		t.Fatalf("expected one refresh token persisted, got %d", len(tokenRepo.stored))
	}
	if tokenRepo.stored[0].UserID != 42 {
		t.Errorf("expected refresh token bound to user 42, got %d", tokenRepo.stored[0].UserID)
	}
}

func TestAuthHandler_Register_DuplicateUsernameSkipsTokens(t *testing.T) {
	cfg := authTestConfig()
	userRepo := &stubUserRepository{}
	tokenRepo := &stubRefreshTokenRepository{}

	h := NewAuthHandler(
		service.NewUserService(&duplicateUsernameRepo{stubUserRepository: userRepo}, cfg),
		service.NewAuthService(tokenRepo, cfg),
		nil,
	)

	body, _ := json.Marshal(model.RegisterRequest{
		Username: "moviebuff",
		Email:    "buff@example.com",
		Password: "hunter22",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if len(tokenRepo.stored) != 0 {
		t.Errorf("expected no refresh tokens persisted on failure, got %d", len(tokenRepo.stored))
	}
}

type duplicateUsernameRepo struct {
	*stubUserRepository
}

func (d *duplicateUsernameRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return true, nil
}
