package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moviegram/internal/config"
	"moviegram/internal/model"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================

type mockUserRepository struct {
	createFn                func(ctx context.Context, user *model.User) error
	getByIDFn               func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn            func(ctx context.Context, email string) (*model.User, error)
	existsByUsernameFn      func(ctx context.Context, username string) (bool, error)
	existsByEmailFn         func(ctx context.Context, email string) (bool, error)
	updateUsernameFn        func(ctx context.Context, userID int64, username string) error
	updatePasswordFn        func(ctx context.Context, userID int64, passwordHashed string) error
	updatePasswordByEmailFn func(ctx context.Context, email, passwordHashed string) error
	updateAvatarFn          func(ctx context.Context, userID int64, avatarURL, avatarKey string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = 1
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	if m.updateUsernameFn != nil {
		return m.updateUsernameFn(ctx, userID, username)
	}
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHashed string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHashed)
	}
	return nil
}

func (m *mockUserRepository) UpdatePasswordByEmail(ctx context.Context, email, passwordHashed string) error {
	if m.updatePasswordByEmailFn != nil {
		return m.updatePasswordByEmailFn(ctx, email, passwordHashed)
	}
	return nil
}

func (m *mockUserRepository) UpdateAvatar(ctx context.Context, userID int64, avatarURL, avatarKey string) error {
	if m.updateAvatarFn != nil {
		return m.updateAvatarFn(ctx, userID, avatarURL, avatarKey)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 2592000,
	}
}

// =============================================================================
// REGISTER
// =============================================================================

func TestUserService_Register_Success(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, testConfig())

	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "moviebuff",
		Email:    "Buff@Example.com",
		Password: "securepassword123",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.Username != "moviebuff" {
		t.Errorf("username = %q, want moviebuff", user.Username)
	}
	if user.Email != "buff@example.com" {
		t.Errorf("email = %q, want lowercased buff@example.com", user.Email)
	}
	if user.PasswordHashed == "securepassword123" {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte("securepassword123")); err != nil {
		t.Error("stored hash should verify against the original password")
	}
}

func TestUserService_Register_UsernameTaken(t *testing.T) {
	repo := &mockUserRepository{
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo, testConfig())

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "taken",
		Email:    "a@b.com",
		Password: "pw123456",
	})
	if !errors.Is(err, model.ErrUsernameExists) {
		t.Errorf("err = %v, want ErrUsernameExists", err)
	}
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	repo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo, testConfig())

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "fresh",
		Email:    "taken@b.com",
		Password: "pw123456",
	})
	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("err = %v, want ErrEmailExists", err)
	}
}

func TestUserService_Register_RejectsBadInput(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, testConfig())

	cases := []model.RegisterRequest{
		{Username: "", Email: "a@b.com", Password: "pw123456"},
		{Username: "u", Email: "", Password: "pw123456"},
		{Username: "u", Email: "a@b.com", Password: ""},
		{Username: "u", Email: "not-an-email", Password: "pw123456"},
	}
	for _, req := range cases {
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, model.ErrInvalidCredentials) {
			t.Errorf("Register(%+v) err = %v, want ErrInvalidCredentials", req, err)
		}
	}
}

// =============================================================================
// LOGIN
// =============================================================================

func TestUserService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	repo := &mockUserRepository{
		getByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			if email == "buff@example.com" {
				return &model.User{ID: 1, Username: "moviebuff", Email: email, PasswordHashed: string(hash)}, nil
			}
			return nil, model.ErrUserNotFound
		},
	}
	svc := NewUserService(repo, testConfig())

	user, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "buff@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if user.ID != 1 {
		t.Errorf("user id = %d, want 1", user.ID)
	}

	// Wrong password and unknown email fail the same way
	if _, err := svc.Login(context.Background(), model.LoginRequest{Email: "buff@example.com", Password: "wrong"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), model.LoginRequest{Email: "ghost@example.com", Password: "whatever"}); !errors.Is(err, model.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

// =============================================================================
// UPDATE PROFILE
// =============================================================================

func TestUserService_UpdateProfile_PasswordRequiresCurrent(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
	user := &model.User{ID: 1, Username: "moviebuff", PasswordHashed: string(hash)}
	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return user, nil
		},
	}
	svc := NewUserService(repo, testConfig())

	_, err := svc.UpdateProfile(context.Background(), 1, model.UpdateProfileRequest{
		CurrentPassword: "not-it",
		NewPassword:     "new-password",
	})
	if !errors.Is(err, model.ErrWrongPassword) {
		t.Errorf("err = %v, want ErrWrongPassword", err)
	}
}

func TestUserService_UpdateProfile_RenameChecksUniqueness(t *testing.T) {
	repo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: 1, Username: "moviebuff"}, nil
		},
		existsByUsernameFn: func(ctx context.Context, username string) (bool, error) {
			return username == "taken", nil
		},
	}
	svc := NewUserService(repo, testConfig())

	_, err := svc.UpdateProfile(context.Background(), 1, model.UpdateProfileRequest{Username: "taken"})
	if !errors.Is(err, model.ErrUsernameExists) {
		t.Errorf("err = %v, want ErrUsernameExists", err)
	}

	// Re-submitting the current name is not a rename
	renamed := false
	repo.updateUsernameFn = func(ctx context.Context, userID int64, username string) error {
		renamed = true
		return nil
	}
	if _, err := svc.UpdateProfile(context.Background(), 1, model.UpdateProfileRequest{Username: "moviebuff"}); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if renamed {
		t.Error("same-name update should not touch the store")
	}
}
