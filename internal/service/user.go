package service

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"moviegram/internal/config"
	"moviegram/internal/model"
	"moviegram/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	config   *config.Config
}

func NewUserService(userRepo repository.UserRepository, cfg *config.Config) *UserService {
	return &UserService{userRepo: userRepo, config: cfg}
}

// Register creates a new account. Username and email are both unique;
// whichever collides first decides the error.
func (s *UserService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	if username == "" || email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	usernameTaken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if usernameTaken {
		return nil, model.ErrUsernameExists
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return nil, model.ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHashed: string(hashed),
	}
	if s.config.DefaultAvatarURL != "" {
		user.AvatarURL = &s.config.DefaultAvatarURL
	}
	if s.config.DefaultAvatarKey != "" {
		user.AvatarKey = &s.config.DefaultAvatarKey
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[UserService] Registered user %d (%s)", user.ID, user.Username)
	return user, nil
}

// Login checks the email/password pair. Unknown email and wrong password
// report the same error so the response does not leak which one failed.
func (s *UserService) Login(ctx context.Context, req model.LoginRequest) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if err == model.ErrUserNotFound {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile changes the username and/or password. A password change
// requires re-proving the current password even on an authenticated request.
// Existing comments keep the username they were authored under.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newUsername := strings.TrimSpace(req.Username)
	if newUsername != "" && newUsername != user.Username {
		taken, err := s.userRepo.ExistsByUsername(ctx, newUsername)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if taken {
			return nil, model.ErrUsernameExists
		}
		if err := s.userRepo.UpdateUsername(ctx, userID, newUsername); err != nil {
			return nil, err
		}
		log.Printf("[UserService] User %d renamed %s -> %s", userID, user.Username, newUsername)
	}

	if req.NewPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.CurrentPassword)); err != nil {
			return nil, model.ErrWrongPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
			return nil, err
		}
		log.Printf("[UserService] User %d changed password", userID)
	}

	return s.userRepo.GetByID(ctx, userID)
}

// UpdateAvatar points the user at a newly uploaded avatar object and returns
// the storage key of the replaced one so the caller can clean it up.
func (s *UserService) UpdateAvatar(ctx context.Context, userID int64, avatarURL, avatarKey string) (oldKey string, err error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateAvatar(ctx, userID, avatarURL, avatarKey); err != nil {
		return "", err
	}

	if user.AvatarKey != nil && *user.AvatarKey != s.config.DefaultAvatarKey {
		oldKey = *user.AvatarKey
	}
	return oldKey, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
