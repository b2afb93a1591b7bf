package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"

	"moviegram/internal/model"
	"moviegram/internal/repository"
)

// OTPMailer delivers password-reset codes. Satisfied by mailer.Mailer.
type OTPMailer interface {
	SendOTP(to, code string) error
}

// OTPService runs the email-based password reset flow: send a 6-digit code,
// verify it, then accept a new password and burn the code.
type OTPService struct {
	otpRepo          repository.OTPRepository
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	mailer           OTPMailer
}

func NewOTPService(
	otpRepo repository.OTPRepository,
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	mailer OTPMailer,
) *OTPService {
	return &OTPService{
		otpRepo:          otpRepo,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		mailer:           mailer,
	}
}

// SendOTP generates a fresh code for the email and mails it. Requesting a new
// code invalidates any earlier one for the same address. The response does not
// reveal whether the email has an account; CheckEmail exists for that.
func (s *OTPService) SendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return model.ErrEmailRequired
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	otp := &model.PasswordOTP{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().Add(model.OTPTTL),
	}
	if err := s.otpRepo.Replace(ctx, otp); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}

	log.Printf("[OTPService] Sent reset code to %s", email)
	return nil
}

// VerifyOTP checks the code without consuming it, so the client can gate the
// new-password screen before submitting the reset.
func (s *OTPService) VerifyOTP(ctx context.Context, email, code string) error {
	_, err := s.findValid(ctx, normalizeEmail(email), code)
	return err
}

// ResetPassword sets a new password for the email if the code checks out.
// The code is single-use: it is deleted on success, and every refresh token
// the account holds gets revoked.
func (s *OTPService) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if req.NewPassword == "" {
		return model.ErrInvalidCredentials
	}

	if _, err := s.findValid(ctx, email, req.OTP); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePasswordByEmail(ctx, email, string(hashed)); err != nil {
		return err
	}

	if err := s.otpRepo.DeleteByEmail(ctx, email); err != nil {
		log.Printf("[OTPService] Failed to burn otp for %s: %v", email, err)
	}
	if err := s.refreshTokenRepo.RevokeAllForUser(ctx, user.ID); err != nil {
		log.Printf("[OTPService] Failed to revoke sessions for user %d: %v", user.ID, err)
	}

	log.Printf("[OTPService] Password reset for user %d", user.ID)
	return nil
}

// CheckEmail reports whether an account exists for the address.
func (s *OTPService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, model.ErrEmailRequired
	}
	return s.userRepo.ExistsByEmail(ctx, email)
}

func (s *OTPService) findValid(ctx context.Context, email, code string) (*model.PasswordOTP, error) {
	if email == "" {
		return nil, model.ErrEmailRequired
	}

	otp, err := s.otpRepo.Find(ctx, email, code)
	if err != nil {
		return nil, err // ErrOTPInvalid or wrapped error
	}
	if otp.IsExpired() {
		return nil, model.ErrOTPExpired
	}
	return otp, nil
}

func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
