package model

import (
	"errors"
	"time"
)

// OTPTTL is how long a password-reset code stays valid.
const OTPTTL = 5 * time.Minute

// PasswordOTP is a one-time password-reset code sent by email.
type PasswordOTP struct {
	ID        int64     `db:"id" json:"-"`
	Email     string    `db:"email" json:"email"`
	Code      string    `db:"code" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsExpired returns true once the code has passed its expiry.
func (o *PasswordOTP) IsExpired() bool {
	return time.Now().After(o.ExpiresAt)
}

// SendOTPRequest is the request body for POST /auth/send-otp.
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest is the request body for POST /auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResetPasswordRequest is the request body for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

// CheckEmailRequest is the request body for POST /auth/check-email.
type CheckEmailRequest struct {
	Email string `json:"email"`
}

// CheckEmailResponse reports whether an email has an account.
type CheckEmailResponse struct {
	Exists bool `json:"exists"`
}

// OTP errors
var (
	ErrOTPInvalid    = errors.New("otp code is incorrect")
	ErrOTPExpired    = errors.New("otp code has expired")
	ErrEmailRequired = errors.New("email is required")
)
