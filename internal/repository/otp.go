package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"moviegram/internal/model"
)

type otpRepository struct {
	db *sqlx.DB
}

func NewOTPRepository(db *sqlx.DB) OTPRepository {
	return &otpRepository{db: db}
}

// Replace deletes any earlier codes for the email and stores the new one, so
// only the most recently mailed code is ever valid. Both statements run in a
// transaction to avoid a window with no valid code after a resend.
func (r *otpRepository) Replace(ctx context.Context, otp *model.PasswordOTP) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM password_otps WHERE email = $1`, otp.Email); err != nil {
		return fmt.Errorf("delete old otps: %w", err)
	}

	err = tx.QueryRowxContext(ctx, `
		INSERT INTO password_otps (email, code, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, otp.Email, otp.Code, otp.ExpiresAt).Scan(&otp.ID, &otp.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert otp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Find looks up a code for an email. Expiry is checked by the caller so the
// error can distinguish a wrong code from a stale one.
func (r *otpRepository) Find(ctx context.Context, email, code string) (*model.PasswordOTP, error) {
	query := `
		SELECT id, email, code, expires_at, created_at
		FROM password_otps
		WHERE email = $1 AND code = $2
	`

	var otp model.PasswordOTP
	err := r.db.GetContext(ctx, &otp, query, email, code)
	if err == sql.ErrNoRows {
		return nil, model.ErrOTPInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("find otp: %w", err)
	}

	return &otp, nil
}

// DeleteByEmail removes every code for the email, called once a reset lands.
func (r *otpRepository) DeleteByEmail(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_otps WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete otps: %w", err)
	}
	return nil
}
