package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

// NewResetCode returns a random 6-digit verification code.
func NewResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ForgotPassword issues a verification code and mails it to the
// account owner.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if err := rules.ValidateEmail(email); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrEmailNotRegistered
		}
		return fmt.Errorf("find user for password reset: %w", err)
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}
	if err := s.codes.Set(ctx, user.Email, code); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nYour CeylonHomes verification code is %s. It expires in 10 minutes.\n\nIf you did not request a password reset, you can ignore this message.", user.Name, code)
	if err := s.mailer.Send(user.Email, "CeylonHomes password reset", body); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}

	return nil
}

// ResetPassword checks the verification code, replaces the password
// and revokes every open session for the account.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := rules.ValidateResetCode(strings.TrimSpace(code)); err != nil {
		return err
	}
	if err := rules.ValidateResetPassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return ErrEmailNotRegistered
		}
		return fmt.Errorf("find user for password reset: %w", err)
	}

	if err := s.codes.Consume(ctx, user.Email, strings.TrimSpace(code)); err != nil {
		if errors.Is(err, ErrCodeInvalid) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("consume reset code: %w", err)
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
		return fmt.Errorf("revoke sessions after reset: %w", err)
	}

	return nil
}
