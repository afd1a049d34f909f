package auth

import (
	"errors"
	"time"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionNotFound    = errors.New("session not found")
	ErrRefreshNotFound    = errors.New("refresh token not found")
	ErrEmailNotRegistered = errors.New("Email not registered")
	ErrWrongPassword      = errors.New("Wrong password")
	ErrEmailTaken         = errors.New("Email already registered")
	ErrPhoneTaken         = errors.New("Phone already registered")
	ErrCodeInvalid        = errors.New("Invalid or expired verification code")
)

type SessionRecord struct {
	SID       string
	UserID    int64
	Role      string
	Email     string
	ExpiresAt time.Time
}

type AccessClaims struct {
	UserID    int64
	SID       string
	Role      string
	ExpiresAt time.Time
}

type AuthResult struct {
	AccessToken   string
	RefreshToken  string
	AccessExpires time.Time
	User          model.User
}
