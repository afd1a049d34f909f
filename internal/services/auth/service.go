package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

const (
	MinRefreshTTL = 24 * time.Hour
	MaxRefreshTTL = 90 * 24 * time.Hour
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord, refreshToken string) error
	GetSession(ctx context.Context, sid string) (SessionRecord, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (SessionRecord, error)
	RotateRefresh(ctx context.Context, sid, oldRefreshToken, newRefreshToken string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type UserStore interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	UpdateProfile(ctx context.Context, id int64, name, phone string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// ResetCodeStore keeps one pending password reset code per email.
// Consume removes the code so it can be used at most once.
type ResetCodeStore interface {
	Set(ctx context.Context, email, code string) error
	Consume(ctx context.Context, email, code string) error
}

type Mailer interface {
	Send(to, subject, body string) error
}

type Service struct {
	jwt        *JWTManager
	sessions   SessionStore
	users      UserStore
	codes      ResetCodeStore
	mailer     Mailer
	refreshTTL time.Duration
	now        func() time.Time
	newCode    func() (string, error)
}

func NewService(jwtManager *JWTManager, sessions SessionStore, users UserStore, codes ResetCodeStore, mailer Mailer, refreshTTL time.Duration) *Service {
	if refreshTTL < MinRefreshTTL {
		refreshTTL = MinRefreshTTL
	}
	if refreshTTL > MaxRefreshTTL {
		refreshTTL = MaxRefreshTTL
	}

	return &Service{
		jwt:        jwtManager,
		sessions:   sessions,
		users:      users,
		codes:      codes,
		mailer:     mailer,
		refreshTTL: refreshTTL,
		now:        time.Now,
		newCode:    NewResetCode,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Register creates a seller account and opens a session for it.
func (s *Service) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	if err := rules.ValidateName(input.Name); err != nil {
		return AuthResult{}, err
	}
	if err := rules.ValidateEmail(input.Email); err != nil {
		return AuthResult{}, err
	}
	if err := rules.ValidateUserPhone(input.Phone); err != nil {
		return AuthResult{}, err
	}
	if err := rules.ValidateRegisterPassword(input.Password); err != nil {
		return AuthResult{}, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        rules.NormalizePhone(input.Phone),
		Role:         enums.RoleSeller,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return AuthResult{}, ErrEmailTaken
		}
		if errors.Is(err, pgrepo.ErrPhoneTaken) {
			return AuthResult{}, ErrPhoneTaken
		}
		return AuthResult{}, fmt.Errorf("register user: %w", err)
	}

	return s.issueForUser(ctx, user)
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthResult{}, ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return AuthResult{}, ErrEmailNotRegistered
		}
		return AuthResult{}, fmt.Errorf("find user for login: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		return AuthResult{}, ErrWrongPassword
	}

	return s.issueForUser(ctx, user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return AuthResult{}, ErrInvalidInput
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("get refresh token session: %w", err)
	}
	if s.now().After(session.ExpiresAt) {
		return AuthResult{}, ErrUnauthorized
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("find user for refresh: %w", err)
	}

	newRefreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	newExpiresAt := s.now().Add(s.refreshTTL)
	if err := s.sessions.RotateRefresh(ctx, session.SID, refreshToken, newRefreshToken, newExpiresAt); err != nil {
		if errors.Is(err, ErrRefreshNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, session.SID, string(user.Role))
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  newRefreshToken,
		AccessExpires: accessExpires,
		User:          user,
	}, nil
}

// EnsureAdmin creates the bootstrap administrator account if it does
// not exist yet. An empty email disables seeding.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, phone, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgrepo.ErrUserNotFound) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = s.users.Create(ctx, model.User{
		Name:         name,
		Email:        email,
		Phone:        rules.NormalizePhone(phone),
		Role:         enums.RoleAdmin,
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	return nil
}

// Me returns the account behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID int64) (model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the account's display name and phone.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, name, phone string) (model.User, error) {
	if err := rules.ValidateName(name); err != nil {
		return model.User{}, err
	}
	if err := rules.ValidateUserPhone(phone); err != nil {
		return model.User{}, err
	}

	if err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(name), rules.NormalizePhone(phone)); err != nil {
		if errors.Is(err, pgrepo.ErrPhoneTaken) {
			return model.User{}, ErrPhoneTaken
		}
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrUnauthorized
		}
		return model.User{}, fmt.Errorf("update profile: %w", err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("reload user after profile update: %w", err)
	}
	return user, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.DeleteSession(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) ValidateAccessToken(ctx context.Context, accessToken string) (AccessClaims, error) {
	claims, err := s.jwt.ParseAccessToken(accessToken)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, fmt.Errorf("get session: %w", err)
	}

	if session.UserID != claims.UserID || session.Role != claims.Role {
		return AccessClaims{}, ErrUnauthorized
	}
	if s.now().After(session.ExpiresAt) {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

func (s *Service) issueForUser(ctx context.Context, user model.User) (AuthResult, error) {
	sessionID, err := NewSessionID()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate session id: %w", err)
	}
	refreshToken, err := NewRefreshToken()
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate refresh token: %w", err)
	}

	sessionExpiresAt := s.now().Add(s.refreshTTL)
	session := SessionRecord{
		SID:       sessionID,
		UserID:    user.ID,
		Role:      string(user.Role),
		Email:     user.Email,
		ExpiresAt: sessionExpiresAt,
	}
	if err := s.sessions.Create(ctx, session, refreshToken); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	accessToken, accessExpires, err := s.jwt.GenerateAccessToken(user.ID, sessionID, string(user.Role))
	if err != nil {
		return AuthResult{}, fmt.Errorf("generate access token: %w", err)
	}

	return AuthResult{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpires: accessExpires,
		User:          user,
	}, nil
}
