package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rukshanyomal11/CeylonHomes/internal/domain/enums"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/model"
	"github.com/rukshanyomal11/CeylonHomes/internal/domain/rules"
	pgrepo "github.com/rukshanyomal11/CeylonHomes/internal/repo/postgres"
)

type stubUserStore struct {
	byEmail map[string]model.User
	nextID  int64
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: map[string]model.User{}, nextID: 1}
}

func (s *stubUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	if _, ok := s.byEmail[user.Email]; ok {
		return model.User{}, pgrepo.ErrEmailTaken
	}
	for _, u := range s.byEmail {
		if u.Phone == user.Phone {
			return model.User{}, pgrepo.ErrPhoneTaken
		}
	}
	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.byEmail[user.Email] = user
	return user, nil
}

func (s *stubUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return user, nil
}

func (s *stubUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, pgrepo.ErrUserNotFound
}

func (s *stubUserStore) UpdateProfile(_ context.Context, id int64, name, phone string) error {
	for email, u := range s.byEmail {
		if u.ID == id {
			u.Name = name
			u.Phone = phone
			s.byEmail[email] = u
			return nil
		}
	}
	return pgrepo.ErrUserNotFound
}

func (s *stubUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	for email, u := range s.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			s.byEmail[email] = u
			return nil
		}
	}
	return pgrepo.ErrUserNotFound
}

type stubSessionStore struct {
	sessions  map[string]SessionRecord
	byRefresh map[string]string
	deletes   int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: map[string]SessionRecord{}, byRefresh: map[string]string{}}
}

func (s *stubSessionStore) Create(_ context.Context, session SessionRecord, refreshToken string) error {
	s.sessions[session.SID] = session
	s.byRefresh[refreshToken] = session.SID
	return nil
}

func (s *stubSessionStore) GetSession(_ context.Context, sid string) (SessionRecord, error) {
	session, ok := s.sessions[sid]
	if !ok {
		return SessionRecord{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *stubSessionStore) GetByRefreshToken(_ context.Context, refreshToken string) (SessionRecord, error) {
	sid, ok := s.byRefresh[refreshToken]
	if !ok {
		return SessionRecord{}, ErrRefreshNotFound
	}
	return s.sessions[sid], nil
}

func (s *stubSessionStore) RotateRefresh(_ context.Context, sid, oldToken, newToken string, expiresAt time.Time) error {
	if _, ok := s.byRefresh[oldToken]; !ok {
		return ErrRefreshNotFound
	}
	delete(s.byRefresh, oldToken)
	s.byRefresh[newToken] = sid
	session := s.sessions[sid]
	session.ExpiresAt = expiresAt
	s.sessions[sid] = session
	return nil
}

func (s *stubSessionStore) DeleteSession(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	s.deletes++
	return nil
}

func (s *stubSessionStore) DeleteAllForUser(_ context.Context, userID int64) error {
	for sid, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, sid)
			s.deletes++
		}
	}
	return nil
}

type stubCodeStore struct {
	codes map[string]string
}

func newStubCodeStore() *stubCodeStore {
	return &stubCodeStore{codes: map[string]string{}}
}

func (s *stubCodeStore) Set(_ context.Context, email, code string) error {
	s.codes[email] = code
	return nil
}

func (s *stubCodeStore) Consume(_ context.Context, email, code string) error {
	stored, ok := s.codes[email]
	if !ok || stored != code {
		return ErrCodeInvalid
	}
	delete(s.codes, email)
	return nil
}

type capturedMail struct {
	to      string
	subject string
	body    string
}

type stubMailer struct {
	sent []capturedMail
}

func (m *stubMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, capturedMail{to: to, subject: subject, body: body})
	return nil
}

func newTestService() (*Service, *stubUserStore, *stubSessionStore, *stubCodeStore, *stubMailer) {
	users := newStubUserStore()
	sessions := newStubSessionStore()
	codes := newStubCodeStore()
	mailer := &stubMailer{}
	jwt := NewJWTManager("test-secret", 15*time.Minute)
	svc := NewService(jwt, sessions, users, codes, mailer, 30*24*time.Hour)
	return svc, users, sessions, codes, mailer
}

func register(t *testing.T, svc *Service) AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ruwan Perera",
		Email:    "ruwan@example.com",
		Phone:    "0771234567",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return result
}

func TestRegisterDefaultsToSellerRole(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	result := register(t, svc)

	if result.User.Role != enums.RoleSeller {
		t.Fatalf("unexpected role: got %s want %s", result.User.Role, enums.RoleSeller)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected tokens in register result")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, users, _, _, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ruwan Perera",
		Email:    "ruwan@example.com",
		Phone:    "0771234567",
		Password: "abcde",
	})
	if !errors.Is(err, rules.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Password must be at least 6 characters" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if len(users.byEmail) != 0 {
		t.Fatal("user must not be created on validation failure")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	register(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Other Seller",
		Email:    "ruwan@example.com",
		Phone:    "0719876543",
		Password: "secret2",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterNormalizesPhone(t *testing.T) {
	svc, users, _, _, _ := newTestService()

	result, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ruwan Perera",
		Email:    "ruwan@example.com",
		Phone:    "+94771234567",
		Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if result.User.Phone != "0771234567" {
		t.Fatalf("expected leading-0 form, got %q", result.User.Phone)
	}

	// the same number in another accepted form is a duplicate
	_, err = svc.Register(context.Background(), RegisterInput{
		Name:     "Other Seller",
		Email:    "other@example.com",
		Phone:    "94771234567",
		Password: "secret2",
	})
	if !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("expected ErrPhoneTaken, got %v", err)
	}
	if len(users.byEmail) != 1 {
		t.Fatalf("expected one user, got %d", len(users.byEmail))
	}
}

func TestLoginErrors(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	register(t, svc)

	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret1"); !errors.Is(err, ErrEmailNotRegistered) {
		t.Fatalf("expected ErrEmailNotRegistered, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ruwan@example.com", "wrong-pass"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ruwan@example.com", "secret1"); err != nil {
		t.Fatalf("expected login success, got %v", err)
	}
}

func TestValidateAccessToken(t *testing.T) {
	svc, _, sessions, _, _ := newTestService()
	result := register(t, svc)

	claims, err := svc.ValidateAccessToken(context.Background(), result.AccessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Role != string(enums.RoleSeller) {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if err := svc.Logout(context.Background(), claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sessions.deletes != 1 {
		t.Fatalf("expected one deleted session, got %d", sessions.deletes)
	}
	if _, err := svc.ValidateAccessToken(context.Background(), result.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	result := register(t, svc)

	refreshed, err := svc.Refresh(context.Background(), result.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == result.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	if _, err := svc.Refresh(context.Background(), result.RefreshToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected old refresh token to be rejected, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, sessions, codes, mailer := newTestService()
	svc.newCode = func() (string, error) { return "123456", nil }
	register(t, svc)

	if err := svc.ForgotPassword(context.Background(), "ruwan@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "ruwan@example.com" {
		t.Fatalf("expected one mail to the account owner, got %+v", mailer.sent)
	}
	if codes.codes["ruwan@example.com"] != "123456" {
		t.Fatalf("expected stored code, got %q", codes.codes["ruwan@example.com"])
	}

	err := svc.ResetPassword(context.Background(), "ruwan@example.com", "123456", "short")
	if !errors.Is(err, rules.ErrValidation) {
		t.Fatalf("expected validation error for short reset password, got %v", err)
	}

	err = svc.ResetPassword(context.Background(), "ruwan@example.com", "654321", "newsecret1")
	if !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid, got %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "ruwan@example.com", "123456", "newsecret1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	// code is single use
	err = svc.ResetPassword(context.Background(), "ruwan@example.com", "123456", "othersecret1")
	if !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected consumed code to be rejected, got %v", err)
	}

	if len(sessions.sessions) != 0 {
		t.Fatalf("expected sessions revoked after reset, got %d", len(sessions.sessions))
	}
	if _, err := svc.Login(context.Background(), "ruwan@example.com", "secret1"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ruwan@example.com", "newsecret1"); err != nil {
		t.Fatalf("new password should work, got %v", err)
	}
}

func TestUpdateProfileNormalizesPhone(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	result := register(t, svc)

	user, err := svc.UpdateProfile(context.Background(), result.User.ID, "Ruwan P", "+94719876543")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Phone != "0719876543" {
		t.Fatalf("expected leading-0 form, got %q", user.Phone)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _, _, mailer := newTestService()

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrEmailNotRegistered) {
		t.Fatalf("expected ErrEmailNotRegistered, got %v", err)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("no mail should be sent for an unknown address")
	}
}
