package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"sedorist/internal/models"
	"sedorist/internal/repositories"
)

// Mailer is the outbound mail boundary used by the password-reset flow.
type Mailer interface {
	SendResetEmail(to, resetURL string) error
}

// AuthService handles signup, login, session and password-reset logic.
type AuthService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	items    repositories.ItemRepository
	mailer   Mailer

	appURL     string
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// Guest accounts live this long before the login sweep removes them.
const guestLifetime = 24 * time.Hour

// NewAuthService creates a new AuthService. items is needed only to seed
// sample inventory for guest accounts.
func NewAuthService(
	users repositories.UserRepository,
	sessions repositories.SessionRepository,
	items repositories.ItemRepository,
	mailer Mailer,
	appURL string,
	sessionTTL, resetTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		items:      items,
		mailer:     mailer,
		appURL:     strings.TrimRight(appURL, "/"),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// newRawToken returns 32 bytes of cryptographic randomness, URL-safe encoded.
func newRawToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// hashToken derives the storable digest of a raw session token.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Signup registers a new user with a bcrypt-hashed password. Duplicate
// username or email surfaces as models.ErrConflict.
func (s *AuthService) Signup(username, email, password string) (*models.User, error) {
	if existing, err := s.users.GetByUsername(username); err == nil && existing != nil {
		return nil, fmt.Errorf("username %q: %w", username, models.ErrConflict)
	}
	if existing, err := s.users.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %q: %w", email, models.ErrConflict)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by email and password and, on success, opens a new
// session and returns its raw token. An unknown email and a wrong password
// are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, "", models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrInvalidCredentials
	}

	// Someone logging in is the housekeeping trigger: no cron, no background
	// workers. Sweep failures never block the login itself.
	s.sweep()

	token, err := s.openSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// openSession creates a session row with a fresh token and returns the raw
// token. Only the SHA-256 digest is stored.
func (s *AuthService) openSession(userID uint) (string, error) {
	raw, err := newRawToken()
	if err != nil {
		return "", err
	}
	session := &models.Session{
		TokenHash: hashToken(raw),
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(session); err != nil {
		return "", err
	}
	return raw, nil
}

// sweep lazily removes expired sessions, expired reset tokens and stale
// guest accounts.
func (s *AuthService) sweep() {
	now := time.Now()
	if err := s.sessions.DeleteExpired(now); err != nil {
		logrus.WithError(err).Warn("failed to sweep expired sessions")
	}
	if err := s.users.PurgeExpiredResetTokens(now); err != nil {
		logrus.WithError(err).Warn("failed to sweep expired reset tokens")
	}
	removed, err := s.users.PurgeStaleGuests(now.Add(-guestLifetime))
	if err != nil {
		logrus.WithError(err).Warn("failed to sweep stale guest accounts")
	} else if removed > 0 {
		logrus.Infof("removed %d stale guest account(s)", removed)
	}
}

// ValidateSession resolves a raw token to its user. Expired sessions are
// deleted on sight and reported as invalid.
func (s *AuthService) ValidateSession(rawToken string) (*models.User, error) {
	if rawToken == "" {
		return nil, models.ErrSessionInvalid
	}
	session, err := s.sessions.GetByTokenHash(hashToken(rawToken))
	if err != nil {
		return nil, models.ErrSessionInvalid
	}
	if session.Expired(time.Now()) {
		if err := s.sessions.DeleteByTokenHash(session.TokenHash); err != nil {
			logrus.WithError(err).Warn("failed to delete expired session")
		}
		return nil, models.ErrSessionInvalid
	}
	user, err := s.users.GetByID(session.UserID)
	if err != nil {
		return nil, models.ErrSessionInvalid
	}
	return user, nil
}

// Logout deletes the session for the raw token. Logging out twice is fine.
func (s *AuthService) Logout(rawToken string) error {
	if rawToken == "" {
		return nil
	}
	return s.sessions.DeleteByTokenHash(hashToken(rawToken))
}

// GuestLogin creates a throwaway Guest_xxxxxxxx account with a few sample
// items and logs it in. Guests are purged 24 hours after creation by the
// login sweep.
func (s *AuthService) GuestLogin() (*models.User, string, error) {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	password, err := newRawToken()
	if err != nil {
		return nil, "", err
	}

	user, err := s.Signup(
		"Guest_"+suffix,
		"guest_"+suffix+"@example.com",
		password,
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create guest account: %w", err)
	}

	s.seedSampleItems(user.ID)

	token, err := s.openSession(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// seedSampleItems gives a fresh guest something to look at. Failures are
// logged only; an empty inventory is not worth failing the login over.
func (s *AuthService) seedSampleItems(userID uint) {
	samples := []models.Item{
		{UserID: userID, Name: "Sample: Wireless Earbuds", Price: 4980, Shop: "Hard-Off Shibuya", Quantity: 2, Memo: "Sells for around 7,500 online"},
		{UserID: userID, Name: "Sample: Retro Game Console", Price: 2200, Shop: "Book-Off Ueno", Quantity: 1, Memo: "Boxed, good condition"},
		{UserID: userID, Name: "Sample: Figure (limited)", Price: 1800, Shop: "Flea market", Quantity: 3, Memo: ""},
	}
	for i := range samples {
		if err := s.items.Create(&samples[i]); err != nil {
			logrus.WithError(err).Warn("failed to seed guest sample item")
			return
		}
	}
}

// RequestPasswordReset issues a reset token for the account and mails the
// reset link. The response shape is identical whether or not the email is
// known and whether or not the mail went out, so the endpoint cannot be used
// to enumerate accounts.
func (s *AuthService) RequestPasswordReset(email string) error {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		logrus.WithField("email", email).Debug("password reset requested for unknown email")
		return nil
	}

	token, err := newRawToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(s.resetTTL)
	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiresAt
	if err := s.users.Update(user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/?token=%s", s.appURL, token)
	if err := s.mailer.SendResetEmail(user.Email, resetURL); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).
			Error("failed to send password reset email")
	}
	return nil
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
// The token is single-use: it is cleared on success, and every open session
// of the user is revoked.
func (s *AuthService) ConfirmPasswordReset(token, newPassword string) error {
	if token == "" {
		return models.ErrResetTokenInvalid
	}
	user, err := s.users.GetByResetToken(token)
	if err != nil {
		return models.ErrResetTokenInvalid
	}
	if user.ResetTokenExpiresAt == nil || !time.Now().Before(*user.ResetTokenExpiresAt) {
		return models.ErrResetTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil
	if err := s.users.Update(user); err != nil {
		return err
	}

	if err := s.sessions.DeleteByUser(user.ID); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).
			Warn("failed to revoke sessions after password reset")
	}
	return nil
}
