package services_test

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"sedorist/internal/models"
	"sedorist/internal/repositories"
	"sedorist/internal/services"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByResetToken(token string) (*models.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) PurgeExpiredResetTokens(now time.Time) error {
	args := m.Called(now)
	return args.Error(0)
}

func (m *MockUserRepository) PurgeStaleGuests(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository is a mock implementation of repositories.SessionRepository.
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(session *models.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByTokenHash(tokenHash string) (*models.Session, error) {
	args := m.Called(tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteByTokenHash(tokenHash string) error {
	args := m.Called(tokenHash)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(now time.Time) error {
	args := m.Called(now)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByUser(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockMailer is a mock implementation of services.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendResetEmail(to, resetURL string) error {
	args := m.Called(to, resetURL)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func newAuthService(users repositories.UserRepository, sessions repositories.SessionRepository,
	items repositories.ItemRepository, mailer services.Mailer) *services.AuthService {
	return services.NewAuthService(users, sessions, items, mailer,
		"http://localhost:8080", 24*time.Hour, time.Hour)
}

func sha256hex(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func expectSweep(mockUsers *MockUserRepository, mockSessions *MockSessionRepository) {
	mockSessions.On("DeleteExpired", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockUsers.On("PurgeExpiredResetTokens", mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockUsers.On("PurgeStaleGuests", mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
}

func TestAuthService_Signup(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionRepository)
	authService := newAuthService(mockUsers, mockSessions, repositories.NewMockItemRepository(), new(MockMailer))

	// Successful signup stores a bcrypt hash, never the plaintext.
	mockUsers.On("GetByUsername", "alice").Return(nil, models.ErrNotFound).Once()
	mockUsers.On("GetByEmail", "alice@x.com").Return(nil, models.ErrNotFound).Once()
	mockUsers.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	user, err := authService.Signup("alice", "alice@x.com", "pw123")
	assert.NoError(t, err)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw123")))
	mockUsers.AssertExpectations(t)

	// A second signup reusing the email fails with a conflict.
	mockUsers.On("GetByUsername", "bob").Return(nil, models.ErrNotFound).Once()
	mockUsers.On("GetByEmail", "alice@x.com").Return(&models.User{ID: 1}, nil).Once()

	_, err = authService.Signup("bob", "alice@x.com", "pw456")
	assert.ErrorIs(t, err, models.ErrConflict)
	mockUsers.AssertExpectations(t)

	// Same for a taken username.
	mockUsers.On("GetByUsername", "alice").Return(&models.User{ID: 1}, nil).Once()

	_, err = authService.Signup("alice", "other@x.com", "pw456")
	assert.ErrorIs(t, err, models.ErrConflict)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionRepository)
	authService := newAuthService(mockUsers, mockSessions, repositories.NewMockItemRepository(), new(MockMailer))

	hashed, _ := bcrypt.GenerateFromPassword([]byte("pw123"), bcrypt.DefaultCost)
	user := &models.User{ID: 7, Username: "alice", Email: "alice@x.com", PasswordHash: string(hashed)}

	// Successful login opens a session whose stored hash is not the raw token.
	mockUsers.On("GetByEmail", "alice@x.com").Return(user, nil).Once()
	expectSweep(mockUsers, mockSessions)
	var created *models.Session
	mockSessions.On("Create", mock.AnythingOfType("*models.Session")).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*models.Session)
		}).Return(nil).Once()

	loggedIn, token, err := authService.Login("alice@x.com", "pw123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, token, created.TokenHash)
	assert.Equal(t, sha256hex(token), created.TokenHash)
	assert.Equal(t, user.ID, created.UserID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), created.ExpiresAt, time.Minute)
	mockUsers.AssertExpectations(t)
	mockSessions.AssertExpectations(t)

	// A wrong password and an unknown email are indistinguishable.
	mockUsers.On("GetByEmail", "alice@x.com").Return(user, nil).Once()
	_, _, errWrongPassword := authService.Login("alice@x.com", "wrong")

	mockUsers.On("GetByEmail", "nobody@x.com").Return(nil, models.ErrNotFound).Once()
	_, _, errUnknownUser := authService.Login("nobody@x.com", "wrong")

	assert.ErrorIs(t, errWrongPassword, models.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownUser, models.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownUser.Error())
	mockUsers.AssertExpectations(t)
}

func TestAuthService_ValidateSession(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionRepository)
	authService := newAuthService(mockUsers, mockSessions, repositories.NewMockItemRepository(), new(MockMailer))

	user := &models.User{ID: 7, Username: "alice", Email: "alice@x.com"}
	rawToken := "some-raw-token"
	tokenHash := sha256hex(rawToken)

	// Valid session resolves to its user.
	mockSessions.On("GetByTokenHash", tokenHash).Return(&models.Session{
		ID: 1, TokenHash: tokenHash, UserID: 7, ExpiresAt: time.Now().Add(time.Hour),
	}, nil).Once()
	mockUsers.On("GetByID", uint(7)).Return(user, nil).Once()

	resolved, err := authService.ValidateSession(rawToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	// Expired session is rejected and purged on sight.
	mockSessions.On("GetByTokenHash", tokenHash).Return(&models.Session{
		ID: 1, TokenHash: tokenHash, UserID: 7, ExpiresAt: time.Now().Add(-time.Second),
	}, nil).Once()
	mockSessions.On("DeleteByTokenHash", tokenHash).Return(nil).Once()

	_, err = authService.ValidateSession(rawToken)
	assert.ErrorIs(t, err, models.ErrSessionInvalid)

	// Unknown token.
	mockSessions.On("GetByTokenHash", mock.Anything).Return(nil, models.ErrNotFound).Once()
	_, err = authService.ValidateSession("bogus")
	assert.ErrorIs(t, err, models.ErrSessionInvalid)

	// Empty token short-circuits.
	_, err = authService.ValidateSession("")
	assert.ErrorIs(t, err, models.ErrSessionInvalid)

	mockSessions.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_RequestPasswordReset(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionRepository)
	mockMailer := new(MockMailer)
	authService := newAuthService(mockUsers, mockSessions, repositories.NewMockItemRepository(), mockMailer)

	user := &models.User{ID: 7, Username: "alice", Email: "alice@x.com"}

	// Known email: token stored, link mailed.
	mockUsers.On("GetByEmail", "alice@x.com").Return(user, nil).Once()
	mockUsers.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendResetEmail", "alice@x.com", mock.MatchedBy(func(url string) bool {
		return strings.HasPrefix(url, "http://localhost:8080/?token=")
	})).Return(nil).Once()

	err := authService.RequestPasswordReset("alice@x.com")
	assert.NoError(t, err)
	assert.NotNil(t, user.ResetToken)
	assert.NotNil(t, user.ResetTokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *user.ResetTokenExpiresAt, time.Minute)
	mockMailer.AssertExpectations(t)

	// Unknown email: same success-shaped result, no mail sent.
	mockUsers.On("GetByEmail", "nobody@x.com").Return(nil, models.ErrNotFound).Once()
	err = authService.RequestPasswordReset("nobody@x.com")
	assert.NoError(t, err)
	mockMailer.AssertNumberOfCalls(t, "SendResetEmail", 1)

	// Mail failure is swallowed too, to keep the response shape identical.
	mockUsers.On("GetByEmail", "alice@x.com").Return(user, nil).Once()
	mockUsers.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockMailer.On("SendResetEmail", "alice@x.com", mock.Anything).
		Return(models.ErrMailSend).Once()

	err = authService.RequestPasswordReset("alice@x.com")
	assert.NoError(t, err)
	mockUsers.AssertExpectations(t)
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionRepository)
	authService := newAuthService(mockUsers, mockSessions, repositories.NewMockItemRepository(), new(MockMailer))

	token := "reset-token-123"
	expiresAt := time.Now().Add(30 * time.Minute)
	oldHash, _ := bcrypt.GenerateFromPassword([]byte("oldpw"), bcrypt.DefaultCost)
	user := &models.User{
		ID: 7, Email: "alice@x.com", PasswordHash: string(oldHash),
		ResetToken: &token, ResetTokenExpiresAt: &expiresAt,
	}

	// Valid token: password replaced, token cleared, sessions revoked.
	mockUsers.On("GetByResetToken", token).Return(user, nil).Once()
	mockUsers.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockSessions.On("DeleteByUser", uint(7)).Return(nil).Once()

	err := authService.ConfirmPasswordReset(token, "newpw123")
	assert.NoError(t, err)
	assert.Nil(t, user.ResetToken)
	assert.Nil(t, user.ResetTokenExpiresAt)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("newpw123")))
	mockSessions.AssertExpectations(t)

	// Consumed token cannot be reused: the row no longer matches.
	mockUsers.On("GetByResetToken", token).Return(nil, models.ErrNotFound).Once()
	err = authService.ConfirmPasswordReset(token, "again")
	assert.ErrorIs(t, err, models.ErrResetTokenInvalid)

	// Expired token is rejected.
	expired := time.Now().Add(-time.Minute)
	staleUser := &models.User{ID: 8, ResetToken: &token, ResetTokenExpiresAt: &expired}
	mockUsers.On("GetByResetToken", token).Return(staleUser, nil).Once()
	err = authService.ConfirmPasswordReset(token, "newpw123")
	assert.ErrorIs(t, err, models.ErrResetTokenInvalid)

	mockUsers.AssertExpectations(t)
}

func TestAuthService_GuestLogin(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockSessions := new(MockSessionRepository)
	itemRepo := repositories.NewMockItemRepository()
	authService := newAuthService(mockUsers, mockSessions, itemRepo, new(MockMailer))

	mockUsers.On("GetByUsername", mock.Anything).Return(nil, models.ErrNotFound).Once()
	mockUsers.On("GetByEmail", mock.Anything).Return(nil, models.ErrNotFound).Once()
	mockUsers.On("Create", mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.User).ID = 42
		}).Return(nil).Once()
	mockSessions.On("Create", mock.AnythingOfType("*models.Session")).Return(nil).Once()

	user, token, err := authService.GuestLogin()
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, strings.HasPrefix(user.Username, "Guest_"))
	assert.True(t, strings.HasPrefix(user.Email, "guest_"))
	assert.True(t, strings.HasSuffix(user.Email, "@example.com"))
	assert.True(t, user.IsGuest())

	// A fresh guest gets sample inventory to play with.
	items, err := itemRepo.ListByUser(42)
	assert.NoError(t, err)
	assert.Len(t, items, 3)

	mockUsers.AssertExpectations(t)
	mockSessions.AssertExpectations(t)
}
