package services

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"sedorist/internal/models"
	"sedorist/internal/repositories"
)

// AccountService handles profile changes and account withdrawal.
type AccountService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
}

// NewAccountService creates a new AccountService.
func NewAccountService(users repositories.UserRepository, sessions repositories.SessionRepository) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
	}
}

// GetProfile returns the user's account data.
func (s *AccountService) GetProfile(userID uint) (*models.User, error) {
	return s.users.GetByID(userID)
}

// UpdateUsername changes the display name. A name already taken by another
// account surfaces as models.ErrConflict.
func (s *AccountService) UpdateUsername(userID uint, newUsername string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Username == newUsername {
		return nil
	}
	user.Username = newUsername
	return s.users.Update(user)
}

// UpdateEmail changes the login email. An address already registered by
// another account surfaces as models.ErrConflict.
func (s *AccountService) UpdateEmail(userID uint, newEmail string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user.Email == newEmail {
		return nil
	}
	user.Email = newEmail
	return s.users.Update(user)
}

// ChangePassword verifies the current password and stores a new hash.
// A wrong current password surfaces as models.ErrInvalidCredentials.
func (s *AccountService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return models.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	return s.users.Update(user)
}

// Withdraw deletes the account. Items and sessions of the user go with it;
// nobody else's rows are touched.
func (s *AccountService) Withdraw(userID uint) error {
	return s.users.Delete(userID)
}
