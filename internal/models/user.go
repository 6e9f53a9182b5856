package models

import "time"

// User represents an account in the app. A user owns their items and
// sessions; deleting the user removes both.
type User struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	Username            string     `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email               string     `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	PasswordHash        string     `json:"-" gorm:"type:varchar(255)"`
	ResetToken          *string    `json:"-" gorm:"index"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"created_at"`

	Items    []Item    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Sessions []Session `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// IsGuest reports whether this account was created through the guest login.
// Guest accounts are throwaway and are purged 24 hours after creation.
func (u *User) IsGuest() bool {
	return len(u.Email) > len(guestEmailPrefix) &&
		u.Email[:len(guestEmailPrefix)] == guestEmailPrefix
}

const guestEmailPrefix = "guest_"
