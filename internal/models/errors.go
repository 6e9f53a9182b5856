package models

import "errors"

// Error kinds shared across repositories, services and handlers. Services
// wrap these with %w so handlers can map them onto HTTP statuses with
// errors.Is without string matching.
var (
	// ErrNotFound covers missing rows, including rows that exist but belong
	// to another user. Item lookups never report "forbidden".
	ErrNotFound = errors.New("not found")

	// ErrConflict covers unique-constraint violations (username, email).
	ErrConflict = errors.New("already exists")

	// ErrInvalidCredentials is returned for both an unknown account and a
	// wrong password, so a caller cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionInvalid covers missing, malformed and expired session tokens.
	ErrSessionInvalid = errors.New("session invalid or expired")

	// ErrResetTokenInvalid covers unknown, expired and already-consumed
	// password reset tokens.
	ErrResetTokenInvalid = errors.New("reset token invalid or expired")

	// ErrAIUnavailable means the vision API could not be reached or refused
	// the request.
	ErrAIUnavailable = errors.New("AI service unavailable")

	// ErrAIParse means the vision API answered but not in the expected
	// {"name": ..., "price": ...} shape.
	ErrAIParse = errors.New("AI response not parseable")

	// ErrMailSend means the SMTP relay rejected or failed the send.
	ErrMailSend = errors.New("mail send failure")

	// ErrStorage covers database failures other than not-found and conflict.
	ErrStorage = errors.New("storage unavailable")
)
