package models

import "time"

// User is an identity known to the system. Users are created by the identity
// side (token issuance or the Telegram bot), never through the job API.
type User struct {
	ID         int64     `json:"id" db:"id"`
	Username   string    `json:"username" db:"username"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	TelegramID *int64    `json:"telegram_id,omitempty" db:"telegram_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the user's full name
func (u *User) FullName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}

// DisplayName returns the best display name for the user
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FullName()
}

// HasTelegram reports whether the user can receive chat notifications.
func (u *User) HasTelegram() bool {
	return u.TelegramID != nil && *u.TelegramID != 0
}
