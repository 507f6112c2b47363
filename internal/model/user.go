package model

import "time"

type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
)

// User is the principal resolved from an API token. Status and credits
// are maintained by the admin side of the dashboard, this service only
// reads them.
type User struct {
	ID         string     `json:"id" db:"id"`
	APIToken   string     `json:"api_token" db:"api_token"`
	Status     UserStatus `json:"status" db:"status"`
	Credits    int64      `json:"credits" db:"credits"`
	TelegramID *int64     `json:"telegram_id,omitempty" db:"telegram_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
