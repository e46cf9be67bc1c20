package domain

import (
	"time"

	"github.com/nikkune/paymybuddy/internal/common/money"
)

// User is the account aggregate. PasswordHash never leaves the server;
// Balance is fixed-point with two fractional digits.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Balance      money.Amount
	CreatedAt    time.Time
}

// Summary is the externally visible projection of a user.
type Summary struct {
	ID       int64        `json:"userId"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Balance  money.Amount `json:"balance"`
}

func (u User) Summary() Summary {
	return Summary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Balance:  u.Balance,
	}
}
