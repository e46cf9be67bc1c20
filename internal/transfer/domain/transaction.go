package domain

import (
	"time"

	"github.com/nikkune/paymybuddy/internal/common/money"
)

// Transaction is a completed transfer between two users. Records are
// immutable once written.
type Transaction struct {
	ID          int64        `json:"id"`
	SenderID    int64        `json:"senderId"`
	ReceiverID  int64        `json:"receiverId"`
	Description string       `json:"description"`
	Amount      money.Amount `json:"amount"`
	CreatedAt   time.Time    `json:"createdAt"`
}
