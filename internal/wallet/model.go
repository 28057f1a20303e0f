package wallet

import "time"

type ActivityType string

const (
	ActivityTopUp              ActivityType = "topup"
	ActivityReservationPayment ActivityType = "reservation_payment"
	ActivityReservationRefund  ActivityType = "reservation_refund"
	ActivityAdjustment         ActivityType = "adjustment"
)

// Wallet holds a member's prepaid balance. The balance may go negative,
// down to -NegativeLimitCents, only when a debit explicitly allows it.
type Wallet struct {
	ID                 string    `db:"id" json:"id"`
	ClubID             string    `db:"club_id" json:"club_id"`
	UserID             string    `db:"user_id" json:"user_id"`
	BalanceCents       int64     `db:"balance_cents" json:"balance_cents"`
	NegativeLimitCents int64     `db:"negative_limit_cents" json:"negative_limit_cents"`
	Blocked            bool      `db:"blocked" json:"blocked"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Floor is the lowest balance the wallet may reach.
func (w Wallet) Floor() int64 {
	return -w.NegativeLimitCents
}

type Activity struct {
	ID           string       `db:"id" json:"id"`
	ClubID       string       `db:"club_id" json:"club_id"`
	WalletID     string       `db:"wallet_id" json:"wallet_id"`
	AmountCents  int64        `db:"amount_cents" json:"amount_cents"`
	Type         ActivityType `db:"type" json:"type"`
	BalanceAfter int64        `db:"balance_after" json:"balance_after"`
	ReferenceID  *string      `db:"reference_id" json:"reference_id,omitempty"`
	Description  string       `db:"description" json:"description"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
}

// Entry is a signed balance movement to be written to the activity log.
type Entry struct {
	AmountCents int64
	Type        ActivityType
	ReferenceID string
	Description string
}

type TopUpRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Description string `json:"description" binding:"max=200"`
}

type AdjustRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,ne=0"`
	Description string `json:"description" binding:"required,max=200"`
}

type LimitRequest struct {
	NegativeLimitCents *int64 `json:"negative_limit_cents" binding:"required,gte=0"`
}

type BlockRequest struct {
	Blocked *bool `json:"blocked" binding:"required"`
}
