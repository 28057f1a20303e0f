package reservation

import (
	"time"

	"clubdesk/internal/pricing"

	"github.com/lib/pq"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Reservation is a contiguous block of slots on one court and date, paid
// from the primary payer's wallet.
type Reservation struct {
	ID                   string         `db:"id" json:"id"`
	ClubID               string         `db:"club_id" json:"club_id"`
	CourtID              string         `db:"court_id" json:"court_id"`
	Date                 time.Time      `db:"date" json:"date"`
	Slots                pq.StringArray `db:"slots" json:"slots"`
	UserID               string         `db:"user_id" json:"user_id"`
	Participants         pq.StringArray `db:"participants" json:"participants"`
	Heater               bool           `db:"heater" json:"heater"`
	Light                bool           `db:"light" json:"light"`
	CourtFeeCents        int64          `db:"court_fee_cents" json:"court_fee_cents"`
	HeaterFeeCents       int64          `db:"heater_fee_cents" json:"heater_fee_cents"`
	LightFeeCents        int64          `db:"light_fee_cents" json:"light_fee_cents"`
	DiscountCents        int64          `db:"discount_cents" json:"discount_cents"`
	DiscountPercent      float64        `db:"discount_percent" json:"discount_percent"`
	TotalCents           int64          `db:"total_cents" json:"total_cents"`
	NegativeBalanceCents int64          `db:"negative_balance_cents" json:"negative_balance_cents"`
	Status               Status         `db:"status" json:"status"`
	CreatedBy            string         `db:"created_by" json:"created_by"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	CancelledAt          *time.Time     `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

type QuoteRequest struct {
	CourtID              string   `json:"court_id" binding:"required"`
	Date                 string   `json:"date" binding:"required"`
	Slots                []string `json:"slots" binding:"required,min=1,dive,required"`
	Heater               bool     `json:"heater"`
	Light                bool     `json:"light"`
	Participants         []string `json:"participants" binding:"omitempty,max=8,dive,required"`
	AllowNegativeBalance bool     `json:"allow_negative_balance"`
	// UserID books on behalf of another member. Staff only.
	UserID string `json:"user_id"`
}

type Quote struct {
	CourtID           string                `json:"court_id"`
	Date              string                `json:"date"`
	Role              string                `json:"role"`
	Breakdown         pricing.Breakdown     `json:"breakdown"`
	ParticipantShares []int64               `json:"participant_shares"`
	BalanceCents      int64                 `json:"balance_cents"`
	WalletBlocked     bool                  `json:"wallet_blocked"`
	Affordability     pricing.Affordability `json:"affordability"`
}

type CreateResponse struct {
	Reservation  *Reservation `json:"reservation"`
	BalanceCents int64        `json:"balance_cents"`
}

// Report summarises reservations played between From and To inclusive.
// Revenue counts active reservations only.
type Report struct {
	From         string       `json:"from"`
	To           string       `json:"to"`
	Active       int          `json:"active"`
	Cancelled    int          `json:"cancelled"`
	RevenueCents int64        `json:"revenue_cents"`
	ByDay        []DayStats   `json:"by_day"`
	ByCourt      []CourtStats `json:"by_court"`
}
