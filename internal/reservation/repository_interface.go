package reservation

import (
	"context"
	"time"

	"clubdesk/internal/wallet"
)

// Authorizer runs against the row-locked payer wallet before any write and
// returns how much of the debit is covered by negative balance.
type Authorizer func(w *wallet.Wallet) (int64, error)

type Repository interface {
	// Create inserts the reservation, debits the payer and logs the activity
	// in a single transaction.
	Create(ctx context.Context, r *Reservation, authorize Authorizer) (*Reservation, *wallet.Wallet, error)
	// Cancel flips an active reservation to cancelled and refunds the payer
	// in a single transaction. check sees the locked reservation first.
	Cancel(ctx context.Context, clubID, id string, check func(*Reservation) error) (*Reservation, *wallet.Wallet, error)
	GetByID(ctx context.Context, clubID, id string) (*Reservation, error)
	ListByUser(ctx context.Context, clubID, userID string, limit, offset int) ([]Reservation, error)
	ListByCourtDate(ctx context.Context, clubID, courtID string, date time.Time) ([]Reservation, error)
	TakenSlots(ctx context.Context, clubID, courtID string, date time.Time) ([]string, error)
	HasUpcoming(ctx context.Context, clubID, courtID string) (bool, error)
	StatsByDay(ctx context.Context, clubID string, from, to time.Time) ([]DayStats, error)
	StatsByCourt(ctx context.Context, clubID string, from, to time.Time) ([]CourtStats, error)
}
