package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetOrCreate(ctx context.Context, clubID, userID string) (*Wallet, error)
	// LockForUpdate row-locks the wallet inside tx, creating it when missing.
	LockForUpdate(ctx context.Context, tx *sqlx.Tx, clubID, userID string) (*Wallet, error)
	// ApplyInTx moves the balance of a locked wallet and logs the entry.
	ApplyInTx(ctx context.Context, tx *sqlx.Tx, w *Wallet, e Entry) (*Activity, error)
	// Apply runs check against the locked wallet and, when it passes, applies e.
	Apply(ctx context.Context, clubID, userID string, e Entry, check func(*Wallet) error) (*Wallet, error)
	SetNegativeLimit(ctx context.Context, clubID, userID string, limitCents int64) (*Wallet, error)
	SetBlocked(ctx context.Context, clubID, userID string, blocked bool) (*Wallet, error)
	ListActivity(ctx context.Context, clubID, userID string, limit, offset int) ([]Activity, error)
}
