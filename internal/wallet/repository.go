package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const walletColumns = `id, club_id, user_id, balance_cents, negative_limit_cents, blocked, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetOrCreate(ctx context.Context, clubID, userID string) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT `+walletColumns+` FROM wallets WHERE club_id = $1 AND user_id = $2`,
		clubID, userID,
	)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = r.db.QueryRowxContext(ctx,
		`INSERT INTO wallets (id, club_id, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+walletColumns,
		uuid.NewString(), clubID, userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func (r *repository) LockForUpdate(ctx context.Context, tx *sqlx.Tx, clubID, userID string) (*Wallet, error) {
	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT `+walletColumns+`
		 FROM wallets
		 WHERE club_id = $1 AND user_id = $2
		 FOR UPDATE`,
		clubID, userID,
	).StructScan(&w)
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallets (id, club_id, user_id)
		 VALUES ($1, $2, $3)
		 RETURNING `+walletColumns,
		uuid.NewString(), clubID, userID,
	).StructScan(&w)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

func (r *repository) ApplyInTx(ctx context.Context, tx *sqlx.Tx, w *Wallet, e Entry) (*Activity, error) {
	newBalance := w.BalanceCents + e.AmountCents

	_, err := tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return nil, err
	}

	a := &Activity{
		ID:           uuid.NewString(),
		ClubID:       w.ClubID,
		WalletID:     w.ID,
		AmountCents:  e.AmountCents,
		Type:         e.Type,
		BalanceAfter: newBalance,
		Description:  e.Description,
	}
	if e.ReferenceID != "" {
		ref := e.ReferenceID
		a.ReferenceID = &ref
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_activity (id, club_id, wallet_id, amount_cents, type, balance_after, reference_id, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		a.ID, a.ClubID, a.WalletID, a.AmountCents, a.Type, a.BalanceAfter, a.ReferenceID, a.Description,
	).Scan(&a.CreatedAt)
	if err != nil {
		return nil, err
	}

	w.BalanceCents = newBalance
	return a, nil
}

func (r *repository) Apply(ctx context.Context, clubID, userID string, e Entry, check func(*Wallet) error) (*Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	w, err := r.LockForUpdate(ctx, tx, clubID, userID)
	if err != nil {
		return nil, err
	}

	if check != nil {
		if err := check(w); err != nil {
			return nil, err
		}
	}

	if _, err := r.ApplyInTx(ctx, tx, w, e); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) SetNegativeLimit(ctx context.Context, clubID, userID string, limitCents int64) (*Wallet, error) {
	if _, err := r.GetOrCreate(ctx, clubID, userID); err != nil {
		return nil, err
	}

	w := &Wallet{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE wallets
		 SET negative_limit_cents = $1, updated_at = NOW()
		 WHERE club_id = $2 AND user_id = $3
		 RETURNING `+walletColumns,
		limitCents, clubID, userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) SetBlocked(ctx context.Context, clubID, userID string, blocked bool) (*Wallet, error) {
	if _, err := r.GetOrCreate(ctx, clubID, userID); err != nil {
		return nil, err
	}

	w := &Wallet{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE wallets
		 SET blocked = $1, updated_at = NOW()
		 WHERE club_id = $2 AND user_id = $3
		 RETURNING `+walletColumns,
		blocked, clubID, userID,
	).StructScan(w)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *repository) ListActivity(ctx context.Context, clubID, userID string, limit, offset int) ([]Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	var walletID string
	err := r.db.GetContext(ctx, &walletID,
		`SELECT id FROM wallets WHERE club_id = $1 AND user_id = $2`,
		clubID, userID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []Activity{}, nil
		}
		return nil, err
	}

	activity := []Activity{}
	err = r.db.SelectContext(ctx, &activity, `
		SELECT id, club_id, wallet_id, amount_cents, type, balance_after, reference_id, description, created_at
		FROM wallet_activity
		WHERE wallet_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}

	return activity, nil
}
