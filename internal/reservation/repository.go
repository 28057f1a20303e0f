package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clubdesk/internal/court"
	"clubdesk/internal/wallet"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrAlreadyCancelled    = errors.New("reservation already cancelled")
	ErrSlotTaken           = errors.New("slot already reserved")
)

const reservationColumns = `id, club_id, court_id, date, slots, user_id, participants, heater, light,
	court_fee_cents, heater_fee_cents, light_fee_cents, discount_cents, discount_percent, total_cents,
	negative_balance_cents, status, created_by, created_at, cancelled_at`

type repository struct {
	db      *sqlx.DB
	wallets wallet.Repository
}

func NewRepository(db *sqlx.DB, wallets wallet.Repository) Repository {
	return &repository{
		db:      db,
		wallets: wallets,
	}
}

func (r *repository) Create(ctx context.Context, res *Reservation, authorize Authorizer) (*Reservation, *wallet.Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	// Serializes reservations per court so the overlap check below holds.
	var courtID string
	err = tx.GetContext(ctx, &courtID,
		`SELECT id FROM courts WHERE club_id = $1 AND id = $2 FOR UPDATE`,
		res.ClubID, res.CourtID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, court.ErrCourtNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	w, err := r.wallets.LockForUpdate(ctx, tx, res.ClubID, res.UserID)
	if err != nil {
		return nil, nil, err
	}

	negative, err := authorize(w)
	if err != nil {
		return nil, nil, err
	}
	res.NegativeBalanceCents = negative

	var overlap bool
	err = tx.GetContext(ctx, &overlap, `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE club_id = $1 AND court_id = $2 AND date = $3 AND status = 'active' AND slots && $4
		)`,
		res.ClubID, res.CourtID, res.Date, res.Slots,
	)
	if err != nil {
		return nil, nil, err
	}
	if overlap {
		return nil, nil, ErrSlotTaken
	}

	var created Reservation
	err = tx.GetContext(ctx, &created, `
		INSERT INTO reservations (id, club_id, court_id, date, slots, user_id, participants, heater, light,
			court_fee_cents, heater_fee_cents, light_fee_cents, discount_cents, discount_percent, total_cents,
			negative_balance_cents, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+reservationColumns,
		uuid.NewString(), res.ClubID, res.CourtID, res.Date, res.Slots, res.UserID, res.Participants,
		res.Heater, res.Light, res.CourtFeeCents, res.HeaterFeeCents, res.LightFeeCents,
		res.DiscountCents, res.DiscountPercent, res.TotalCents, res.NegativeBalanceCents,
		StatusActive, res.CreatedBy,
	)
	if err != nil {
		return nil, nil, err
	}

	_, err = r.wallets.ApplyInTx(ctx, tx, w, wallet.Entry{
		AmountCents: -created.TotalCents,
		Type:        wallet.ActivityReservationPayment,
		ReferenceID: created.ID,
		Description: describe(&created),
	})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &created, w, nil
}

func (r *repository) Cancel(ctx context.Context, clubID, id string, check func(*Reservation) error) (*Reservation, *wallet.Wallet, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var res Reservation
	err = tx.GetContext(ctx, &res,
		`SELECT `+reservationColumns+` FROM reservations WHERE club_id = $1 AND id = $2 FOR UPDATE`,
		clubID, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if check != nil {
		if err := check(&res); err != nil {
			return nil, nil, err
		}
	}
	if res.Status != StatusActive {
		return nil, nil, ErrAlreadyCancelled
	}

	var cancelledAt time.Time
	err = tx.GetContext(ctx, &cancelledAt,
		`UPDATE reservations SET status = $1, cancelled_at = NOW() WHERE id = $2 RETURNING cancelled_at`,
		StatusCancelled, res.ID,
	)
	if err != nil {
		return nil, nil, err
	}
	res.Status = StatusCancelled
	res.CancelledAt = &cancelledAt

	w, err := r.wallets.LockForUpdate(ctx, tx, clubID, res.UserID)
	if err != nil {
		return nil, nil, err
	}

	_, err = r.wallets.ApplyInTx(ctx, tx, w, wallet.Entry{
		AmountCents: res.TotalCents,
		Type:        wallet.ActivityReservationRefund,
		ReferenceID: res.ID,
		Description: "refund: " + describe(&res),
	})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return &res, w, nil
}

func (r *repository) GetByID(ctx context.Context, clubID, id string) (*Reservation, error) {
	var res Reservation
	err := r.db.GetContext(ctx, &res,
		`SELECT `+reservationColumns+` FROM reservations WHERE club_id = $1 AND id = $2`,
		clubID, id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *repository) ListByUser(ctx context.Context, clubID, userID string, limit, offset int) ([]Reservation, error) {
	if limit <= 0 {
		limit = 50
	}

	list := []Reservation{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE club_id = $1 AND (user_id = $2 OR $2 = ANY(participants))
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`, clubID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) ListByCourtDate(ctx context.Context, clubID, courtID string, date time.Time) ([]Reservation, error) {
	list := []Reservation{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE club_id = $1 AND court_id = $2 AND date = $3
		ORDER BY slots[1], created_at
	`, clubID, courtID, date)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *repository) TakenSlots(ctx context.Context, clubID, courtID string, date time.Time) ([]string, error) {
	var rows []pq.StringArray
	err := r.db.SelectContext(ctx, &rows, `
		SELECT slots
		FROM reservations
		WHERE club_id = $1 AND court_id = $2 AND date = $3 AND status = 'active'
	`, clubID, courtID, date)
	if err != nil {
		return nil, err
	}

	var taken []string
	for _, slots := range rows {
		taken = append(taken, slots...)
	}
	return taken, nil
}

func (r *repository) HasUpcoming(ctx context.Context, clubID, courtID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM reservations
			WHERE club_id = $1 AND court_id = $2 AND date >= CURRENT_DATE AND status = 'active'
		)`, clubID, courtID)
	return exists, err
}

func describe(res *Reservation) string {
	if len(res.Slots) == 0 {
		return fmt.Sprintf("court reservation %s", res.Date.Format(court.DateLayout))
	}
	return fmt.Sprintf("court reservation %s %s", res.Date.Format(court.DateLayout), res.Slots[0])
}
