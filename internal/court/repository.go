package court

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrCourtNotFound = errors.New("court not found")

const courtColumns = `id, club_id, name, available_from, available_until, slot_interval, price_table,
	heating_cents_per_hour, lighting_cents_per_hour, discounts, active, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Court) (*Court, error) {
	query := `
		INSERT INTO courts (id, club_id, name, available_from, available_until, slot_interval,
			price_table, heating_cents_per_hour, lighting_cents_per_hour, discounts, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + courtColumns

	var created Court
	err := r.db.GetContext(ctx, &created, query,
		uuid.NewString(), c.ClubID, c.Name, c.AvailableFrom, c.AvailableUntil, c.SlotInterval,
		c.PriceTable, c.HeatingCentsPerHour, c.LightingCentsPerHour, c.Discounts, c.Active,
	)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) Update(ctx context.Context, c *Court) (*Court, error) {
	query := `
		UPDATE courts
		SET name = $1, available_from = $2, available_until = $3, slot_interval = $4,
			price_table = $5, heating_cents_per_hour = $6, lighting_cents_per_hour = $7,
			discounts = $8, active = $9, updated_at = NOW()
		WHERE club_id = $10 AND id = $11
		RETURNING ` + courtColumns

	var updated Court
	err := r.db.GetContext(ctx, &updated, query,
		c.Name, c.AvailableFrom, c.AvailableUntil, c.SlotInterval,
		c.PriceTable, c.HeatingCentsPerHour, c.LightingCentsPerHour,
		c.Discounts, c.Active, c.ClubID, c.ID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *repository) GetByID(ctx context.Context, clubID, id string) (*Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE club_id = $1 AND id = $2`

	var c Court
	err := r.db.GetContext(ctx, &c, query, clubID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourtNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context, clubID string, activeOnly bool) ([]Court, error) {
	query := `
		SELECT ` + courtColumns + `
		FROM courts
		WHERE club_id = $1 AND (active OR NOT $2)
		ORDER BY name
	`

	courts := []Court{}
	err := r.db.SelectContext(ctx, &courts, query, clubID, activeOnly)
	if err != nil {
		return nil, err
	}

	return courts, nil
}
