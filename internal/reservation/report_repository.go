package reservation

import (
	"context"
	"time"
)

// DayStats aggregates reservations by the day they are played.
type DayStats struct {
	Day          string `db:"day" json:"day"`
	Active       int    `db:"active" json:"active"`
	Cancelled    int    `db:"cancelled" json:"cancelled"`
	RevenueCents int64  `db:"revenue_cents" json:"revenue_cents"`
}

type CourtStats struct {
	CourtID      string `db:"court_id" json:"court_id"`
	CourtName    string `db:"court_name" json:"court_name"`
	Active       int    `db:"active" json:"active"`
	Cancelled    int    `db:"cancelled" json:"cancelled"`
	SlotsBooked  int    `db:"slots_booked" json:"slots_booked"`
	RevenueCents int64  `db:"revenue_cents" json:"revenue_cents"`
}

func (r *repository) StatsByDay(ctx context.Context, clubID string, from, to time.Time) ([]DayStats, error) {
	stats := []DayStats{}
	err := r.db.SelectContext(ctx, &stats, `
		SELECT
			to_char(date, 'YYYY-MM-DD') AS day,
			COUNT(*) FILTER (WHERE status = 'active') AS active,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COALESCE(SUM(total_cents) FILTER (WHERE status = 'active'), 0) AS revenue_cents
		FROM reservations
		WHERE club_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY date
		ORDER BY date`,
		clubID, from, to,
	)
	return stats, err
}

func (r *repository) StatsByCourt(ctx context.Context, clubID string, from, to time.Time) ([]CourtStats, error) {
	stats := []CourtStats{}
	err := r.db.SelectContext(ctx, &stats, `
		SELECT
			c.id AS court_id,
			c.name AS court_name,
			COUNT(r.id) FILTER (WHERE r.status = 'active') AS active,
			COUNT(r.id) FILTER (WHERE r.status = 'cancelled') AS cancelled,
			COALESCE(SUM(cardinality(r.slots)) FILTER (WHERE r.status = 'active'), 0) AS slots_booked,
			COALESCE(SUM(r.total_cents) FILTER (WHERE r.status = 'active'), 0) AS revenue_cents
		FROM courts c
		LEFT JOIN reservations r ON r.court_id = c.id AND r.date BETWEEN $2 AND $3
		WHERE c.club_id = $1
		GROUP BY c.id, c.name
		ORDER BY c.name`,
		clubID, from, to,
	)
	return stats, err
}
