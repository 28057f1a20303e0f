package court

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, c *Court) (*Court, error)
	Update(ctx context.Context, c *Court) (*Court, error)
	GetByID(ctx context.Context, clubID, id string) (*Court, error)
	List(ctx context.Context, clubID string, activeOnly bool) ([]Court, error)
}

// BookedSlots reports which slots of a court are already taken on a date.
type BookedSlots interface {
	TakenSlots(ctx context.Context, clubID, courtID string, date time.Time) ([]string, error)
	// HasUpcoming reports whether the court has active reservations dated
	// today or later.
	HasUpcoming(ctx context.Context, clubID, courtID string) (bool, error)
}
