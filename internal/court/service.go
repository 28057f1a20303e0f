package court

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clubdesk/internal/auth"
	"clubdesk/internal/logger"
	"clubdesk/internal/pricing"
)

var (
	ErrInvalidCourt = errors.New("invalid court")
	ErrInvalidDate  = errors.New("date must be YYYY-MM-DD")
	ErrGridInUse    = errors.New("slot grid cannot change while upcoming reservations exist")
)

type Service interface {
	Create(ctx context.Context, id auth.Identity, req CourtRequest) (*Court, error)
	Update(ctx context.Context, id auth.Identity, courtID string, req CourtRequest) (*Court, error)
	Get(ctx context.Context, id auth.Identity, courtID string) (*Court, error)
	List(ctx context.Context, id auth.Identity) ([]Court, error)
	Availability(ctx context.Context, id auth.Identity, courtID string, date time.Time) (*Availability, error)
}

type service struct {
	repo   Repository
	booked BookedSlots
}

func NewService(repo Repository, booked BookedSlots) Service {
	return &service{
		repo:   repo,
		booked: booked,
	}
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// Validate checks a court definition before it is stored.
func Validate(req CourtRequest) error {
	if _, err := pricing.GenerateSlots(req.AvailableFrom, req.AvailableUntil, req.SlotInterval); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCourt, err)
	}
	from, _ := pricing.ParseSlot(req.AvailableFrom)
	until, _ := pricing.ParseWindowEnd(req.AvailableUntil)
	if (until-from)%req.SlotInterval != 0 {
		return fmt.Errorf("%w: slot interval must divide the availability window", ErrInvalidCourt)
	}

	if _, ok := req.PriceTable[pricing.DefaultRole]; !ok {
		return fmt.Errorf("%w: price table needs a %q rate", ErrInvalidCourt, pricing.DefaultRole)
	}
	for role, rate := range req.PriceTable {
		if rate < 0 {
			return fmt.Errorf("%w: negative rate for %q", ErrInvalidCourt, role)
		}
	}

	for i, d := range req.Discounts {
		if d.StartHour < 0 || d.StartHour > 23 || d.EndHour < 0 || d.EndHour > 24 {
			return fmt.Errorf("%w: discount %d has hours outside the day", ErrInvalidCourt, i)
		}
		if d.StartHour == d.EndHour {
			return fmt.Errorf("%w: discount %d covers no hours", ErrInvalidCourt, i)
		}
		if d.Percent < 0 || d.Percent > 100 {
			return fmt.Errorf("%w: discount %d percent must be within 0-100", ErrInvalidCourt, i)
		}
	}
	return nil
}

func fromRequest(clubID string, req CourtRequest) *Court {
	c := &Court{
		ClubID:               clubID,
		Name:                 req.Name,
		AvailableFrom:        req.AvailableFrom,
		AvailableUntil:       req.AvailableUntil,
		SlotInterval:         req.SlotInterval,
		PriceTable:           PriceTable(req.PriceTable),
		HeatingCentsPerHour:  req.HeatingCentsPerHour,
		LightingCentsPerHour: req.LightingCentsPerHour,
		Discounts:            Discounts(req.Discounts),
		Active:               true,
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	return c
}

func (s *service) Create(ctx context.Context, id auth.Identity, req CourtRequest) (*Court, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, fromRequest(id.ClubID, req))
	if err != nil {
		return nil, fmt.Errorf("create court: %w", err)
	}

	logger.Info("court created", "club_id", id.ClubID, "court_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *service) Update(ctx context.Context, id auth.Identity, courtID string, req CourtRequest) (*Court, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id.ClubID, courtID)
	if err != nil {
		return nil, err
	}

	c := fromRequest(id.ClubID, req)
	c.ID = courtID

	// Reservations are keyed by slot label, so the grid is frozen while
	// upcoming ones exist.
	if c.AvailableFrom != current.AvailableFrom || c.SlotInterval != current.SlotInterval {
		upcoming, err := s.booked.HasUpcoming(ctx, id.ClubID, courtID)
		if err != nil {
			return nil, fmt.Errorf("check upcoming reservations: %w", err)
		}
		if upcoming {
			return nil, ErrGridInUse
		}
	}

	updated, err := s.repo.Update(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("update court: %w", err)
	}
	return updated, nil
}

// Get treats an inactive court as missing for everyone but staff.
func (s *service) Get(ctx context.Context, id auth.Identity, courtID string) (*Court, error) {
	c, err := s.repo.GetByID(ctx, id.ClubID, courtID)
	if err != nil {
		return nil, err
	}
	if !c.Active && !id.IsAdmin() {
		return nil, ErrCourtNotFound
	}
	return c, nil
}

// List hides inactive courts from everyone but staff.
func (s *service) List(ctx context.Context, id auth.Identity) ([]Court, error) {
	return s.repo.List(ctx, id.ClubID, !id.IsAdmin())
}

func (s *service) Availability(ctx context.Context, id auth.Identity, courtID string, date time.Time) (*Availability, error) {
	c, err := s.repo.GetByID(ctx, id.ClubID, courtID)
	if err != nil {
		return nil, err
	}

	slots, err := c.Slots()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCourt, err)
	}

	taken, err := s.booked.TakenSlots(ctx, id.ClubID, courtID, date)
	if err != nil {
		return nil, fmt.Errorf("load taken slots: %w", err)
	}
	busy := make(map[string]bool, len(taken))
	for _, t := range taken {
		busy[t] = true
	}

	a := &Availability{
		CourtID: courtID,
		Date:    date.Format(DateLayout),
		Slots:   make([]SlotState, len(slots)),
	}
	for i, s := range slots {
		a.Slots[i] = SlotState{Slot: s, Available: c.Active && !busy[s]}
	}
	return a, nil
}
