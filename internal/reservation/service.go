package reservation

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"clubdesk/internal/auth"
	"clubdesk/internal/court"
	"clubdesk/internal/logger"
	"clubdesk/internal/metrics"
	"clubdesk/internal/pricing"
	"clubdesk/internal/user"
	"clubdesk/internal/wallet"
)

var (
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrCourtInactive     = errors.New("court is not accepting reservations")
	ErrOutsideWindow     = errors.New("slot outside the court's availability window")
	ErrPastDate          = errors.New("cannot reserve a date in the past")
	ErrForbidden         = errors.New("not allowed to act on this reservation")
	ErrPayerNotFound     = errors.New("payer not found")
	ErrInvalidRange      = errors.New("report range must be at most 366 days and end after it starts")
)

const maxReportDays = 366

// Notifier delivers reservation emails. Delivery failures never fail the
// reservation itself.
type Notifier interface {
	SendReservationConfirmation(ctx context.Context, to, name, court string, date time.Time, slots []string, total int64) error
	SendReservationCancellation(ctx context.Context, to, name, court string, date time.Time, slots []string, refund int64) error
}

type Users interface {
	FindByID(ctx context.Context, clubID, id string) (*user.User, error)
}

type Service interface {
	Quote(ctx context.Context, id auth.Identity, req QuoteRequest) (*Quote, error)
	Create(ctx context.Context, id auth.Identity, req QuoteRequest) (*Reservation, *wallet.Wallet, error)
	Cancel(ctx context.Context, id auth.Identity, reservationID string) (*Reservation, error)
	ListMine(ctx context.Context, id auth.Identity, limit, offset int) ([]Reservation, error)
	ListForCourt(ctx context.Context, id auth.Identity, courtID string, date time.Time) ([]Reservation, error)
	Report(ctx context.Context, id auth.Identity, from, to time.Time) (*Report, error)
}

type service struct {
	repo     Repository
	courts   court.Repository
	wallets  wallet.Repository
	users    Users
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, courts court.Repository, wallets wallet.Repository, users Users, notifier Notifier) Service {
	return &service{
		repo:     repo,
		courts:   courts,
		wallets:  wallets,
		users:    users,
		notifier: notifier,
		now:      time.Now,
	}
}

type priced struct {
	court     *court.Court
	payer     *user.User
	date      time.Time
	slots     []string
	role      string
	breakdown pricing.Breakdown
}

// price validates a request and prices it for the payer. Nothing is written.
func (s *service) price(ctx context.Context, id auth.Identity, req QuoteRequest) (*priced, error) {
	payerID := id.UserID
	if req.UserID != "" && req.UserID != id.UserID {
		if !id.IsAdmin() {
			return nil, ErrForbidden
		}
		payerID = req.UserID
	}

	date, err := court.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, ErrPastDate
	}

	c, err := s.courts.GetByID(ctx, id.ClubID, req.CourtID)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, ErrCourtInactive
	}

	open, err := c.Slots()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", court.ErrInvalidCourt, err)
	}
	for _, slot := range req.Slots {
		m, err := pricing.ParseSlot(slot)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(open, pricing.FormatSlot(m)) {
			return nil, fmt.Errorf("%w: %s", ErrOutsideWindow, slot)
		}
	}

	payer, err := s.users.FindByID(ctx, id.ClubID, payerID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrPayerNotFound, err)
	}
	if err != nil {
		return nil, fmt.Errorf("load payer: %w", err)
	}
	role := payer.Role
	if role == "" {
		role = pricing.DefaultRole
	}

	slots, err := pricing.NormalizeSlots(req.Slots, c.SlotInterval)
	if err != nil {
		return nil, err
	}
	b, err := pricing.TotalPrice(c.Rates(), slots, role, pricing.AddOns{Heater: req.Heater, Light: req.Light})
	if err != nil {
		return nil, err
	}

	return &priced{court: c, payer: payer, date: date, slots: slots, role: role, breakdown: b}, nil
}

func (s *service) Quote(ctx context.Context, id auth.Identity, req QuoteRequest) (*Quote, error) {
	p, err := s.price(ctx, id, req)
	if err != nil {
		return nil, err
	}

	w, err := s.wallets.GetOrCreate(ctx, id.ClubID, p.payer.ID)
	if err != nil {
		return nil, fmt.Errorf("load wallet: %w", err)
	}

	q := &Quote{
		CourtID:           p.court.ID,
		Date:              p.date.Format(court.DateLayout),
		Role:              p.role,
		Breakdown:         p.breakdown,
		ParticipantShares: pricing.SplitShare(p.breakdown.Total, 1+len(req.Participants)),
		BalanceCents:      w.BalanceCents,
		WalletBlocked:     w.Blocked,
		Affordability: pricing.CheckAffordability(
			p.breakdown.Total, w.BalanceCents, w.NegativeLimitCents, req.AllowNegativeBalance,
		),
	}
	if w.Blocked {
		q.Affordability.CanAfford = false
	}
	return q, nil
}

func (s *service) Create(ctx context.Context, id auth.Identity, req QuoteRequest) (*Reservation, *wallet.Wallet, error) {
	p, err := s.price(ctx, id, req)
	if err != nil {
		metrics.RecordReservationRejection("invalid")
		return nil, nil, err
	}

	res := &Reservation{
		ClubID:          id.ClubID,
		CourtID:         p.court.ID,
		Date:            p.date,
		Slots:           p.slots,
		UserID:          p.payer.ID,
		Participants:    req.Participants,
		Heater:          req.Heater,
		Light:           req.Light,
		CourtFeeCents:   p.breakdown.CourtFee,
		HeaterFeeCents:  p.breakdown.HeaterFee,
		LightFeeCents:   p.breakdown.LightFee,
		DiscountCents:   p.breakdown.DiscountAmount,
		DiscountPercent: maxDiscount(p.breakdown),
		TotalCents:      p.breakdown.Total,
		CreatedBy:       id.UserID,
	}
	if res.Participants == nil {
		res.Participants = []string{}
	}

	// Affordability is re-derived against the locked wallet row.
	created, w, err := s.repo.Create(ctx, res, func(w *wallet.Wallet) (int64, error) {
		if w.Blocked {
			return 0, wallet.ErrWalletBlocked
		}
		a := pricing.CheckAffordability(res.TotalCents, w.BalanceCents, w.NegativeLimitCents, req.AllowNegativeBalance)
		if !a.CanAfford {
			return 0, ErrInsufficientFunds
		}
		return a.NegativeBalanceAmount, nil
	})
	if err != nil {
		metrics.RecordReservationRejection(rejectionReason(err))
		logger.Warn("reservation rejected", "club_id", id.ClubID, "court_id", req.CourtID, "user_id", p.payer.ID, "error", err)
		return nil, nil, err
	}

	funding := "wallet"
	if created.NegativeBalanceCents > 0 {
		funding = "negative_balance"
		metrics.RecordNegativeBalance()
	}
	metrics.RecordReservation(funding, created.TotalCents)
	logger.Info("reservation created",
		"club_id", id.ClubID, "reservation_id", created.ID, "court_id", created.CourtID,
		"user_id", created.UserID, "total_cents", created.TotalCents,
	)

	if s.notifier != nil && p.payer.Email != "" {
		if err := s.notifier.SendReservationConfirmation(ctx, p.payer.Email, p.payer.Name, p.court.Name, created.Date, created.Slots, created.TotalCents); err != nil {
			logger.Error("failed to queue reservation confirmation", "reservation_id", created.ID, "error", err)
		}
	}

	return created, w, nil
}

func (s *service) Cancel(ctx context.Context, id auth.Identity, reservationID string) (*Reservation, error) {
	res, _, err := s.repo.Cancel(ctx, id.ClubID, reservationID, func(r *Reservation) error {
		if r.UserID != id.UserID && r.CreatedBy != id.UserID && !id.IsAdmin() {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordReservationCancellation()
	logger.Info("reservation cancelled", "club_id", id.ClubID, "reservation_id", res.ID, "refund_cents", res.TotalCents)

	if s.notifier != nil {
		payer, err := s.users.FindByID(ctx, id.ClubID, res.UserID)
		if err == nil && payer.Email != "" {
			courtName := res.CourtID
			if c, err := s.courts.GetByID(ctx, id.ClubID, res.CourtID); err == nil {
				courtName = c.Name
			}
			if err := s.notifier.SendReservationCancellation(ctx, payer.Email, payer.Name, courtName, res.Date, res.Slots, res.TotalCents); err != nil {
				logger.Error("failed to queue cancellation email", "reservation_id", res.ID, "error", err)
			}
		}
	}

	return res, nil
}

func (s *service) ListMine(ctx context.Context, id auth.Identity, limit, offset int) ([]Reservation, error) {
	return s.repo.ListByUser(ctx, id.ClubID, id.UserID, limit, offset)
}

func (s *service) ListForCourt(ctx context.Context, id auth.Identity, courtID string, date time.Time) ([]Reservation, error) {
	return s.repo.ListByCourtDate(ctx, id.ClubID, courtID, date)
}

func (s *service) Report(ctx context.Context, id auth.Identity, from, to time.Time) (*Report, error) {
	if to.Before(from) || to.Sub(from) > maxReportDays*24*time.Hour {
		return nil, ErrInvalidRange
	}

	byDay, err := s.repo.StatsByDay(ctx, id.ClubID, from, to)
	if err != nil {
		return nil, fmt.Errorf("stats by day: %w", err)
	}
	byCourt, err := s.repo.StatsByCourt(ctx, id.ClubID, from, to)
	if err != nil {
		return nil, fmt.Errorf("stats by court: %w", err)
	}

	rep := &Report{
		From:    from.Format(court.DateLayout),
		To:      to.Format(court.DateLayout),
		ByDay:   byDay,
		ByCourt: byCourt,
	}
	for _, d := range byDay {
		rep.Active += d.Active
		rep.Cancelled += d.Cancelled
		rep.RevenueCents += d.RevenueCents
	}
	return rep, nil
}

// maxDiscount is the discount metadata stored with a reservation: the
// largest percentage applied to any of its slots.
func maxDiscount(b pricing.Breakdown) float64 {
	var pct float64
	for _, q := range b.Slots {
		if q.DiscountPercent > pct {
			pct = q.DiscountPercent
		}
	}
	return pct
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, wallet.ErrWalletBlocked):
		return "wallet_blocked"
	case errors.Is(err, ErrSlotTaken):
		return "slot_taken"
	default:
		return "error"
	}
}
