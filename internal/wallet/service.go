package wallet

import (
	"context"
	"errors"
	"fmt"

	"clubdesk/internal/auth"
	"clubdesk/internal/logger"
	"clubdesk/internal/metrics"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidLimit        = errors.New("negative balance limit must not be negative")
	ErrWalletBlocked       = errors.New("wallet is blocked")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

type Service interface {
	Get(ctx context.Context, id auth.Identity) (*Wallet, error)
	GetFor(ctx context.Context, id auth.Identity, userID string) (*Wallet, error)
	ListActivity(ctx context.Context, id auth.Identity, limit, offset int) ([]Activity, error)
	TopUp(ctx context.Context, id auth.Identity, userID string, amountCents int64, description string) (*Wallet, error)
	Adjust(ctx context.Context, id auth.Identity, userID string, amountCents int64, description string) (*Wallet, error)
	SetNegativeLimit(ctx context.Context, id auth.Identity, userID string, limitCents int64) (*Wallet, error)
	SetBlocked(ctx context.Context, id auth.Identity, userID string, blocked bool) (*Wallet, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, id auth.Identity) (*Wallet, error) {
	return s.repo.GetOrCreate(ctx, id.ClubID, id.UserID)
}

func (s *service) GetFor(ctx context.Context, id auth.Identity, userID string) (*Wallet, error) {
	return s.repo.GetOrCreate(ctx, id.ClubID, userID)
}

func (s *service) ListActivity(ctx context.Context, id auth.Identity, limit, offset int) ([]Activity, error) {
	return s.repo.ListActivity(ctx, id.ClubID, id.UserID, limit, offset)
}

func (s *service) TopUp(ctx context.Context, id auth.Identity, userID string, amountCents int64, description string) (*Wallet, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		description = "wallet top-up"
	}

	w, err := s.repo.Apply(ctx, id.ClubID, userID, Entry{
		AmountCents: amountCents,
		Type:        ActivityTopUp,
		Description: description,
	}, func(w *Wallet) error {
		if w.Blocked {
			return ErrWalletBlocked
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("top up wallet: %w", err)
	}

	metrics.RecordWalletTopUp()
	logger.Info("wallet topped up", "club_id", id.ClubID, "user_id", userID, "amount_cents", amountCents, "by", id.UserID)
	return w, nil
}

// Adjust applies a signed staff correction. A debit may not take the
// balance below the wallet's floor.
func (s *service) Adjust(ctx context.Context, id auth.Identity, userID string, amountCents int64, description string) (*Wallet, error) {
	if amountCents == 0 {
		return nil, ErrInvalidAmount
	}

	w, err := s.repo.Apply(ctx, id.ClubID, userID, Entry{
		AmountCents: amountCents,
		Type:        ActivityAdjustment,
		Description: description,
	}, func(w *Wallet) error {
		if amountCents < 0 && w.BalanceCents+amountCents < w.Floor() {
			return ErrInsufficientBalance
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adjust wallet: %w", err)
	}

	logger.Info("wallet adjusted", "club_id", id.ClubID, "user_id", userID, "amount_cents", amountCents, "by", id.UserID)
	return w, nil
}

func (s *service) SetNegativeLimit(ctx context.Context, id auth.Identity, userID string, limitCents int64) (*Wallet, error) {
	if limitCents < 0 {
		return nil, ErrInvalidLimit
	}
	w, err := s.repo.SetNegativeLimit(ctx, id.ClubID, userID, limitCents)
	if err != nil {
		return nil, fmt.Errorf("set negative limit: %w", err)
	}
	return w, nil
}

func (s *service) SetBlocked(ctx context.Context, id auth.Identity, userID string, blocked bool) (*Wallet, error) {
	w, err := s.repo.SetBlocked(ctx, id.ClubID, userID, blocked)
	if err != nil {
		return nil, fmt.Errorf("set wallet blocked: %w", err)
	}
	logger.Info("wallet block changed", "club_id", id.ClubID, "user_id", userID, "blocked", blocked)
	return w, nil
}
