package pricing

import (
	"errors"
	"fmt"
	"math"
)

// DefaultRole is the price table entry used when a role has no override.
const DefaultRole = "member"

var (
	ErrNoRate            = errors.New("no hourly rate configured")
	ErrHeaterUnavailable = errors.New("court does not offer heating")
	ErrLightUnavailable  = errors.New("court does not offer lighting")
)

// Rates is everything about a court that affects what a reservation costs.
// All amounts are minor currency units per hour.
type Rates struct {
	HourlyByRole    map[string]int64
	HeatingPerHour  *int64
	LightingPerHour *int64
	Discounts       []Discount
	Interval        int
}

type AddOns struct {
	Heater bool `json:"heater"`
	Light  bool `json:"light"`
}

type SlotQuote struct {
	Slot            string  `json:"slot"`
	OriginalPrice   int64   `json:"original_price"`
	DiscountedPrice int64   `json:"discounted_price"`
	DiscountPercent float64 `json:"discount_percent"`
}

type Breakdown struct {
	Slots          []SlotQuote `json:"slots"`
	CourtFee       int64       `json:"court_fee"`
	HeaterFee      int64       `json:"heater_fee"`
	LightFee       int64       `json:"light_fee"`
	DiscountAmount int64       `json:"discount_amount"`
	Total          int64       `json:"total"`
}

// HourlyRate falls back to the member rate when role has no entry.
func (r Rates) HourlyRate(role string) (int64, error) {
	if rate, ok := r.HourlyByRole[role]; ok {
		return rate, nil
	}
	if rate, ok := r.HourlyByRole[DefaultRole]; ok {
		return rate, nil
	}
	return 0, fmt.Errorf("%w for role %q", ErrNoRate, role)
}

// SlotPrice prices a single slot. OriginalPrice is always the undiscounted
// figure so callers can render strikethrough pricing.
func SlotPrice(r Rates, start, role string, interval int) (SlotQuote, error) {
	if interval <= 0 {
		return SlotQuote{}, ErrInvalidInterval
	}
	minutes, err := ParseSlot(start)
	if err != nil {
		return SlotQuote{}, err
	}
	hourly, err := r.HourlyRate(role)
	if err != nil {
		return SlotQuote{}, err
	}

	original := scale(hourly, interval)
	q := SlotQuote{
		Slot:            FormatSlot(minutes),
		OriginalPrice:   original,
		DiscountedPrice: original,
	}
	if d, ok := FindDiscount(r.Discounts, minutes/60); ok {
		q.DiscountPercent = d.Percent
		q.DiscountedPrice = applyPercent(original, d.Percent)
	}
	return q, nil
}

// TotalPrice prices a contiguous block of slots plus add-ons. Add-on
// surcharges are never discounted.
func TotalPrice(r Rates, slots []string, role string, addOns AddOns) (Breakdown, error) {
	ordered, err := NormalizeSlots(slots, r.Interval)
	if err != nil {
		return Breakdown{}, err
	}
	if addOns.Heater && r.HeatingPerHour == nil {
		return Breakdown{}, ErrHeaterUnavailable
	}
	if addOns.Light && r.LightingPerHour == nil {
		return Breakdown{}, ErrLightUnavailable
	}

	b := Breakdown{Slots: make([]SlotQuote, 0, len(ordered))}
	for _, s := range ordered {
		q, err := SlotPrice(r, s, role, r.Interval)
		if err != nil {
			return Breakdown{}, err
		}
		b.Slots = append(b.Slots, q)
		b.CourtFee += q.DiscountedPrice
		b.DiscountAmount += q.OriginalPrice - q.DiscountedPrice
	}

	bookedMinutes := len(ordered) * r.Interval
	if addOns.Heater {
		b.HeaterFee = scale(*r.HeatingPerHour, bookedMinutes)
	}
	if addOns.Light {
		b.LightFee = scale(*r.LightingPerHour, bookedMinutes)
	}
	b.Total = b.CourtFee + b.HeaterFee + b.LightFee
	return b, nil
}

// SplitShare divides total across participants for display. Leftover minor
// units go to the first participants so the shares always add up to total.
func SplitShare(total int64, participants int) []int64 {
	if participants <= 0 {
		return nil
	}
	n := int64(participants)
	base, rem := total/n, total%n
	shares := make([]int64, participants)
	for i := range shares {
		shares[i] = base
		if int64(i) < rem {
			shares[i]++
		}
	}
	return shares
}

func scale(hourly int64, minutes int) int64 {
	return int64(math.Round(float64(hourly) * float64(minutes) / 60))
}

func applyPercent(amount int64, percent float64) int64 {
	return int64(math.Round(float64(amount) * (100 - percent) / 100))
}
