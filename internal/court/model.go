package court

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"clubdesk/internal/pricing"
)

// DateLayout is the calendar date format used in paths, queries and storage.
const DateLayout = "2006-01-02"

// PriceTable maps a user role to an hourly rate in minor units.
type PriceTable map[string]int64

func (p PriceTable) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *PriceTable) Scan(src interface{}) error {
	return scanJSON(src, p)
}

type Discounts []pricing.Discount

func (d Discounts) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d)
}

func (d *Discounts) Scan(src interface{}) error {
	return scanJSON(src, d)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
}

type Court struct {
	ID                   string     `db:"id" json:"id"`
	ClubID               string     `db:"club_id" json:"club_id"`
	Name                 string     `db:"name" json:"name"`
	AvailableFrom        string     `db:"available_from" json:"available_from"`
	AvailableUntil       string     `db:"available_until" json:"available_until"`
	SlotInterval         int        `db:"slot_interval" json:"slot_interval"`
	PriceTable           PriceTable `db:"price_table" json:"price_table"`
	HeatingCentsPerHour  *int64     `db:"heating_cents_per_hour" json:"heating_cents_per_hour,omitempty"`
	LightingCentsPerHour *int64     `db:"lighting_cents_per_hour" json:"lighting_cents_per_hour,omitempty"`
	Discounts            Discounts  `db:"discounts" json:"discounts"`
	Active               bool       `db:"active" json:"active"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

func (c Court) Rates() pricing.Rates {
	return pricing.Rates{
		HourlyByRole:    c.PriceTable,
		HeatingPerHour:  c.HeatingCentsPerHour,
		LightingPerHour: c.LightingCentsPerHour,
		Discounts:       c.Discounts,
		Interval:        c.SlotInterval,
	}
}

// Slots lists every bookable slot of a day.
func (c Court) Slots() ([]string, error) {
	return pricing.GenerateSlots(c.AvailableFrom, c.AvailableUntil, c.SlotInterval)
}

type CourtRequest struct {
	Name                 string             `json:"name" binding:"required,max=100"`
	AvailableFrom        string             `json:"available_from" binding:"required"`
	AvailableUntil       string             `json:"available_until" binding:"required"`
	SlotInterval         int                `json:"slot_interval" binding:"required,gt=0,lte=240"`
	PriceTable           map[string]int64   `json:"price_table" binding:"required"`
	HeatingCentsPerHour  *int64             `json:"heating_cents_per_hour" binding:"omitempty,gte=0"`
	LightingCentsPerHour *int64             `json:"lighting_cents_per_hour" binding:"omitempty,gte=0"`
	Discounts            []pricing.Discount `json:"discounts" binding:"omitempty,dive"`
	Active               *bool              `json:"active"`
}

type SlotState struct {
	Slot      string `json:"slot"`
	Available bool   `json:"available"`
}

type Availability struct {
	CourtID string      `json:"court_id"`
	Date    string      `json:"date"`
	Slots   []SlotState `json:"slots"`
}

// Free returns the slot keys still open for booking.
func (a Availability) Free() []string {
	free := make([]string, 0, len(a.Slots))
	for _, s := range a.Slots {
		if s.Available {
			free = append(free, s.Slot)
		}
	}
	return free
}
