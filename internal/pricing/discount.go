package pricing

// Discount is a percentage reduction for slots starting inside
// [StartHour, EndHour). A window with StartHour > EndHour wraps past
// midnight and covers [StartHour, 24) and [0, EndHour).
type Discount struct {
	StartHour int     `json:"start_hour" binding:"gte=0,lte=23"`
	EndHour   int     `json:"end_hour" binding:"gte=0,lte=24"`
	Percent   float64 `json:"percent" binding:"gte=0,lte=100"`
}

func (d Discount) Covers(hour int) bool {
	switch {
	case d.StartHour == d.EndHour:
		return false
	case d.StartHour < d.EndHour:
		return hour >= d.StartHour && hour < d.EndHour
	default:
		return hour >= d.StartHour || hour < d.EndHour
	}
}

// FindDiscount returns the first configured discount covering hour.
// Discounts never stack.
func FindDiscount(discounts []Discount, hour int) (Discount, bool) {
	for _, d := range discounts {
		if d.Covers(hour) {
			return d, true
		}
	}
	return Discount{}, false
}
