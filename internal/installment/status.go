package installment

import "time"

type Status string

// Persisted values are shared with the existing dashboard data.
const (
	StatusPending Status = "Beklemede"
	StatusPaid    Status = "Ödendi"
	StatusOverdue Status = "Gecikmiş"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// StatusOf derives an installment's status. An unpaid installment becomes
// overdue once now is past the end of its due day.
func StatusOf(amount, paid int64, due, now time.Time) Status {
	if paid >= amount {
		return StatusPaid
	}
	endOfDay := time.Date(due.Year(), due.Month(), due.Day()+1, 0, 0, 0, 0, due.Location())
	if !now.Before(endOfDay) {
		return StatusOverdue
	}
	return StatusPending
}

// Line is a plan with its allocated payments and derived status.
type Line struct {
	Plan
	Paid   int64  `json:"paid"`
	Status Status `json:"status"`
}

// Allocate spreads totalPaid across plans in due order: each installment is
// filled before the next one receives anything.
func Allocate(plans []Plan, totalPaid int64) []int64 {
	paid := make([]int64, len(plans))
	remaining := totalPaid
	for i, p := range plans {
		if remaining <= 0 {
			break
		}
		paid[i] = min(p.Amount, remaining)
		remaining -= paid[i]
	}
	return paid
}

// Summarize derives the paid amount and status of each installment.
func Summarize(plans []Plan, totalPaid int64, now time.Time) []Line {
	paid := Allocate(plans, totalPaid)
	lines := make([]Line, len(plans))
	for i, p := range plans {
		lines[i] = Line{
			Plan:   p,
			Paid:   paid[i],
			Status: StatusOf(p.Amount, paid[i], p.DueDate, now),
		}
	}
	return lines
}

// Outstanding is what is still owed across all plans.
func Outstanding(plans []Plan, totalPaid int64) int64 {
	var total int64
	for _, p := range plans {
		total += p.Amount
	}
	if totalPaid >= total {
		return 0
	}
	return total - totalPaid
}
