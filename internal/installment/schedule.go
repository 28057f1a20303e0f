package installment

import (
	"errors"
	"time"
)

var (
	ErrInvalidPrice  = errors.New("price must not be negative")
	ErrInvalidCount  = errors.New("installment count must be at least 1")
	ErrInvalidDueDay = errors.New("due day must be between 1 and 31")
)

// Plan is one scheduled partial payment. Number is 1-based.
type Plan struct {
	Number  int       `json:"number"`
	Amount  int64     `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

// Schedule splits price into count monthly installments. Every installment
// but the last is price/count; the last absorbs the remainder so the plan
// always sums to price. Installment i is due i months after start on dueDay,
// clamped to the last day of shorter months.
func Schedule(price int64, count int, start time.Time, dueDay int) ([]Plan, error) {
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if count < 1 {
		return nil, ErrInvalidCount
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, ErrInvalidDueDay
	}

	each := price / int64(count)
	plans := make([]Plan, count)
	for i := range plans {
		amount := each
		if i == count-1 {
			amount = price - each*int64(count-1)
		}
		plans[i] = Plan{
			Number:  i + 1,
			Amount:  amount,
			DueDate: DueDate(start, i, dueDay),
		}
	}
	return plans, nil
}

// DueDate returns start advanced by months with the day forced to dueDay.
func DueDate(start time.Time, months, dueDay int) time.Time {
	first := time.Date(start.Year(), start.Month()+time.Month(months), 1, 0, 0, 0, 0, start.Location())
	last := first.AddDate(0, 1, -1).Day()
	day := dueDay
	if day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, start.Location())
}
