package email

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2 Jan 2006"

// FormatMoney renders minor units as a decimal amount, e.g. 27050 -> "270.50".
func FormatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func (s *Service) SendReservationConfirmation(ctx context.Context, to, name, court string, date time.Time, slots []string, total int64) error {
	subject := "Reservation confirmed - " + court
	body := fmt.Sprintf(`Hi %s,

Your court reservation is confirmed.

Court: %s
Date: %s
Slots: %s
Charged: %s

- %s`, name, court, date.Format(dateLayout), strings.Join(slots, ", "), FormatMoney(total), s.fromName)

	return s.enqueue(ctx, TypeReservationConfirmation, to, name, subject, body)
}

func (s *Service) SendReservationCancellation(ctx context.Context, to, name, court string, date time.Time, slots []string, refund int64) error {
	subject := "Reservation cancelled - " + court
	body := fmt.Sprintf(`Hi %s,

Your reservation has been cancelled.

Court: %s
Date: %s
Slots: %s
Refunded to wallet: %s

- %s`, name, court, date.Format(dateLayout), strings.Join(slots, ", "), FormatMoney(refund), s.fromName)

	return s.enqueue(ctx, TypeReservationCancellation, to, name, subject, body)
}

func (s *Service) SendInstallmentReminder(ctx context.Context, to, name, lesson string, number int, amount int64, due time.Time) error {
	subject := fmt.Sprintf("Installment %d due %s", number, due.Format(dateLayout))
	body := fmt.Sprintf(`Hi %s,

This is a reminder that installment %d for %s is due on %s.

Amount due: %s

- %s`, name, number, lesson, due.Format(dateLayout), FormatMoney(amount), s.fromName)

	return s.enqueue(ctx, TypeInstallmentReminder, to, name, subject, body)
}

func (s *Service) SendRequestDecision(ctx context.Context, to, name, lesson string, approved bool, note string) error {
	outcome := "declined"
	if approved {
		outcome = "approved"
	}
	subject := fmt.Sprintf("Your request for %s was %s", lesson, outcome)
	body := fmt.Sprintf(`Hi %s,

Your enrollment request for %s was %s.
%s
- %s`, name, lesson, outcome, note, s.fromName)

	return s.enqueue(ctx, TypeRequestDecision, to, name, subject, body)
}
