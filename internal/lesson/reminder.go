package lesson

import (
	"context"
	"time"

	"clubdesk/internal/logger"
)

// ReminderJob emails students about installments coming due within the
// lead window. Each installment is reminded at most once.
type ReminderJob struct {
	repo     Repository
	notifier Notifier
	interval time.Duration
	leadDays int
	now      func() time.Time
}

func NewReminderJob(repo Repository, notifier Notifier, interval time.Duration, leadDays int) *ReminderJob {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderJob{
		repo:     repo,
		notifier: notifier,
		interval: interval,
		leadDays: leadDays,
		now:      time.Now,
	}
}

// Start runs a pass immediately and then once per interval until ctx is
// cancelled.
func (j *ReminderJob) Start(ctx context.Context) {
	logger.Info("reminder job started", "interval", j.interval.String(), "lead_days", j.leadDays)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		if _, err := j.RunOnce(ctx); err != nil && ctx.Err() == nil {
			logger.Error("reminder pass failed", "error", err)
		}

		select {
		case <-ctx.Done():
			logger.Info("reminder job stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce queues reminders for every unpaid installment due between today
// and today plus the lead window, and returns how many were queued.
func (j *ReminderJob) RunOnce(ctx context.Context) (int, error) {
	now := j.now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, j.leadDays)

	due, err := j.repo.DueReminders(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		owed := r.Outstanding()
		if owed == 0 {
			continue
		}

		err := j.notifier.SendInstallmentReminder(ctx, r.StudentEmail, r.StudentName, r.LessonTitle, r.Number, owed, r.DueDate)
		if err != nil {
			logger.Error("Failed to queue installment reminder", "installment_id", r.InstallmentID, "error", err)
			continue
		}

		if err := j.repo.MarkReminderSent(ctx, r.InstallmentID); err != nil {
			logger.Error("Failed to mark reminder sent", "installment_id", r.InstallmentID, "error", err)
			continue
		}
		sent++
	}

	if sent > 0 {
		logger.Info("installment reminders queued", "count", sent)
	}
	return sent, nil
}
