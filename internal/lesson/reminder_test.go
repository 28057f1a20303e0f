package lesson

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReminder_Outstanding(t *testing.T) {
	tests := []struct {
		name string
		r    Reminder
		want int64
	}{
		{"nothing paid", Reminder{AmountCents: 3000, CoveredCents: 6000, PaidCents: 0}, 3000},
		{"partially covered", Reminder{AmountCents: 3000, CoveredCents: 6000, PaidCents: 4000}, 2000},
		{"fully covered", Reminder{AmountCents: 3000, CoveredCents: 6000, PaidCents: 6000}, 0},
		{"overpaid earlier", Reminder{AmountCents: 3000, CoveredCents: 3000, PaidCents: 9000}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Outstanding())
		})
	}
}

func TestReminderJob_RunOnce(t *testing.T) {
	repo := new(MockRepository)
	notifier := new(MockNotifier)
	ctx := context.Background()

	job := NewReminderJob(repo, notifier, time.Hour, 3)
	job.now = func() time.Time { return time.Date(2026, time.March, 7, 15, 30, 0, 0, time.UTC) }

	from := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	repo.On("DueReminders", ctx, from, to).Return([]Reminder{
		{InstallmentID: "i2", Number: 2, AmountCents: 3000, CoveredCents: 6000, PaidCents: 4000, DueDate: due,
			StudentName: "Kid", StudentEmail: "kid@example.com", LessonTitle: "Junior tennis"},
		{InstallmentID: "i5", Number: 1, AmountCents: 2000, CoveredCents: 2000, PaidCents: 2000, DueDate: due,
			StudentName: "Paid", StudentEmail: "paid@example.com", LessonTitle: "Padel"},
		{InstallmentID: "i7", Number: 1, AmountCents: 1000, CoveredCents: 1000, DueDate: due,
			StudentName: "Broken", StudentEmail: "broken@example.com", LessonTitle: "Padel"},
	}, nil)

	notifier.On("SendInstallmentReminder", ctx, "kid@example.com", "Kid", "Junior tennis", 2, int64(2000), due).Return(nil)
	notifier.On("SendInstallmentReminder", ctx, "broken@example.com", "Broken", "Padel", 1, int64(1000), due).
		Return(errors.New("queue unavailable"))
	repo.On("MarkReminderSent", ctx, "i2").Return(nil)

	sent, err := job.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	notifier.AssertNotCalled(t, "SendInstallmentReminder", ctx, "paid@example.com", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "MarkReminderSent", ctx, "i7")
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReminderJob_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	ctx := context.Background()

	job := NewReminderJob(repo, new(MockNotifier), 0, 3)
	repo.On("DueReminders", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := job.RunOnce(ctx)
	assert.Error(t, err)
	assert.Equal(t, time.Hour, job.interval)
}

func TestReminderJob_StartStopsOnCancel(t *testing.T) {
	repo := new(MockRepository)
	ctx, cancel := context.WithCancel(context.Background())

	job := NewReminderJob(repo, new(MockNotifier), time.Hour, 3)
	repo.On("DueReminders", mock.Anything, mock.Anything, mock.Anything).Return([]Reminder{}, nil)

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reminder job did not stop")
	}
}
