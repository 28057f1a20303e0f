package lesson

import (
	"context"
	"time"

	"clubdesk/internal/attendance"
	"clubdesk/internal/installment"
)

// PaymentCheck sees the locked enrollment and what has already been paid in
// its current cycle before a payment is written.
type PaymentCheck func(e *Enrollment, paidCents int64) error

// AttendanceApply computes the new attended counter for a status change.
type AttendanceApply func(e *Enrollment, from attendance.Status) (int, error)

type Repository interface {
	CreateCoach(ctx context.Context, c *Coach) error
	UpdateCoach(ctx context.Context, c *Coach) error
	GetCoach(ctx context.Context, clubID, id string) (*Coach, error)
	ListCoaches(ctx context.Context, clubID string) ([]Coach, error)

	CreateStudent(ctx context.Context, s *Student) error
	UpdateStudent(ctx context.Context, s *Student) error
	GetStudent(ctx context.Context, clubID, id string) (*Student, error)
	ListStudents(ctx context.Context, clubID string, limit, offset int) ([]Student, error)

	CreateLesson(ctx context.Context, l *Lesson) error
	UpdateLesson(ctx context.Context, l *Lesson) error
	GetLesson(ctx context.Context, clubID, id string) (*Lesson, error)
	ListLessons(ctx context.Context, clubID string) ([]Lesson, error)

	// Enroll writes the enrollment and its installment plan atomically.
	Enroll(ctx context.Context, e *Enrollment, plans []installment.Plan) error
	// Renew locks the enrollment, starts its next cycle and writes the new plan.
	Renew(ctx context.Context, e *Enrollment, plans []installment.Plan) error
	GetEnrollment(ctx context.Context, clubID, id string) (*Enrollment, error)
	ListEnrollments(ctx context.Context, clubID, lessonID string) ([]Enrollment, error)
	CountActiveEnrollments(ctx context.Context, clubID, lessonID string) (int, error)
	HasActiveEnrollment(ctx context.Context, clubID, lessonID, studentID string) (bool, error)
	SetEnrollmentStatus(ctx context.Context, clubID, id string, status EnrollmentStatus) error

	ListInstallments(ctx context.Context, clubID, enrollmentID string, cycle int) ([]Installment, error)
	// DueReminders returns unreminded installments of active enrollments due
	// in [from, to], across all clubs.
	DueReminders(ctx context.Context, from, to time.Time) ([]Reminder, error)
	MarkReminderSent(ctx context.Context, installmentID string) error

	CreatePayment(ctx context.Context, p *Payment, check PaymentCheck) error
	ListPayments(ctx context.Context, clubID, enrollmentID string) ([]Payment, error)
	PaidTotal(ctx context.Context, clubID, enrollmentID string, cycle int) (int64, error)
	DeletePayment(ctx context.Context, clubID, paymentID, reason string) (*Payment, error)

	// MarkAttendance upserts the session record and the enrollment counter
	// in one transaction.
	MarkAttendance(ctx context.Context, rec *AttendanceRecord, apply AttendanceApply) (*Enrollment, error)
	ListAttendance(ctx context.Context, clubID, enrollmentID string) ([]AttendanceRecord, error)

	CreateRequest(ctx context.Context, r *Request) error
	GetRequest(ctx context.Context, clubID, id string) (*Request, error)
	ListRequests(ctx context.Context, clubID string, status RequestStatus) ([]Request, error)
	// Approve finds or creates the student by email, enrolls them and closes
	// the request in one transaction.
	Approve(ctx context.Context, r *Request, s *Student, e *Enrollment, plans []installment.Plan) error
	Reject(ctx context.Context, r *Request) error
}
