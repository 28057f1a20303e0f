package lesson

import (
	"time"

	"clubdesk/internal/attendance"
	"clubdesk/internal/installment"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentFinished  EnrollmentStatus = "finished"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

const (
	MethodCash     = "cash"
	MethodCard     = "card"
	MethodTransfer = "transfer"
)

type Coach struct {
	ID        string    `db:"id" json:"id"`
	ClubID    string    `db:"club_id" json:"club_id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Specialty string    `db:"specialty" json:"specialty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Student struct {
	ID        string     `db:"id" json:"id"`
	ClubID    string     `db:"club_id" json:"club_id"`
	Name      string     `db:"name" json:"name"`
	Phone     string     `db:"phone" json:"phone"`
	Email     string     `db:"email" json:"email"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Notes     string     `db:"notes" json:"notes"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Lesson is a recurring weekly slot run by one coach. PackageSize and
// PriceCents are the defaults copied onto new enrollments.
type Lesson struct {
	ID              string    `db:"id" json:"id"`
	ClubID          string    `db:"club_id" json:"club_id"`
	CoachID         string    `db:"coach_id" json:"coach_id"`
	Title           string    `db:"title" json:"title"`
	Weekday         int       `db:"weekday" json:"weekday"`
	StartTime       string    `db:"start_time" json:"start_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Capacity        int       `db:"capacity" json:"capacity"`
	PackageSize     int       `db:"package_size" json:"package_size"`
	PriceCents      int64     `db:"price_cents" json:"price_cents"`
	Active          bool      `db:"active" json:"active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Enrollment ties a student to a lesson for one package. Cycle grows by one
// on every renewal; installments and payments belong to a single cycle.
type Enrollment struct {
	ID               string           `db:"id" json:"id"`
	ClubID           string           `db:"club_id" json:"club_id"`
	LessonID         string           `db:"lesson_id" json:"lesson_id"`
	StudentID        string           `db:"student_id" json:"student_id"`
	Cycle            int              `db:"cycle" json:"cycle"`
	PackageSize      int              `db:"package_size" json:"package_size"`
	Attended         int              `db:"attended" json:"attended"`
	PriceCents       int64            `db:"price_cents" json:"price_cents"`
	InstallmentCount int              `db:"installment_count" json:"installment_count"`
	StartDate        time.Time        `db:"start_date" json:"start_date"`
	DueDay           int              `db:"due_day" json:"due_day"`
	Status           EnrollmentStatus `db:"status" json:"status"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

func (e *Enrollment) Remaining() int {
	return attendance.Remaining(e.Attended, e.PackageSize)
}

type Installment struct {
	ID             string     `db:"id" json:"id"`
	ClubID         string     `db:"club_id" json:"club_id"`
	EnrollmentID   string     `db:"enrollment_id" json:"enrollment_id"`
	Cycle          int        `db:"cycle" json:"cycle"`
	Number         int        `db:"number" json:"number"`
	AmountCents    int64      `db:"amount_cents" json:"amount_cents"`
	DueDate        time.Time  `db:"due_date" json:"due_date"`
	ReminderSentAt *time.Time `db:"reminder_sent_at" json:"reminder_sent_at,omitempty"`
}

func (i Installment) Plan() installment.Plan {
	return installment.Plan{Number: i.Number, Amount: i.AmountCents, DueDate: i.DueDate}
}

// InstallmentView is an installment with its derived payment state.
type InstallmentView struct {
	Installment
	PaidCents int64              `json:"paid_cents"`
	Status    installment.Status `json:"status"`
}

type Statement struct {
	Enrollment       *Enrollment       `json:"enrollment"`
	Installments     []InstallmentView `json:"installments"`
	PaidCents        int64             `json:"paid_cents"`
	OutstandingCents int64             `json:"outstanding_cents"`
}

// Payment is never removed. Deleting one flags it and records why.
type Payment struct {
	ID                string     `db:"id" json:"id"`
	ClubID            string     `db:"club_id" json:"club_id"`
	EnrollmentID      string     `db:"enrollment_id" json:"enrollment_id"`
	Cycle             int        `db:"cycle" json:"cycle"`
	AmountCents       int64      `db:"amount_cents" json:"amount_cents"`
	Method            string     `db:"method" json:"method"`
	InstallmentNumber *int       `db:"installment_number" json:"installment_number,omitempty"`
	PaidAt            time.Time  `db:"paid_at" json:"paid_at"`
	Note              string     `db:"note" json:"note"`
	RecordedBy        string     `db:"recorded_by" json:"recorded_by"`
	Deleted           bool       `db:"deleted" json:"deleted"`
	DeleteReason      *string    `db:"delete_reason" json:"delete_reason,omitempty"`
	DeletedAt         *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

type AttendanceRecord struct {
	ID           string            `db:"id" json:"id"`
	ClubID       string            `db:"club_id" json:"club_id"`
	EnrollmentID string            `db:"enrollment_id" json:"enrollment_id"`
	SessionDate  time.Time         `db:"session_date" json:"session_date"`
	Status       attendance.Status `db:"status" json:"status"`
	MarkedBy     string            `db:"marked_by" json:"marked_by"`
	UpdatedAt    time.Time         `db:"updated_at" json:"updated_at"`
}

type Request struct {
	ID           string        `db:"id" json:"id"`
	ClubID       string        `db:"club_id" json:"club_id"`
	LessonID     string        `db:"lesson_id" json:"lesson_id"`
	UserID       string        `db:"user_id" json:"user_id"`
	StudentID    *string       `db:"student_id" json:"student_id,omitempty"`
	StudentName  string        `db:"student_name" json:"student_name"`
	StudentEmail string        `db:"student_email" json:"student_email"`
	StudentPhone string        `db:"student_phone" json:"student_phone"`
	Message      string        `db:"message" json:"message"`
	Status       RequestStatus `db:"status" json:"status"`
	DecisionNote string        `db:"decision_note" json:"decision_note"`
	DecidedBy    *string       `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt    *time.Time    `db:"decided_at" json:"decided_at,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}

// Reminder is one unpaid installment coming due, with what is needed to
// email the student about it.
type Reminder struct {
	InstallmentID string    `db:"installment_id"`
	ClubID        string    `db:"club_id"`
	Number        int       `db:"number"`
	AmountCents   int64     `db:"amount_cents"`
	DueDate       time.Time `db:"due_date"`
	CoveredCents  int64     `db:"covered_cents"`
	PaidCents     int64     `db:"paid_cents"`
	StudentName   string    `db:"student_name"`
	StudentEmail  string    `db:"student_email"`
	LessonTitle   string    `db:"lesson_title"`
}

// Outstanding is what is still owed on this installment. Payments fill
// installments in order, so everything up to and including this one is
// covered once PaidCents reaches CoveredCents.
func (r Reminder) Outstanding() int64 {
	owed := r.CoveredCents - r.PaidCents
	if owed <= 0 {
		return 0
	}
	return min(owed, r.AmountCents)
}

type CoachRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	Email     string `json:"email" binding:"omitempty,email"`
	Specialty string `json:"specialty" binding:"omitempty,max=100"`
	Active    *bool  `json:"active"`
}

type StudentRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
	Email     string `json:"email" binding:"omitempty,email"`
	BirthDate string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	Notes     string `json:"notes" binding:"omitempty,max=1000"`
}

type LessonRequest struct {
	CoachID         string `json:"coach_id" binding:"required"`
	Title           string `json:"title" binding:"required,min=2,max=100"`
	Weekday         int    `json:"weekday" binding:"gte=0,lte=6"`
	StartTime       string `json:"start_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0,lte=480"`
	Capacity        int    `json:"capacity" binding:"required,gt=0"`
	PackageSize     int    `json:"package_size" binding:"required,gt=0"`
	PriceCents      int64  `json:"price_cents" binding:"gte=0"`
	Active          *bool  `json:"active"`
}

// PackageRequest starts or renews a package. Zero PackageSize and nil
// PriceCents fall back to the lesson defaults.
type PackageRequest struct {
	PackageSize      int    `json:"package_size" binding:"omitempty,gt=0"`
	PriceCents       *int64 `json:"price_cents" binding:"omitempty,gte=0"`
	InstallmentCount int    `json:"installment_count" binding:"required,gte=1,lte=24"`
	StartDate        string `json:"start_date" binding:"required,datetime=2006-01-02"`
	DueDay           int    `json:"due_day" binding:"required,gte=1,lte=31"`
}

type EnrollRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	PackageRequest
}

type PaymentRequest struct {
	AmountCents       int64  `json:"amount_cents" binding:"required,gt=0"`
	Method            string `json:"method" binding:"required,oneof=cash card transfer"`
	InstallmentNumber *int   `json:"installment_number" binding:"omitempty,gte=1"`
	PaidAt            string `json:"paid_at" binding:"omitempty,datetime=2006-01-02"`
	Note              string `json:"note" binding:"omitempty,max=500"`
}

type DeletePaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

type AttendanceRequest struct {
	SessionDate string `json:"session_date" binding:"required,datetime=2006-01-02"`
	Status      string `json:"status" binding:"required"`
}

type SubmitRequest struct {
	LessonID     string `json:"lesson_id" binding:"required"`
	StudentName  string `json:"student_name" binding:"required,min=2,max=100"`
	StudentEmail string `json:"student_email" binding:"required,email"`
	StudentPhone string `json:"student_phone" binding:"omitempty,max=30"`
	Message      string `json:"message" binding:"omitempty,max=1000"`
}

type ApproveRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
	PackageRequest
}

type RejectRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}
