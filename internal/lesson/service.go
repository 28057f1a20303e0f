package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"clubdesk/internal/attendance"
	"clubdesk/internal/auth"
	"clubdesk/internal/installment"
	"clubdesk/internal/logger"
	"clubdesk/internal/metrics"
	"clubdesk/internal/pricing"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidStartTime   = errors.New("invalid lesson start time")
	ErrLessonInactive     = errors.New("lesson is not accepting students")
	ErrLessonFull         = errors.New("lesson is full")
	ErrAlreadyEnrolled    = errors.New("student already has an active package for this lesson")
	ErrEnrollmentClosed   = errors.New("enrollment is cancelled")
	ErrOverpayment        = errors.New("payments would exceed the package price")
	ErrInvalidInstallment = errors.New("installment number outside the plan")
	ErrInvalidStatus      = errors.New("invalid request status filter")
)

// Notifier delivers lesson emails. Failures are logged and never undo the
// operation that triggered them.
type Notifier interface {
	SendRequestDecision(ctx context.Context, to, name, lesson string, approved bool, note string) error
	SendInstallmentReminder(ctx context.Context, to, name, lesson string, number int, amount int64, due time.Time) error
}

type Service interface {
	CreateCoach(ctx context.Context, id auth.Identity, req CoachRequest) (*Coach, error)
	UpdateCoach(ctx context.Context, id auth.Identity, coachID string, req CoachRequest) (*Coach, error)
	ListCoaches(ctx context.Context, id auth.Identity) ([]Coach, error)

	CreateStudent(ctx context.Context, id auth.Identity, req StudentRequest) (*Student, error)
	UpdateStudent(ctx context.Context, id auth.Identity, studentID string, req StudentRequest) (*Student, error)
	ListStudents(ctx context.Context, id auth.Identity, limit, offset int) ([]Student, error)

	CreateLesson(ctx context.Context, id auth.Identity, req LessonRequest) (*Lesson, error)
	UpdateLesson(ctx context.Context, id auth.Identity, lessonID string, req LessonRequest) (*Lesson, error)
	ListLessons(ctx context.Context, id auth.Identity) ([]Lesson, error)

	Enroll(ctx context.Context, id auth.Identity, lessonID string, req EnrollRequest) (*Statement, error)
	ListEnrollments(ctx context.Context, id auth.Identity, lessonID string) ([]Enrollment, error)
	CancelEnrollment(ctx context.Context, id auth.Identity, enrollmentID string) error
	RenewPackage(ctx context.Context, id auth.Identity, enrollmentID string, req PackageRequest) (*Statement, error)
	ListInstallments(ctx context.Context, id auth.Identity, enrollmentID string) (*Statement, error)

	RecordPayment(ctx context.Context, id auth.Identity, enrollmentID string, req PaymentRequest) (*Payment, error)
	ListPayments(ctx context.Context, id auth.Identity, enrollmentID string) ([]Payment, error)
	DeletePayment(ctx context.Context, id auth.Identity, paymentID string, req DeletePaymentRequest) (*Payment, error)

	MarkAttendance(ctx context.Context, id auth.Identity, enrollmentID string, req AttendanceRequest) (*AttendanceRecord, *Enrollment, error)
	ListAttendance(ctx context.Context, id auth.Identity, enrollmentID string) ([]AttendanceRecord, error)

	SubmitRequest(ctx context.Context, id auth.Identity, req SubmitRequest) (*Request, error)
	ApproveRequest(ctx context.Context, id auth.Identity, requestID string, req ApproveRequest) (*Request, *Enrollment, error)
	RejectRequest(ctx context.Context, id auth.Identity, requestID string, req RejectRequest) (*Request, error)
	ListRequests(ctx context.Context, id auth.Identity, status string) ([]Request, error)
}

type service struct {
	repo     Repository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		now:      time.Now,
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

func (s *service) CreateCoach(ctx context.Context, id auth.Identity, req CoachRequest) (*Coach, error) {
	c := &Coach{
		ClubID:    id.ClubID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		Email:     req.Email,
		Specialty: req.Specialty,
		Active:    req.Active == nil || *req.Active,
	}
	if err := s.repo.CreateCoach(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateCoach(ctx context.Context, id auth.Identity, coachID string, req CoachRequest) (*Coach, error) {
	c, err := s.repo.GetCoach(ctx, id.ClubID, coachID)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(req.Name)
	c.Phone = req.Phone
	c.Email = req.Email
	c.Specialty = req.Specialty
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.repo.UpdateCoach(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListCoaches(ctx context.Context, id auth.Identity) ([]Coach, error) {
	return s.repo.ListCoaches(ctx, id.ClubID)
}

func applyStudent(st *Student, req StudentRequest) error {
	st.Name = strings.TrimSpace(req.Name)
	st.Phone = req.Phone
	st.Email = strings.ToLower(strings.TrimSpace(req.Email))
	st.Notes = req.Notes
	st.BirthDate = nil
	if req.BirthDate != "" {
		d, err := parseDate(req.BirthDate)
		if err != nil {
			return err
		}
		st.BirthDate = &d
	}
	return nil
}

func (s *service) CreateStudent(ctx context.Context, id auth.Identity, req StudentRequest) (*Student, error) {
	st := &Student{ClubID: id.ClubID}
	if err := applyStudent(st, req); err != nil {
		return nil, err
	}
	if err := s.repo.CreateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) UpdateStudent(ctx context.Context, id auth.Identity, studentID string, req StudentRequest) (*Student, error) {
	st, err := s.repo.GetStudent(ctx, id.ClubID, studentID)
	if err != nil {
		return nil, err
	}
	if err := applyStudent(st, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStudent(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *service) ListStudents(ctx context.Context, id auth.Identity, limit, offset int) ([]Student, error) {
	return s.repo.ListStudents(ctx, id.ClubID, limit, offset)
}

func (s *service) applyLesson(ctx context.Context, clubID string, l *Lesson, req LessonRequest) error {
	minutes, err := pricing.ParseSlot(req.StartTime)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStartTime, req.StartTime)
	}
	if _, err := s.repo.GetCoach(ctx, clubID, req.CoachID); err != nil {
		return err
	}

	l.CoachID = req.CoachID
	l.Title = strings.TrimSpace(req.Title)
	l.Weekday = req.Weekday
	l.StartTime = pricing.FormatSlot(minutes)
	l.DurationMinutes = req.DurationMinutes
	l.Capacity = req.Capacity
	l.PackageSize = req.PackageSize
	l.PriceCents = req.PriceCents
	if req.Active != nil {
		l.Active = *req.Active
	}
	return nil
}

func (s *service) CreateLesson(ctx context.Context, id auth.Identity, req LessonRequest) (*Lesson, error) {
	l := &Lesson{ClubID: id.ClubID, Active: true}
	if err := s.applyLesson(ctx, id.ClubID, l, req); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) UpdateLesson(ctx context.Context, id auth.Identity, lessonID string, req LessonRequest) (*Lesson, error) {
	l, err := s.repo.GetLesson(ctx, id.ClubID, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.applyLesson(ctx, id.ClubID, l, req); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLesson(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) ListLessons(ctx context.Context, id auth.Identity) ([]Lesson, error) {
	return s.repo.ListLessons(ctx, id.ClubID)
}

// newPackage fills the package terms of e from req, falling back to the
// lesson defaults, and builds the installment plan for them.
func newPackage(l *Lesson, e *Enrollment, req PackageRequest) ([]installment.Plan, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	e.PackageSize = l.PackageSize
	if req.PackageSize > 0 {
		e.PackageSize = req.PackageSize
	}
	e.PriceCents = l.PriceCents
	if req.PriceCents != nil {
		e.PriceCents = *req.PriceCents
	}
	e.InstallmentCount = req.InstallmentCount
	e.StartDate = start
	e.DueDay = req.DueDay

	return installment.Schedule(e.PriceCents, e.InstallmentCount, e.StartDate, e.DueDay)
}

// checkSeat verifies the lesson can take the student.
func (s *service) checkSeat(ctx context.Context, l *Lesson, studentID string) error {
	if !l.Active {
		return ErrLessonInactive
	}

	if studentID != "" {
		enrolled, err := s.repo.HasActiveEnrollment(ctx, l.ClubID, l.ID, studentID)
		if err != nil {
			return err
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}
	}

	n, err := s.repo.CountActiveEnrollments(ctx, l.ClubID, l.ID)
	if err != nil {
		return err
	}
	if n >= l.Capacity {
		return ErrLessonFull
	}
	return nil
}

func (s *service) Enroll(ctx context.Context, id auth.Identity, lessonID string, req EnrollRequest) (*Statement, error) {
	l, err := s.repo.GetLesson(ctx, id.ClubID, lessonID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStudent(ctx, id.ClubID, req.StudentID); err != nil {
		return nil, err
	}
	if err := s.checkSeat(ctx, l, req.StudentID); err != nil {
		return nil, err
	}

	e := &Enrollment{
		ClubID:    id.ClubID,
		LessonID:  l.ID,
		StudentID: req.StudentID,
		Status:    EnrollmentActive,
	}
	plans, err := newPackage(l, e, req.PackageRequest)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Enroll(ctx, e, plans); err != nil {
		return nil, err
	}

	logger.Info("Student enrolled", "club_id", id.ClubID, "lesson_id", l.ID, "enrollment_id", e.ID)
	return s.statement(ctx, e)
}

func (s *service) ListEnrollments(ctx context.Context, id auth.Identity, lessonID string) ([]Enrollment, error) {
	if _, err := s.repo.GetLesson(ctx, id.ClubID, lessonID); err != nil {
		return nil, err
	}
	return s.repo.ListEnrollments(ctx, id.ClubID, lessonID)
}

func (s *service) CancelEnrollment(ctx context.Context, id auth.Identity, enrollmentID string) error {
	return s.repo.SetEnrollmentStatus(ctx, id.ClubID, enrollmentID, EnrollmentCancelled)
}

// RenewPackage starts a new cycle: the attended counter resets and a fresh
// installment plan is written. Payments of earlier cycles stay untouched.
func (s *service) RenewPackage(ctx context.Context, id auth.Identity, enrollmentID string, req PackageRequest) (*Statement, error) {
	e, err := s.repo.GetEnrollment(ctx, id.ClubID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if e.Status == EnrollmentCancelled {
		return nil, ErrEnrollmentClosed
	}
	l, err := s.repo.GetLesson(ctx, id.ClubID, e.LessonID)
	if err != nil {
		return nil, err
	}

	plans, err := newPackage(l, e, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Renew(ctx, e, plans); err != nil {
		return nil, err
	}

	logger.Info("Package renewed", "club_id", id.ClubID, "enrollment_id", e.ID, "cycle", e.Cycle)
	return s.statement(ctx, e)
}

func (s *service) ListInstallments(ctx context.Context, id auth.Identity, enrollmentID string) (*Statement, error) {
	e, err := s.repo.GetEnrollment(ctx, id.ClubID, enrollmentID)
	if err != nil {
		return nil, err
	}
	return s.statement(ctx, e)
}

// statement derives the status of every installment in the current cycle
// from what has been paid so far.
func (s *service) statement(ctx context.Context, e *Enrollment) (*Statement, error) {
	items, err := s.repo.ListInstallments(ctx, e.ClubID, e.ID, e.Cycle)
	if err != nil {
		return nil, err
	}
	paid, err := s.repo.PaidTotal(ctx, e.ClubID, e.ID, e.Cycle)
	if err != nil {
		return nil, err
	}

	plans := make([]installment.Plan, len(items))
	for i, it := range items {
		plans[i] = it.Plan()
	}
	lines := installment.Summarize(plans, paid, s.now())

	views := make([]InstallmentView, len(items))
	for i, it := range items {
		views[i] = InstallmentView{
			Installment: it,
			PaidCents:   lines[i].Paid,
			Status:      lines[i].Status,
		}
	}

	return &Statement{
		Enrollment:       e,
		Installments:     views,
		PaidCents:        paid,
		OutstandingCents: installment.Outstanding(plans, paid),
	}, nil
}

func (s *service) RecordPayment(ctx context.Context, id auth.Identity, enrollmentID string, req PaymentRequest) (*Payment, error) {
	paidAt := s.now().UTC()
	if req.PaidAt != "" {
		d, err := parseDate(req.PaidAt)
		if err != nil {
			return nil, err
		}
		paidAt = d
	}

	p := &Payment{
		ClubID:            id.ClubID,
		EnrollmentID:      enrollmentID,
		AmountCents:       req.AmountCents,
		Method:            req.Method,
		InstallmentNumber: req.InstallmentNumber,
		PaidAt:            paidAt,
		Note:              req.Note,
		RecordedBy:        id.UserID,
	}

	err := s.repo.CreatePayment(ctx, p, func(e *Enrollment, paid int64) error {
		if e.Status == EnrollmentCancelled {
			return ErrEnrollmentClosed
		}
		if n := req.InstallmentNumber; n != nil && *n > e.InstallmentCount {
			return fmt.Errorf("%w: %d", ErrInvalidInstallment, *n)
		}
		if paid+req.AmountCents > e.PriceCents {
			return fmt.Errorf("%w: %d already paid of %d", ErrOverpayment, paid, e.PriceCents)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordLessonPayment(p.Method)
	logger.Info("Lesson payment recorded",
		"club_id", id.ClubID,
		"enrollment_id", enrollmentID,
		"amount_cents", p.AmountCents,
		"method", p.Method,
	)
	return p, nil
}

func (s *service) ListPayments(ctx context.Context, id auth.Identity, enrollmentID string) ([]Payment, error) {
	if _, err := s.repo.GetEnrollment(ctx, id.ClubID, enrollmentID); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, id.ClubID, enrollmentID)
}

func (s *service) DeletePayment(ctx context.Context, id auth.Identity, paymentID string, req DeletePaymentRequest) (*Payment, error) {
	p, err := s.repo.DeletePayment(ctx, id.ClubID, paymentID, strings.TrimSpace(req.Reason))
	if err != nil {
		return nil, err
	}
	logger.Info("Lesson payment deleted", "club_id", id.ClubID, "payment_id", paymentID, "by", id.UserID)
	return p, nil
}

func (s *service) MarkAttendance(ctx context.Context, id auth.Identity, enrollmentID string, req AttendanceRequest) (*AttendanceRecord, *Enrollment, error) {
	status, err := attendance.ParseStatus(req.Status)
	if err != nil {
		return nil, nil, err
	}
	date, err := parseDate(req.SessionDate)
	if err != nil {
		return nil, nil, err
	}

	rec := &AttendanceRecord{
		ClubID:       id.ClubID,
		EnrollmentID: enrollmentID,
		SessionDate:  date,
		Status:       status,
		MarkedBy:     id.UserID,
	}

	e, err := s.repo.MarkAttendance(ctx, rec, func(e *Enrollment, from attendance.Status) (int, error) {
		if e.Status == EnrollmentCancelled {
			return e.Attended, ErrEnrollmentClosed
		}
		return attendance.Apply(e.Attended, e.PackageSize, from, status)
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordAttendance(string(status))
	return rec, e, nil
}

func (s *service) ListAttendance(ctx context.Context, id auth.Identity, enrollmentID string) ([]AttendanceRecord, error) {
	if _, err := s.repo.GetEnrollment(ctx, id.ClubID, enrollmentID); err != nil {
		return nil, err
	}
	return s.repo.ListAttendance(ctx, id.ClubID, enrollmentID)
}

func (s *service) SubmitRequest(ctx context.Context, id auth.Identity, req SubmitRequest) (*Request, error) {
	l, err := s.repo.GetLesson(ctx, id.ClubID, req.LessonID)
	if err != nil {
		return nil, err
	}
	if !l.Active {
		return nil, ErrLessonInactive
	}

	r := &Request{
		ClubID:       id.ClubID,
		LessonID:     l.ID,
		UserID:       id.UserID,
		StudentName:  strings.TrimSpace(req.StudentName),
		StudentEmail: strings.ToLower(strings.TrimSpace(req.StudentEmail)),
		StudentPhone: req.StudentPhone,
		Message:      req.Message,
	}
	if err := s.repo.CreateRequest(ctx, r); err != nil {
		return nil, err
	}

	metrics.RecordEnrollmentRequest(string(RequestPending))
	return r, nil
}

func (s *service) pendingRequest(ctx context.Context, clubID, requestID string) (*Request, *Lesson, error) {
	r, err := s.repo.GetRequest(ctx, clubID, requestID)
	if err != nil {
		return nil, nil, err
	}
	if r.Status != RequestPending {
		return nil, nil, ErrRequestDecided
	}
	l, err := s.repo.GetLesson(ctx, clubID, r.LessonID)
	if err != nil {
		return nil, nil, err
	}
	return r, l, nil
}

// ApproveRequest enrolls the requesting student, creating the student record
// first when no student with that email exists.
func (s *service) ApproveRequest(ctx context.Context, id auth.Identity, requestID string, req ApproveRequest) (*Request, *Enrollment, error) {
	r, l, err := s.pendingRequest(ctx, id.ClubID, requestID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.checkSeat(ctx, l, ""); err != nil {
		return nil, nil, err
	}

	e := &Enrollment{
		ClubID:   id.ClubID,
		LessonID: l.ID,
		Status:   EnrollmentActive,
	}
	plans, err := newPackage(l, e, req.PackageRequest)
	if err != nil {
		return nil, nil, err
	}

	st := &Student{
		ClubID: id.ClubID,
		Name:   r.StudentName,
		Email:  r.StudentEmail,
		Phone:  r.StudentPhone,
	}
	decidedBy := id.UserID
	r.DecisionNote = req.Note
	r.DecidedBy = &decidedBy

	if err := s.repo.Approve(ctx, r, st, e, plans); err != nil {
		return nil, nil, err
	}

	metrics.RecordEnrollmentRequest(string(RequestApproved))
	s.notifyDecision(ctx, r, l, true)
	return r, e, nil
}

func (s *service) RejectRequest(ctx context.Context, id auth.Identity, requestID string, req RejectRequest) (*Request, error) {
	r, l, err := s.pendingRequest(ctx, id.ClubID, requestID)
	if err != nil {
		return nil, err
	}

	decidedBy := id.UserID
	r.DecisionNote = req.Note
	r.DecidedBy = &decidedBy

	if err := s.repo.Reject(ctx, r); err != nil {
		return nil, err
	}

	metrics.RecordEnrollmentRequest(string(RequestRejected))
	s.notifyDecision(ctx, r, l, false)
	return r, nil
}

func (s *service) notifyDecision(ctx context.Context, r *Request, l *Lesson, approved bool) {
	if s.notifier == nil || r.StudentEmail == "" {
		return
	}
	err := s.notifier.SendRequestDecision(ctx, r.StudentEmail, r.StudentName, l.Title, approved, r.DecisionNote)
	if err != nil {
		logger.Error("Failed to queue request decision email", "request_id", r.ID, "error", err)
	}
}

func (s *service) ListRequests(ctx context.Context, id auth.Identity, status string) ([]Request, error) {
	st := RequestStatus(status)
	switch st {
	case "", RequestPending, RequestApproved, RequestRejected:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.repo.ListRequests(ctx, id.ClubID, st)
}
