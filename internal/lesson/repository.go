package lesson

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"clubdesk/internal/attendance"
	"clubdesk/internal/installment"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCoachNotFound      = errors.New("coach not found")
	ErrStudentNotFound    = errors.New("student not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrPaymentDeleted     = errors.New("payment already deleted")
	ErrRequestNotFound    = errors.New("request not found")
	ErrRequestDecided     = errors.New("request already decided")
)

const (
	coachColumns      = `id, club_id, name, phone, email, specialty, active, created_at, updated_at`
	studentColumns    = `id, club_id, name, phone, email, birth_date, notes, created_at, updated_at`
	lessonColumns     = `id, club_id, coach_id, title, weekday, start_time, duration_minutes, capacity, package_size, price_cents, active, created_at, updated_at`
	enrollmentColumns = `id, club_id, lesson_id, student_id, cycle, package_size, attended, price_cents, installment_count, start_date, due_day, status, created_at, updated_at`
	installmentCols   = `id, club_id, enrollment_id, cycle, number, amount_cents, due_date, reminder_sent_at`
	paymentColumns    = `id, club_id, enrollment_id, cycle, amount_cents, method, installment_number, paid_at, note, recorded_by, deleted, delete_reason, deleted_at, created_at`
	attendanceColumns = `id, club_id, enrollment_id, session_date, status, marked_by, updated_at`
	requestColumns    = `id, club_id, lesson_id, user_id, student_id, student_name, student_email, student_phone, message, status, decision_note, decided_by, decided_at, created_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func notFound(err, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

func (r *repository) CreateCoach(ctx context.Context, c *Coach) error {
	c.ID = uuid.NewString()
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO coaches (id, club_id, name, phone, email, specialty, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		c.ID, c.ClubID, c.Name, c.Phone, c.Email, c.Specialty, c.Active,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *repository) UpdateCoach(ctx context.Context, c *Coach) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE coaches
		 SET name = $1, phone = $2, email = $3, specialty = $4, active = $5, updated_at = NOW()
		 WHERE club_id = $6 AND id = $7
		 RETURNING created_at, updated_at`,
		c.Name, c.Phone, c.Email, c.Specialty, c.Active, c.ClubID, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return notFound(err, ErrCoachNotFound)
}

func (r *repository) GetCoach(ctx context.Context, clubID, id string) (*Coach, error) {
	c := &Coach{}
	err := r.db.GetContext(ctx, c,
		`SELECT `+coachColumns+` FROM coaches WHERE club_id = $1 AND id = $2`,
		clubID, id,
	)
	if err != nil {
		return nil, notFound(err, ErrCoachNotFound)
	}
	return c, nil
}

func (r *repository) ListCoaches(ctx context.Context, clubID string) ([]Coach, error) {
	coaches := []Coach{}
	err := r.db.SelectContext(ctx, &coaches,
		`SELECT `+coachColumns+` FROM coaches WHERE club_id = $1 ORDER BY name`,
		clubID,
	)
	return coaches, err
}

func (r *repository) CreateStudent(ctx context.Context, s *Student) error {
	return insertStudent(ctx, r.db, s)
}

func insertStudent(ctx context.Context, q sqlx.QueryerContext, s *Student) error {
	s.ID = uuid.NewString()
	return q.QueryRowxContext(ctx,
		`INSERT INTO students (id, club_id, name, phone, email, birth_date, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		s.ID, s.ClubID, s.Name, s.Phone, s.Email, s.BirthDate, s.Notes,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *repository) UpdateStudent(ctx context.Context, s *Student) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE students
		 SET name = $1, phone = $2, email = $3, birth_date = $4, notes = $5, updated_at = NOW()
		 WHERE club_id = $6 AND id = $7
		 RETURNING created_at, updated_at`,
		s.Name, s.Phone, s.Email, s.BirthDate, s.Notes, s.ClubID, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	return notFound(err, ErrStudentNotFound)
}

func (r *repository) GetStudent(ctx context.Context, clubID, id string) (*Student, error) {
	s := &Student{}
	err := r.db.GetContext(ctx, s,
		`SELECT `+studentColumns+` FROM students WHERE club_id = $1 AND id = $2`,
		clubID, id,
	)
	if err != nil {
		return nil, notFound(err, ErrStudentNotFound)
	}
	return s, nil
}

func (r *repository) ListStudents(ctx context.Context, clubID string, limit, offset int) ([]Student, error) {
	if limit <= 0 {
		limit = 50
	}
	students := []Student{}
	err := r.db.SelectContext(ctx, &students,
		`SELECT `+studentColumns+` FROM students
		 WHERE club_id = $1
		 ORDER BY name
		 LIMIT $2 OFFSET $3`,
		clubID, limit, offset,
	)
	return students, err
}

func (r *repository) CreateLesson(ctx context.Context, l *Lesson) error {
	l.ID = uuid.NewString()
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO lessons (id, club_id, coach_id, title, weekday, start_time, duration_minutes, capacity, package_size, price_cents, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		l.ID, l.ClubID, l.CoachID, l.Title, l.Weekday, l.StartTime, l.DurationMinutes,
		l.Capacity, l.PackageSize, l.PriceCents, l.Active,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
}

func (r *repository) UpdateLesson(ctx context.Context, l *Lesson) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE lessons
		 SET coach_id = $1, title = $2, weekday = $3, start_time = $4, duration_minutes = $5,
		     capacity = $6, package_size = $7, price_cents = $8, active = $9, updated_at = NOW()
		 WHERE club_id = $10 AND id = $11
		 RETURNING created_at, updated_at`,
		l.CoachID, l.Title, l.Weekday, l.StartTime, l.DurationMinutes,
		l.Capacity, l.PackageSize, l.PriceCents, l.Active, l.ClubID, l.ID,
	).Scan(&l.CreatedAt, &l.UpdatedAt)
	return notFound(err, ErrLessonNotFound)
}

func (r *repository) GetLesson(ctx context.Context, clubID, id string) (*Lesson, error) {
	l := &Lesson{}
	err := r.db.GetContext(ctx, l,
		`SELECT `+lessonColumns+` FROM lessons WHERE club_id = $1 AND id = $2`,
		clubID, id,
	)
	if err != nil {
		return nil, notFound(err, ErrLessonNotFound)
	}
	return l, nil
}

func (r *repository) ListLessons(ctx context.Context, clubID string) ([]Lesson, error) {
	lessons := []Lesson{}
	err := r.db.SelectContext(ctx, &lessons,
		`SELECT `+lessonColumns+` FROM lessons WHERE club_id = $1 ORDER BY weekday, start_time`,
		clubID,
	)
	return lessons, err
}

func (r *repository) Enroll(ctx context.Context, e *Enrollment, plans []installment.Plan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertEnrollment(ctx, tx, e, plans); err != nil {
		return err
	}
	return tx.Commit()
}

func insertEnrollment(ctx context.Context, tx *sqlx.Tx, e *Enrollment, plans []installment.Plan) error {
	e.ID = uuid.NewString()
	e.Cycle = 1
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO enrollments (id, club_id, lesson_id, student_id, cycle, package_size, attended, price_cents, installment_count, start_date, due_day, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING created_at, updated_at`,
		e.ID, e.ClubID, e.LessonID, e.StudentID, e.Cycle, e.PackageSize, e.Attended,
		e.PriceCents, e.InstallmentCount, e.StartDate, e.DueDay, e.Status,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return err
	}
	return insertInstallments(ctx, tx, e, plans)
}

func insertInstallments(ctx context.Context, tx *sqlx.Tx, e *Enrollment, plans []installment.Plan) error {
	for _, p := range plans {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO installments (id, club_id, enrollment_id, cycle, number, amount_cents, due_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), e.ClubID, e.ID, e.Cycle, p.Number, p.Amount, p.DueDate,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func lockEnrollment(ctx context.Context, tx *sqlx.Tx, clubID, id string) (*Enrollment, error) {
	e := &Enrollment{}
	err := tx.QueryRowxContext(ctx,
		`SELECT `+enrollmentColumns+`
		 FROM enrollments
		 WHERE club_id = $1 AND id = $2
		 FOR UPDATE`,
		clubID, id,
	).StructScan(e)
	if err != nil {
		return nil, notFound(err, ErrEnrollmentNotFound)
	}
	return e, nil
}

func (r *repository) Renew(ctx context.Context, e *Enrollment, plans []installment.Plan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := lockEnrollment(ctx, tx, e.ClubID, e.ID); err != nil {
		return err
	}

	err = tx.QueryRowxContext(ctx,
		`UPDATE enrollments
		 SET cycle = cycle + 1, attended = 0, package_size = $1, price_cents = $2,
		     installment_count = $3, start_date = $4, due_day = $5, status = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING cycle, updated_at`,
		e.PackageSize, e.PriceCents, e.InstallmentCount, e.StartDate, e.DueDay, EnrollmentActive, e.ID,
	).Scan(&e.Cycle, &e.UpdatedAt)
	if err != nil {
		return err
	}
	e.Attended = 0
	e.Status = EnrollmentActive

	if err := insertInstallments(ctx, tx, e, plans); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *repository) GetEnrollment(ctx context.Context, clubID, id string) (*Enrollment, error) {
	e := &Enrollment{}
	err := r.db.GetContext(ctx, e,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE club_id = $1 AND id = $2`,
		clubID, id,
	)
	if err != nil {
		return nil, notFound(err, ErrEnrollmentNotFound)
	}
	return e, nil
}

func (r *repository) ListEnrollments(ctx context.Context, clubID, lessonID string) ([]Enrollment, error) {
	enrollments := []Enrollment{}
	err := r.db.SelectContext(ctx, &enrollments,
		`SELECT `+enrollmentColumns+` FROM enrollments
		 WHERE club_id = $1 AND lesson_id = $2
		 ORDER BY created_at`,
		clubID, lessonID,
	)
	return enrollments, err
}

func (r *repository) CountActiveEnrollments(ctx context.Context, clubID, lessonID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM enrollments WHERE club_id = $1 AND lesson_id = $2 AND status = $3`,
		clubID, lessonID, EnrollmentActive,
	)
	return n, err
}

func (r *repository) HasActiveEnrollment(ctx context.Context, clubID, lessonID, studentID string) (bool, error) {
	return hasActiveEnrollment(ctx, r.db, clubID, lessonID, studentID)
}

func hasActiveEnrollment(ctx context.Context, q sqlx.QueryerContext, clubID, lessonID, studentID string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, q, &exists,
		`SELECT EXISTS(
			SELECT 1 FROM enrollments
			WHERE club_id = $1 AND lesson_id = $2 AND student_id = $3 AND status = $4
		)`,
		clubID, lessonID, studentID, EnrollmentActive,
	)
	return exists, err
}

func (r *repository) SetEnrollmentStatus(ctx context.Context, clubID, id string, status EnrollmentStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE enrollments SET status = $1, updated_at = NOW() WHERE club_id = $2 AND id = $3`,
		status, clubID, id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEnrollmentNotFound
	}
	return nil
}

func (r *repository) ListInstallments(ctx context.Context, clubID, enrollmentID string, cycle int) ([]Installment, error) {
	items := []Installment{}
	err := r.db.SelectContext(ctx, &items,
		`SELECT `+installmentCols+` FROM installments
		 WHERE club_id = $1 AND enrollment_id = $2 AND cycle = $3
		 ORDER BY number`,
		clubID, enrollmentID, cycle,
	)
	return items, err
}

func (r *repository) DueReminders(ctx context.Context, from, to time.Time) ([]Reminder, error) {
	reminders := []Reminder{}
	err := r.db.SelectContext(ctx, &reminders,
		`SELECT i.id AS installment_id, i.club_id, i.number, i.amount_cents, i.due_date,
		        (SELECT COALESCE(SUM(j.amount_cents), 0) FROM installments j
		         WHERE j.enrollment_id = i.enrollment_id AND j.cycle = i.cycle AND j.number <= i.number) AS covered_cents,
		        (SELECT COALESCE(SUM(p.amount_cents), 0) FROM lesson_payments p
		         WHERE p.enrollment_id = i.enrollment_id AND p.cycle = i.cycle AND NOT p.deleted) AS paid_cents,
		        s.name AS student_name, s.email AS student_email, l.title AS lesson_title
		 FROM installments i
		 JOIN enrollments e ON e.id = i.enrollment_id AND e.cycle = i.cycle
		 JOIN students s ON s.id = e.student_id
		 JOIN lessons l ON l.id = e.lesson_id
		 WHERE e.status <> $1
		   AND i.reminder_sent_at IS NULL
		   AND i.due_date BETWEEN $2 AND $3
		   AND s.email <> ''
		 ORDER BY i.due_date`,
		EnrollmentCancelled, from, to,
	)
	return reminders, err
}

func (r *repository) MarkReminderSent(ctx context.Context, installmentID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE installments SET reminder_sent_at = NOW() WHERE id = $1`,
		installmentID,
	)
	return err
}

func (r *repository) CreatePayment(ctx context.Context, p *Payment, check PaymentCheck) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	e, err := lockEnrollment(ctx, tx, p.ClubID, p.EnrollmentID)
	if err != nil {
		return err
	}

	var paid int64
	err = tx.GetContext(ctx, &paid,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM lesson_payments
		 WHERE enrollment_id = $1 AND cycle = $2 AND NOT deleted`,
		e.ID, e.Cycle,
	)
	if err != nil {
		return err
	}

	if check != nil {
		if err := check(e, paid); err != nil {
			return err
		}
	}

	p.ID = uuid.NewString()
	p.Cycle = e.Cycle
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO lesson_payments (id, club_id, enrollment_id, cycle, amount_cents, method, installment_number, paid_at, note, recorded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		p.ID, p.ClubID, p.EnrollmentID, p.Cycle, p.AmountCents, p.Method,
		p.InstallmentNumber, p.PaidAt, p.Note, p.RecordedBy,
	).Scan(&p.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) ListPayments(ctx context.Context, clubID, enrollmentID string) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments,
		`SELECT `+paymentColumns+` FROM lesson_payments
		 WHERE club_id = $1 AND enrollment_id = $2
		 ORDER BY paid_at, created_at`,
		clubID, enrollmentID,
	)
	return payments, err
}

func (r *repository) PaidTotal(ctx context.Context, clubID, enrollmentID string, cycle int) (int64, error) {
	var paid int64
	err := r.db.GetContext(ctx, &paid,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM lesson_payments
		 WHERE club_id = $1 AND enrollment_id = $2 AND cycle = $3 AND NOT deleted`,
		clubID, enrollmentID, cycle,
	)
	return paid, err
}

func (r *repository) DeletePayment(ctx context.Context, clubID, paymentID, reason string) (*Payment, error) {
	p := &Payment{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE lesson_payments
		 SET deleted = TRUE, delete_reason = $1, deleted_at = NOW()
		 WHERE club_id = $2 AND id = $3 AND NOT deleted
		 RETURNING `+paymentColumns,
		reason, clubID, paymentID,
	).StructScan(p)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM lesson_payments WHERE club_id = $1 AND id = $2)`,
		clubID, paymentID,
	)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPaymentDeleted
	}
	return nil, ErrPaymentNotFound
}

func (r *repository) MarkAttendance(ctx context.Context, rec *AttendanceRecord, apply AttendanceApply) (*Enrollment, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	e, err := lockEnrollment(ctx, tx, rec.ClubID, rec.EnrollmentID)
	if err != nil {
		return nil, err
	}

	from := attendance.StatusPending
	err = tx.GetContext(ctx, &from,
		`SELECT status FROM attendance_records WHERE enrollment_id = $1 AND session_date = $2`,
		e.ID, rec.SessionDate,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	attended, err := apply(e, from)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO attendance_records (id, club_id, enrollment_id, session_date, status, marked_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (enrollment_id, session_date)
		 DO UPDATE SET status = EXCLUDED.status, marked_by = EXCLUDED.marked_by, updated_at = NOW()
		 RETURNING id, updated_at`,
		uuid.NewString(), rec.ClubID, rec.EnrollmentID, rec.SessionDate, rec.Status, rec.MarkedBy,
	).Scan(&rec.ID, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	e.Attended = attended
	switch {
	case attendance.Finished(e.Attended, e.PackageSize):
		e.Status = EnrollmentFinished
	case e.Status == EnrollmentFinished:
		e.Status = EnrollmentActive
	}

	err = tx.QueryRowxContext(ctx,
		`UPDATE enrollments SET attended = $1, status = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING updated_at`,
		e.Attended, e.Status, e.ID,
	).Scan(&e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) ListAttendance(ctx context.Context, clubID, enrollmentID string) ([]AttendanceRecord, error) {
	records := []AttendanceRecord{}
	err := r.db.SelectContext(ctx, &records,
		`SELECT `+attendanceColumns+` FROM attendance_records
		 WHERE club_id = $1 AND enrollment_id = $2
		 ORDER BY session_date`,
		clubID, enrollmentID,
	)
	return records, err
}

func (r *repository) CreateRequest(ctx context.Context, req *Request) error {
	req.ID = uuid.NewString()
	req.Status = RequestPending
	return r.db.QueryRowxContext(ctx,
		`INSERT INTO lesson_requests (id, club_id, lesson_id, user_id, student_name, student_email, student_phone, message, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		req.ID, req.ClubID, req.LessonID, req.UserID, req.StudentName, req.StudentEmail,
		req.StudentPhone, req.Message, req.Status,
	).Scan(&req.CreatedAt)
}

func (r *repository) GetRequest(ctx context.Context, clubID, id string) (*Request, error) {
	req := &Request{}
	err := r.db.GetContext(ctx, req,
		`SELECT `+requestColumns+` FROM lesson_requests WHERE club_id = $1 AND id = $2`,
		clubID, id,
	)
	if err != nil {
		return nil, notFound(err, ErrRequestNotFound)
	}
	return req, nil
}

// ListRequests returns every request when status is empty.
func (r *repository) ListRequests(ctx context.Context, clubID string, status RequestStatus) ([]Request, error) {
	requests := []Request{}
	err := r.db.SelectContext(ctx, &requests,
		`SELECT `+requestColumns+` FROM lesson_requests
		 WHERE club_id = $1 AND ($2::text = '' OR status = $2)
		 ORDER BY created_at DESC`,
		clubID, string(status),
	)
	return requests, err
}

func (r *repository) Approve(ctx context.Context, req *Request, s *Student, e *Enrollment, plans []installment.Plan) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status RequestStatus
	err = tx.GetContext(ctx, &status,
		`SELECT status FROM lesson_requests WHERE club_id = $1 AND id = $2 FOR UPDATE`,
		req.ClubID, req.ID,
	)
	if err != nil {
		return notFound(err, ErrRequestNotFound)
	}
	if status != RequestPending {
		return ErrRequestDecided
	}

	existing := &Student{}
	err = tx.GetContext(ctx, existing,
		`SELECT `+studentColumns+` FROM students
		 WHERE club_id = $1 AND LOWER(email) = LOWER($2)
		 LIMIT 1`,
		s.ClubID, s.Email,
	)
	switch {
	case err == nil:
		*s = *existing
		enrolled, err := hasActiveEnrollment(ctx, tx, e.ClubID, e.LessonID, s.ID)
		if err != nil {
			return err
		}
		if enrolled {
			return ErrAlreadyEnrolled
		}
	case errors.Is(err, sql.ErrNoRows):
		if err := insertStudent(ctx, tx, s); err != nil {
			return err
		}
	default:
		return err
	}

	e.StudentID = s.ID
	if err := insertEnrollment(ctx, tx, e, plans); err != nil {
		return err
	}

	req.Status = RequestApproved
	req.StudentID = &s.ID
	err = tx.QueryRowxContext(ctx,
		`UPDATE lesson_requests
		 SET status = $1, student_id = $2, decision_note = $3, decided_by = $4, decided_at = NOW()
		 WHERE id = $5
		 RETURNING decided_at`,
		req.Status, s.ID, req.DecisionNote, req.DecidedBy, req.ID,
	).Scan(&req.DecidedAt)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) Reject(ctx context.Context, req *Request) error {
	err := r.db.QueryRowxContext(ctx,
		`UPDATE lesson_requests
		 SET status = $1, decision_note = $2, decided_by = $3, decided_at = NOW()
		 WHERE club_id = $4 AND id = $5 AND status = $6
		 RETURNING decided_at`,
		RequestRejected, req.DecisionNote, req.DecidedBy, req.ClubID, req.ID, RequestPending,
	).Scan(&req.DecidedAt)
	if err != nil {
		return notFound(err, ErrRequestDecided)
	}
	req.Status = RequestRejected
	return nil
}
