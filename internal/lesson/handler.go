package lesson

import (
	"errors"
	"net/http"

	"clubdesk/internal/api"
	"clubdesk/internal/attendance"
	"clubdesk/internal/auth"
	"clubdesk/internal/installment"
	"clubdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) ListCoaches(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	coaches, err := h.svc.ListCoaches(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch coaches")
		return
	}
	c.JSON(http.StatusOK, coaches)
}

func (h *Handler) CreateCoach(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req CoachRequest
	if !api.BindJSON(c, &req) {
		return
	}

	coach, err := h.svc.CreateCoach(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to create coach")
		return
	}
	c.JSON(http.StatusCreated, coach)
}

func (h *Handler) UpdateCoach(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req CoachRequest
	if !api.BindJSON(c, &req) {
		return
	}

	coach, err := h.svc.UpdateCoach(c.Request.Context(), id, c.Param("coachID"), req)
	if err != nil {
		writeError(c, err, "Failed to update coach")
		return
	}
	c.JSON(http.StatusOK, coach)
}

func (h *Handler) ListStudents(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	page, ok := api.BindPage(c)
	if !ok {
		return
	}

	students, err := h.svc.ListStudents(c.Request.Context(), id, page.Limit, page.Offset)
	if err != nil {
		writeError(c, err, "Failed to fetch students")
		return
	}
	c.JSON(http.StatusOK, students)
}

func (h *Handler) CreateStudent(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req StudentRequest
	if !api.BindJSON(c, &req) {
		return
	}

	st, err := h.svc.CreateStudent(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to create student")
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) UpdateStudent(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req StudentRequest
	if !api.BindJSON(c, &req) {
		return
	}

	st, err := h.svc.UpdateStudent(c.Request.Context(), id, c.Param("studentID"), req)
	if err != nil {
		writeError(c, err, "Failed to update student")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) ListLessons(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	lessons, err := h.svc.ListLessons(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch lessons")
		return
	}
	c.JSON(http.StatusOK, lessons)
}

func (h *Handler) CreateLesson(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req LessonRequest
	if !api.BindJSON(c, &req) {
		return
	}

	l, err := h.svc.CreateLesson(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to create lesson")
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) UpdateLesson(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req LessonRequest
	if !api.BindJSON(c, &req) {
		return
	}

	l, err := h.svc.UpdateLesson(c.Request.Context(), id, c.Param("lessonID"), req)
	if err != nil {
		writeError(c, err, "Failed to update lesson")
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) Enroll(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req EnrollRequest
	if !api.BindJSON(c, &req) {
		return
	}

	st, err := h.svc.Enroll(c.Request.Context(), id, c.Param("lessonID"), req)
	if err != nil {
		writeError(c, err, "Failed to enroll student")
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) ListEnrollments(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	list, err := h.svc.ListEnrollments(c.Request.Context(), id, c.Param("lessonID"))
	if err != nil {
		writeError(c, err, "Failed to fetch enrollments")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CancelEnrollment(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	if err := h.svc.CancelEnrollment(c.Request.Context(), id, c.Param("enrollmentID")); err != nil {
		writeError(c, err, "Failed to cancel enrollment")
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Enrollment cancelled"})
}

func (h *Handler) RenewPackage(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req PackageRequest
	if !api.BindJSON(c, &req) {
		return
	}

	st, err := h.svc.RenewPackage(c.Request.Context(), id, c.Param("enrollmentID"), req)
	if err != nil {
		writeError(c, err, "Failed to renew package")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) ListInstallments(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	st, err := h.svc.ListInstallments(c.Request.Context(), id, c.Param("enrollmentID"))
	if err != nil {
		writeError(c, err, "Failed to fetch installments")
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.svc.RecordPayment(c.Request.Context(), id, c.Param("enrollmentID"), req)
	if err != nil {
		writeError(c, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) ListPayments(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	payments, err := h.svc.ListPayments(c.Request.Context(), id, c.Param("enrollmentID"))
	if err != nil {
		writeError(c, err, "Failed to fetch payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req DeletePaymentRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.svc.DeletePayment(c.Request.Context(), id, c.Param("paymentID"), req)
	if err != nil {
		writeError(c, err, "Failed to delete payment")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) MarkAttendance(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req AttendanceRequest
	if !api.BindJSON(c, &req) {
		return
	}

	rec, e, err := h.svc.MarkAttendance(c.Request.Context(), id, c.Param("enrollmentID"), req)
	if err != nil {
		writeError(c, err, "Failed to mark attendance")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"record":     rec,
		"enrollment": e,
		"remaining":  e.Remaining(),
	})
}

func (h *Handler) ListAttendance(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	records, err := h.svc.ListAttendance(c.Request.Context(), id, c.Param("enrollmentID"))
	if err != nil {
		writeError(c, err, "Failed to fetch attendance")
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) SubmitRequest(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req SubmitRequest
	if !api.BindJSON(c, &req) {
		return
	}

	r, err := h.svc.SubmitRequest(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to submit request")
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) ApproveRequest(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req ApproveRequest
	if !api.BindJSON(c, &req) {
		return
	}

	r, e, err := h.svc.ApproveRequest(c.Request.Context(), id, c.Param("requestID"), req)
	if err != nil {
		writeError(c, err, "Failed to approve request")
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": r, "enrollment": e})
}

func (h *Handler) RejectRequest(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}
	var req RejectRequest
	if !api.BindJSON(c, &req) {
		return
	}

	r, err := h.svc.RejectRequest(c.Request.Context(), id, c.Param("requestID"), req)
	if err != nil {
		writeError(c, err, "Failed to reject request")
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) ListRequests(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	list, err := h.svc.ListRequests(c.Request.Context(), id, c.Query("status"))
	if err != nil {
		writeError(c, err, "Failed to fetch requests")
		return
	}
	c.JSON(http.StatusOK, list)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidStartTime),
		errors.Is(err, ErrInvalidInstallment),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, attendance.ErrInvalidStatus),
		errors.Is(err, installment.ErrInvalidPrice),
		errors.Is(err, installment.ErrInvalidCount),
		errors.Is(err, installment.ErrInvalidDueDay):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrCoachNotFound),
		errors.Is(err, ErrStudentNotFound),
		errors.Is(err, ErrLessonNotFound),
		errors.Is(err, ErrEnrollmentNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrLessonFull),
		errors.Is(err, ErrLessonInactive),
		errors.Is(err, ErrAlreadyEnrolled),
		errors.Is(err, ErrEnrollmentClosed),
		errors.Is(err, ErrOverpayment),
		errors.Is(err, ErrPaymentDeleted),
		errors.Is(err, ErrRequestDecided),
		errors.Is(err, attendance.ErrPackageFinished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
