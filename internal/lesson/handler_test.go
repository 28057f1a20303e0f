package lesson

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clubdesk/internal/attendance"
	"clubdesk/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct{ mock.Mock }

func (m *MockService) CreateCoach(ctx context.Context, id auth.Identity, req CoachRequest) (*Coach, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coach), args.Error(1)
}

func (m *MockService) UpdateCoach(ctx context.Context, id auth.Identity, coachID string, req CoachRequest) (*Coach, error) {
	args := m.Called(ctx, id, coachID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coach), args.Error(1)
}

func (m *MockService) ListCoaches(ctx context.Context, id auth.Identity) ([]Coach, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Coach), args.Error(1)
}

func (m *MockService) CreateStudent(ctx context.Context, id auth.Identity, req StudentRequest) (*Student, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Student), args.Error(1)
}

func (m *MockService) UpdateStudent(ctx context.Context, id auth.Identity, studentID string, req StudentRequest) (*Student, error) {
	args := m.Called(ctx, id, studentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Student), args.Error(1)
}

func (m *MockService) ListStudents(ctx context.Context, id auth.Identity, limit, offset int) ([]Student, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Student), args.Error(1)
}

func (m *MockService) CreateLesson(ctx context.Context, id auth.Identity, req LessonRequest) (*Lesson, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Lesson), args.Error(1)
}

func (m *MockService) UpdateLesson(ctx context.Context, id auth.Identity, lessonID string, req LessonRequest) (*Lesson, error) {
	args := m.Called(ctx, id, lessonID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Lesson), args.Error(1)
}

func (m *MockService) ListLessons(ctx context.Context, id auth.Identity) ([]Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Lesson), args.Error(1)
}

func (m *MockService) Enroll(ctx context.Context, id auth.Identity, lessonID string, req EnrollRequest) (*Statement, error) {
	args := m.Called(ctx, id, lessonID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Statement), args.Error(1)
}

func (m *MockService) ListEnrollments(ctx context.Context, id auth.Identity, lessonID string) ([]Enrollment, error) {
	args := m.Called(ctx, id, lessonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Enrollment), args.Error(1)
}

func (m *MockService) CancelEnrollment(ctx context.Context, id auth.Identity, enrollmentID string) error {
	return m.Called(ctx, id, enrollmentID).Error(0)
}

func (m *MockService) RenewPackage(ctx context.Context, id auth.Identity, enrollmentID string, req PackageRequest) (*Statement, error) {
	args := m.Called(ctx, id, enrollmentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Statement), args.Error(1)
}

func (m *MockService) ListInstallments(ctx context.Context, id auth.Identity, enrollmentID string) (*Statement, error) {
	args := m.Called(ctx, id, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Statement), args.Error(1)
}

func (m *MockService) RecordPayment(ctx context.Context, id auth.Identity, enrollmentID string, req PaymentRequest) (*Payment, error) {
	args := m.Called(ctx, id, enrollmentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockService) ListPayments(ctx context.Context, id auth.Identity, enrollmentID string) ([]Payment, error) {
	args := m.Called(ctx, id, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Payment), args.Error(1)
}

func (m *MockService) DeletePayment(ctx context.Context, id auth.Identity, paymentID string, req DeletePaymentRequest) (*Payment, error) {
	args := m.Called(ctx, id, paymentID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Payment), args.Error(1)
}

func (m *MockService) MarkAttendance(ctx context.Context, id auth.Identity, enrollmentID string, req AttendanceRequest) (*AttendanceRecord, *Enrollment, error) {
	args := m.Called(ctx, id, enrollmentID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*AttendanceRecord), args.Get(1).(*Enrollment), args.Error(2)
}

func (m *MockService) ListAttendance(ctx context.Context, id auth.Identity, enrollmentID string) ([]AttendanceRecord, error) {
	args := m.Called(ctx, id, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]AttendanceRecord), args.Error(1)
}

func (m *MockService) SubmitRequest(ctx context.Context, id auth.Identity, req SubmitRequest) (*Request, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Request), args.Error(1)
}

func (m *MockService) ApproveRequest(ctx context.Context, id auth.Identity, requestID string, req ApproveRequest) (*Request, *Enrollment, error) {
	args := m.Called(ctx, id, requestID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Request), args.Get(1).(*Enrollment), args.Error(2)
}

func (m *MockService) RejectRequest(ctx context.Context, id auth.Identity, requestID string, req RejectRequest) (*Request, error) {
	args := m.Called(ctx, id, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Request), args.Error(1)
}

func (m *MockService) ListRequests(ctx context.Context, id auth.Identity, status string) ([]Request, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Request), args.Error(1)
}

func newRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetIdentity(c, staff)
		c.Next()
	})
	r.POST("/lessons/coaches", h.CreateCoach)
	r.POST("/lessons/classes/:lessonID/enrollments", h.Enroll)
	r.POST("/lessons/enrollments/:enrollmentID/payments", h.RecordPayment)
	r.DELETE("/lessons/payments/:paymentID", h.DeletePayment)
	r.POST("/lessons/enrollments/:enrollmentID/attendance", h.MarkAttendance)
	r.POST("/lessons/requests/:requestID/approve", h.ApproveRequest)
	r.GET("/lessons/requests", h.ListRequests)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCoach_Handler(t *testing.T) {
	svc := new(MockService)
	svc.On("CreateCoach", mock.Anything, staff, CoachRequest{Name: "Ayse"}).
		Return(&Coach{ID: "coach-1", Name: "Ayse", Active: true}, nil)

	w := do(newRouter(svc), http.MethodPost, "/lessons/coaches", `{"name":"Ayse"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got Coach
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "coach-1", got.ID)
}

func TestCreateCoach_Handler_ValidationError(t *testing.T) {
	svc := new(MockService)

	w := do(newRouter(svc), http.MethodPost, "/lessons/coaches", `{"name":"A"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateCoach", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnroll_Handler_StatusMapping(t *testing.T) {
	body := `{"student_id":"student-1","installment_count":3,"start_date":"2026-01-01","due_day":10}`

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"created", nil, http.StatusCreated},
		{"lesson full", ErrLessonFull, http.StatusConflict},
		{"student missing", ErrStudentNotFound, http.StatusNotFound},
		{"bad date", ErrInvalidDate, http.StatusBadRequest},
		{"unexpected", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			call := svc.On("Enroll", mock.Anything, staff, "lesson-1", mock.MatchedBy(func(req EnrollRequest) bool {
				return req.StudentID == "student-1" && req.InstallmentCount == 3 && req.DueDay == 10
			}))
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(&Statement{Enrollment: &Enrollment{ID: "enr-1"}}, nil)
			}

			w := do(newRouter(svc), http.MethodPost, "/lessons/classes/lesson-1/enrollments", body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestEnroll_Handler_RejectsBadDueDay(t *testing.T) {
	svc := new(MockService)

	w := do(newRouter(svc), http.MethodPost, "/lessons/classes/lesson-1/enrollments",
		`{"student_id":"student-1","installment_count":3,"start_date":"2026-01-01","due_day":32}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordPayment_Handler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"recorded", `{"amount_cents":3000,"method":"cash"}`, nil, http.StatusCreated},
		{"overpayment", `{"amount_cents":3000,"method":"card"}`, ErrOverpayment, http.StatusConflict},
		{"unknown method", `{"amount_cents":3000,"method":"crypto"}`, nil, http.StatusBadRequest},
		{"zero amount", `{"amount_cents":0,"method":"cash"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			call := svc.On("RecordPayment", mock.Anything, staff, "enr-1", mock.Anything)
			if tt.err != nil {
				call.Return(nil, tt.err)
			} else {
				call.Return(&Payment{ID: "pay-1"}, nil)
			}

			w := do(newRouter(svc), http.MethodPost, "/lessons/enrollments/enr-1/payments", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestDeletePayment_Handler_RequiresReason(t *testing.T) {
	svc := new(MockService)

	w := do(newRouter(svc), http.MethodDelete, "/lessons/payments/pay-1", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.On("DeletePayment", mock.Anything, staff, "pay-1", DeletePaymentRequest{Reason: "duplicate"}).
		Return(nil, ErrPaymentDeleted)

	w = do(newRouter(svc), http.MethodDelete, "/lessons/payments/pay-1", `{"reason":"duplicate"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestMarkAttendance_Handler(t *testing.T) {
	svc := new(MockService)
	req := AttendanceRequest{SessionDate: "2026-03-02", Status: "present"}
	svc.On("MarkAttendance", mock.Anything, staff, "enr-1", req).Return(
		&AttendanceRecord{ID: "att-1", Status: attendance.StatusPresent},
		&Enrollment{ID: "enr-1", PackageSize: 8, Attended: 5},
		nil,
	)

	w := do(newRouter(svc), http.MethodPost, "/lessons/enrollments/enr-1/attendance", `{"session_date":"2026-03-02","status":"present"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"remaining":3`)
}

func TestMarkAttendance_Handler_PackageFinished(t *testing.T) {
	svc := new(MockService)
	svc.On("MarkAttendance", mock.Anything, staff, "enr-1", mock.Anything).Return(nil, nil, attendance.ErrPackageFinished)

	w := do(newRouter(svc), http.MethodPost, "/lessons/enrollments/enr-1/attendance", `{"session_date":"2026-03-02","status":"present"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApproveRequest_Handler(t *testing.T) {
	svc := new(MockService)
	svc.On("ApproveRequest", mock.Anything, staff, "req-1", mock.Anything).
		Return(&Request{ID: "req-1", Status: RequestApproved}, &Enrollment{ID: "enr-9"}, nil)

	w := do(newRouter(svc), http.MethodPost, "/lessons/requests/req-1/approve",
		`{"note":"welcome","installment_count":2,"start_date":"2026-05-01","due_day":15}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"enr-9"`)
}

func TestListRequests_Handler_PassesFilter(t *testing.T) {
	svc := new(MockService)
	svc.On("ListRequests", mock.Anything, staff, "pending").Return([]Request{{ID: "req-1"}}, nil)

	w := do(newRouter(svc), http.MethodGet, "/lessons/requests?status=pending", "")

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}
