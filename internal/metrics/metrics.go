package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clubdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_reservations_total",
			Help: "Reservations created, by funding source",
		},
		[]string{"funding"},
	)

	ReservationCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubdesk_reservation_cancellations_total",
			Help: "Total number of reservation cancellations",
		},
	)

	ReservationRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubdesk_reservation_revenue_minor_total",
			Help: "Sum of reservation totals charged, in minor currency units",
		},
	)

	ReservationRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_reservation_rejections_total",
			Help: "Reservations refused before commit, by reason",
		},
		[]string{"reason"},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubdesk_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	WalletNegativeBalanceTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "clubdesk_wallet_negative_balance_total",
			Help: "Charges that took a wallet below zero",
		},
	)

	LessonPaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_lesson_payments_total",
			Help: "Lesson payments recorded, by method",
		},
		[]string{"method"},
	)

	AttendanceMarksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_attendance_marks_total",
			Help: "Attendance marks, by resulting status",
		},
		[]string{"status"},
	)

	EnrollmentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_enrollment_requests_total",
			Help: "Enrollment requests, by outcome",
		},
		[]string{"outcome"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clubdesk_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "clubdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordReservation(funding string, total int64) {
	ReservationsTotal.WithLabelValues(funding).Inc()
	ReservationRevenue.Add(float64(total))
}

func RecordReservationCancellation() {
	ReservationCancellationsTotal.Inc()
}

func RecordReservationRejection(reason string) {
	ReservationRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordNegativeBalance() {
	WalletNegativeBalanceTotal.Inc()
}

func RecordLessonPayment(method string) {
	LessonPaymentsTotal.WithLabelValues(method).Inc()
}

func RecordAttendance(status string) {
	AttendanceMarksTotal.WithLabelValues(status).Inc()
}

func RecordEnrollmentRequest(outcome string) {
	EnrollmentRequestsTotal.WithLabelValues(outcome).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
