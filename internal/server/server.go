package server

import (
	"context"
	"net/http"
	"time"

	"clubdesk/internal/auth"
	"clubdesk/internal/config"
	"clubdesk/internal/court"
	"clubdesk/internal/email"
	"clubdesk/internal/lesson"
	"clubdesk/internal/reservation"
	"clubdesk/internal/user"
	"clubdesk/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const rateLimitTTL = 3 * time.Minute

type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *sqlx.DB
	config     *config.Config
	email      *email.Service
	limiter    *RateLimiter
	stop       chan struct{}
}

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	User        *user.Handler
	Court       *court.Handler
	Wallet      *wallet.Handler
	Reservation *reservation.Handler
	Lesson      *lesson.Handler
	Health      gin.HandlerFunc
	TestEmail   gin.HandlerFunc
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	userRepo := user.NewRepository(db)
	courtRepo := court.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	reservationRepo := reservation.NewRepository(db, walletRepo)
	lessonRepo := lesson.NewRepository(db)

	h := Handlers{
		User:        user.NewHandler(user.NewService(userRepo, cfg.JWTSecret)),
		Court:       court.NewHandler(court.NewService(courtRepo, reservationRepo)),
		Wallet:      wallet.NewHandler(wallet.NewService(walletRepo)),
		Reservation: reservation.NewHandler(reservation.NewService(reservationRepo, courtRepo, walletRepo, userRepo, emailService)),
		Lesson:      lesson.NewHandler(lesson.NewService(lessonRepo, emailService)),
		Health:      Health(db, emailService),
		TestEmail:   TestEmail(emailService),
	}

	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, rateLimitTTL)

	router := NewRouter(h, cfg.JWTSecret, limiter)

	return &Server{
		router: router,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		db:      db,
		config:  cfg,
		email:   emailService,
		limiter: limiter,
		stop:    make(chan struct{}),
	}
}

// NewRouter builds the gin engine with middleware and all routes. A nil
// limiter disables rate limiting.
func NewRouter(h Handlers, jwtSecret string, limiter *RateLimiter) *gin.Engine {
	RegisterJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	if limiter != nil {
		router.Use(RateLimitMiddleware(limiter))
	}

	router.GET("/health", h.Health)
	router.GET("/metrics", Metrics())

	public := router.Group("/auth")
	{
		public.POST("/register", h.User.Register)
		public.POST("/login", h.User.Login)
		public.POST("/refresh", h.User.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(jwtSecret)

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", h.User.GetMe)

		protected.GET("/courts", h.Court.List)
		protected.GET("/courts/:courtID", h.Court.Get)
		protected.GET("/courts/:courtID/availability", h.Court.Availability)

		protected.POST("/reservations/quote", h.Reservation.Quote)
		protected.POST("/reservations", h.Reservation.Create)
		protected.GET("/reservations", h.Reservation.ListMine)
		protected.POST("/reservations/:reservationID/cancel", h.Reservation.Cancel)

		protected.GET("/wallet", h.Wallet.GetBalance)
		protected.GET("/wallet/activity", h.Wallet.ListActivity)

		protected.POST("/lesson-requests", h.Lesson.SubmitRequest)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/courts", h.Court.Create)
		admin.PUT("/courts/:courtID", h.Court.Update)
		admin.GET("/courts/:courtID/reservations", h.Reservation.ListForCourt)
		admin.GET("/reports/reservations", h.Reservation.Report)

		admin.GET("/wallets/:userID", h.Wallet.GetUserWallet)
		admin.POST("/wallets/:userID/topup", h.Wallet.TopUp)
		admin.POST("/wallets/:userID/adjust", h.Wallet.Adjust)
		admin.PUT("/wallets/:userID/limit", h.Wallet.SetLimit)
		admin.PUT("/wallets/:userID/block", h.Wallet.SetBlocked)

		admin.GET("/users", h.User.List)
		admin.PUT("/users/:userID/access", h.User.SetAccess)

		admin.GET("/test-email", h.TestEmail)
	}

	lessons := router.Group("/lessons")
	lessons.Use(authMiddleware, auth.RequirePermission(auth.PermPrivateLessonArea))
	{
		lessons.GET("/coaches", h.Lesson.ListCoaches)
		lessons.POST("/coaches", h.Lesson.CreateCoach)
		lessons.PUT("/coaches/:coachID", h.Lesson.UpdateCoach)

		lessons.GET("/students", h.Lesson.ListStudents)
		lessons.POST("/students", h.Lesson.CreateStudent)
		lessons.PUT("/students/:studentID", h.Lesson.UpdateStudent)

		lessons.GET("/classes", h.Lesson.ListLessons)
		lessons.POST("/classes", h.Lesson.CreateLesson)
		lessons.PUT("/classes/:lessonID", h.Lesson.UpdateLesson)
		lessons.GET("/classes/:lessonID/enrollments", h.Lesson.ListEnrollments)
		lessons.POST("/classes/:lessonID/enrollments", h.Lesson.Enroll)

		lessons.POST("/enrollments/:enrollmentID/cancel", h.Lesson.CancelEnrollment)
		lessons.POST("/enrollments/:enrollmentID/renew", h.Lesson.RenewPackage)
		lessons.GET("/enrollments/:enrollmentID/installments", h.Lesson.ListInstallments)
		lessons.GET("/enrollments/:enrollmentID/payments", h.Lesson.ListPayments)
		lessons.POST("/enrollments/:enrollmentID/payments", h.Lesson.RecordPayment)
		lessons.GET("/enrollments/:enrollmentID/attendance", h.Lesson.ListAttendance)
		lessons.POST("/enrollments/:enrollmentID/attendance", h.Lesson.MarkAttendance)

		lessons.DELETE("/payments/:paymentID", h.Lesson.DeletePayment)

		lessons.GET("/requests", h.Lesson.ListRequests)
		lessons.POST("/requests/:requestID/approve", h.Lesson.ApproveRequest)
		lessons.POST("/requests/:requestID/reject", h.Lesson.RejectRequest)
	}

	return router
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start serves until Shutdown is called. http.ErrServerClosed is not
// reported as an error.
func (s *Server) Start() error {
	go s.limiter.Run(s.stop)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	close(s.stop)
	return s.httpServer.Shutdown(ctx)
}
