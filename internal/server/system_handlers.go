package server

import (
	"context"
	"net/http"
	"time"

	"clubdesk/internal/api"
	"clubdesk/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type queuePinger interface {
	Ping(ctx context.Context) error
}

type mailer interface {
	Send(ctx context.Context, to, name, subject, body string) error
}

// Health returns 503 when the database is unreachable. An unreachable email
// queue only degrades the status.
func Health(db dbPinger, queue queuePinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		res := api.HealthResponse{Status: "ok", Database: "ok", Queue: "ok"}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Error("Health check: database unreachable", "error", err)
			res.Database = "unavailable"
			res.Status = "unavailable"
			code = http.StatusServiceUnavailable
		}
		if err := queue.Ping(ctx); err != nil {
			logger.Warn("Health check: email queue unreachable", "error", err)
			res.Queue = "unavailable"
			if code == http.StatusOK {
				res.Status = "degraded"
			}
		}

		c.JSON(code, res)
	}
}

func TestEmail(m mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := c.Query("email")
		if to == "" {
			api.Fail(c, http.StatusBadRequest, "email parameter required")
			return
		}

		if err := m.Send(c.Request.Context(), to, "Test User", "Test Email from Club Desk", "Email is working!"); err != nil {
			logger.Error("Failed to queue test email", "error", err)
			api.Fail(c, http.StatusInternalServerError, "failed to queue email")
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "Email queued successfully"})
	}
}

func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
