package court

import (
	"clubdesk/internal/api"
	"errors"
	"net/http"

	"clubdesk/internal/auth"
	"clubdesk/internal/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	courts, err := h.svc.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "Failed to fetch courts")
		return
	}

	c.JSON(http.StatusOK, courts)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	court, err := h.svc.Get(c.Request.Context(), id, c.Param("courtID"))
	if err != nil {
		writeError(c, err, "Failed to fetch court")
		return
	}

	c.JSON(http.StatusOK, court)
}

func (h *Handler) Availability(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	date, err := ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.svc.Availability(c.Request.Context(), id, c.Param("courtID"), date)
	if err != nil {
		writeError(c, err, "Failed to fetch availability")
		return
	}

	c.JSON(http.StatusOK, a)
}

func (h *Handler) Create(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req CourtRequest
	if !api.BindJSON(c, &req) {
		return
	}

	court, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to create court")
		return
	}

	c.JSON(http.StatusCreated, court)
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req CourtRequest
	if !api.BindJSON(c, &req) {
		return
	}

	court, err := h.svc.Update(c.Request.Context(), id, c.Param("courtID"), req)
	if err != nil {
		writeError(c, err, "Failed to update court")
		return
	}

	c.JSON(http.StatusOK, court)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrCourtNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
	case errors.Is(err, ErrInvalidCourt), errors.Is(err, ErrInvalidDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrGridInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
