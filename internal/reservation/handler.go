package reservation

import (
	"errors"
	"net/http"

	"clubdesk/internal/api"
	"clubdesk/internal/auth"
	"clubdesk/internal/court"
	"clubdesk/internal/logger"
	"clubdesk/internal/pricing"
	"clubdesk/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Quote(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if !api.BindJSON(c, &req) {
		return
	}

	q, err := h.svc.Quote(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to price reservation")
		return
	}

	c.JSON(http.StatusOK, q)
}

func (h *Handler) Create(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if !api.BindJSON(c, &req) {
		return
	}

	res, w, err := h.svc.Create(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "Failed to create reservation")
		return
	}

	c.JSON(http.StatusCreated, CreateResponse{
		Reservation:  res,
		BalanceCents: w.BalanceCents,
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	res, err := h.svc.Cancel(c.Request.Context(), id, c.Param("reservationID"))
	if err != nil {
		writeError(c, err, "Failed to cancel reservation")
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListMine(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	page, ok := api.BindPage(c)
	if !ok {
		return
	}

	list, err := h.svc.ListMine(c.Request.Context(), id, page.Limit, page.Offset)
	if err != nil {
		writeError(c, err, "Failed to fetch reservations")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListForCourt(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	date, err := court.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.svc.ListForCourt(c.Request.Context(), id, c.Param("courtID"), date)
	if err != nil {
		writeError(c, err, "Failed to fetch reservations")
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) Report(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	from, err := court.ParseDate(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := court.ParseDate(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := h.svc.Report(c.Request.Context(), id, from, to)
	if err != nil {
		writeError(c, err, "Failed to build reservation report")
		return
	}

	c.JSON(http.StatusOK, rep)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, pricing.ErrInvalidSlot),
		errors.Is(err, pricing.ErrInvalidInterval),
		errors.Is(err, pricing.ErrNoSlots),
		errors.Is(err, pricing.ErrDuplicateSlot),
		errors.Is(err, pricing.ErrSlotsNotContiguous),
		errors.Is(err, pricing.ErrHeaterUnavailable),
		errors.Is(err, pricing.ErrLightUnavailable),
		errors.Is(err, pricing.ErrNoRate),
		errors.Is(err, court.ErrInvalidDate),
		errors.Is(err, court.ErrInvalidCourt),
		errors.Is(err, ErrOutsideWindow),
		errors.Is(err, ErrPastDate),
		errors.Is(err, ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "Insufficient wallet balance"})
	case errors.Is(err, wallet.ErrWalletBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "Wallet is blocked"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only manage your own reservations"})
	case errors.Is(err, court.ErrCourtNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
	case errors.Is(err, ErrReservationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
	case errors.Is(err, ErrPayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payer not found"})
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrCourtInactive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
