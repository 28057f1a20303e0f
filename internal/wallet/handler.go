package wallet

import (
	"errors"
	"net/http"

	"clubdesk/internal/api"
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

func (h *Handler) GetBalance(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	w, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

func (h *Handler) ListActivity(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	page, ok := api.BindPage(c)
	if !ok {
		return
	}

	activity, err := h.svc.ListActivity(c.Request.Context(), id, page.Limit, page.Offset)
	if err != nil {
		writeError(c, err, "failed to load wallet activity")
		return
	}

	c.JSON(http.StatusOK, activity)
}

func (h *Handler) GetUserWallet(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	w, err := h.svc.GetFor(c.Request.Context(), id, c.Param("userID"))
	if err != nil {
		writeError(c, err, "failed to load wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

func (h *Handler) TopUp(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount_cents must be positive"})
		return
	}

	w, err := h.svc.TopUp(c.Request.Context(), id, c.Param("userID"), req.AmountCents, req.Description)
	if err != nil {
		writeError(c, err, "failed to top up wallet")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "wallet recharged",
		"wallet":  w,
	})
}

func (h *Handler) Adjust(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req AdjustRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.svc.Adjust(c.Request.Context(), id, c.Param("userID"), req.AmountCents, req.Description)
	if err != nil {
		writeError(c, err, "failed to adjust wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

func (h *Handler) SetLimit(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req LimitRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.svc.SetNegativeLimit(c.Request.Context(), id, c.Param("userID"), *req.NegativeLimitCents)
	if err != nil {
		writeError(c, err, "failed to update negative balance limit")
		return
	}

	c.JSON(http.StatusOK, w)
}

func (h *Handler) SetBlocked(c *gin.Context) {
	id, ok := auth.MustIdentity(c)
	if !ok {
		return
	}

	var req BlockRequest
	if !api.BindJSON(c, &req) {
		return
	}

	w, err := h.svc.SetBlocked(c.Request.Context(), id, c.Param("userID"), *req.Blocked)
	if err != nil {
		writeError(c, err, "failed to update wallet")
		return
	}

	c.JSON(http.StatusOK, w)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidLimit):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInsufficientBalance):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient balance"})
	case errors.Is(err, ErrWalletBlocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "wallet is blocked"})
	default:
		logger.Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
