package handlers

import (
	"errors"
	"net/http"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/responses"
	"go-pos-terminal/internal/shift"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var errShiftVanished = errors.New("shift missing from store")

type OpenShiftRequest struct {
	OpeningBalance *decimal.Decimal `json:"opening_balance" binding:"required"`
}

type CloseShiftRequest struct {
	ClosingBalance *decimal.Decimal `json:"closing_balance" binding:"required"`
}

// CurrentShift answers with null data when no shift is open.
func (h *Handler) CurrentShift(c *gin.Context) {
	current, ok := h.app.Ledger.Current()
	if !ok {
		responses.Success(c, nil)
		return
	}
	responses.Success(c, current)
}

func (h *Handler) OpenShift(c *gin.Context) {
	var input OpenShiftRequest
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	opened, err := h.app.Ledger.Open(c.Request.Context(), *input.OpeningBalance)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.SuccessStatus(c, http.StatusCreated, opened)
}

// CloseShift ends the shift and returns its reconciliation.
func (h *Handler) CloseShift(c *gin.Context) {
	var input CloseShiftRequest
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	ctx := c.Request.Context()
	closed, ok, err := h.app.Ledger.Close(ctx, *input.ClosingBalance)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, apperrors.Wrap(apperrors.CodeNotFound, errShiftVanished, "shift no longer exists"))
		return
	}
	sales, err := h.app.Store.SalesForShift(ctx, closed.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, shift.Reconcile(closed, sales))
}

func (h *Handler) ShiftSummary(c *gin.Context) {
	summary, err := h.app.Ledger.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, summary)
}

func (h *Handler) ShiftHistory(c *gin.Context) {
	shifts, err := h.app.Ledger.History(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if shifts == nil {
		shifts = []models.Shift{}
	}
	responses.Success(c, shifts)
}
