package handlers

import (
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.app.Store.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, summary)
}

// SalesReport covers ?start= to ?end= inclusive; both default to today.
func (h *Handler) SalesReport(c *gin.Context) {
	today := h.now().Format("2006-01-02")
	start, err := parseDate(c.DefaultQuery("start", today), false)
	if err != nil {
		h.fail(c, err)
		return
	}
	end, err := parseDate(c.DefaultQuery("end", today), true)
	if err != nil {
		h.fail(c, err)
		return
	}
	if end.Before(start) {
		h.fail(c, apperrors.New(apperrors.CodeValidation, "end must not be before start"))
		return
	}

	report, err := h.app.Store.SalesReport(c.Request.Context(), start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, report)
}

// StockValuation values the inventory at cost, per category.
func (h *Handler) StockValuation(c *gin.Context) {
	valuation, err := h.app.Store.StockValuation(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, valuation)
}

func (h *Handler) TopSelling(c *gin.Context) {
	limit, err := queryInt(c, "limit", 5, 1, 100)
	if err != nil {
		h.fail(c, err)
		return
	}
	rows, err := h.app.Store.TopSelling(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, rows)
}
