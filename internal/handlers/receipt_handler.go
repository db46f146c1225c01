package handlers

import (
	"strings"

	"go-pos-terminal/internal/database"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

// ListReceipts returns sales newest first. ?q= searches ids and customer
// names, ?today=true keeps only today's sales.
func (h *Handler) ListReceipts(c *gin.Context) {
	filter := database.SaleFilter{Query: strings.TrimSpace(c.Query("q"))}
	if c.Query("today") == "true" {
		filter.Since = startOfDay(h.now())
	}
	sales, err := h.app.Store.SearchSales(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, sales)
}

// LastReceipt hands out the sale just completed, once.
func (h *Handler) LastReceipt(c *gin.Context) {
	sale, ok, err := h.app.Store.TakeLastSale(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, notFound("last sale"))
		return
	}
	responses.Success(c, sale)
}

func (h *Handler) GetReceipt(c *gin.Context) {
	sale, ok, err := h.app.Store.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !ok {
		h.fail(c, notFound("sale"))
		return
	}
	responses.Success(c, sale)
}
