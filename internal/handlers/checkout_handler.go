package handlers

import (
	"net/http"

	"go-pos-terminal/internal/checkout"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Checkout(c *gin.Context) {
	var req checkout.Request
	if err := responses.Bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	sale, err := h.app.Checkout.Complete(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.SuccessStatus(c, http.StatusCreated, sale)
}
