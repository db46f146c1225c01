package handlers

import (
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	responses.Success(c, gin.H{
		"status":      "online",
		"terminal_id": h.app.TerminalID,
		"store":       h.app.Config.Store.Driver,
	})
}
