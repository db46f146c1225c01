package handlers

import (
	"net/http"
	"time"

	"go-pos-terminal/internal/middleware"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Login makes the user current at the terminal and hands out a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}

	user, err := h.app.Gate.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	token, expires, err := h.app.Tokens.Issue(user)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, LoginResponse{Token: token, ExpiresAt: expires, User: user})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.app.Gate.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	responses.Success(c, gin.H{"logged_out": true})
}

func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.UserFrom(c)
	responses.Success(c, user)
}

// Register creates a user. The route only exists when registration is enabled.
func (h *Handler) Register(c *gin.Context) {
	var input models.NewUser
	if err := responses.Bind(c, &input); err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.app.Store.AddUser(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	responses.SuccessStatus(c, http.StatusCreated, user.Public())
}
