package middleware

import (
	"go-pos-terminal/internal/models"

	"github.com/gin-gonic/gin"
)

const userKey = "pos.user"

// UserFrom returns the user RequireAuth attached to the request.
func UserFrom(c *gin.Context) (models.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}
