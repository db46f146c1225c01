package middleware

import (
	"errors"
	"slices"
	"strings"

	"go-pos-terminal/internal/auth"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

var errSessionEnded = errors.New("token does not belong to the current session")

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type CurrentUser interface {
	Current() (models.User, bool)
}

// RequireAuth accepts a bearer token only while its subject is the user
// currently logged in at the terminal, so logging out revokes every token.
func RequireAuth(tokens TokenValidator, users CurrentUser, logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			responses.Error(c, logg, apperrors.New(apperrors.CodeUnauthorized, "authorization header is required"))
			return
		}
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			responses.Error(c, logg, apperrors.New(apperrors.CodeUnauthorized, "authorization header must start with Bearer"))
			return
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			responses.Error(c, logg, apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid or expired token"))
			return
		}
		current, ok := users.Current()
		if !ok || current.ID != claims.Subject {
			responses.Error(c, logg, apperrors.Wrap(apperrors.CodeUnauthorized, errSessionEnded, "session has ended, log in again"))
			return
		}

		c.Set(userKey, current)
		if logg != nil {
			c.Request = c.Request.WithContext(logg.WithUserID(c.Request.Context(), current.ID))
		}
		c.Next()
	}
}

// RequireRole lets the request through when the authenticated user has one of roles.
func RequireRole(logg *logger.Logger, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFrom(c)
		if !ok {
			responses.Error(c, logg, apperrors.New(apperrors.CodeUnauthorized, "authentication required"))
			return
		}
		if !slices.Contains(roles, user.Role) {
			responses.Error(c, logg, apperrors.New(apperrors.CodeForbidden, "you do not have permission to access this resource"))
			return
		}
		c.Next()
	}
}
