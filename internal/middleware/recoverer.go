package middleware

import (
	"fmt"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

func Recoverer(logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("panic: %v", rec)
				if logg != nil {
					logg.Error(logg.WithField(c.Request.Context(), "panic", rec), "panic.recovered", err)
				}
				responses.Error(c, nil, apperrors.Wrap(apperrors.CodeInternal, err, "panic"))
			}
		}()
		c.Next()
	}
}
