// Package handlers is the JSON boundary between the till UI and the services.
package handlers

import (
	"strconv"
	"strings"
	"time"

	"go-pos-terminal/internal/app"
	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"
	"go-pos-terminal/internal/responses"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	app *app.App
	log *logger.Logger
	now func() time.Time
}

func New(a *app.App) *Handler {
	return &Handler{app: a, log: a.Log, now: time.Now}
}

func (h *Handler) fail(c *gin.Context, err error) {
	responses.Error(c, h.log, err)
}

func notFound(what string) error {
	return apperrors.New(apperrors.CodeNotFound, what+" not found")
}

// parseDate accepts YYYY-MM-DD or RFC 3339. A bare date used as the end of a
// range means the end of that day.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeValidation, err, "dates must be YYYY-MM-DD or RFC 3339").
			WithDetails(map[string]any{"value": raw})
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func queryInt(c *gin.Context, key string, def, min, max int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		return 0, apperrors.New(apperrors.CodeValidation, key+" is out of range").
			WithDetails(map[string]any{key: raw, "min": min, "max": max})
	}
	return n, nil
}
