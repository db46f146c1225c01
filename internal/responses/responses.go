// Package responses writes the JSON envelopes every endpoint answers with.
package responses

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	apperrors "go-pos-terminal/internal/errors"
	"go-pos-terminal/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func init() {
	// validation details use the json field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if tag == "" || tag == "-" {
				return f.Name
			}
			return tag
		})
	}
}

func Success(c *gin.Context, data any) {
	SuccessStatus(c, http.StatusOK, data)
}

func SuccessStatus(c *gin.Context, status int, data any) {
	c.JSON(status, SuccessEnvelope{Data: data})
}

// Error maps err to its code's status and public message. Anything that is
// not an application error becomes a generic internal error.
func Error(c *gin.Context, logg *logger.Logger, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := apperrors.As(err)
	if typed == nil {
		typed = apperrors.Wrap(apperrors.CodeInternal, err, "unexpected error")
	}
	meta := apperrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case apperrors.CodeValidation,
		apperrors.CodeUnauthorized,
		apperrors.CodeForbidden,
		apperrors.CodeNotFound,
		apperrors.CodeConflict,
		apperrors.CodeStateConflict:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	payload := ErrorEnvelope{Error: APIError{Code: string(typed.Code()), Message: msg}}
	if meta.DetailsAllowed {
		payload.Error.Details = typed.Details()
	}

	if logg != nil {
		ctx := logg.WithFields(c.Request.Context(), map[string]any{
			"error_code": string(typed.Code()),
			"status":     meta.HTTPStatus,
		})
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "request.rejected")
		}
	}

	c.AbortWithStatusJSON(meta.HTTPStatus, payload)
}

// Bind decodes the JSON body into dest and runs its binding tags.
func Bind(c *gin.Context, dest any) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return ValidationError(err)
	}
	return nil
}

// ValidationError turns a binding failure into a validation error with
// per-field details.
func ValidationError(err error) *apperrors.Error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = validationMessage(fe)
		}
		return apperrors.New(apperrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return apperrors.Wrap(apperrors.CodeValidation, err, "invalid request body").
		WithDetails(map[string]any{"error": err.Error()})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return "is invalid"
}
