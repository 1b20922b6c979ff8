package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/elevatecrm/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the gin context key carrying the request ID.
const RequestIDKey = "X-Request-ID"

// SetupValidator makes binding errors report json (or form) field names
// instead of Go struct field names. Call once before the first request.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
}

// FormatValidationErrors turns a binding failure into the standard
// error envelope, with one detail entry per failed field.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dto.NewValidationErrorResponse("Request validation failed", requestID, nil)
	}

	details := make([]dto.ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, dto.ValidationDetail{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

// HandleValidationError writes a 400 response for a binding failure.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestIDFromGin(c)))
}

func requestIDFromGin(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// plainMessages covers tags whose message needs no parameter.
var plainMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"numeric":  "Must be numeric",
	"alphanum": "Must be alphanumeric",
	"alpha":    "Must contain only letters",
}

// comparisonMessages covers tags that compare against the tag parameter.
var comparisonMessages = map[string]string{
	"oneof": "Must be one of: %s",
	"gte":   "Must be greater than or equal to %s",
	"lte":   "Must be less than or equal to %s",
	"gt":    "Must be greater than %s",
	"lt":    "Must be less than %s",
	"len":   "Must be exactly %s characters",
}

// fieldMessage renders a human readable message for one failed rule.
func fieldMessage(fe validator.FieldError) string {
	if msg, ok := plainMessages[fe.Tag()]; ok {
		return msg
	}
	if format, ok := comparisonMessages[fe.Tag()]; ok {
		return fmt.Sprintf(format, fe.Param())
	}

	switch fe.Tag() {
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		if fe.Type().Kind() == reflect.String {
			return fmt.Sprintf("Must be %s %s characters", bound, fe.Param())
		}
		return fmt.Sprintf("Must be %s %s", bound, fe.Param())
	}
	return "Invalid value"
}
