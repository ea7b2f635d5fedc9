package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/raflibima25/ticket-reservation-service/internal/message"
	"github.com/raflibima25/ticket-reservation-service/internal/payload/response"
)

// respondError writes the contracted error body for the request path
func respondError(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, response.NewErrorResponse(
		status,
		http.StatusText(status),
		msg,
		ctx.Request.URL.Path,
	))
}

// bindingErrorMessage flattens a binding failure into one message listing
// every violated constraint.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return message.ErrInvalidRequest
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fieldViolation(fe))
	}
	return strings.Join(parts, "; ")
}

// fieldViolation renders one failed constraint in plain language
func fieldViolation(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// parsePositiveID parses a positive integer path parameter
func parsePositiveID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
