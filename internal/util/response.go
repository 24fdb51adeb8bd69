package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidationErrors maps a request field to its messages, e.g.
// {"amount": ["Ensure that there are no more than 2 decimal places."]}.
// Errors not tied to a single field go under NonFieldErrors.
type ValidationErrors map[string][]string

const NonFieldErrors = "non_field_errors"

// Add appends msg to field.
func (v ValidationErrors) Add(field, msg string) {
	v[field] = append(v[field], msg)
}

// Empty reports whether no message was recorded.
func (v ValidationErrors) Empty() bool {
	return len(v) == 0
}

// Invalid writes a 400 with the field-keyed messages.
func Invalid(c *gin.Context, errs ValidationErrors) {
	c.JSON(http.StatusBadRequest, errs)
}

// Detail writes a single-message error, e.g. {"detail": "Not found."}.
func Detail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{"detail": msg})
}

// NotFound writes the standard 404 body.
func NotFound(c *gin.Context) {
	Detail(c, http.StatusNotFound, "Not found.")
}

// ServerError writes the standard 500 body.
func ServerError(c *gin.Context) {
	Detail(c, http.StatusInternalServerError, "A server error occurred.")
}
