package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sokoni-backend/internal/apperr"
)

const problemTypeBase = "https://sokoni.dev/problems/"

// Problem is the error payload returned by every endpoint
type Problem struct {
	Type      string              `json:"type"`
	Title     string              `json:"title"`
	Status    int                 `json:"status"`
	Detail    string              `json:"detail"`
	Timestamp time.Time           `json:"timestamp"`
	Errors    []apperr.FieldError `json:"errors,omitempty"`
}

var kindStatus = map[apperr.Kind]struct {
	status int
	title  string
}{
	apperr.KindValidation:        {http.StatusBadRequest, "Validation Failed"},
	apperr.KindBusiness:          {http.StatusBadRequest, "Business Rule Violation"},
	apperr.KindCart:              {http.StatusBadRequest, "Invalid Cart Operation"},
	apperr.KindInsufficientStock: {http.StatusConflict, "Insufficient Stock"},
	apperr.KindConflict:          {http.StatusConflict, "Conflict"},
	apperr.KindConcurrency:       {http.StatusConflict, "Concurrent Update"},
	apperr.KindUnauthorized:      {http.StatusUnauthorized, "Unauthorized"},
	apperr.KindAccessDenied:      {http.StatusForbidden, "Access Denied"},
	apperr.KindNotFound:          {http.StatusNotFound, "Not Found"},
	apperr.KindUserNotFound:      {http.StatusNotFound, "User Not Found"},
	apperr.KindStorage:           {http.StatusInternalServerError, "Storage Failure"},
	apperr.KindInternal:          {http.StatusInternalServerError, "Internal Server Error"},
}

// RespondError translates a service error into a problem response.
// Server-side failures are logged with their cause; the client only
// sees a generic detail for those.
func RespondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	mapping, ok := kindStatus[kind]
	if !ok {
		mapping = kindStatus[apperr.KindInternal]
	}

	detail := err.Error()
	if mapping.status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		detail = "an unexpected error occurred"
	}

	problem := Problem{
		Type:      problemTypeBase + string(kind),
		Title:     mapping.title,
		Status:    mapping.status,
		Detail:    detail,
		Timestamp: time.Now(),
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		problem.Errors = appErr.Fields
	}

	c.JSON(mapping.status, problem)
}

// RespondBindError wraps a request binding failure as a validation
// problem
func RespondBindError(c *gin.Context, err error) {
	RespondError(c, apperr.Wrap(apperr.KindValidation, "invalid request body", err))
}

// Respond writes a successful envelope
func Respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
