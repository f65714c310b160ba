package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error carries a caller-facing message and the HTTP status it maps to.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("error: message=%s, status=%d", e.Message, e.Status)
}

func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrRateLimited         = New("too many requests", http.StatusTooManyRequests)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
)

// NotFoundError reports an absent entity by name.
func NotFoundError(entity string) *Error {
	return New(fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ForbiddenError reports a policy denial with its reason.
func ForbiddenError(reason string) *Error {
	return New(reason, http.StatusForbidden)
}

// ValidationError reports a failed write-time invariant with its reason.
func ValidationError(reason string) *Error {
	return New(reason, http.StatusBadRequest)
}

// GetUniqueContraintError maps database unique violations to a friendly
// message, everything else to a 500.
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "already in use") ||
		strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
		return New(err.Error(), http.StatusConflict)
	}
	return ErrInternalServerError
}

// ErrorHandler is the handler gin-rate-limit invokes when a client is
// over the limit.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"errors": "too many requests, try again in " + time.Until(info.ResetTime).String(),
		"status": http.StatusText(http.StatusTooManyRequests),
	})
	c.Abort()
}
