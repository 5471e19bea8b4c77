package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/unheard/internal/service"
)

// OutcomeStatus is the query key a redirect carries its message under.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeError   OutcomeStatus = "error"
)

// Outcome is the result of a write: a status, a user-facing message and the
// page to return to.
type Outcome struct {
	Status  OutcomeStatus
	Message string
	Path    string
}

func successOutcome(path, message string) Outcome {
	return Outcome{Status: OutcomeSuccess, Message: message, Path: path}
}

func errorOutcome(path, message string) Outcome {
	return Outcome{Status: OutcomeError, Message: message, Path: path}
}

// Location encodes the outcome as path?status=message.
func (o Outcome) Location() string {
	sep := "?"
	if strings.Contains(o.Path, "?") {
		sep = "&"
	}
	return o.Path + sep + string(o.Status) + "=" + url.QueryEscape(o.Message)
}

func encodedRedirect(c *gin.Context, outcome Outcome) {
	c.Redirect(http.StatusSeeOther, outcome.Location())
}

// outcomeMessage maps service errors to the message shown to the user.
// notFound replaces ErrPostNotFound so each action can word it.
func outcomeMessage(err error, notFound string) string {
	var storeErr *service.StoreError

	switch {
	case errors.Is(err, service.ErrTitleContentRequired):
		return "Title and content are required"
	case errors.Is(err, service.ErrPostIDRequired):
		return "Post ID is required"
	case errors.Is(err, service.ErrPostNotFound):
		return notFound
	case errors.Is(err, service.ErrCredentialsRequired):
		return "Email and password are required"
	case errors.Is(err, service.ErrPasswordTooShort):
		return "Password should be at least 6 characters."
	case errors.Is(err, service.ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, service.ErrEmailTaken):
		return "User already registered"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid login credentials"
	case errors.Is(err, service.ErrUnauthenticated):
		return "You must be signed in to continue"
	case errors.As(err, &storeErr):
		slog.Error("store error", "op", storeErr.Op, "error", storeErr.Err)
		return storeErr.Error()
	default:
		slog.Error("unexpected error", "error", err)
		return "Something went wrong"
	}
}
