package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/users-api/internal/core/domain"
)

// failureEnvelope is the canonical error body. Validation failures carry the
// aggregated field messages in Errors; uncaught failures additionally carry
// the timestamp and request path.
type failureEnvelope struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Errors    []string   `json:"errors,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Path      string     `json:"path,omitempty"`
	Detail    string     `json:"detail,omitempty"` // development mode only
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client
//     (unless dev is true, in which case the detail is echoed back).
//   - Renders the {success:false, message, ...} envelope everywhere.
func NewHTTPErrorHandler(log zerolog.Logger, dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		// Handled domain failures: plain envelope, no timestamp/path.
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, failureEnvelope{Message: "validation failed", Errors: ve.Errors})
			return
		}
		if code, msg, ok := domainStatus(err); ok {
			_ = c.JSON(code, failureEnvelope{Message: msg})
			return
		}

		// Everything else is an uncaught failure at the system boundary.
		code := http.StatusInternalServerError
		msg := "internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprintf("%v", he.Message)
		} else {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		now := time.Now()
		body := failureEnvelope{
			Message:   msg,
			Timestamp: &now,
			Path:      c.Request().URL.Path,
		}
		if dev && code == http.StatusInternalServerError {
			body.Detail = err.Error()
		}
		_ = c.JSON(code, body)
	}
}

// domainStatus maps the known domain errors to deterministic HTTP codes.
// Not-found and wrong-password both surface as the same generic credentials
// message on the login path; the distinction never reaches the client.
func domainStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, domain.ErrUsernameExists):
		return http.StatusBadRequest, "username already exists", true
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusBadRequest, "email already exists", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusUnauthorized, "account disabled", true
	case errors.Is(err, domain.ErrEmailAlreadyVerified):
		return http.StatusBadRequest, "email already verified", true
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts, try again later", true
	}
	return 0, "", false
}
