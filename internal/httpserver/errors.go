package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/meneric/internal/auth"
	"github.com/Skotchmaster/meneric/internal/models"
	"github.com/Skotchmaster/meneric/internal/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, auth.ErrInvalidPhone),
		errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidOTP):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, auth.ErrOTPCooldown):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err under op and turns it into the matching HTTP error.
func fail(l *slog.Logger, op string, err error) error {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		l.Error(op+"_error", "status", code, "reason", "internal error", "error", err)
		return echo.NewHTTPError(code, "internal error")
	}
	l.Warn(op+"_error", "status", code, "reason", err.Error(), "error", err)
	return echo.NewHTTPError(code, err.Error())
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

// actorFrom reads the caller the auth middleware put into the context.
func actorFrom(c echo.Context) service.Actor {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	name, _ := c.Get("name").(string)
	return service.Actor{ID: id, Role: models.Role(role), Name: name}
}
