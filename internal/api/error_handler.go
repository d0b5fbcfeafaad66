package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"blog-auth/internal/models"
	"blog-auth/internal/service"
)

// ErrorHandler maps service sentinels to HTTP statuses. Every authentication
// failure collapses to the same generic unauthorized body; which precondition
// failed stays in the logs.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			writeError(c, log, http.StatusUnauthorized, "invalid email or password")
			return
		case isUnauthorizedTokenError(err):
			writeError(c, log, http.StatusUnauthorized, "unauthorized")
			return
		case errors.Is(err, service.ErrUserAlreadyExists):
			writeError(c, log, http.StatusConflict, "user already exists")
			return
		case errors.Is(err, service.ErrLoginRateLimited):
			writeError(c, log, http.StatusTooManyRequests, "too many attempts, try again later")
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			if he.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			writeError(c, log, he.Code, msg)
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeError(c, log, http.StatusInternalServerError, "internal server error")
	}
}

func isUnauthorizedTokenError(err error) bool {
	return errors.Is(err, service.ErrTokenInvalid) ||
		errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrRefreshTokenInvalid) ||
		errors.Is(err, service.ErrRefreshTokenExpired)
}

func writeError(c echo.Context, log *zap.SugaredLogger, status int, message string) {
	if err := c.JSON(status, models.ErrorResponse{Status: status, Message: message}); err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}
