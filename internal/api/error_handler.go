package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/productr/catalog-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain errors
// to status codes and renders {"success": false, "message": "..."}. Unexpected
// errors are logged and reported without detail.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Success: false, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("request rejected")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrMissingIdentifier):
		return http.StatusBadRequest, "Please enter email or phone number."
	case errors.Is(err, domain.ErrMissingPassword):
		return http.StatusBadRequest, "Please enter a password."
	case errors.Is(err, domain.ErrMissingInput):
		return http.StatusBadRequest, "Email/phone and OTP are required."
	case errors.Is(err, domain.ErrInvalidIdentifier):
		return http.StatusBadRequest, "Enter a valid email or phone number."
	case errors.Is(err, domain.ErrInvalidEmail):
		return http.StatusBadRequest, "Please enter a valid email."
	case errors.Is(err, domain.ErrInvalidPhone):
		return http.StatusBadRequest, "Please enter a valid phone number."
	case errors.Is(err, domain.ErrInvalidProduct):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrInvalidOTP):
		return http.StatusBadRequest, "Invalid OTP."
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusBadRequest, "OTP expired. Please request a new one."
	case errors.Is(err, domain.ErrDuplicateIdentifier):
		return http.StatusConflict, "An account with this email or phone already exists."
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "No account found. Please sign up first."
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrForbidden):
		return http.StatusNotFound, "Product not found or unauthorized"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Not authorized"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "Too many incorrect attempts. Please request a new OTP."
	case errors.Is(err, domain.ErrDeliveryFailed):
		log.Error().Err(err).Str("path", c.Path()).Msg("otp delivery failed")
		return http.StatusServiceUnavailable, "Failed to send OTP. Please try again."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Server error."
}
