package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/productr/catalog-system/internal/api/metrics"
	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Signup creates a new account.
//
// @Summary      Sign up with email and/or phone
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Account details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /api/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	res, err := h.authService.Signup(c.Request().Context(), ports.SignupInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	metrics.SignupsTotal.WithLabelValues(signupChannel(res.User)).Inc()

	return c.JSON(http.StatusCreated, authResponse{
		Success: true,
		Message: "Account created. You can now login.",
		User:    toUserResponse(res.User),
		Token:   res.Token,
	})
}

// SendOTP issues a login code for an existing account.
//
// @Summary      Request a login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      identifierRequest  true  "email, phone or identifier"
// @Success      200   {object}  otpResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /api/login/send-otp [post]
func (h *AuthHandler) SendOTP(c echo.Context) error {
	var req identifierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	dispatch, err := h.authService.RequestLoginOTP(c.Request().Context(), req.value())
	if err != nil {
		recordIssueFailure(req.value(), err)
		return err
	}
	return c.JSON(http.StatusOK, otpSentResponse(dispatch, false))
}

// ResendOTP replaces the pending code with a fresh one.
//
// @Summary      Resend a login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      identifierRequest  true  "email, phone or identifier"
// @Success      200   {object}  otpResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      503   {object}  messageResponse
// @Router       /api/resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req identifierRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	dispatch, err := h.authService.ResendOTP(c.Request().Context(), req.value())
	if err != nil {
		recordIssueFailure(req.value(), err)
		return err
	}
	return c.JSON(http.StatusOK, otpSentResponse(dispatch, true))
}

// VerifyOTP exchanges a valid code for a session token.
//
// @Summary      Verify a login OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyOTPRequest  true  "identifier and otp"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      429   {object}  messageResponse
// @Router       /api/login/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	res, err := h.authService.VerifyLoginOTP(c.Request().Context(), req.value(), string(req.OTP))
	if err != nil {
		metrics.OTPVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
		return err
	}
	metrics.OTPVerificationsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful.",
		User:    toUserResponse(res.User),
		Token:   res.Token,
	})
}

func otpSentResponse(d *ports.OTPDispatch, resend bool) otpResponse {
	verb := "sent"
	if resend {
		verb = "resent"
	}

	channel := d.Channel.String()
	if d.DevOTP != "" {
		metrics.OTPIssuedTotal.WithLabelValues(channel, "dev_fallback").Inc()
		return otpResponse{
			Success: true,
			Message: "SMS could not be delivered. Use the development OTP.",
			DevOTP:  d.DevOTP,
		}
	}
	metrics.OTPIssuedTotal.WithLabelValues(channel, "sent").Inc()

	switch {
	case d.Channel == domain.KindEmail && resend:
		return otpResponse{Success: true, Message: "OTP resent to your email."}
	case d.Channel == domain.KindEmail:
		return otpResponse{Success: true, Message: "OTP sent to your email. Please check inbox or spam."}
	}
	return otpResponse{Success: true, Message: "OTP " + verb + " to your phone."}
}

func recordIssueFailure(identifier string, err error) {
	if !errors.Is(err, domain.ErrDeliveryFailed) {
		return
	}
	metrics.OTPIssuedTotal.WithLabelValues(domain.Classify(identifier).Kind.String(), "failed").Inc()
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidOTP):
		return "invalid"
	case errors.Is(err, domain.ErrOTPExpired):
		return "expired"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "locked"
	default:
		return "error"
	}
}

func signupChannel(u *domain.User) string {
	switch {
	case u.Email != "" && u.Phone != "":
		return "both"
	case u.Email != "":
		return "email"
	default:
		return "phone"
	}
}
