package domain

import "errors"

// Validation failures.
var (
	ErrMissingInput      = errors.New("identifier and otp are required")
	ErrMissingIdentifier = errors.New("email or phone number is required")
	ErrMissingPassword   = errors.New("password is required")
	ErrInvalidIdentifier = errors.New("enter a valid email or phone number")
	ErrInvalidEmail      = errors.New("enter a valid email")
	ErrInvalidPhone      = errors.New("enter a valid phone number")
	ErrInvalidProduct    = errors.New("invalid product")
)

// OTP state failures.
var (
	ErrInvalidOTP      = errors.New("invalid otp")
	ErrOTPExpired      = errors.New("otp expired, request a new one")
	ErrTooManyAttempts = errors.New("too many invalid otp attempts, request a new one")
)

var (
	ErrDuplicateIdentifier = errors.New("an account with this identifier already exists")
	ErrAccountNotFound     = errors.New("no account found, please sign up first")
	ErrDeliveryFailed      = errors.New("failed to deliver otp")
	ErrUnauthorized        = errors.New("not authorized")
	ErrForbidden           = errors.New("access forbidden")
	ErrProductNotFound     = errors.New("product not found")
)
