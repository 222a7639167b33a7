package ports

import (
	"context"

	"github.com/productr/catalog-system/internal/core/domain"
)

// SignupInput carries the fields accepted by the signup endpoint.
type SignupInput struct {
	Email    string
	Phone    string
	Password string
}

// AuthResult is returned by every operation that issues a session token.
type AuthResult struct {
	User  *domain.User
	Token string
}

// OTPDispatch describes how a freshly issued OTP was delivered.
type OTPDispatch struct {
	Channel domain.IdentifierKind
	// DevOTP is set only when the SMS channel could not send and the
	// development fallback disclosed the code instead.
	DevOTP string
	// DeliveryError is the channel diagnostic behind a dev fallback.
	DeliveryError string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	RequestLoginOTP(ctx context.Context, identifier string) (*OTPDispatch, error)
	ResendOTP(ctx context.Context, identifier string) (*OTPDispatch, error)
	VerifyLoginOTP(ctx context.Context, identifier, otp string) (*AuthResult, error)
	// Authenticate resolves a bearer token to the id of an existing identity.
	Authenticate(ctx context.Context, token string) (string, error)
}
