package ports

import (
	"context"

	"github.com/productr/catalog-system/internal/core/domain"
)

// EmailMessage is a rendered email ready for a channel.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// EmailChannel delivers email. Configured reports false when the provider
// settings are missing, in which case Send must not be called.
type EmailChannel interface {
	Configured() bool
	Send(ctx context.Context, msg EmailMessage) error
}

// SMSChannel delivers text messages to E.164 numbers.
type SMSChannel interface {
	Configured() bool
	Send(ctx context.Context, to, body string) error
}

// DeliveryResult is the outcome of one OTP dispatch.
type DeliveryResult struct {
	Sent   bool
	Error  string
	DevOTP string
}

// NotificationDispatcher routes OTP and welcome messages to the channel that
// matches an identifier's classification.
type NotificationDispatcher interface {
	SendOTP(ctx context.Context, id domain.Identifier, otp string) DeliveryResult
	SendWelcome(ctx context.Context, email string) error
}

// WelcomeQueue accepts best-effort welcome jobs without blocking the caller.
type WelcomeQueue interface {
	EnqueueWelcome(email string)
}

// AttemptGuard counts failed OTP verifications per identity.
type AttemptGuard interface {
	Exceeded(ctx context.Context, userID string) (bool, error)
	RecordFailure(ctx context.Context, userID string) error
	Reset(ctx context.Context, userID string) error
}
