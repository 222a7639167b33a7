package ports

import (
	"context"
	"time"

	"github.com/productr/catalog-system/internal/core/domain"
)

// AuthRepository is the credential store for user identities.
//
// OTP mutations are single-document updates so issuance is last-write-wins and
// consumption is a compare-and-swap on the stored code.
type AuthRepository interface {
	// FindByIdentifier looks up an identity by a classified identifier.
	// Invalid identifiers and misses both return domain.ErrAccountNotFound.
	FindByIdentifier(ctx context.Context, id domain.Identifier) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create fails with domain.ErrDuplicateIdentifier when email or phone is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// SetOTP overwrites any pending code for the identity.
	SetOTP(ctx context.Context, userID, otp string, expiry, now time.Time) error
	// ConsumeOTP clears the pending code only if it still equals otp.
	// It returns domain.ErrInvalidOTP when the code was already replaced or consumed.
	ConsumeOTP(ctx context.Context, userID, otp string, now time.Time) error
	// ClearOTP drops a stale code if it still equals otp.
	ClearOTP(ctx context.Context, userID, otp string, now time.Time) error
}
