package domain

import (
	"math/rand/v2"
	"strconv"
	"time"
)

const (
	otpMin = 10000
	otpMax = 99999

	// DefaultOTPTTL is how long an issued code stays valid.
	DefaultOTPTTL = 10 * time.Minute
)

// GenerateOTP returns a 5-digit numeric code drawn uniformly from [10000, 99999].
//
// Known weakness: the source is math/rand, not crypto/rand. Guessing is bounded
// by single use, the expiry and the verification attempt cap.
func GenerateOTP() string {
	return strconv.Itoa(otpMin + rand.IntN(otpMax-otpMin+1))
}

// OTPExpiry returns the expiry timestamp for a code issued at now.
func OTPExpiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return now.Add(ttl)
}
