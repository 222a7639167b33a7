package domain

import "time"

// User is one account. At least one of Email or Phone is set; empty means absent.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"`
	OTP          string     `json:"-"`
	OTPExpiry    *time.Time `json:"-"`
	IsVerified   bool       `json:"isVerified"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// HasPendingOTP reports whether a code is waiting to be verified.
func (u *User) HasPendingOTP() bool {
	return u.OTP != ""
}

// OTPExpired reports whether the pending code is past its expiry at now.
func (u *User) OTPExpired(now time.Time) bool {
	return u.OTPExpiry != nil && now.After(*u.OTPExpiry)
}

// Identifier returns the identity's key for the given classification kind,
// falling back to whichever field is present.
func (u *User) Identifier(kind IdentifierKind) Identifier {
	switch {
	case kind == KindEmail && u.Email != "":
		return Identifier{Kind: KindEmail, Value: u.Email}
	case kind == KindPhone && u.Phone != "":
		return Identifier{Kind: KindPhone, Value: u.Phone}
	case u.Email != "":
		return Identifier{Kind: KindEmail, Value: u.Email}
	case u.Phone != "":
		return Identifier{Kind: KindPhone, Value: u.Phone}
	}
	return Identifier{}
}
