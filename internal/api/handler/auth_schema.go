package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type signupRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// identifierRequest accepts the identifier under any of the three keys used by
// clients. The first non-blank one wins: email, then phone, then identifier.
type identifierRequest struct {
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Identifier string `json:"identifier"`
}

func (r identifierRequest) value() string {
	for _, v := range []string{r.Email, r.Phone, r.Identifier} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type verifyOTPRequest struct {
	identifierRequest
	OTP otpCode `json:"otp"`
}

// otpCode accepts the code as a JSON string or number; numeric codes are
// compared by their decimal text.
type otpCode string

func (o *otpCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = otpCode(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("otp must be a string or number: %w", err)
	}
	*o = otpCode(n.String())
	return nil
}
