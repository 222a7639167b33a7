package domain

import (
	"regexp"
	"strings"
)

// IdentifierKind tags the result of classifying a raw login identifier.
type IdentifierKind int

const (
	KindInvalid IdentifierKind = iota
	KindEmail
	KindPhone
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func (k IdentifierKind) String() string {
	switch k {
	case KindEmail:
		return "email"
	case KindPhone:
		return "phone"
	default:
		return "invalid"
	}
}

// Identifier is a classified, normalized login key. The zero value is Invalid.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// IsEmail reports whether the identifier was classified as an email address.
func (id Identifier) IsEmail() bool { return id.Kind == KindEmail }

// IsPhone reports whether the identifier was classified as a phone number.
func (id Identifier) IsPhone() bool { return id.Kind == KindPhone }

// Valid reports whether the identifier is usable as a store key.
func (id Identifier) Valid() bool { return id.Kind != KindInvalid && id.Value != "" }

// Classify decides whether raw is an email, a phone number or neither.
//
// Emails are trimmed and lowercased. Phones must carry 10 to 15 digits once every
// non-digit is stripped; the stored form is the trimmed input with all whitespace
// removed (conversion to E.164 only happens when an SMS is dispatched).
func Classify(raw string) Identifier {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Identifier{}
	}
	if IsEmailAddress(trimmed) {
		return Identifier{Kind: KindEmail, Value: strings.ToLower(trimmed)}
	}
	if IsPhoneNumber(trimmed) {
		return Identifier{Kind: KindPhone, Value: NormalizePhone(trimmed)}
	}
	return Identifier{}
}

// IsEmailAddress reports whether s has a local@domain.tld shape.
func IsEmailAddress(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsPhoneNumber reports whether s carries between 10 and 15 digits.
func IsPhoneNumber(s string) bool {
	n := len(Digits(s))
	return n >= minPhoneDigits && n <= maxPhoneDigits
}

// NormalizePhone trims s and drops every whitespace rune.
func NormalizePhone(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
