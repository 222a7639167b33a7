package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

const (
	defaultNotifyTimeout = 20 * time.Second
	defaultCountryCode   = "91"
)

// NotificationConfig tunes the dispatcher.
type NotificationConfig struct {
	// Timeout bounds a single channel call. Calls are never retried.
	Timeout time.Duration
	// CountryCode is prefixed to bare national numbers when building E.164.
	CountryCode string
	// SMSDevFallback discloses the OTP in the result when SMS cannot be sent.
	SMSDevFallback bool
}

// NotificationService sends OTP and welcome messages through injected channels.
// A nil channel behaves as an unconfigured one.
type NotificationService struct {
	email ports.EmailChannel
	sms   ports.SMSChannel
	cfg   NotificationConfig
	log   zerolog.Logger
}

func NewNotificationService(email ports.EmailChannel, sms ports.SMSChannel, cfg NotificationConfig, log zerolog.Logger) *NotificationService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultNotifyTimeout
	}
	if cfg.CountryCode == "" {
		cfg.CountryCode = defaultCountryCode
	}
	return &NotificationService{email: email, sms: sms, cfg: cfg, log: log}
}

// SendOTP delivers otp to the identifier's channel.
//
// Email fails closed. SMS fails open when SMSDevFallback is set: the result is
// still unsent but carries the code in DevOTP so phone logins stay testable
// without a provider account.
func (s *NotificationService) SendOTP(ctx context.Context, id domain.Identifier, otp string) ports.DeliveryResult {
	switch id.Kind {
	case domain.KindEmail:
		return s.sendEmailOTP(ctx, id.Value, otp)
	case domain.KindPhone:
		return s.sendSMSOTP(ctx, id.Value, otp)
	default:
		return ports.DeliveryResult{Error: "unsupported identifier"}
	}
}

func (s *NotificationService) sendEmailOTP(ctx context.Context, to, otp string) ports.DeliveryResult {
	to = strings.ToLower(strings.TrimSpace(to))
	if to == "" {
		return ports.DeliveryResult{Error: "invalid email address"}
	}
	if s.email == nil || !s.email.Configured() {
		s.log.Error().Msg("email channel not configured")
		return ports.DeliveryResult{Error: "email service not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	err := s.email.Send(ctx, ports.EmailMessage{
		To:      to,
		Subject: "Your Productr Login OTP",
		Text:    fmt.Sprintf("Your OTP is %s. It is valid for 10 minutes.", otp),
		HTML:    otpEmailHTML(otp),
	})
	if err != nil {
		s.log.Error().Err(err).Str("channel", "email").Msg("otp send failed")
		return ports.DeliveryResult{Error: err.Error()}
	}
	return ports.DeliveryResult{Sent: true}
}

func (s *NotificationService) sendSMSOTP(ctx context.Context, phone, otp string) ports.DeliveryResult {
	to := ToE164(phone, s.cfg.CountryCode)
	if to == "" {
		return ports.DeliveryResult{Error: "invalid phone number"}
	}
	if s.sms == nil || !s.sms.Configured() {
		return s.smsFallback("sms not configured", otp)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	body := fmt.Sprintf("Your Productr OTP is: %s. Valid for 10 minutes. Do not share.", otp)
	if err := s.sms.Send(ctx, to, body); err != nil {
		s.log.Error().Err(err).Str("channel", "sms").Msg("otp send failed")
		return s.smsFallback(err.Error(), otp)
	}
	return ports.DeliveryResult{Sent: true}
}

func (s *NotificationService) smsFallback(reason, otp string) ports.DeliveryResult {
	res := ports.DeliveryResult{Error: reason}
	if s.cfg.SMSDevFallback {
		s.log.Warn().Str("reason", reason).Msg("sms unavailable, disclosing otp through dev fallback")
		res.DevOTP = otp
	}
	return res
}

// SendWelcome sends the post-signup welcome email.
func (s *NotificationService) SendWelcome(ctx context.Context, email string) error {
	to := strings.ToLower(strings.TrimSpace(email))
	if to == "" {
		return fmt.Errorf("welcome: %w", domain.ErrInvalidEmail)
	}
	if s.email == nil || !s.email.Configured() {
		return fmt.Errorf("welcome: email service not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	return s.email.Send(ctx, ports.EmailMessage{
		To:      to,
		Subject: "Welcome to Productr",
		Text:    "Your account has been created successfully. You can now log in using OTP.",
		HTML: `<div style="font-family: Arial, sans-serif;">
  <h2>Welcome to Productr</h2>
  <p>Your account has been created successfully.</p>
  <p>You can now log in using OTP.</p>
</div>`,
	})
}

func otpEmailHTML(otp string) string {
	return `<div style="font-family: Arial, sans-serif;">
  <h2>Your Login OTP</h2>
  <p>Your OTP is:</p>
  <h1>` + otp + `</h1>
  <p>This OTP is valid for 10 minutes.</p>
  <p>Please do not share it with anyone.</p>
</div>`
}

// ToE164 converts a stored phone number into E.164 using countryCode for
// national numbers. It returns "" when the number has fewer than 10 or more
// than 15 digits.
//
//	10 digits                       → +<cc><digits>
//	<cc> followed by 10 digits      → +<digits>
//	any other 10..15 digit number   → +<cc><last 10 digits>
func ToE164(phone, countryCode string) string {
	digits := domain.Digits(phone)
	n := len(digits)
	switch {
	case n < 10 || n > 15:
		return ""
	case n == 10:
		return "+" + countryCode + digits
	case n == len(countryCode)+10 && strings.HasPrefix(digits, countryCode):
		return "+" + digits
	default:
		return "+" + countryCode + digits[n-10:]
	}
}
