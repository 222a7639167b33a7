package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

type stubEmailChannel struct {
	configured bool
	err        error
	sent       []ports.EmailMessage
	deadline   time.Time
}

func (c *stubEmailChannel) Configured() bool { return c.configured }

func (c *stubEmailChannel) Send(ctx context.Context, msg ports.EmailMessage) error {
	c.deadline, _ = ctx.Deadline()
	c.sent = append(c.sent, msg)
	return c.err
}

type smsCall struct {
	to, body string
}

type stubSMSChannel struct {
	configured bool
	err        error
	sent       []smsCall
}

func (c *stubSMSChannel) Configured() bool { return c.configured }

func (c *stubSMSChannel) Send(_ context.Context, to, body string) error {
	c.sent = append(c.sent, smsCall{to: to, body: body})
	return c.err
}

var (
	emailID = domain.Identifier{Kind: domain.KindEmail, Value: "a@x.com"}
	phoneID = domain.Identifier{Kind: domain.KindPhone, Value: "9876543210"}
)

func TestNotificationService_EmailSent(t *testing.T) {
	email := &stubEmailChannel{configured: true}
	svc := NewNotificationService(email, nil, NotificationConfig{Timeout: time.Second}, zerolog.Nop())

	res := svc.SendOTP(context.Background(), emailID, "12345")
	if !res.Sent || res.DevOTP != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(email.sent) != 1 || email.sent[0].To != "a@x.com" {
		t.Fatalf("unexpected sends: %+v", email.sent)
	}
	if !strings.Contains(email.sent[0].Text, "12345") || !strings.Contains(email.sent[0].HTML, "12345") {
		t.Fatalf("otp missing from message: %+v", email.sent[0])
	}
	if email.deadline.IsZero() {
		t.Fatalf("expected bounded send deadline")
	}
}

func TestNotificationService_EmailFailsClosed(t *testing.T) {
	unconfigured := NewNotificationService(&stubEmailChannel{}, nil, NotificationConfig{SMSDevFallback: true}, zerolog.Nop())
	res := unconfigured.SendOTP(context.Background(), emailID, "12345")
	if res.Sent || res.DevOTP != "" || res.Error == "" {
		t.Fatalf("unexpected result for unconfigured email: %+v", res)
	}

	failing := &stubEmailChannel{configured: true, err: errors.New("smtp: 550")}
	svc := NewNotificationService(failing, nil, NotificationConfig{SMSDevFallback: true}, zerolog.Nop())
	res = svc.SendOTP(context.Background(), emailID, "12345")
	if res.Sent || res.DevOTP != "" || res.Error != "smtp: 550" {
		t.Fatalf("unexpected result for failing email: %+v", res)
	}
}

func TestNotificationService_SMSSentAsE164(t *testing.T) {
	sms := &stubSMSChannel{configured: true}
	svc := NewNotificationService(nil, sms, NotificationConfig{}, zerolog.Nop())

	res := svc.SendOTP(context.Background(), phoneID, "54321")
	if !res.Sent {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(sms.sent) != 1 || sms.sent[0].to != "+919876543210" {
		t.Fatalf("unexpected sends: %+v", sms.sent)
	}
	if !strings.Contains(sms.sent[0].body, "54321") {
		t.Fatalf("otp missing from body: %q", sms.sent[0].body)
	}
}

func TestNotificationService_SMSDevFallback(t *testing.T) {
	svc := NewNotificationService(nil, &stubSMSChannel{}, NotificationConfig{SMSDevFallback: true}, zerolog.Nop())
	res := svc.SendOTP(context.Background(), phoneID, "54321")
	if res.Sent || res.DevOTP != "54321" || res.Error == "" {
		t.Fatalf("unexpected result for unconfigured sms: %+v", res)
	}

	failing := &stubSMSChannel{configured: true, err: errors.New("twilio: 401")}
	svc = NewNotificationService(nil, failing, NotificationConfig{SMSDevFallback: true}, zerolog.Nop())
	res = svc.SendOTP(context.Background(), phoneID, "54321")
	if res.Sent || res.DevOTP != "54321" || res.Error != "twilio: 401" {
		t.Fatalf("unexpected result for failing sms: %+v", res)
	}
}

func TestNotificationService_SMSWithoutFallback(t *testing.T) {
	svc := NewNotificationService(nil, nil, NotificationConfig{}, zerolog.Nop())
	res := svc.SendOTP(context.Background(), phoneID, "54321")
	if res.Sent || res.DevOTP != "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestNotificationService_Welcome(t *testing.T) {
	email := &stubEmailChannel{configured: true}
	svc := NewNotificationService(email, nil, NotificationConfig{}, zerolog.Nop())

	if err := svc.SendWelcome(context.Background(), " A@X.com"); err != nil {
		t.Fatalf("SendWelcome: %v", err)
	}
	if len(email.sent) != 1 || email.sent[0].To != "a@x.com" || email.sent[0].Subject != "Welcome to Productr" {
		t.Fatalf("unexpected sends: %+v", email.sent)
	}

	unconfigured := NewNotificationService(nil, nil, NotificationConfig{}, zerolog.Nop())
	if err := unconfigured.SendWelcome(context.Background(), "a@x.com"); err == nil {
		t.Fatalf("expected error without an email channel")
	}
}

func TestToE164(t *testing.T) {
	cases := map[string]string{
		"9876543210":       "+919876543210",
		"919876543210":     "+919876543210",
		"+91 98765 43210":  "+919876543210",
		"0019876543210":    "+919876543210",
		"123456789":        "",
		"1234567890123456": "",
	}
	for in, want := range cases {
		if got := ToE164(in, "91"); got != want {
			t.Errorf("ToE164(%q) = %q, want %q", in, got, want)
		}
	}
	if got := ToE164("2025550123", "1"); got != "+12025550123" {
		t.Errorf("expected +12025550123, got %q", got)
	}
}
