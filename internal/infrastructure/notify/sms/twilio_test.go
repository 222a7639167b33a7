package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTwilioConfigured(t *testing.T) {
	if NewTwilioClient(Config{AccountSID: "AC1", AuthToken: "tok"}).Configured() {
		t.Fatal("missing phone number should not be configured")
	}
	if !NewTwilioClient(Config{AccountSID: "AC1", AuthToken: "tok", PhoneNumber: "+15550001111"}).Configured() {
		t.Fatal("full config should be configured")
	}
}

func TestTwilioSendPostsForm(t *testing.T) {
	var gotPath, gotUser, gotPass, gotTo, gotFrom, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		_ = r.ParseForm()
		gotTo, gotFrom, gotBody = r.PostForm.Get("To"), r.PostForm.Get("From"), r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM1","status":"queued"}`))
	}))
	defer srv.Close()

	c := NewTwilioClient(Config{AccountSID: "AC1", AuthToken: "tok", PhoneNumber: "+15550001111", BaseURL: srv.URL + "/"})
	if err := c.Send(context.Background(), "+919876543210", "Your Productr OTP is 12345"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if gotPath != "/2010-04-01/Accounts/AC1/Messages.json" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotUser != "AC1" || gotPass != "tok" {
		t.Fatalf("unexpected basic auth %q:%q", gotUser, gotPass)
	}
	if gotTo != "+919876543210" || gotFrom != "+15550001111" || !strings.Contains(gotBody, "12345") {
		t.Fatalf("unexpected form To=%q From=%q Body=%q", gotTo, gotFrom, gotBody)
	}
}

func TestTwilioSendSurfacesProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number."}`))
	}))
	defer srv.Close()

	c := NewTwilioClient(Config{AccountSID: "AC1", AuthToken: "tok", PhoneNumber: "+1", BaseURL: srv.URL})
	err := c.Send(context.Background(), "+10000000000", "x")
	if err == nil {
		t.Fatal("expected provider error")
	}
	if !strings.Contains(err.Error(), "21211") {
		t.Fatalf("error should carry provider code, got %v", err)
	}
}

func TestTwilioSendHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewTwilioClient(Config{AccountSID: "AC1", AuthToken: "tok", PhoneNumber: "+1", BaseURL: srv.URL})
	if err := c.Send(ctx, "+10000000000", "x"); err == nil {
		t.Fatal("expected cancelled context error")
	}
}
