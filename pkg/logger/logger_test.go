package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOptionsFor(t *testing.T) {
	if OptionsFor("production", "info").Pretty {
		t.Fatal("production output should be JSON")
	}
	if !OptionsFor("development", "debug").Pretty {
		t.Fatal("development output should be pretty")
	}
}

func TestComponentTagsEntries(t *testing.T) {
	Reset()
	defer Reset()

	if Component("auth").GetLevel() != zerolog.Disabled {
		t.Fatal("Component before Init should be a no-op logger")
	}

	var buf bytes.Buffer
	Init(Options{Level: "info", Output: &buf, Service: "productr-api"})
	Component("auth").Info().Msg("otp issued")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["component"] != "auth" || entry["service"] != "productr-api" {
		t.Fatalf("unexpected fields: %v", entry)
	}
}

func TestGetPanicsBeforeInit(t *testing.T) {
	Reset()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	_ = Get()
}
