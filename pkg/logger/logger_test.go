package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestWithFieldsCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &buf})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"order_id": "abc",
	})
	ctx = logg.WithUserID(ctx, "u1")
	logg.Info(ctx, "hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("parse log line: %v", err)
	}
	if entry["order_id"] != "abc" || entry["user_id"] != "u1" {
		t.Fatalf("expected contextual fields, got %v", entry)
	}
	if entry["service"] != "test" {
		t.Fatalf("expected service field, got %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatalf("expected debug level")
	}
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback for empty input")
	}
	if ParseLevel("nonsense") != zerolog.InfoLevel {
		t.Fatalf("expected info fallback for invalid input")
	}
}
