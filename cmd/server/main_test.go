package main

import (
	"testing"

	"github.com/stafflink/concierge/internal/config"
)

func TestLoggingConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"
	cfg.Log.File = "/var/log/concierge/server.log"
	cfg.Log.MaxSizeMB = 50
	cfg.Log.MaxBackups = 3
	cfg.Log.MaxAgeDays = 14

	lc := loggingConfig(cfg)

	if lc.Level != "warn" {
		t.Errorf("Level = %q, want %q", lc.Level, "warn")
	}
	if lc.Format != "json" {
		t.Errorf("Format = %q, want %q", lc.Format, "json")
	}
	if lc.Environment != "production" {
		t.Errorf("Environment = %q, want %q", lc.Environment, "production")
	}
	if lc.File != "/var/log/concierge/server.log" {
		t.Errorf("File = %q, want the configured path", lc.File)
	}
	if lc.MaxSizeMB != 50 || lc.MaxBackups != 3 || lc.MaxAgeDays != 14 {
		t.Errorf("rotation settings = %d/%d/%d, want 50/3/14",
			lc.MaxSizeMB, lc.MaxBackups, lc.MaxAgeDays)
	}
}

func TestCorsOptions(t *testing.T) {
	cfg := &config.Config{}
	cfg.CORS.AllowedOrigins = []string{"https://stafflink.com", "https://www.stafflink.com"}

	opts := corsOptions(cfg)

	if len(opts.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins length = %d, want 2", len(opts.AllowedOrigins))
	}
	if opts.AllowedOrigins[0] != "https://stafflink.com" {
		t.Errorf("AllowedOrigins[0] = %q", opts.AllowedOrigins[0])
	}

	// The widget only ever issues reads and chat turns.
	for _, method := range opts.AllowedMethods {
		switch method {
		case "GET", "POST", "OPTIONS":
		default:
			t.Errorf("unexpected allowed method %q", method)
		}
	}
}
