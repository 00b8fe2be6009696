package config_test

import (
	"bytes"
	"testing"

	"github.com/m-mizutani/backporter/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{name: "Valid level: debug", level: "debug"},
		{name: "Valid level: DEBUG (case insensitive)", level: "DEBUG"},
		{name: "Valid level: info", level: "info"},
		{name: "Valid level: INFO", level: "INFO"},
		{name: "Valid level: warn", level: "warn"},
		{name: "Valid level: WARN", level: "WARN"},
		{name: "Valid level: error", level: "error"},
		{name: "Valid level: ERROR", level: "ERROR"},
		{name: "Invalid level: invalid", level: "invalid", wantErr: true},
		{name: "Invalid level: empty string", level: "", wantErr: true},
		{name: "Invalid level: random", level: "random", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &config.Logger{
				Level:  tt.level,
				Format: "console",
			}

			result, err := logger.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.NotNil(t, result)
		})
	}
}

func TestLogger_Format(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{name: "console", format: "console"},
		{name: "json", format: "json"},
		{name: "upper case", format: "JSON"},
		{name: "empty falls back to console", format: ""},
		{name: "unknown", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := &config.Logger{Level: "info", Format: tt.format}

			result, err := logger.NewLogger(&buf)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)

			result.Info("test log message")
			gt.String(t, buf.String()).Contains("test log message")
		})
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "warn", Format: "json"}).NewLogger(&buf)
	gt.NoError(t, err)

	logger.Info("quiet message")
	logger.Warn("loud message")
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("quiet message")))
	gt.True(t, bytes.Contains(buf.Bytes(), []byte("loud message")))
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", Format: "json"}).NewLogger(&buf)
	gt.NoError(t, err)

	logger.Info("configured",
		"token", "ghp_verysecret",
		"webhook_secret", "hook-secret",
		"github", config.GitHub{Token: "ghp_nested", AppID: 12},
		"sentry", config.Sentry{DSN: "https://key@sentry.example/1", Env: "prod"},
	)

	out := buf.String()
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("ghp_verysecret")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("hook-secret")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("ghp_nested")))
	gt.False(t, bytes.Contains(buf.Bytes(), []byte("key@sentry.example")))
	gt.String(t, out).Contains("prod")
}

func TestLogger_Flags(t *testing.T) {
	logger := &config.Logger{}
	flags := logger.Flags()
	gt.Number(t, len(flags)).Equal(2)

	flagNames := make(map[string]bool)
	for _, flag := range flags {
		switch f := flag.(type) {
		case interface{ Names() []string }:
			names := f.Names()
			if len(names) > 0 {
				flagNames[names[0]] = true
			}
		}
	}

	gt.True(t, flagNames["log-level"])
	gt.True(t, flagNames["log-format"])
}
