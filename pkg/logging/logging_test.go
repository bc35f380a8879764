package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "Warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "trace", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewHandler_JSON(t *testing.T) {
	SetLevel(slog.LevelInfo)
	defer SetLevel(slog.LevelInfo)

	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "json"))

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level: %s", buf.String())
	}

	logger.Info("Session created", "session_id", "abc")
	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if record["msg"] != "Session created" || record["session_id"] != "abc" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestSetLevel_AppliesToExistingHandlers(t *testing.T) {
	SetLevel(slog.LevelInfo)
	defer SetLevel(slog.LevelInfo)

	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "text"))

	logger.Debug("before")
	if buf.Len() != 0 {
		t.Fatalf("debug record written at info level")
	}

	SetLevel(slog.LevelDebug)
	if Level() != slog.LevelDebug {
		t.Fatalf("Level() = %v, want debug", Level())
	}
	logger.Debug("after")
	if !bytes.Contains(buf.Bytes(), []byte("after")) {
		t.Errorf("debug record missing after SetLevel: %q", buf.String())
	}
}
