package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestInit_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{FormatText, []string{"level=INFO", "component=cache", "rows=3"}},
		{FormatJSON, []string{`"level":"INFO"`, `"component":"cache"`, `"rows":3`}},
		{"yaml", []string{"level=INFO", "component=cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			Init(slog.LevelInfo, tt.format, &buf)
			New("cache").Info("loaded cache", "rows", 3)

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected %s in output, got: %s", w, out)
				}
			}
		})
	}
}

func TestInit_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, FormatText, &buf)

	log := New("assemble")
	log.Info("processing result files")
	log.Warn("result file failed")

	out := buf.String()
	if strings.Contains(out, "processing result files") {
		t.Error("info record should be gated at warn level")
	}
	if !strings.Contains(out, "result file failed") {
		t.Error("warn record should pass at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]string{"": FormatText, "TEXT": FormatText, "json": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestDiscard_DropsEverything(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, FormatText, &buf)

	Discard().Error("never shown")
	if buf.Len() != 0 {
		t.Errorf("Discard wrote to the default handler: %s", buf.String())
	}
}
