package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  log.Level
	}{
		{"debug", "debug", log.DebugLevel},
		{"upper case", "WARN", log.WarnLevel},
		{"padded", "  error ", log.ErrorLevel},
		{"unknown falls back", "chatty", log.InfoLevel},
		{"empty falls back", "", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHelpersWriteFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.DetectionFallback(4, "code fence")
	l.ParseFailed("update", errors.New("boom"))
	l.BlockInserted(2, "Org-mode")

	out := buf.String()
	for _, want := range []string{
		"unterminated block",
		"line=4",
		`marker="code fence"`,
		"parse failed",
		"error=boom",
		"block inserted",
		"index=2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.WarnLevel)

	l.DocumentParsed(3, 0)
	if buf.Len() != 0 {
		t.Errorf("debug helper wrote at warn level: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	// must not panic
	Discard().FileError("x.md", errors.New("nope"))
}
