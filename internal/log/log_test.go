package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, LevelWarn)

	Debug("debug line")
	Info("info line")
	Warn("warn line", "k", 1)
	Error("error line", errors.New("boom"))

	out := buf.String()
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "[WARN] warn line k=1")
	assert.Contains(t, out, "[ERROR] error line err=boom")
}

func TestKeyValueFormatting(t *testing.T) {
	buf := capture(t, LevelDebug)

	Debug("kv", "title", "two words", "n", 3, 42, "skipped", "odd")

	out := buf.String()
	assert.Contains(t, out, `title="two words"`)
	assert.Contains(t, out, "n=3")
	assert.NotContains(t, out, "skipped")
	assert.NotContains(t, out, "odd")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" WARN ", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}
