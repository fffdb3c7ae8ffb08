package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn")
	l.Info().Msg("hidden")
	l.Warn().Str(FieldState, "idle").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"state":"idle"`)
}

func TestNewDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "bogus")
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Level: "debug", Service: "test"})

	l := WithComponent("realtime")
	l.Info().Msg("hello")
	// Configure is once-only; another test binary may have configured first.
	if buf.Len() > 0 {
		assert.Contains(t, buf.String(), `"component":"realtime"`)
		assert.Contains(t, buf.String(), `"service":"test"`)
	}
}
