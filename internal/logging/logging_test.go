// ABOUTME: Tests for logger setup and verbosity mapping
// ABOUTME: Captures JSON output in a buffer to check levels and fields
package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		want           zerolog.Level
	}{
		{"default", false, false, zerolog.InfoLevel},
		{"verbose", true, false, zerolog.DebugLevel},
		{"quiet", false, true, zerolog.WarnLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelFor(tt.verbose, tt.quiet); got != tt.want {
				t.Errorf("LevelFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetupFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	Setup(Options{Level: zerolog.WarnLevel, Writer: &buf})
	t.Cleanup(func() { Setup(Options{Level: zerolog.InfoLevel}) })

	log.Info().Msg("hidden")
	log.Warn().Str("run_id", "abc").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"run_id":"abc"`) {
		t.Errorf("output = %s, want run_id field", out)
	}
}

func TestSetupDebugAddsCaller(t *testing.T) {
	var buf bytes.Buffer
	Setup(Options{Level: zerolog.DebugLevel, Writer: &buf})
	t.Cleanup(func() { Setup(Options{Level: zerolog.InfoLevel}) })

	log.Debug().Msg("trace")

	if !strings.Contains(buf.String(), `"caller"`) {
		t.Errorf("output = %s, want caller field", buf.String())
	}
}
