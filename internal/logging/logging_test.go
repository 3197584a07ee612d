package logging_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/texlens/texlens/internal/logging"
)

func TestNew_DefaultLevel(t *testing.T) {
	t.Parallel()

	logger := logging.New(false)
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("GetLevel() = %v, want InfoLevel", logger.GetLevel())
	}
}

func TestNew_VerboseLevel(t *testing.T) {
	t.Parallel()

	logger := logging.New(true)
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("GetLevel() = %v, want DebugLevel", logger.GetLevel())
	}
}
