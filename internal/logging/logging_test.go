package logging

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetup_AppliesLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	Setup("debug", false)
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Fatalf("global level = %v; want debug", zerolog.GlobalLevel())
	}

	Setup("error", true)
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Fatalf("global level = %v; want error", zerolog.GlobalLevel())
	}
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	Setup("verbose", false)
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("global level = %v; want info", zerolog.GlobalLevel())
	}
}
