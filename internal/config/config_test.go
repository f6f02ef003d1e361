package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DSN", "ASSISTANT_STAGGER", "REVEAL_STEP"} {
		t.Setenv(k, "")
	}

	cfg, _ := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.DBDSN != "" {
		t.Fatalf("expected empty dsn")
	}
	if cfg.Assistant.Stagger != 600*time.Millisecond {
		t.Fatalf("stagger = %v", cfg.Assistant.Stagger)
	}
	if cfg.Assistant.RevealStep != 2 {
		t.Fatalf("reveal step = %d", cfg.Assistant.RevealStep)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ASSISTANT_THINKING_DELAY", "0")
	t.Setenv("ASSISTANT_STAGGER", "1s")
	t.Setenv("ASSISTANT_ACK_PAUSE", "150")
	t.Setenv("REVEAL_CADENCE", "nope")

	cfg, _ := Load()
	if cfg.Port != "9090" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.Assistant.ThinkingDelay != 0 {
		t.Fatalf("thinking = %v", cfg.Assistant.ThinkingDelay)
	}
	if cfg.Assistant.Stagger != time.Second {
		t.Fatalf("stagger = %v", cfg.Assistant.Stagger)
	}
	if cfg.Assistant.AckPause != 150*time.Millisecond {
		t.Fatalf("ack pause = %v", cfg.Assistant.AckPause)
	}
	if cfg.Assistant.RevealCadence != 25*time.Millisecond {
		t.Fatalf("invalid cadence should fall back to default, got %v", cfg.Assistant.RevealCadence)
	}
}
