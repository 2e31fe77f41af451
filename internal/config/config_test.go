package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DISCONNECT_GRACE", "DECLARE_WINDOW", "ROOM_TTL", "EXPORT_ENABLED"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", c.Port)
	}
	if c.DisconnectGrace != 30*time.Second || c.DeclareWindow != 0 || c.RoomTTL != 2*time.Hour {
		t.Fatalf("unexpected durations %+v", c)
	}
	if c.ExportEnabled {
		t.Fatal("export should be off by default")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("DISCONNECT_GRACE", "45s")
	t.Setenv("DECLARE_WINDOW", "10s")
	t.Setenv("ROOM_TTL", "bogus")
	t.Setenv("EXPORT_ENABLED", "true")
	c := FromEnv()
	if c.Port != "3000" || c.DisconnectGrace != 45*time.Second || c.DeclareWindow != 10*time.Second {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.RoomTTL != 2*time.Hour {
		t.Fatalf("invalid duration should fall back to the default, got %s", c.RoomTTL)
	}
	if !c.ExportEnabled {
		t.Fatal("export should be enabled")
	}
}
