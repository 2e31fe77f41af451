package config

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Port            string
	DisconnectGrace time.Duration
	DeclareWindow   time.Duration
	RoomTTL         time.Duration
	SweepInterval   time.Duration
	AdminUser       string
	AdminPass       string
	ExportEnabled   bool
	ExportFile      string
	LogLevel        string
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.DisconnectGrace = getduration("DISCONNECT_GRACE", 30*time.Second)
	c.DeclareWindow = getduration("DECLARE_WINDOW", 0)
	c.RoomTTL = getduration("ROOM_TTL", 2*time.Hour)
	c.SweepInterval = getduration("SWEEP_INTERVAL", 5*time.Minute)
	c.AdminUser = os.Getenv("ADMIN_USER")
	c.AdminPass = os.Getenv("ADMIN_PASS")
	c.ExportEnabled = getenv("EXPORT_ENABLED", "false") == "true"
	c.ExportFile = getenv("EXPORT_FILE", "./santase-results.txt")
	c.LogLevel = getenv("LOG_LEVEL", "info")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warn().Str("key", k).Str("value", v).Dur("default", def).Msg("invalid duration, using default")
		return def
	}
	return d
}
