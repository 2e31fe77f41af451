package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/santase/internal/config"
	"github.com/kiliankoe/santase/internal/game"
	"github.com/kiliankoe/santase/internal/ws"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const version = "v0.1.0-dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:     "santase-server",
		Short:   "Two-player Santase (66) game server",
		Version: version,
		Long: `Two-player Santase (66) game server.

Environment Variables:
  PORT              Port to listen on (default: 8080)
  DISCONNECT_GRACE  Reconnect grace period (default: 30s)
  DECLARE_WINDOW    Auto-close the 66 declaration window after this long (default: off)
  ROOM_TTL          Idle rooms are removed after this long (default: 2h)
  SWEEP_INTERVAL    How often idle rooms are swept (default: 5m)
  ADMIN_USER        Admin API username for basic auth
  ADMIN_PASS        Admin API password for basic auth
  EXPORT_ENABLED    Append finished matches to a file (default: false)
  EXPORT_FILE       Path to export match results (default: ./santase-results.txt)
  LOG_LEVEL         zerolog level (default: info)`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if port != "" {
				cfg.Port = port
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "Port to listen on (overrides PORT env var)")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("method", c.Request.Method).Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	opts := game.Options{
		DisconnectGrace: cfg.DisconnectGrace,
		DeclareWindow:   cfg.DeclareWindow,
		RoomTTL:         cfg.RoomTTL,
		SweepInterval:   cfg.SweepInterval,
	}
	if cfg.ExportEnabled {
		opts.ExportFile = cfg.ExportFile
	}
	rm := game.NewManager(opts)

	sock := ws.New(rm)
	io := sock.Mount(r)
	defer io.Close()
	sock.Routes(r, cfg.AdminUser, cfg.AdminPass)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go rm.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		errc <- r.Run(":" + cfg.Port)
	}()
	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		return nil
	}
}
