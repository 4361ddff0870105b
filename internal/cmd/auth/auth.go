// Package auth parses auth command flags and launches the auth service.
package auth

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/facelogin/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/facelogin/internal/platform/grpc"
	server "github.com/louisbranch/facelogin/internal/services/auth/app"
)

// Config holds auth command configuration.
type Config struct {
	HTTPAddr     string        `env:"FACELOGIN_AUTH_HTTP_ADDR" envDefault:"localhost:8000"`
	GRPCAddr     string        `env:"FACELOGIN_AUTH_GRPC_ADDR" envDefault:"localhost:8001"`
	DBPath       string        `env:"FACELOGIN_AUTH_DB_PATH" envDefault:"data/auth.db"`
	Probe        bool          `env:"-"`
	ProbeTimeout time.Duration `env:"FACELOGIN_AUTH_PROBE_TIMEOUT" envDefault:"5s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The auth HTTP API address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "The auth gRPC health address (empty disables)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite path for registered users")
	fs.BoolVar(&cfg.Probe, "probe", false, "Check the health of a running auth server and exit")
	fs.DurationVar(&cfg.ProbeTimeout, "probe-timeout", cfg.ProbeTimeout, "Upper bound for -probe")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the auth server, or checks a running one when Probe is set.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Probe {
		return probe(ctx, cfg)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAuth, func(ctx context.Context) error {
		return server.Run(ctx, server.Config{
			HTTPAddr: cfg.HTTPAddr,
			GRPCAddr: cfg.GRPCAddr,
			DBPath:   cfg.DBPath,
		})
	})
}

func probe(ctx context.Context, cfg Config) error {
	addr := strings.TrimSpace(cfg.GRPCAddr)
	if addr == "" {
		return errors.New("grpc address is required to probe")
	}
	if err := platformgrpc.ProbeHealth(ctx, addr, cfg.ProbeTimeout, log.Printf); err != nil {
		return err
	}
	log.Printf("auth server at %s is serving", addr)
	return nil
}
