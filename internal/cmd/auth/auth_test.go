package auth

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("auth", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8000" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.GRPCAddr != "localhost:8001" {
		t.Fatalf("expected default grpc addr, got %q", cfg.GRPCAddr)
	}
	if cfg.Probe {
		t.Fatal("expected probe disabled by default")
	}
	if cfg.ProbeTimeout != 5*time.Second {
		t.Fatalf("expected default probe timeout 5s, got %v", cfg.ProbeTimeout)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("FACELOGIN_AUTH_HTTP_ADDR", "env-http")
	t.Setenv("FACELOGIN_AUTH_DB_PATH", "env.db")

	fs := flag.NewFlagSet("auth", flag.ContinueOnError)
	args := []string{"-http-addr", "flag-http", "-grpc-addr", "", "-probe"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-http" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.GRPCAddr != "" {
		t.Fatalf("expected empty grpc addr, got %q", cfg.GRPCAddr)
	}
	if !cfg.Probe {
		t.Fatal("expected probe enabled")
	}
}

func TestProbeRequiresGRPCAddr(t *testing.T) {
	if err := Run(context.Background(), Config{Probe: true}); err == nil {
		t.Fatal("expected error without grpc addr")
	}
}
