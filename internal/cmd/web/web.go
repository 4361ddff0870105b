// Package web parses web command flags and launches the browser UI server.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/facelogin/internal/platform/cmd"
	"github.com/louisbranch/facelogin/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr            string        `env:"FACELOGIN_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	AuthBaseURL         string        `env:"FACELOGIN_WEB_AUTH_BASE_URL" envDefault:"http://localhost:8000"`
	AuthTimeout         time.Duration `env:"FACELOGIN_WEB_AUTH_TIMEOUT"`
	DBPath              string        `env:"FACELOGIN_WEB_DB_PATH" envDefault:"data/facelogin-web.db"`
	CookieSecret        string        `env:"FACELOGIN_WEB_COOKIE_SECRET"`
	TrustForwardedProto bool          `env:"FACELOGIN_WEB_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.AuthBaseURL, "auth-base-url", cfg.AuthBaseURL, "Auth service HTTP base URL")
	fs.DurationVar(&cfg.AuthTimeout, "auth-timeout", cfg.AuthTimeout, "Per-call auth service timeout (0 disables)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite path for client sessions")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto when deciding cookie security")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(ctx, web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			AuthBaseURL:         cfg.AuthBaseURL,
			AuthTimeout:         cfg.AuthTimeout,
			DBPath:              cfg.DBPath,
			CookieSecret:        cfg.CookieSecret,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
