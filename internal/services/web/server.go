package web

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/facelogin/internal/platform/timeouts"
	"github.com/louisbranch/facelogin/internal/services/web/app"
	"github.com/louisbranch/facelogin/internal/services/web/faceauth"
	"github.com/louisbranch/facelogin/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/facelogin/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/facelogin/internal/services/web/reachability"
	"github.com/louisbranch/facelogin/internal/services/web/storage/sqlite"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr    string
	AuthBaseURL string
	// AuthTimeout bounds each authentication service call. Zero means no
	// bound beyond the caller's context.
	AuthTimeout time.Duration
	DBPath      string
	// CookieSecret signs the client cookie. When empty a random secret is
	// generated, so clients are forgotten on restart.
	CookieSecret        string
	TrustForwardedProto bool
}

// Server hosts the web HTTP server.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
	prober     *reachability.Prober
}

// NewServer builds a configured web server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	dbPath := strings.TrimSpace(config.DBPath)
	if dbPath == "" {
		return nil, errors.New("db path is required")
	}

	secret, err := cookieSecret(config.CookieSecret)
	if err != nil {
		return nil, err
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: config.TrustForwardedProto}
	cookies, err := sessioncookie.NewCodec(secret, policy)
	if err != nil {
		return nil, fmt.Errorf("build client cookie codec: %w", err)
	}

	gateway, err := faceauth.NewGateway(faceauth.Config{BaseURL: config.AuthBaseURL, Timeout: config.AuthTimeout})
	if err != nil {
		return nil, fmt.Errorf("build auth gateway: %w", err)
	}
	prober, err := reachability.NewProber(gateway, timeouts.StatusProbe)
	if err != nil {
		return nil, fmt.Errorf("build reachability prober: %w", err)
	}

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open web store: %w", err)
	}
	handler, err := app.Compose(app.Config{
		Verifier:            gateway,
		Prober:              prober,
		Storage:             store,
		Cookies:             cookies,
		RequestSchemePolicy: policy,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("compose web handler: %w", err)
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		prober: prober,
	}, nil
}

// ListenAndServe probes the authentication service once and serves HTTP
// until the context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	s.prober.Start(ctx)
	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the HTTP listener and the web store.
func (s *Server) Close() {
	if s == nil {
		return
	}
	if s.httpServer != nil {
		_ = s.httpServer.Close()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("close web store: %v", err)
		}
	}
}

func cookieSecret(configured string) ([]byte, error) {
	if secret := strings.TrimSpace(configured); secret != "" {
		return []byte(secret), nil
	}
	log.Printf("no cookie secret configured; generating one, clients will be forgotten on restart")
	secret := make([]byte, sessioncookie.MinSecretLen)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate cookie secret: %w", err)
	}
	return secret, nil
}
