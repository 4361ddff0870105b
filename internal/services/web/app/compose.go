// Package app composes the browser-facing routes over per-client state.
package app

import (
	"errors"
	"log"
	"net/http"

	"github.com/louisbranch/facelogin/internal/platform/httpx"
	"github.com/louisbranch/facelogin/internal/services/web/capture"
	"github.com/louisbranch/facelogin/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/facelogin/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/facelogin/internal/services/web/reachability"
	"github.com/louisbranch/facelogin/internal/services/web/routepath"
	"github.com/louisbranch/facelogin/internal/services/web/static"
	"github.com/louisbranch/facelogin/internal/services/web/storage"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config carries the collaborators the web routes depend on.
type Config struct {
	Verifier            capture.Verifier
	Prober              *reachability.Prober
	Storage             storage.Store
	Cookies             *sessioncookie.Codec
	RequestSchemePolicy requestmeta.SchemePolicy
	Logger              *log.Logger
}

// Compose builds the root handler: routes, same-origin enforcement and the
// shared request middleware.
func Compose(cfg Config) (http.Handler, error) {
	if cfg.Prober == nil {
		return nil, errors.New("reachability prober is required")
	}
	if cfg.Cookies == nil {
		return nil, errors.New("client cookie codec is required")
	}
	clients, err := newRegistry(cfg.Storage, cfg.Verifier)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	h := &handlers{clients: clients, prober: cfg.Prober, cookies: cfg.Cookies}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.Root+"{$}", h.handleScreen)
	mux.HandleFunc("POST "+routepath.Mode, h.handleMode)
	mux.HandleFunc("POST "+routepath.CaptureUsername, h.handleCaptureUsername)
	mux.HandleFunc("POST "+routepath.CaptureStart, h.handleCaptureStart)
	mux.HandleFunc("POST "+routepath.CaptureCancel, h.handleCaptureCancel)
	mux.HandleFunc("POST "+routepath.CaptureSnap, h.handleCaptureSnapshot)
	mux.HandleFunc("POST "+routepath.Retry, h.handleRetry)
	mux.HandleFunc("POST "+routepath.Logout, h.handleLogout)
	mux.HandleFunc("GET "+routepath.Health, handleHealth)
	mux.Handle("GET "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(static.FS))))

	root := requestmeta.RequireSameOrigin(cfg.RequestSchemePolicy, mux)
	return otelhttp.NewHandler(httpx.Chain(root,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.RequestLogger(logger),
	), "web"), nil
}
