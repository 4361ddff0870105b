package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/louisbranch/facelogin/internal/platform/httpx"
	platformgrpc "github.com/louisbranch/facelogin/internal/platform/grpc"
	"github.com/louisbranch/facelogin/internal/platform/timeouts"
	"github.com/louisbranch/facelogin/internal/services/auth/api"
	authsqlite "github.com/louisbranch/facelogin/internal/services/auth/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

// HealthService is the gRPC health service name reported by the auth server.
const HealthService = "facelogin.auth.v1.FaceAuth"

// Config defines the inputs for the auth server.
type Config struct {
	HTTPAddr string
	// GRPCAddr hosts the health service. Empty disables it.
	GRPCAddr string
	DBPath   string
}

// Server hosts the auth service.
type Server struct {
	httpListener net.Listener
	httpServer   *http.Server
	listener     net.Listener
	grpcServer   *grpc.Server
	health       *health.Server
	store        *authsqlite.Store
}

// New creates a configured auth server with its listeners bound.
func New(cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	store, err := openAuthStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	service, err := api.NewService(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	httpListener, err := net.Listen("tcp", httpAddr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on http addr %s: %w", httpAddr, err)
	}
	handler := otelhttp.NewHandler(httpx.Chain(api.NewRouter(service),
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.RequestLogger(log.Default()),
		api.CORS(),
	), "auth")

	s := &Server{
		httpListener: httpListener,
		httpServer:   &http.Server{Handler: handler, ReadHeaderTimeout: timeouts.ReadHeader},
		store:        store,
	}

	if grpcAddr := strings.TrimSpace(cfg.GRPCAddr); grpcAddr != "" {
		listener, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			_ = httpListener.Close()
			_ = store.Close()
			return nil, fmt.Errorf("listen on grpc addr %s: %w", grpcAddr, err)
		}
		s.listener = listener
		s.grpcServer = grpc.NewServer(platformgrpc.ServerOptions()...)
		s.health = platformgrpc.RegisterHealth(s.grpcServer, HealthService)
	}
	return s, nil
}

// HTTPAddr returns the bound HTTP listener address.
func (s *Server) HTTPAddr() string {
	if s == nil || s.httpListener == nil {
		return ""
	}
	return s.httpListener.Addr().String()
}

// GRPCAddr returns the bound gRPC health listener address, if any.
func (s *Server) GRPCAddr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves an auth server until the context ends.
func Run(ctx context.Context, cfg Config) error {
	server, err := New(cfg)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the auth server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if s == nil {
		return errors.New("auth server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	log.Printf("auth HTTP server listening at %v", s.httpListener.Addr())
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- s.httpServer.Serve(s.httpListener)
	}()

	serveErr := make(chan error, 1)
	if s.grpcServer != nil {
		log.Printf("auth health server listening at %v", s.listener.Addr())
		go func() {
			serveErr <- s.grpcServer.Serve(s.listener)
		}()
	}

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
	shutdownGRPC := func() error {
		if s.grpcServer == nil {
			return nil
		}
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return handleErr(<-serveErr)
	}
	shutdownHTTP := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}

	select {
	case <-ctx.Done():
		shutdownHTTP()
		return shutdownGRPC()
	case err := <-serveErr:
		shutdownHTTP()
		return handleErr(err)
	case err := <-httpErr:
		grpcErr := shutdownGRPC()
		if errors.Is(err, http.ErrServerClosed) {
			return grpcErr
		}
		if grpcErr != nil {
			return grpcErr
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

func (s *Server) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close auth store: %v", err)
	}
}

func openAuthStore(path string) (*authsqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "auth.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := authsqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open auth sqlite store: %w", err)
	}
	return store, nil
}
