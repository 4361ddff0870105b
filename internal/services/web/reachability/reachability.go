// Package reachability tracks whether the authentication service answered
// its status probe. The probe runs once at startup and again only on an
// explicit retry.
package reachability

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// State is the process-wide reachability of the authentication service.
type State int

const (
	Checking State = iota
	Reachable
	Unreachable
)

func (s State) String() string {
	switch s {
	case Reachable:
		return "reachable"
	case Unreachable:
		return "unreachable"
	default:
		return "checking"
	}
}

// Checker performs one status request against the service.
type Checker interface {
	Status(ctx context.Context) error
}

// Prober owns the reachability state.
type Prober struct {
	checker Checker
	timeout time.Duration

	mu         sync.Mutex
	state      State
	generation uint64
}

// NewProber builds a Prober in Checking. timeout bounds each probe when
// positive.
func NewProber(checker Checker, timeout time.Duration) (*Prober, error) {
	if checker == nil {
		return nil, errors.New("reachability checker is required")
	}
	return &Prober{checker: checker, timeout: timeout}, nil
}

// Start runs the first probe in the background.
func (p *Prober) Start(ctx context.Context) {
	go p.Probe(context.WithoutCancel(ctx))
}

// Retry re-probes in the background. It only acts from Unreachable and
// reports whether a probe was started.
func (p *Prober) Retry(ctx context.Context) bool {
	p.mu.Lock()
	if p.state != Unreachable {
		p.mu.Unlock()
		return false
	}
	p.state = Checking
	p.mu.Unlock()

	go p.Probe(context.WithoutCancel(ctx))
	return true
}

// Probe checks the service synchronously and records the outcome. An
// outcome superseded by a newer probe is dropped.
func (p *Prober) Probe(ctx context.Context) State {
	p.mu.Lock()
	p.generation++
	generation := p.generation
	p.state = Checking
	p.mu.Unlock()

	ctx, span := otel.Tracer("github.com/louisbranch/facelogin/internal/services/web/reachability").Start(ctx, "reachability.probe")
	defer span.End()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	next := Reachable
	if err := p.checker.Status(ctx); err != nil {
		log.Printf("reachability: status probe failed: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unreachable")
		next = Unreachable
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if generation != p.generation {
		return p.state
	}
	p.state = next
	return next
}

// State returns the current reachability.
func (p *Prober) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
