// Package capture drives one login or registration attempt from username
// entry through a single webcam snapshot to the authentication service.
//
// A Flow moves through Idle, AwaitingInput, DeviceActive, Submitting and
// Success. A failed submission lands back in DeviceActive with a reason so
// the user can retry. At most one submission is in flight per Flow, and a
// response that arrives after Abandon is dropped.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	weberrors "github.com/louisbranch/facelogin/internal/services/web/platform/errors"
	"github.com/louisbranch/facelogin/internal/services/web/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Mode selects which service operation a Flow submits.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

func (m Mode) String() string {
	if m == ModeRegister {
		return "register"
	}
	return "login"
}

// ParseMode maps "login" and "register" to a Mode.
func ParseMode(value string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "login":
		return ModeLogin, true
	case "register":
		return ModeRegister, true
	default:
		return ModeLogin, false
	}
}

// State is the position of a Flow in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingInput
	StateDeviceActive
	StateSubmitting
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting_input"
	case StateDeviceActive:
		return "device_active"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	default:
		return "idle"
	}
}

var (
	// ErrBusy is returned while a submission is in flight.
	ErrBusy = weberrors.EK(weberrors.KindConflict, "error.capture.busy", "A submission is already in progress")
	// ErrInvalidTransition is returned for operations the current state does
	// not accept.
	ErrInvalidTransition = weberrors.EK(weberrors.KindConflict, "error.capture.invalid_transition", "That action is not available right now")
)

// Frame is one still image encoded as a data URL.
type Frame string

// Camera yields at most one frame per call.
type Camera interface {
	Snapshot() (Frame, bool)
}

// CameraFunc adapts a function to Camera.
type CameraFunc func() (Frame, bool)

// Snapshot calls f.
func (f CameraFunc) Snapshot() (Frame, bool) {
	return f()
}

// Verifier submits credentials to the authentication service.
type Verifier interface {
	Register(ctx context.Context, username, faceData string) (session.Identity, error)
	Login(ctx context.Context, username, faceData string) (session.Identity, error)
}

// Sessions receives the identity of a successful submission.
type Sessions interface {
	Set(ctx context.Context, identity session.Identity) error
}

// Status is a point-in-time view of a Flow for rendering.
type Status struct {
	Mode     Mode
	State    State
	Username string
	Err      error
}

// Flow is one capture attempt. Build it with New.
type Flow struct {
	mode     Mode
	verifier Verifier
	sessions Sessions

	mu         sync.Mutex
	state      State
	username   string
	err        error
	generation uint64
	done       chan struct{}
}

// New builds a Flow in AwaitingInput.
func New(mode Mode, verifier Verifier, sessions Sessions) (*Flow, error) {
	if verifier == nil {
		return nil, errors.New("capture verifier is required")
	}
	if sessions == nil {
		return nil, errors.New("capture sessions are required")
	}
	if mode != ModeLogin && mode != ModeRegister {
		return nil, fmt.Errorf("unknown capture mode %d", mode)
	}
	return &Flow{
		mode:     mode,
		verifier: verifier,
		sessions: sessions,
		state:    StateAwaitingInput,
	}, nil
}

// SetUsername records the username typed so far.
func (f *Flow) SetUsername(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateAwaitingInput {
		return f.refuse()
	}
	f.username = strings.TrimSpace(name)
	return nil
}

// Start activates the camera. Registration requires a username; login
// treats it as an optional selector.
func (f *Flow) Start(username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateAwaitingInput {
		return f.refuse()
	}
	f.username = strings.TrimSpace(username)
	if f.mode == ModeRegister && f.username == "" {
		f.err = weberrors.EK(weberrors.KindInvalidInput, "error.capture.username_required", "Please enter a username first")
		return f.err
	}
	f.err = nil
	f.state = StateDeviceActive
	return nil
}

// Capture takes one frame from camera and starts the submission. The
// submission outlives ctx cancellation; use Wait to observe its outcome.
func (f *Flow) Capture(ctx context.Context, camera Camera) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateDeviceActive {
		return f.refuse()
	}
	if camera == nil {
		f.err = noFrameError()
		return f.err
	}
	frame, ok := camera.Snapshot()
	if !ok || strings.TrimSpace(string(frame)) == "" {
		f.err = noFrameError()
		return f.err
	}

	f.state = StateSubmitting
	f.err = nil
	f.done = make(chan struct{})
	go f.submit(context.WithoutCancel(ctx), f.generation, f.username, frame)
	return nil
}

// Cancel turns the camera off and returns to username entry.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateDeviceActive {
		return f.refuse()
	}
	f.state = StateAwaitingInput
	f.err = nil
	return nil
}

// Abandon retires the flow. Any in-flight response is dropped and waiters
// are released.
func (f *Flow) Abandon() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	f.state = StateIdle
	f.err = nil
	f.settle()
}

// Wait blocks until the in-flight submission settles or ctx ends. It returns
// immediately when nothing is in flight.
func (f *Flow) Wait(ctx context.Context) error {
	f.mu.Lock()
	done := f.done
	f.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Status returns a snapshot of the flow.
func (f *Flow) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Status{Mode: f.mode, State: f.state, Username: f.username, Err: f.err}
}

// Mode returns the flow's mode.
func (f *Flow) Mode() Mode {
	return f.mode
}

func (f *Flow) submit(ctx context.Context, generation uint64, username string, frame Frame) {
	ctx, span := otel.Tracer("github.com/louisbranch/facelogin/internal/services/web/capture").Start(ctx, "capture.submit")
	span.SetAttributes(attribute.String("capture.mode", f.mode.String()))
	defer span.End()

	var (
		identity session.Identity
		err      error
	)
	if f.mode == ModeRegister {
		identity, err = f.verifier.Register(ctx, username, string(frame))
	} else {
		identity, err = f.verifier.Login(ctx, username, string(frame))
	}
	if err == nil && !identity.Valid() {
		err = errors.New("service returned an incomplete identity")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission failed")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if generation != f.generation || f.state != StateSubmitting {
		return
	}
	if err != nil {
		log.Printf("capture: %s failed: %v", f.mode, err)
		f.err = f.failure(err)
		f.state = StateDeviceActive
		f.settle()
		return
	}
	if setErr := f.sessions.Set(ctx, identity); setErr != nil {
		log.Printf("capture: persist session: %v", setErr)
	}
	f.state = StateSuccess
	f.settle()
}

// failure turns a verifier error into the reason shown to the user.
func (f *Flow) failure(err error) error {
	var typed weberrors.Error
	if errors.As(err, &typed) && typed.Kind == weberrors.KindUnauthorized {
		if message := strings.TrimSpace(typed.Message); message != "" {
			return weberrors.E(weberrors.KindUnauthorized, message)
		}
		if f.mode == ModeRegister {
			return weberrors.EK(weberrors.KindUnauthorized, "error.capture.register_failed", "Registration failed")
		}
		return weberrors.EK(weberrors.KindUnauthorized, "error.capture.login_failed", "Login failed")
	}
	if f.mode == ModeRegister {
		return weberrors.EK(weberrors.KindUnavailable, "error.capture.register_error", "An error occurred during registration")
	}
	return weberrors.EK(weberrors.KindUnavailable, "error.capture.login_error", "An error occurred during login")
}

func (f *Flow) refuse() error {
	if f.state == StateSubmitting {
		return ErrBusy
	}
	return ErrInvalidTransition
}

func (f *Flow) settle() {
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
}

func noFrameError() error {
	return weberrors.EK(weberrors.KindInvalidInput, "error.capture.no_frame", "Failed to capture image")
}
