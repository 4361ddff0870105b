package app

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/louisbranch/facelogin/internal/services/web/capture"
	weberrors "github.com/louisbranch/facelogin/internal/services/web/platform/errors"
	"github.com/louisbranch/facelogin/internal/services/web/platform/htmx"
	"github.com/louisbranch/facelogin/internal/services/web/platform/i18n"
	"github.com/louisbranch/facelogin/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/facelogin/internal/services/web/reachability"
	"github.com/louisbranch/facelogin/internal/services/web/routepath"
	"github.com/louisbranch/facelogin/internal/services/web/templates"
	"github.com/louisbranch/facelogin/internal/services/web/view"
)

// maxSnapshotBytes bounds the posted snapshot form.
const maxSnapshotBytes = 8 << 20

const (
	formUsername = "username"
	formMode     = "mode"
	formFaceData = "faceData"
	frameScheme  = "data:image/"
)

type handlers struct {
	clients *registry
	prober  *reachability.Prober
	cookies *sessioncookie.Codec
}

func (h *handlers) handleScreen(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	h.render(w, r, c, http.StatusOK)
}

func (h *handlers) handleMode(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	mode, valid := capture.ParseMode(r.PostFormValue(formMode))
	if !valid {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err := c.resetFlow(mode); err != nil {
		log.Printf("web: switch mode: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.respond(w, r, c, nil)
}

// handleCaptureUsername records the username as it is typed so a re-rendered
// screen keeps it.
func (h *handlers) handleCaptureUsername(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	if err := c.activeFlow().SetUsername(r.PostFormValue(formUsername)); err != nil {
		h.respond(w, r, c, err)
		return
	}
	if !htmx.IsRequest(r) {
		htmx.Redirect(w, r, routepath.Root)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleCaptureStart(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	err := c.activeFlow().Start(r.PostFormValue(formUsername))
	h.respond(w, r, c, err)
}

func (h *handlers) handleCaptureCancel(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	h.respond(w, r, c, c.activeFlow().Cancel())
}

func (h *handlers) handleCaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSnapshotBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	faceData := strings.TrimSpace(r.PostForm.Get(formFaceData))
	camera := capture.CameraFunc(func() (capture.Frame, bool) {
		if !strings.HasPrefix(faceData, frameScheme) {
			return "", false
		}
		return capture.Frame(faceData), true
	})

	flow := c.activeFlow()
	err := flow.Capture(r.Context(), camera)
	if err == nil {
		if waitErr := flow.Wait(r.Context()); waitErr != nil {
			log.Printf("web: snapshot request ended before submission settled: %v", waitErr)
		}
	}
	h.respond(w, r, c, err)
}

func (h *handlers) handleRetry(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	h.prober.Retry(r.Context())
	h.respond(w, r, c, nil)
}

func (h *handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w, r)
	if !ok {
		return
	}
	if err := c.resetFlow(c.activeFlow().Mode()); err != nil {
		log.Printf("web: reset flow before logout: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := c.session.Clear(r.Context()); err != nil {
		log.Printf("web: clear session: %v", err)
	}
	h.respond(w, r, c, nil)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// client resolves the browser behind r, minting a new client cookie when the
// request carries none or an invalid one.
func (h *handlers) client(w http.ResponseWriter, r *http.Request) (*client, bool) {
	id, err := h.cookies.Read(r)
	restore := err == nil
	if err != nil {
		if _, cookieErr := r.Cookie(sessioncookie.Name); cookieErr == nil {
			log.Printf("web: discard client cookie: %v", err)
		}
		id = uuid.NewString()
		if writeErr := h.cookies.Write(w, r, id); writeErr != nil {
			log.Printf("web: write client cookie: %v", writeErr)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return nil, false
		}
	}
	c, err := h.clients.lookup(r.Context(), id, restore)
	if err != nil {
		log.Printf("web: resolve client: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return c, true
}

// respond finishes a mutating request. htmx callers get the updated screen;
// plain form posts are redirected back to the root. Misuse of the flow is
// reported as a conflict; other flow errors are shown on the screen itself.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, c *client, err error) {
	status := http.StatusOK
	if err != nil && weberrors.KindOf(err) == weberrors.KindConflict {
		status = weberrors.HTTPStatus(err)
	}
	if !htmx.IsRequest(r) {
		htmx.Redirect(w, r, routepath.Root)
		return
	}
	h.render(w, r, c, status)
}

func (h *handlers) render(w http.ResponseWriter, r *http.Request, c *client, status int) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		i18n.SetLanguageCookie(w, tag)
	}
	flow := c.activeFlow()
	identity, present := c.session.Current()
	page := templates.Page{
		Copy:     i18n.Web(tag),
		Screen:   view.Select(h.prober.State(), present, flow.Mode()),
		Flow:     flow.Status(),
		Identity: identity,
	}
	htmx.Render(w, r, templates.Screen(page), templates.Layout(page), htmx.TitleTag(page.Copy.Title), status)
}
