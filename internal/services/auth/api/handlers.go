package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	apperrors "github.com/louisbranch/facelogin/internal/platform/errors"
	errori18n "github.com/louisbranch/facelogin/internal/platform/errors/i18n"
	"github.com/louisbranch/facelogin/internal/platform/httpx"
	i18ncatalog "github.com/louisbranch/facelogin/internal/platform/i18n/catalog"
	"golang.org/x/text/language"
)

// maxRequestBytes bounds register and login bodies, which carry a snapshot.
const maxRequestBytes = 8 << 20

const (
	keyRegisterSuccess = "auth.register.success"
	keyLoginSuccess    = "auth.login.success"
)

type credentialsRequest struct {
	Username string `json:"username"`
	FaceData string `json:"faceData"`
}

type userPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	User    *userPayload `json:"user,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// NewRouter mounts the auth API routes.
func NewRouter(service *Service) *mux.Router {
	locales, matcher := newLocaleMatcher()
	h := &handlers{service: service, locales: locales, matcher: matcher}
	r := mux.NewRouter()
	r.HandleFunc("/api/status", h.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.handleLogin).Methods(http.MethodPost)
	return r
}

// CORS allows browser callers from any origin, as the demo UI may be served
// from anywhere. Preflight requests are answered directly.
func CORS() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			header.Set("Access-Control-Allow-Origin", "*")
			header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			header.Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type handlers struct {
	service *Service
	locales []string
	matcher language.Matcher
}

func (h *handlers) handleStatus(w http.ResponseWriter, _ *http.Request) {
	h.write(w, http.StatusOK, statusResponse{Status: "running"})
}

func (h *handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	created, err := h.service.Register(r.Context(), req.Username, req.FaceData)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.write(w, http.StatusOK, authResponse{
		Success: true,
		Message: h.catalog(r).Format(keyRegisterSuccess, nil),
		User:    &userPayload{ID: created.ID, Username: created.Username},
	})
}

func (h *handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	found, err := h.service.Login(r.Context(), req.Username, req.FaceData)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.write(w, http.StatusOK, authResponse{
		Success: true,
		Message: h.catalog(r).Format(keyLoginSuccess, nil),
		User:    &userPayload{ID: found.ID, Username: found.Username},
	})
}

func (h *handlers) decode(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.write(w, http.StatusRequestEntityTooLarge, authResponse{Message: http.StatusText(http.StatusRequestEntityTooLarge)})
			return credentialsRequest{}, false
		}
		h.fail(w, r, apperrors.Wrap(apperrors.CodeInvalidRequest, "decode request body", err))
		return credentialsRequest{}, false
	}
	return req, true
}

// fail reports err as an unsuccessful auth response with a localized message.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	if code == apperrors.CodeUnknown {
		log.Printf("auth api: %s %s: %v", r.Method, r.URL.Path, err)
	}
	message := h.catalog(r).Format(string(code), apperrors.MetadataOf(err))
	h.write(w, code.HTTPStatus(), authResponse{Message: message})
}

func (h *handlers) catalog(r *http.Request) *errori18n.Catalog {
	tags, _, _ := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	_, index, confidence := h.matcher.Match(tags...)
	if confidence == language.No {
		index = 0
	}
	return errori18n.GetCatalog(h.locales[index])
}

func (h *handlers) write(w http.ResponseWriter, status int, payload any) {
	if err := httpx.WriteJSON(w, status, payload); err != nil {
		log.Printf("auth api: write response: %v", err)
	}
}

// newLocaleMatcher matches against the catalog locales, base locale first so
// it wins when nothing else matches.
func newLocaleMatcher() ([]string, language.Matcher) {
	locales := []string{i18ncatalog.BaseLocale}
	tags := []language.Tag{language.MustParse(i18ncatalog.BaseLocale)}
	for _, locale := range i18ncatalog.Default().Locales() {
		if locale == i18ncatalog.BaseLocale {
			continue
		}
		if tag, err := language.Parse(locale); err == nil {
			locales = append(locales, locale)
			tags = append(tags, tag)
		}
	}
	return locales, language.NewMatcher(tags)
}
