// Package htmx renders templ components for full page loads and for htmx
// partial swaps.
package htmx

import (
	"bytes"
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

const (
	// RequestHeader marks requests issued by htmx.
	RequestHeader = "HX-Request"
	// RedirectHeader tells htmx to perform a client-side redirect.
	RedirectHeader = "HX-Redirect"
)

// IsRequest reports whether the request was initiated by htmx.
func IsRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// TitleTag formats an escaped `<title>` element.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// Render writes fragment for htmx requests and full otherwise. When the
// fragment carries no title element, titleTag is prepended so htmx can
// update the document title. A nil component falls back to the other one.
func Render(w http.ResponseWriter, r *http.Request, fragment templ.Component, full templ.Component, titleTag string, status int) {
	if status == 0 {
		status = http.StatusOK
	}
	if IsRequest(r) {
		if fragment == nil {
			fragment = full
		}
		if fragment == nil {
			return
		}
		var body bytes.Buffer
		if err := fragment.Render(r.Context(), &body); err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		out := body.Bytes()
		if titleTag != "" && !bytes.Contains(bytes.ToLower(out), []byte("<title")) {
			out = append([]byte(titleTag), out...)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write(out)
		return
	}
	if full == nil {
		full = fragment
	}
	if full == nil {
		return
	}
	templ.Handler(full, templ.WithStatus(status)).ServeHTTP(w, r)
}

// Redirect sends the client to location: through HX-Redirect for htmx
// requests, and through 303 See Other for plain form posts.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsRequest(r) {
		w.Header().Set(RedirectHeader, location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
