// Package templates renders the web screens as templ components.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/louisbranch/facelogin/internal/services/web/capture"
	"github.com/louisbranch/facelogin/internal/services/web/platform/i18n"
	"github.com/louisbranch/facelogin/internal/services/web/routepath"
	"github.com/louisbranch/facelogin/internal/services/web/session"
	"github.com/louisbranch/facelogin/internal/services/web/view"
)

// HTMXScriptURL is the htmx build loaded by every page.
const HTMXScriptURL = "https://unpkg.com/htmx.org@2.0.4"

// Page is everything a screen needs to render.
type Page struct {
	Copy     i18n.Copy
	Screen   view.Screen
	Flow     capture.Status
	Identity session.Identity
}

// Layout renders the full document with the current screen inside it.
func Layout(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		out.raw(`<!DOCTYPE html><html lang="`)
		out.attr(page.Copy.Tag)
		out.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		out.raw(`<title>`)
		out.text(page.Copy.Title)
		out.raw(`</title><link rel="stylesheet" href="` + routepath.StaticStyles + `">`)
		out.raw(`<script src="` + HTMXScriptURL + `"></script>`)
		out.raw(`<script src="` + routepath.StaticScript + `" defer></script>`)
		out.raw(`</head><body><main id="` + routepath.ScreenTargetID + `">`)
		if out.err != nil {
			return out.err
		}
		if err := Screen(page).Render(ctx, w); err != nil {
			return err
		}
		out.raw(`</main></body></html>`)
		return out.err
	})
}

// Screen renders only the selected screen, for htmx swaps into the main
// element.
func Screen(page Page) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		out := &htmlWriter{w: w}
		switch page.Screen {
		case view.ScreenLoading:
			loadingScreen(out, page.Copy)
		case view.ScreenUnreachable:
			unreachableScreen(out, page.Copy)
		case view.ScreenDashboard:
			dashboardScreen(out, page.Copy, page.Identity)
		default:
			captureScreen(out, page.Copy, page.Flow)
		}
		return out.err
	})
}

type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(s string) {
	h.raw(templ.EscapeString(s))
}
