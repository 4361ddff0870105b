package templates

import (
	"github.com/louisbranch/facelogin/internal/services/web/capture"
	"github.com/louisbranch/facelogin/internal/services/web/platform/i18n"
	"github.com/louisbranch/facelogin/internal/services/web/routepath"
	"github.com/louisbranch/facelogin/internal/services/web/session"
)

const (
	hxTarget = ` hx-target="#` + routepath.ScreenTargetID + `" hx-swap="innerHTML"`
	// pollScreen refreshes the screen while an asynchronous step settles.
	pollScreen = ` hx-get="` + routepath.Root + `" hx-trigger="every 1s"` + hxTarget
)

func loadingScreen(out *htmlWriter, copy i18n.Copy) {
	out.raw(`<div class="auth-card" data-screen="loading"` + pollScreen + `><h2>`)
	out.text(copy.LoadingHeading)
	out.raw(`</h2><div class="spinner"></div></div>`)
}

func unreachableScreen(out *htmlWriter, copy i18n.Copy) {
	out.raw(`<div class="auth-card" data-screen="unreachable"><h2>`)
	out.text(copy.UnreachableTitle)
	out.raw(`</h2><p>`)
	out.text(copy.UnreachableBody)
	out.raw(`</p><pre><code>`)
	out.text(copy.UnreachableCmd)
	out.raw(`</code></pre>`)
	postForm(out, routepath.Retry)
	out.raw(`<button type="submit">`)
	out.text(copy.UnreachableRetry)
	out.raw(`</button></form></div>`)
}

func dashboardScreen(out *htmlWriter, copy i18n.Copy, identity session.Identity) {
	out.raw(`<div class="auth-card" data-screen="dashboard"><h1>`)
	out.text(copy.Welcome(identity.Username))
	out.raw(`</h1><p>`)
	out.text(copy.DashSubtitle)
	out.raw(`</p><div class="notice">`)
	out.text(copy.DashNotice)
	out.raw(`</div><p>`)
	out.text(copy.UserID(identity.ID))
	out.raw(`</p>`)
	postForm(out, routepath.Logout)
	out.raw(`<button type="submit">`)
	out.text(copy.DashLogout)
	out.raw(`</button></form></div>`)
}

type captureCopy struct {
	heading, subtitle, username, placeholder string
	start, submit, submitting                string
	switchPrompt, switchLabel, switchMode    string
}

func copyForMode(copy i18n.Copy, mode capture.Mode) captureCopy {
	if mode == capture.ModeRegister {
		return captureCopy{
			heading: copy.RegHeading, subtitle: copy.RegSubtitle,
			username: copy.RegUsername, placeholder: copy.RegPlaceholder,
			start: copy.RegStart, submit: copy.RegSubmit, submitting: copy.RegSubmitting,
			switchPrompt: copy.RegSwitchPrompt, switchLabel: copy.RegSwitch,
			switchMode: capture.ModeLogin.String(),
		}
	}
	return captureCopy{
		heading: copy.LoginHeading, subtitle: copy.LoginSubtitle,
		username: copy.LoginUsername, placeholder: copy.LoginPlaceholder,
		start: copy.LoginStart, submit: copy.LoginSubmit, submitting: copy.LoginSubmitting,
		switchPrompt: copy.LoginSwitchPrompt, switchLabel: copy.LoginSwitch,
		switchMode: capture.ModeRegister.String(),
	}
}

func captureScreen(out *htmlWriter, copy i18n.Copy, flow capture.Status) {
	text := copyForMode(copy, flow.Mode)
	out.raw(`<div class="auth-card" data-screen="` + flow.Mode.String() + `" data-state="` + flow.State.String() + `"`)
	if flow.State == capture.StateSubmitting {
		out.raw(pollScreen)
	}
	out.raw(`><h1>`)
	out.text(text.heading)
	out.raw(`</h1><p>`)
	out.text(text.subtitle)
	out.raw(`</p>`)

	if flow.Err != nil {
		out.raw(`<div class="error" role="alert">`)
		out.text(copy.Error(flow.Err))
		out.raw(`</div>`)
	}

	switch flow.State {
	case capture.StateDeviceActive, capture.StateSubmitting:
		usernameField(out, text, flow.Username, true)
		out.raw(`<video id="webcam" class="webcam" autoplay playsinline muted></video>`)
		if flow.State == capture.StateSubmitting {
			out.raw(`<div class="spinner"></div><p>`)
			out.text(text.submitting)
			out.raw(`</p>`)
			break
		}
		out.raw(`<p>`)
		out.text(copy.CaptureHint)
		out.raw(`</p>`)
		postForm(out, routepath.CaptureSnap)
		out.raw(`<input type="hidden" name="faceData" value=""><button type="submit">`)
		out.text(text.submit)
		out.raw(`</button></form>`)
		postForm(out, routepath.CaptureCancel)
		out.raw(`<button type="submit" class="secondary">`)
		out.text(copy.CaptureCancel)
		out.raw(`</button></form>`)
	default:
		postForm(out, routepath.CaptureStart)
		usernameField(out, text, flow.Username, false)
		out.raw(`<button type="submit">`)
		out.text(text.start)
		out.raw(`</button></form>`)
	}

	if flow.State != capture.StateSubmitting {
		out.raw(`<div class="switch">`)
		out.text(text.switchPrompt)
		out.raw(` `)
		postForm(out, routepath.Mode)
		out.raw(`<input type="hidden" name="mode" value="` + text.switchMode + `"><button type="submit" class="link">`)
		out.text(text.switchLabel)
		out.raw(`</button></form></div>`)
	}
	out.raw(`</div>`)
}

func usernameField(out *htmlWriter, text captureCopy, value string, disabled bool) {
	out.raw(`<label for="username">`)
	out.text(text.username)
	out.raw(`</label><input id="username" type="text" name="username" autocomplete="username" placeholder="`)
	out.attr(text.placeholder)
	out.raw(`" value="`)
	out.attr(value)
	out.raw(`"`)
	if disabled {
		out.raw(` disabled`)
	} else {
		out.raw(` hx-post="` + routepath.CaptureUsername + `" hx-trigger="change" hx-swap="none"`)
	}
	out.raw(`>`)
}

func postForm(out *htmlWriter, action string) {
	out.raw(`<form method="post" action="` + action + `" hx-post="` + action + `"` + hxTarget + `>`)
}
