// Package i18n resolves the request language and produces localized copy for
// the face login screens.
package i18n

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/facelogin/internal/platform/i18n/catalog"
	weberrors "github.com/louisbranch/facelogin/internal/services/web/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "facelogin_lang"
)

var (
	englishTag    = language.MustParse(catalog.BaseLocale)
	portugueseTag = language.MustParse("pt-BR")
	supportedTags = []language.Tag{englishTag, portugueseTag}
	tagMatcher    = language.NewMatcher(supportedTags)
)

// Copy holds translatable copy for every web screen.
type Copy struct {
	Tag string

	Title             string
	LoadingHeading    string
	UnreachableTitle  string
	UnreachableBody   string
	UnreachableCmd    string
	UnreachableRetry  string
	LoginHeading      string
	LoginSubtitle     string
	LoginUsername     string
	LoginPlaceholder  string
	LoginStart        string
	LoginSubmit       string
	LoginSubmitting   string
	LoginSwitchPrompt string
	LoginSwitch       string
	RegHeading        string
	RegSubtitle       string
	RegUsername       string
	RegPlaceholder    string
	RegStart          string
	RegSubmit         string
	RegSubmitting     string
	RegSwitchPrompt   string
	RegSwitch         string
	CaptureCancel     string
	CaptureHint       string
	DashSubtitle      string
	DashNotice        string
	DashLogout        string

	printer *message.Printer
}

// Web returns localized web copy for the provided language tag.
func Web(tag language.Tag) Copy {
	normalized := Normalize(tag)
	loc := message.NewPrinter(normalized)
	return Copy{
		Tag:               normalized.String(),
		Title:             localizeWithFallback(loc, "web.title", "FaceAuth"),
		LoadingHeading:    localizeWithFallback(loc, "web.loading.heading", "Checking server status..."),
		UnreachableTitle:  localizeWithFallback(loc, "web.unreachable.heading", "Server Error"),
		UnreachableBody:   localizeWithFallback(loc, "web.unreachable.body", "The authentication server is not running. Please start it with:"),
		UnreachableCmd:    localizeWithFallback(loc, "web.unreachable.command", "go run ./cmd/auth"),
		UnreachableRetry:  localizeWithFallback(loc, "web.unreachable.retry", "Retry Connection"),
		LoginHeading:      localizeWithFallback(loc, "web.login.heading", "Welcome Back"),
		LoginSubtitle:     localizeWithFallback(loc, "web.login.subtitle", "Login with facial recognition"),
		LoginUsername:     localizeWithFallback(loc, "web.login.username", "Username (optional)"),
		LoginPlaceholder:  localizeWithFallback(loc, "web.login.placeholder", "Enter your username"),
		LoginStart:        localizeWithFallback(loc, "web.login.start", "Scan Face"),
		LoginSubmit:       localizeWithFallback(loc, "web.login.submit", "Login"),
		LoginSubmitting:   localizeWithFallback(loc, "web.login.submitting", "Authenticating"),
		LoginSwitchPrompt: localizeWithFallback(loc, "web.login.switch_prompt", "Don't have an account?"),
		LoginSwitch:       localizeWithFallback(loc, "web.login.switch", "Register"),
		RegHeading:        localizeWithFallback(loc, "web.register.heading", "Create Account"),
		RegSubtitle:       localizeWithFallback(loc, "web.register.subtitle", "Register with facial recognition"),
		RegUsername:       localizeWithFallback(loc, "web.register.username", "Choose a Username"),
		RegPlaceholder:    localizeWithFallback(loc, "web.register.placeholder", "Enter a username"),
		RegStart:          localizeWithFallback(loc, "web.register.start", "Capture Face"),
		RegSubmit:         localizeWithFallback(loc, "web.register.submit", "Register"),
		RegSubmitting:     localizeWithFallback(loc, "web.register.submitting", "Registering"),
		RegSwitchPrompt:   localizeWithFallback(loc, "web.register.switch_prompt", "Already have an account?"),
		RegSwitch:         localizeWithFallback(loc, "web.register.switch", "Login"),
		CaptureCancel:     localizeWithFallback(loc, "web.capture.cancel", "Cancel"),
		CaptureHint:       localizeWithFallback(loc, "web.capture.camera_hint", "Allow camera access, center your face and press the button."),
		DashSubtitle:      localizeWithFallback(loc, "web.dashboard.subtitle", "You've successfully authenticated with facial recognition"),
		DashNotice:        localizeWithFallback(loc, "web.dashboard.notice", "This is a demonstration of a facial authentication system."),
		DashLogout:        localizeWithFallback(loc, "web.dashboard.logout", "Logout"),
		printer:           loc,
	}
}

// Welcome greets the signed-in user by name.
func (c Copy) Welcome(username string) string {
	return localizeWithFallback(c.printer, "web.dashboard.welcome", "Welcome, %s!", username)
}

// UserID renders the truncated user id line.
func (c Copy) UserID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return localizeWithFallback(c.printer, "web.dashboard.user_id", "User ID: %s...", id)
}

// Error renders err for users. Errors carrying a localization key use the
// catalog copy; others render their own message.
func (c Copy) Error(err error) string {
	if err == nil {
		return ""
	}
	if key := weberrors.LocalizationKey(err); key != "" {
		return localizeWithFallback(c.printer, key, err.Error())
	}
	var typed weberrors.Error
	if errors.As(err, &typed) && strings.TrimSpace(typed.Message) != "" {
		return typed.Message
	}
	return localizeWithFallback(c.printer, "error.web.unexpected", "Something went wrong")
}

// Normalize coerces a tag to one of the supported languages.
func Normalize(tag language.Tag) language.Tag {
	if tag == portugueseTag {
		return portugueseTag
	}
	base, _ := tag.Base()
	portugueseBase, _ := language.Portuguese.Base()
	if base == portugueseBase {
		return portugueseTag
	}
	return englishTag
}

// ResolveTag determines the best language tag for the request. The bool
// indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return englishTag, false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, err := language.Parse(value); err == nil {
			return Normalize(tag), true
		}
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, err := language.Parse(strings.TrimSpace(cookie.Value)); err == nil {
			return Normalize(tag), false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, _ := tagMatcher.Match(tags...)
			return supportedTags[index], false
		}
	}
	return englishTag, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    Normalize(tag).String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func localizeWithFallback(loc *message.Printer, key string, fallback string, args ...any) string {
	if loc != nil && catalog.Default() != nil {
		value := strings.TrimSpace(loc.Sprintf(key, args...))
		if value != "" && value != key && !strings.HasPrefix(value, key+"%!") {
			return value
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(fallback, args...)
	}
	return fallback
}
