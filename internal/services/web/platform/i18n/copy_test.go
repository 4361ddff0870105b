package i18n

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	weberrors "github.com/louisbranch/facelogin/internal/services/web/platform/errors"
	"golang.org/x/text/language"
)

func TestWebReturnsPortugueseCopyForPTBR(t *testing.T) {
	t.Parallel()

	copy := Web(language.MustParse("pt-BR"))
	if copy.RegHeading != "Criar conta" {
		t.Fatalf("RegHeading = %q", copy.RegHeading)
	}
	if copy.Tag != "pt-BR" {
		t.Fatalf("Tag = %q, want %q", copy.Tag, "pt-BR")
	}
}

func TestWebReturnsPortugueseCopyForPortugueseBaseLanguage(t *testing.T) {
	t.Parallel()

	copy := Web(language.MustParse("pt-PT"))
	if copy.UnreachableRetry != "Tentar novamente" {
		t.Fatalf("UnreachableRetry = %q", copy.UnreachableRetry)
	}
}

func TestWebFallsBackToEnglishForOtherLanguages(t *testing.T) {
	t.Parallel()

	copy := Web(language.MustParse("fr-FR"))
	if copy.RegStart != "Capture Face" {
		t.Fatalf("RegStart = %q", copy.RegStart)
	}
	if got := copy.Welcome("ana"); got != "Welcome, ana!" {
		t.Fatalf("Welcome() = %q", got)
	}
	if got := copy.UserID("0123456789abcdef"); got != "User ID: 01234567..." {
		t.Fatalf("UserID() = %q", got)
	}
}

func TestCopyErrorUsesLocalizationKey(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("start: %w", weberrors.EK(weberrors.KindInvalidInput, "error.capture.username_required", "Please enter a username first"))
	if got := Web(language.MustParse("en-US")).Error(err); got != "Please enter a username first" {
		t.Fatalf("Error() = %q", got)
	}
	if got := Web(language.MustParse("pt-BR")).Error(err); got != "Digite um usuário primeiro" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestCopyErrorRendersServiceMessageVerbatim(t *testing.T) {
	t.Parallel()

	err := weberrors.E(weberrors.KindUnauthorized, "Face not recognized")
	if got := Web(language.MustParse("pt-BR")).Error(err); got != "Face not recognized" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestCopyErrorHidesUntypedErrors(t *testing.T) {
	t.Parallel()

	if got := Web(language.MustParse("en-US")).Error(errors.New("dial tcp: refused")); got != "Something went wrong" {
		t.Fatalf("Error() = %q", got)
	}
	if got := Web(language.MustParse("en-US")).Error(nil); got != "" {
		t.Fatalf("Error(nil) = %q", got)
	}
}

func TestResolveTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		wantTag     string
		wantPersist bool
	}{
		{name: "default", target: "/", wantTag: "en-US"},
		{name: "query", target: "/?lang=pt-BR", wantTag: "pt-BR", wantPersist: true},
		{name: "cookie", target: "/", cookie: "pt-BR", wantTag: "pt-BR"},
		{name: "accept language", target: "/", accept: "pt-PT,pt;q=0.9", wantTag: "pt-BR"},
		{name: "unsupported accept", target: "/", accept: "de-DE", wantTag: "en-US"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			tag, persist := ResolveTag(req)
			if got := Normalize(tag).String(); got != tc.wantTag {
				t.Fatalf("ResolveTag() tag = %q, want %q", got, tc.wantTag)
			}
			if persist != tc.wantPersist {
				t.Fatalf("ResolveTag() persist = %v, want %v", persist, tc.wantPersist)
			}
		})
	}
}

func TestSetLanguageCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	SetLanguageCookie(rec, language.MustParse("pt-PT"))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "pt-BR" {
		t.Fatalf("cookies = %+v, want single pt-BR cookie", cookies)
	}
}
