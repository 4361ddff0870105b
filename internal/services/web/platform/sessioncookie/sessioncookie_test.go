package sessioncookie

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/facelogin/internal/services/web/platform/requestmeta"
)

var testSecret = []byte(strings.Repeat("k", MinSecretLen))

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testSecret, requestmeta.SchemePolicy{})
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	return codec
}

func roundTrip(t *testing.T, writer *Codec, reader *Codec, target string) (string, error, *http.Cookie) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	if err := writer.Write(rec, req, "client-1"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d, want 1", len(cookies))
	}
	next := httptest.NewRequest(http.MethodGet, target, nil)
	next.AddCookie(cookies[0])
	id, err := reader.Read(next)
	return id, err, cookies[0]
}

func TestNewCodecRejectsShortSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewCodec([]byte("short"), requestmeta.SchemePolicy{}); err == nil {
		t.Fatal("expected short secret error")
	}
}

func TestWriteThenRead(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	id, err, cookie := roundTrip(t, codec, codec, "http://face.example.test/")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if id != "client-1" {
		t.Fatalf("Read() = %q, want %q", id, "client-1")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("cookie flags = %+v", cookie)
	}
	if cookie.Secure {
		t.Fatal("expected insecure cookie on http request")
	}
}

func TestWriteMarksSecureOnHTTPS(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	_, _, cookie := roundTrip(t, codec, codec, "https://face.example.test/")
	if !cookie.Secure {
		t.Fatal("expected secure cookie on https request")
	}
}

func TestReadRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	other, err := NewCodec([]byte(strings.Repeat("z", MinSecretLen)), requestmeta.SchemePolicy{})
	if err != nil {
		t.Fatalf("NewCodec() error = %v", err)
	}
	_, err, _ = roundTrip(t, other, newTestCodec(t), "http://face.example.test/")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Read() error = %v, want ErrInvalid", err)
	}
}

func TestReadRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	if err := codec.Write(rec, req, "client-1"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	cookie := rec.Result().Cookies()[0]
	parts := strings.Split(cookie.Value, ".")
	if len(parts) != 3 {
		t.Fatalf("token parts = %d, want 3", len(parts))
	}
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(`{"iss":"facelogin-web","sub":"client-2","exp":4102444800}`))
	cookie.Value = strings.Join(parts, ".")

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookie)
	if _, err := codec.Read(next); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Read() error = %v, want ErrInvalid", err)
	}
}

func TestReadRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	writer := newTestCodec(t)
	writer.now = func() time.Time { return time.Now().Add(-2 * MaxAge) }
	_, err, _ := roundTrip(t, writer, newTestCodec(t), "/")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Read() error = %v, want ErrInvalid", err)
	}
}

func TestReadMissingCookie(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	if _, err := codec.Read(httptest.NewRequest(http.MethodGet, "/", nil)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Read() error = %v, want ErrInvalid", err)
	}
	if _, err := codec.Read(nil); !errors.Is(err, ErrInvalid) {
		t.Fatalf("Read(nil) error = %v, want ErrInvalid", err)
	}
}
