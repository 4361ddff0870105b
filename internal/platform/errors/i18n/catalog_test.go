package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
}

func TestEmbeddedAuthMessages(t *testing.T) {
	if got := GetCatalog("en-US").Format("USERNAME_TAKEN", nil); got != "Username already exists" {
		t.Fatalf("Format(USERNAME_TAKEN) = %q, want %q", got, "Username already exists")
	}
	if got := GetCatalog("pt-BR").Format("USER_NOT_FOUND", nil); got != "Usuário não encontrado" {
		t.Fatalf("Format(USER_NOT_FOUND) = %q, want %q", got, "Usuário não encontrado")
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if got := cat.Format("code", nil); got != "hello " {
		t.Fatalf("Format(code) = %q, want %q", got, "hello ")
	}
	if got := cat.Format("code", map[string]string{"Name": "ana"}); got != "hello ana" {
		t.Fatalf("Format(code) = %q, want %q", got, "hello ana")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}
