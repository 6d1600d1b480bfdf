package httpx

import (
	"net/url"
	"testing"

	"github.com/Justin322322/Ecotracker/internal/domain"
)

func TestSessionCookieRoundTrip(t *testing.T) {
	in := domain.Session{ID: 7, Name: "Ada Lovelace", Email: "ada@x.com"}

	cookie, err := newSessionCookie(in, false)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if cookie.Name != SessionCookieName {
		t.Fatalf("unexpected cookie name: %q", cookie.Name)
	}

	out, err := decodeSessionValue(cookie.Value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestDecodeSessionValueAcceptsRawJSON(t *testing.T) {
	// Values set by non-browser clients may arrive unescaped.
	out, err := decodeSessionValue(`{"id":3,"name":"Ada","email":"ada@x.com"}`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 3 {
		t.Fatalf("unexpected id: %d", out.ID)
	}
}

func TestDecodeSessionValueRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"whitespace":  "   ",
		"not json":    "garbage",
		"missing id":  url.QueryEscape(`{"name":"Ada"}`),
		"zero id":     url.QueryEscape(`{"id":0,"name":"Ada"}`),
		"negative id": url.QueryEscape(`{"id":-1,"name":"Ada"}`),
	}
	for name, value := range cases {
		if _, err := decodeSessionValue(value); err == nil {
			t.Fatalf("%s: expected error for %q", name, value)
		}
	}
}

func TestExpireCookieUsesEpoch(t *testing.T) {
	cookie := expireCookie(SessionCookieName, false)
	if cookie.Value != "" {
		t.Fatalf("expected empty value, got %q", cookie.Value)
	}
	if cookie.Expires.Year() != 1970 {
		t.Fatalf("expected epoch expiry, got %v", cookie.Expires)
	}
}
