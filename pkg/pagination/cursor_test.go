package pagination

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	c := Cursor{
		V:   1,
		Dsv: 7,
		Off: 40,
		Ps:  20,
		Wk:  "2024/05/13の週",
	}
	tok, err := Encode(c)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	// token should be url-safe base64 (no '+', '/', '=')
	if strings.ContainsAny(tok, "+/=") {
		t.Fatalf("token contains non-url-safe chars: %q", tok)
	}
	out, err := Decode(tok)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if out.Dsv != c.Dsv || out.Off != c.Off || out.Ps != c.Ps || out.Wk != c.Wk {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", out, c)
	}
}

func TestDecode_Invalid(t *testing.T) {
	cases := []string{
		"",    // empty
		"!!!", // not base64
		base64.RawURLEncoding.EncodeToString([]byte("not-json")),
		// missing or invalid required fields
		mustB64(`{"v":1}`),
		mustB64(`{"v":1,"dsv":0,"off":0,"ps":10}`),
		mustB64(`{"v":1,"dsv":3,"off":-1,"ps":10}`),
		mustB64(`{"v":1,"dsv":3,"off":0,"ps":0}`),
	}
	for i, tok := range cases {
		if _, err := Decode(tok); err == nil {
			t.Fatalf("case %d: expected error for token %q", i, tok)
		}
	}
}

func FuzzDecode(f *testing.F) {
	seeds := []string{
		"", "abc", mustB64(`{"v":1}`),
		mustB64(`{"v":1,"dsv":3,"off":0,"ps":1}`),
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, token string) {
		_, _ = Decode(token)
	})
}

func mustB64(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
