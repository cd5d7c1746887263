package fingerprint

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTransport_GoProfile(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	rt, err := Transport(ProfileGo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr, ok := rt.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", rt)
	}

	// httptest.NewTLSServer uses a self-signed cert.
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	client := &http.Client{Transport: tr}
	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestTransport_BrowserProfilesBuild(t *testing.T) {
	// The uTLS handshake cannot be exercised against httptest's
	// self-signed certs without rewiring the dialer, so only verify
	// the transports are constructed with a custom TLS dialer.
	for _, p := range []Profile{ProfileChrome, ProfileFirefox, ProfileSafari, ProfileRandom} {
		rt, err := Transport(p)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", p, err)
		}
		tr, ok := rt.(*http.Transport)
		if !ok {
			t.Fatalf("%s: expected *http.Transport, got %T", p, rt)
		}
		if tr.DialTLSContext == nil {
			t.Errorf("%s: expected custom DialTLSContext", p)
		}
	}
}

func TestTransport_EmptyProfileDefaultsToGo(t *testing.T) {
	rt, err := Transport("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr := rt.(*http.Transport); tr.DialTLSContext != nil {
		t.Error("expected plain transport for empty profile")
	}
}

func TestTransport_UnknownProfile(t *testing.T) {
	if _, err := Transport(Profile("netscape")); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}
