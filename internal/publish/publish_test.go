package publish

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/onereel/onereel/internal/httputil"
)

func TestPublish_ServesContent(t *testing.T) {
	m := NewMemory("/subtitles")
	h := m.Publish([]byte("WEBVTT\n\n"), "text/vtt")

	if !strings.HasPrefix(string(h), "/subtitles/") || !strings.HasSuffix(string(h), ".vtt") {
		t.Fatalf("unexpected handle %q", h)
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, string(h), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vtt" {
		t.Errorf("expected Content-Type text/vtt, got %q", ct)
	}
	body, _ := io.ReadAll(rec.Body)
	if string(body) != "WEBVTT\n\n" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestPublish_CopiesContent(t *testing.T) {
	m := NewMemory("/subtitles/")
	content := []byte("original")
	h := m.Publish(content, "text/plain")
	copy(content, "mutated!")

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, string(h), nil))

	if rec.Body.String() != "original" {
		t.Errorf("expected published bytes to be unaffected by caller, got %q", rec.Body.String())
	}
}

func TestPublish_HandlesAreUnique(t *testing.T) {
	m := NewMemory("/subtitles/")
	a := m.Publish([]byte("a"), "text/vtt")
	b := m.Publish([]byte("a"), "text/vtt")
	if a == b {
		t.Errorf("expected distinct handles, got %q twice", a)
	}
	if m.Live() != 2 {
		t.Errorf("expected 2 live handles, got %d", m.Live())
	}
}

func TestRelease_RemovesContent(t *testing.T) {
	m := NewMemory("/subtitles/")
	h := m.Publish([]byte("x"), "text/vtt")

	if err := m.Release(h); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if m.Live() != 0 {
		t.Errorf("expected no live handles, got %d", m.Live())
	}

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, string(h), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after release, got %d", rec.Code)
	}
	if got := httputil.ErrorMessage(rec.Body.Bytes()); got != "subtitle not found" {
		t.Errorf("expected JSON error body, got %q", rec.Body.String())
	}
}

func TestRelease_Twice(t *testing.T) {
	m := NewMemory("/subtitles/")
	h := m.Publish([]byte("x"), "text/vtt")
	_ = m.Release(h)

	if err := m.Release(h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle on second release, got %v", err)
	}
}

func TestRelease_NeverPublished(t *testing.T) {
	m := NewMemory("/subtitles/")
	if err := m.Release(Handle("/subtitles/nope.vtt")); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("expected ErrUnknownHandle, got %v", err)
	}
}

func TestServeHTTP_Head(t *testing.T) {
	m := NewMemory("/subtitles/")
	h := m.Publish([]byte("abc"), "text/vtt")

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodHead, string(h), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Content-Length") != "3" {
		t.Errorf("expected Content-Length 3, got %q", rec.Header().Get("Content-Length"))
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD, got %q", rec.Body.String())
	}
}
