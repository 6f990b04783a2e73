// Package publish hands out short-lived local URLs for generated content,
// the server-side stand-in for browser blob URLs.
package publish

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/onereel/onereel/internal/httputil"
)

// ErrUnknownHandle is returned when releasing a handle that was never
// published or has already been released.
var ErrUnknownHandle = errors.New("unknown or released handle")

// Handle is an opaque URI naming published content. It only resolves
// against the Memory that issued it.
type Handle string

type Publisher interface {
	Publish(content []byte, mimeType string) Handle
	Release(h Handle) error
}

type resource struct {
	content  []byte
	mimeType string
}

// Memory keeps published content in memory and serves it over HTTP under
// its prefix until released.
type Memory struct {
	prefix string

	mu        sync.RWMutex
	resources map[Handle]resource
}

// NewMemory returns a publisher whose handles start with prefix, for
// example "/subtitles/".
func NewMemory(prefix string) *Memory {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Memory{
		prefix:    prefix,
		resources: make(map[Handle]resource),
	}
}

func (m *Memory) Publish(content []byte, mimeType string) Handle {
	h := Handle(m.prefix + uuid.NewString() + extensionFor(mimeType))
	stored := make([]byte, len(content))
	copy(stored, content)

	m.mu.Lock()
	m.resources[h] = resource{content: stored, mimeType: mimeType}
	m.mu.Unlock()

	slog.Debug("publish: resource published", "handle", h, "bytes", len(stored))
	return h
}

func (m *Memory) Release(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[h]; !ok {
		return ErrUnknownHandle
	}
	delete(m.resources, h)
	slog.Debug("publish: resource released", "handle", h)
	return nil
}

// Live reports how many handles are still published.
func (m *Memory) Live() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.resources)
}

func (m *Memory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	res, ok := m.resources[Handle(r.URL.Path)]
	m.mu.RUnlock()
	if !ok {
		httputil.WriteError(w, http.StatusNotFound, "subtitle not found")
		return
	}

	w.Header().Set("Content-Type", res.mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.content)))
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(res.content)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "text/vtt":
		return ".vtt"
	case "text/plain":
		return ".txt"
	default:
		return ""
	}
}
