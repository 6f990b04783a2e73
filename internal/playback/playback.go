// Package playback prepares the current video for viewing: it looks up the
// descriptors and turns an SRT subtitle into a locally served WebVTT track.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/onereel/onereel/internal/api"
	"github.com/onereel/onereel/internal/publish"
	"github.com/onereel/onereel/internal/subtitle"
	"github.com/onereel/onereel/internal/validate"
)

var ErrClosed = errors.New("playback session closed")

type API interface {
	GetVideo(ctx context.Context) (*api.VideoInfo, error)
	FetchObject(ctx context.Context, url string) ([]byte, error)
}

// View is what the player binds to. A nil Video means nothing has been
// uploaded yet.
type View struct {
	Video       *api.VideoDescriptor
	SubtitleURL publish.Handle
	SizeLabel   string
}

// Session owns at most one published subtitle at a time and releases it
// when it is replaced or when the session closes.
type Session struct {
	api       API
	publisher publish.Publisher

	// loadMu serialises Load so handles are bound in publish order.
	loadMu sync.Mutex

	mu      sync.Mutex
	current publish.Handle
	closed  bool
}

func NewSession(a API, p publish.Publisher) *Session {
	return &Session{api: a, publisher: p}
}

// Load fetches the current descriptors. Subtitle problems are logged and
// produce a View without a track; only a failed descriptor lookup is an
// error.
func (s *Session) Load(ctx context.Context) (View, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.isClosed() {
		return View{}, ErrClosed
	}

	info, err := s.api.GetVideo(ctx)
	if err != nil {
		return View{}, fmt.Errorf("failed to load video: %w", err)
	}

	if info.Video == nil {
		if err := s.bind(""); err != nil {
			return View{}, err
		}
		return View{}, nil
	}

	view := View{
		Video:     info.Video,
		SizeLabel: validate.FormatSize(info.Video.Size),
	}

	var track publish.Handle
	if info.Subtitle != nil && info.Subtitle.URL != "" {
		vtt, err := s.fetchVTT(ctx, info.Subtitle.URL)
		if err != nil {
			slog.Warn("playback: subtitle unavailable", "video", info.Video.Key, "error", err)
		} else {
			track = s.publisher.Publish([]byte(vtt), subtitle.MIMEType)
		}
	}

	if err := s.bind(track); err != nil {
		return View{}, err
	}
	view.SubtitleURL = track
	return view, nil
}

func (s *Session) fetchVTT(ctx context.Context, url string) (string, error) {
	raw, err := s.api.FetchObject(ctx, url)
	if err != nil {
		return "", err
	}
	text, err := subtitle.DecodeText(raw)
	if err != nil {
		return "", err
	}
	return subtitle.ToVTT(text), nil
}

// bind makes h the session's current handle and releases the one it
// replaces. A closed session releases h immediately instead.
func (s *Session) bind(h publish.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.releaseLocked(h)
		return ErrClosed
	}
	old := s.current
	s.current = h
	if old != h {
		s.releaseLocked(old)
	}
	return nil
}

func (s *Session) releaseLocked(h publish.Handle) {
	if h == "" {
		return
	}
	if err := s.publisher.Release(h); err != nil {
		slog.Error("playback: release failed", "handle", h, "error", err)
	}
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Current returns the handle bound to the player, or "".
func (s *Session) Current() publish.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close releases the current subtitle. Further calls do nothing.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.releaseLocked(s.current)
	s.current = ""
}
