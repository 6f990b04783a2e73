// Package upload drives the replace-the-current-video workflow: remove the
// old video, obtain presigned URLs, and push the video and optional
// subtitle to storage one after the other.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/onereel/onereel/internal/api"
	"github.com/onereel/onereel/internal/storage"
	"github.com/onereel/onereel/internal/validate"
)

const (
	defaultVideoType    = "application/octet-stream"
	subtitleContentType = "text/plain"
	noFileMessage       = "No file selected"
)

var (
	ErrBusy     = errors.New("an upload is already in progress")
	ErrNotReady = errors.New("upload is not ready")
)

// ValidationError is returned for files the user needs to replace.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type API interface {
	GetVideo(ctx context.Context) (*api.VideoInfo, error)
	UploadURL(ctx context.Context, req api.UploadURLRequest) (string, error)
	DeleteVideo(ctx context.Context) error
}

type Transport interface {
	Put(ctx context.Context, targetURL string, f storage.File, onProgress func(percent int)) error
}

type Orchestrator struct {
	api       API
	transport Transport

	// deliverMu orders reduction and listener delivery so observers see
	// states in the order they were produced.
	deliverMu sync.Mutex

	mu         sync.Mutex
	state      State
	running    bool
	listeners  []func(State)
	onComplete func()
}

func New(a API, t Transport) *Orchestrator {
	return &Orchestrator{api: a, transport: t}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// OnChange registers fn to receive every state after a change. fn runs on
// the goroutine that caused the change, one call at a time, and may read
// State but must not call methods that change it.
func (o *Orchestrator) OnChange(fn func(State)) {
	o.mu.Lock()
	o.listeners = append(o.listeners, fn)
	o.mu.Unlock()
}

// OnComplete registers fn to run once after each successful upload.
func (o *Orchestrator) OnComplete(fn func()) {
	o.mu.Lock()
	o.onComplete = fn
	o.mu.Unlock()
}

func (o *Orchestrator) dispatch(e Event) State {
	o.deliverMu.Lock()
	defer o.deliverMu.Unlock()

	o.mu.Lock()
	o.state = Reduce(o.state, e)
	s := o.state
	listeners := o.listeners
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(s)
	}
	return s
}

// Check looks up the current video so the caller can warn before it gets
// replaced. Lookup failures are logged and treated as "no video".
func (o *Orchestrator) Check(ctx context.Context) error {
	o.mu.Lock()
	busy := o.running
	o.mu.Unlock()
	if busy {
		return ErrBusy
	}

	o.dispatch(CheckStarted{})

	var existing *api.VideoDescriptor
	info, err := o.api.GetVideo(ctx)
	if err != nil {
		slog.Warn("upload: existing video check failed", "error", err)
	} else {
		existing = info.Video
	}

	o.dispatch(CheckFinished{Existing: existing})
	return nil
}

// SelectFile validates f against the rules for kind and stores it. A
// rejected file leaves the previous selection in place.
func (o *Orchestrator) SelectFile(kind Kind, f storage.File) error {
	if o.busy() {
		return ErrBusy
	}

	if f == nil {
		o.dispatch(FileRejected{Message: noFileMessage})
		return &ValidationError{Message: noFileMessage}
	}

	var msg string
	switch kind {
	case KindVideo:
		msg = validate.VideoFile(f.Name())
	case KindSubtitle:
		msg = validate.SubtitleFile(f.Name())
	default:
		return fmt.Errorf("unknown file kind %d", kind)
	}
	if msg != "" {
		o.dispatch(FileRejected{Message: msg})
		return &ValidationError{Message: msg}
	}

	o.dispatch(FileSelected{Kind: kind, File: f})
	return nil
}

func (o *Orchestrator) ClearFile(kind Kind) error {
	if o.busy() {
		return ErrBusy
	}
	o.dispatch(FileCleared{Kind: kind})
	return nil
}

// busy reports whether an upload holds the selection, including the window
// before its first phase is dispatched.
func (o *Orchestrator) busy() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running || o.state.Phase.InFlight()
}

// DeleteExisting removes the current video without uploading a new one.
func (o *Orchestrator) DeleteExisting(ctx context.Context) error {
	o.mu.Lock()
	busy := o.running
	o.mu.Unlock()
	if busy {
		return ErrBusy
	}

	if err := o.api.DeleteVideo(ctx); err != nil {
		slog.Error("upload: delete existing video failed", "error", err)
		o.dispatch(ErrorReported{Message: "Failed to delete existing video"})
		return fmt.Errorf("delete existing video: %w", err)
	}
	o.dispatch(ExistingDeleted{})
	slog.Info("upload: existing video deleted")
	return nil
}

// Upload runs the whole sequence for the selected files. Without a video
// selected it does nothing. Any failure stops the sequence and leaves the
// state in PhaseFailed; calling Upload again starts over from the delete
// step. A subtitle failure does not undo the video upload.
func (o *Orchestrator) Upload(ctx context.Context) error {
	o.mu.Lock()
	s := o.state
	switch {
	case s.Video == nil:
		o.mu.Unlock()
		return nil
	case o.running:
		o.mu.Unlock()
		return ErrBusy
	case !s.CanUpload():
		o.mu.Unlock()
		return ErrNotReady
	}
	o.running = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.running = false
		o.mu.Unlock()
	}()

	if err := o.run(ctx, s); err != nil {
		failed := o.State().Phase
		o.dispatch(UploadFailed{Message: err.Error()})
		slog.Error("upload: failed", "phase", failed.String(), "error", err)
		return err
	}

	o.dispatch(UploadCompleted{})
	slog.Info("upload: complete", "video", s.Video.Name(), "with_subtitle", s.Subtitle != nil)

	o.mu.Lock()
	done := o.onComplete
	o.mu.Unlock()
	if done != nil {
		done()
	}
	return nil
}

func (o *Orchestrator) run(ctx context.Context, s State) error {
	if s.Existing != nil {
		o.dispatch(PhaseStarted{Phase: PhaseDeleting})
		if err := o.api.DeleteVideo(ctx); err != nil {
			return err
		}
		o.dispatch(ExistingDeleted{})
	}

	video := s.Video
	videoType := video.ContentType()
	if videoType == "" {
		videoType = defaultVideoType
		video = storage.WithContentType(video, videoType)
	}
	if err := o.send(ctx, video, api.CategoryVideo, PhasePreparingVideo, PhaseUploadingVideo); err != nil {
		return err
	}

	if s.Subtitle == nil {
		return nil
	}
	subtitle := storage.WithContentType(s.Subtitle, subtitleContentType)
	return o.send(ctx, subtitle, api.CategorySubtitle, PhasePreparingSubtitle, PhaseUploadingSubtitle)
}

func (o *Orchestrator) send(ctx context.Context, f storage.File, category api.Category, preparing, uploading Phase) error {
	o.dispatch(PhaseStarted{Phase: preparing})
	target, err := o.api.UploadURL(ctx, api.UploadURLRequest{
		FileName: f.Name(),
		FileType: f.ContentType(),
		Category: category,
	})
	if err != nil {
		return err
	}

	o.dispatch(PhaseStarted{Phase: uploading})
	return o.transport.Put(ctx, target, f, func(pct int) {
		o.dispatch(ProgressReported{Percent: pct})
	})
}
