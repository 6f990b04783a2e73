package upload

import (
	"github.com/onereel/onereel/internal/api"
	"github.com/onereel/onereel/internal/storage"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseCheckingExisting
	PhaseReady
	PhaseDeleting
	PhasePreparingVideo
	PhaseUploadingVideo
	PhasePreparingSubtitle
	PhaseUploadingSubtitle
	PhaseDone
	PhaseFailed
)

var phaseNames = map[Phase]string{
	PhaseIdle:              "idle",
	PhaseCheckingExisting:  "checking-existing",
	PhaseReady:             "ready",
	PhaseDeleting:          "deleting",
	PhasePreparingVideo:    "preparing-video",
	PhaseUploadingVideo:    "uploading-video",
	PhasePreparingSubtitle: "preparing-subtitle",
	PhaseUploadingSubtitle: "uploading-subtitle",
	PhaseDone:              "done",
	PhaseFailed:            "failed",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// InFlight reports whether p is one of the steps of a running upload.
func (p Phase) InFlight() bool {
	return p >= PhaseDeleting && p <= PhaseUploadingSubtitle
}

var statusText = map[Phase]string{
	PhaseCheckingExisting:  "Checking for an existing video...",
	PhaseDeleting:          "Removing previous video...",
	PhasePreparingVideo:    "Preparing video upload...",
	PhaseUploadingVideo:    "Uploading video...",
	PhasePreparingSubtitle: "Preparing subtitle upload...",
	PhaseUploadingSubtitle: "Uploading subtitle...",
	PhaseDone:              "Upload complete!",
}

type Kind int

const (
	KindVideo Kind = iota + 1
	KindSubtitle
)

func (k Kind) String() string {
	if k == KindSubtitle {
		return "subtitle"
	}
	return "video"
}

// State is everything an upload screen needs to render.
type State struct {
	Phase    Phase
	Video    storage.File
	Subtitle storage.File
	// Existing is the video found by the last check, nil when none was
	// found or the check failed.
	Existing *api.VideoDescriptor
	Progress int
	Status   string
	// Err holds the message of the last failed operation.
	Err string
	// Validation holds the message for the last rejected file.
	Validation string
}

// CanUpload reports whether an upload may start from s.
func (s State) CanUpload() bool {
	return s.Video != nil && (s.Phase == PhaseReady || s.Phase == PhaseFailed)
}

type Event interface {
	event()
}

type (
	CheckStarted  struct{}
	CheckFinished struct{ Existing *api.VideoDescriptor }
	FileSelected  struct {
		Kind Kind
		File storage.File
	}
	FileRejected     struct{ Message string }
	FileCleared      struct{ Kind Kind }
	PhaseStarted     struct{ Phase Phase }
	ProgressReported struct{ Percent int }
	ExistingDeleted  struct{}
	ErrorReported    struct{ Message string }
	UploadCompleted  struct{}
	UploadFailed     struct{ Message string }
)

func (CheckStarted) event()     {}
func (CheckFinished) event()    {}
func (FileSelected) event()     {}
func (FileRejected) event()     {}
func (FileCleared) event()      {}
func (PhaseStarted) event()     {}
func (ProgressReported) event() {}
func (ExistingDeleted) event()  {}
func (ErrorReported) event()    {}
func (UploadCompleted) event()  {}
func (UploadFailed) event()     {}

// Reduce returns the state that follows s after e. Events that do not
// apply to the current phase leave s unchanged.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case CheckStarted:
		if s.Phase.InFlight() || s.Phase == PhaseCheckingExisting {
			return s
		}
		s.Phase = PhaseCheckingExisting
		s.Status = statusText[PhaseCheckingExisting]
		s.Err = ""

	case CheckFinished:
		if s.Phase != PhaseCheckingExisting {
			return s
		}
		s.Phase = PhaseReady
		s.Existing = e.Existing
		s.Status = ""

	case FileSelected:
		if s.Phase.InFlight() || e.File == nil {
			return s
		}
		switch e.Kind {
		case KindVideo:
			s.Video = e.File
		case KindSubtitle:
			s.Subtitle = e.File
		default:
			return s
		}
		s.Validation = ""
		s.Err = ""

	case FileRejected:
		s.Validation = e.Message

	case FileCleared:
		if s.Phase.InFlight() {
			return s
		}
		switch e.Kind {
		case KindVideo:
			s.Video = nil
		case KindSubtitle:
			s.Subtitle = nil
		}

	case PhaseStarted:
		if !e.Phase.InFlight() {
			return s
		}
		s.Phase = e.Phase
		s.Status = statusText[e.Phase]
		s.Err = ""
		if e.Phase == PhasePreparingVideo || e.Phase == PhasePreparingSubtitle || e.Phase == PhaseDeleting {
			s.Progress = 0
		}

	case ProgressReported:
		if s.Phase != PhaseUploadingVideo && s.Phase != PhaseUploadingSubtitle {
			return s
		}
		pct := min(max(e.Percent, 0), 100)
		if pct > s.Progress {
			s.Progress = pct
		}

	case ExistingDeleted:
		s.Existing = nil

	case ErrorReported:
		s.Err = e.Message

	case UploadCompleted:
		if !s.Phase.InFlight() {
			return s
		}
		s.Phase = PhaseDone
		s.Progress = 100
		s.Status = statusText[PhaseDone]
		s.Existing = nil

	case UploadFailed:
		if !s.Phase.InFlight() {
			return s
		}
		s.Phase = PhaseFailed
		s.Status = ""
		s.Err = e.Message
	}
	return s
}
