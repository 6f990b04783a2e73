package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/onereel/onereel/internal/upload"
	"github.com/schollz/progressbar/v3"
)

// progressReporter renders orchestrator state changes. Terminals get a
// progress bar per transport; other writers get one line per phase and
// per quarter of progress.
type progressReporter struct {
	w           io.Writer
	interactive bool

	mu        sync.Mutex
	phase     upload.Phase
	bar       *progressbar.ProgressBar
	milestone int
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w, interactive: isTerminal(w)}
}

func (p *progressReporter) update(s upload.State) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s.Phase != p.phase {
		p.closeBarLocked()
		p.phase = s.Phase
		p.milestone = 0
		if transporting(s.Phase) && p.interactive {
			p.bar = progressbar.NewOptions(100,
				progressbar.OptionSetWriter(p.w),
				progressbar.OptionSetDescription(s.Status),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(p.w) }),
			)
		} else if s.Status != "" && s.Phase != upload.PhaseDone {
			fmt.Fprintln(p.w, s.Status)
		}
	}

	if !transporting(s.Phase) {
		return
	}
	if p.bar != nil {
		_ = p.bar.Set(s.Progress)
		return
	}
	if step := s.Progress / 25 * 25; step > p.milestone {
		p.milestone = step
		fmt.Fprintf(p.w, "%s %d%%\n", s.Status, step)
	}
}

func (p *progressReporter) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeBarLocked()
}

func (p *progressReporter) closeBarLocked() {
	if p.bar == nil {
		return
	}
	if !p.bar.IsFinished() {
		fmt.Fprintln(p.w)
	}
	p.bar = nil
}

func transporting(ph upload.Phase) bool {
	return ph == upload.PhaseUploadingVideo || ph == upload.PhaseUploadingSubtitle
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
