// Package storage sends local files straight to object storage through
// presigned PUT URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
)

const defaultContentType = "application/octet-stream"

type Kind int

const (
	KindStatus Kind = iota + 1
	KindNetwork
	KindAborted
)

// UploadError describes a failed transfer. Transfers are never retried.
type UploadError struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *UploadError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("upload failed with status %d", e.StatusCode)
	case KindAborted:
		return "upload aborted"
	default:
		if e.Err != nil {
			return fmt.Sprintf("upload failed: %v", e.Err)
		}
		return "upload failed"
	}
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

type Config struct {
	// Client defaults to a client without an overall timeout, since large
	// videos can take longer than any sensible fixed limit.
	Client *http.Client
}

type Uploader struct {
	client *http.Client
}

func New(cfg Config) *Uploader {
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}
	return &Uploader{client: client}
}

// Put sends the whole of f to targetURL in a single PUT. onProgress, when
// set, receives whole percentages in non-decreasing order while the body is
// being written.
func (u *Uploader) Put(ctx context.Context, targetURL string, f File, onProgress func(percent int)) error {
	body, err := f.Open()
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	size := f.Size()
	var reader io.Reader = body
	if onProgress != nil && size > 0 {
		reader = &progressReader{r: body, total: size, last: -1, report: onProgress}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, targetURL, reader)
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.ContentLength = size
	if size == 0 {
		req.Body = http.NoBody
	}
	contentType := f.ContentType()
	if contentType == "" {
		contentType = defaultContentType
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return &UploadError{Kind: KindAborted, Err: err}
		}
		slog.Debug("storage: upload request failed", "file", f.Name(), "error", err)
		return &UploadError{Kind: KindNetwork, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Debug("storage: upload rejected", "file", f.Name(), "status", resp.StatusCode)
		return &UploadError{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	slog.Info("storage: upload complete", "file", f.Name(), "bytes", size)
	return nil
}

type progressReader struct {
	r      io.Reader
	sent   int64
	total  int64
	last   int
	report func(int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		pct := percentOf(p.sent, p.total)
		if pct > p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

func percentOf(sent, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(sent) / float64(total) * 100))
	if pct > 100 {
		return 100
	}
	return pct
}
