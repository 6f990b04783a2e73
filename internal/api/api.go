// Package api is a client for the remote video API that owns the single
// current video and issues presigned upload URLs.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/onereel/onereel/internal/httputil"
)

const (
	maxErrorBodyBytes    = 1024
	maxSubtitleBodyBytes = 10 << 20
)

type VideoDescriptor struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

type SubtitleDescriptor struct {
	URL string `json:"url"`
}

// VideoInfo is the body of GET /api/video. Both fields are nil when nothing
// has been uploaded.
type VideoInfo struct {
	Video    *VideoDescriptor    `json:"video,omitempty"`
	Subtitle *SubtitleDescriptor `json:"subtitle,omitempty"`
}

type Category string

const (
	CategoryVideo    Category = "video"
	CategorySubtitle Category = "subtitle"
)

type UploadURLRequest struct {
	FileName string   `json:"fileName"`
	FileType string   `json:"fileType"`
	Category Category `json:"category"`
}

type uploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// Error is returned for any non-2xx answer from the API.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Op + ": " + e.Message
	}
	return e.Op
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetVideo(ctx context.Context) (*VideoInfo, error) {
	const op = "failed to get video info"
	var info VideoInfo
	if err := c.do(ctx, op, http.MethodGet, "/api/video", nil, &info); err != nil {
		return nil, err
	}
	if info.Video != nil && info.Video.Key == "" {
		return nil, fmt.Errorf("%s: video descriptor without key", op)
	}
	return &info, nil
}

// UploadURL asks the API for a short-lived URL that accepts a PUT of the
// named file.
func (c *Client) UploadURL(ctx context.Context, req UploadURLRequest) (string, error) {
	const op = "failed to get upload URL"
	var resp uploadURLResponse
	if err := c.do(ctx, op, http.MethodPost, "/api/upload-url", req, &resp); err != nil {
		return "", err
	}
	if resp.UploadURL == "" {
		return "", fmt.Errorf("%s: response has no uploadUrl", op)
	}
	return resp.UploadURL, nil
}

// DeleteVideo removes the current video and its subtitle. Deleting when
// nothing exists succeeds.
func (c *Client) DeleteVideo(ctx context.Context) error {
	return c.do(ctx, "failed to delete video", http.MethodDelete, "/api/video", nil, nil)
}

// FetchObject downloads a presigned object URL, such as the subtitle file.
func (c *Client) FetchObject(ctx context.Context, url string) ([]byte, error) {
	const op = "failed to fetch object"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSubtitleBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	if len(data) > maxSubtitleBodyBytes {
		return nil, fmt.Errorf("%s: object larger than %d bytes", op, maxSubtitleBodyBytes)
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: httputil.ErrorMessage(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}
