package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func newTestClient(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", 5*time.Second)
}

func TestGetVideo_Present(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/video", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"video":{"key":"videos/movie.mp4","url":"https://s3.test/movie.mp4?sig=1","size":1500000},"subtitle":{"url":"https://s3.test/movie.srt?sig=2"}}`))
	})
	c := newTestClient(t, r)

	info, err := c.GetVideo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Video == nil || info.Video.Key != "videos/movie.mp4" || info.Video.Size != 1500000 {
		t.Errorf("unexpected video %+v", info.Video)
	}
	if info.Subtitle == nil || info.Subtitle.URL != "https://s3.test/movie.srt?sig=2" {
		t.Errorf("unexpected subtitle %+v", info.Subtitle)
	}
}

func TestGetVideo_Absent(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/video", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	c := newTestClient(t, r)

	info, err := c.GetVideo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Video != nil || info.Subtitle != nil {
		t.Errorf("expected empty info, got %+v", info)
	}
}

func TestGetVideo_RejectsMissingKey(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/video", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"video":{"url":"https://s3.test/x","size":1}}`))
	})
	c := newTestClient(t, r)

	if _, err := c.GetVideo(context.Background()); err == nil {
		t.Error("expected error for descriptor without key")
	}
}

func TestGetVideo_ServerError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/video", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"bucket unreachable"}`))
	})
	c := newTestClient(t, r)

	_, err := c.GetVideo(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", apiErr.StatusCode)
	}
	if err.Error() != "failed to get video info: bucket unreachable" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestUploadURL_SendsRequest(t *testing.T) {
	var got UploadURLRequest
	var contentType string
	r := chi.NewRouter()
	r.Post("/api/upload-url", func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"uploadUrl":"https://s3.test/put?sig=3"}`))
	})
	c := newTestClient(t, r)

	url, err := c.UploadURL(context.Background(), UploadURLRequest{
		FileName: "movie.mkv",
		FileType: "video/x-matroska",
		Category: CategoryVideo,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://s3.test/put?sig=3" {
		t.Errorf("unexpected url %q", url)
	}
	if contentType != "application/json" {
		t.Errorf("expected JSON request, got %q", contentType)
	}
	if got.FileName != "movie.mkv" || got.FileType != "video/x-matroska" || got.Category != CategoryVideo {
		t.Errorf("unexpected request %+v", got)
	}
}

func TestUploadURL_EmptyResponse(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/upload-url", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	c := newTestClient(t, r)

	if _, err := c.UploadURL(context.Background(), UploadURLRequest{FileName: "a.srt", FileType: "text/plain", Category: CategorySubtitle}); err == nil {
		t.Error("expected error when uploadUrl is missing")
	}
}

func TestUploadURL_Rejected(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/upload-url", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	c := newTestClient(t, r)

	_, err := c.UploadURL(context.Background(), UploadURLRequest{FileName: "a.mp4", Category: CategoryVideo})
	if err == nil || err.Error() != "failed to get upload URL" {
		t.Errorf("expected bare failure message, got %v", err)
	}
}

func TestDeleteVideo(t *testing.T) {
	calls := 0
	r := chi.NewRouter()
	r.Delete("/api/video", func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{}`))
	})
	c := newTestClient(t, r)

	if err := c.DeleteVideo(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected one DELETE, got %d", calls)
	}
}

func TestDeleteVideo_Failure(t *testing.T) {
	r := chi.NewRouter()
	r.Delete("/api/video", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c := newTestClient(t, r)

	err := c.DeleteVideo(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "failed to delete video") {
		t.Errorf("expected delete failure, got %v", err)
	}
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, time.Second)
	_, err := c.GetVideo(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "failed to get video info: ") {
		t.Errorf("expected wrapped network failure, got %v", err)
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Error("network failures should not be reported as API status errors")
	}
}

func TestFetchObject(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/movie.srt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("1\n00:00:01,000 --> 00:00:02,000\nHi\n"))
	})
	r.Get("/expired.srt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	c := New("http://unused.invalid", 5*time.Second)

	data, err := c.FetchObject(context.Background(), srv.URL+"/movie.srt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "00:00:01,000") {
		t.Errorf("unexpected body %q", data)
	}

	if _, err := c.FetchObject(context.Background(), srv.URL+"/expired.srt"); err == nil {
		t.Error("expected error for 403")
	}
}
