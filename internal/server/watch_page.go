package server

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/onereel/onereel/internal/httputil"
)

var watchPageTemplate = template.Must(template.New("watch").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{if .Title}}{{.Title}} · {{end}}onereel</title>
    <style nonce="{{.Nonce}}">
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            background: #0a1628;
            color: #ffffff;
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            min-height: 100vh;
            display: flex;
            flex-direction: column;
            align-items: center;
        }
        .container {
            max-width: 960px;
            width: 100%;
            padding: 2rem 1rem;
        }
        video {
            width: 100%;
            border-radius: 8px;
            background: #000;
        }
        h1, h2 {
            margin-top: 1rem;
            font-size: 1.5rem;
            font-weight: 600;
        }
        .meta, .empty p {
            margin-top: 0.5rem;
            color: #94a3b8;
            font-size: 0.875rem;
        }
        .empty {
            text-align: center;
            padding-top: 4rem;
        }
        .empty-icon { font-size: 3rem; }
        a.button {
            display: inline-block;
            margin-top: 1.5rem;
            padding: 0.5rem 1rem;
            border-radius: 6px;
            background: #00b67a;
            color: #ffffff;
            text-decoration: none;
        }
    </style>
</head>
<body>
    <div class="container">
    {{- if .Error}}
        <div class="empty">
            <div class="empty-icon">⚠️</div>
            <h2>{{.Error}}</h2>
            <a class="button" href="/">Try Again</a>
        </div>
    {{- else if not .VideoURL}}
        <div class="empty">
            <div class="empty-icon">🎬</div>
            <h2>No video uploaded yet</h2>
            <p>Upload a video with <code>onereel upload</code> to start watching</p>
        </div>
    {{- else}}
        <video id="player" controls autoplay crossorigin="anonymous">
            <source src="{{.VideoURL}}">
            {{- if .SubtitleURL}}
            <track kind="subtitles" src="{{.SubtitleURL}}" srclang="en" label="Subtitles" default>
            {{- end}}
            Your browser does not support the video tag.
        </video>
        <script nonce="{{.Nonce}}">
            var v = document.getElementById('player');
            v.play().catch(function() { v.muted = true; v.play(); });
        </script>
        <h1>{{.Title}}</h1>
        <p class="meta">{{.Size}}</p>
    {{- end}}
    </div>
</body>
</html>`))

type watchPageData struct {
	Title       string
	VideoURL    string
	SubtitleURL string
	Size        string
	Error       string
	Nonce       string
}

func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	data := watchPageData{Nonce: httputil.Nonce(r.Context())}
	status := http.StatusOK

	view, err := s.session.Load(r.Context())
	if err != nil {
		slog.Error("watch: failed to load video", "error", err)
		data.Error = "Failed to load video. Please try again."
		status = http.StatusBadGateway
	} else if view.Video != nil {
		data.Title = view.Video.Key
		data.VideoURL = view.Video.URL
		data.SubtitleURL = string(view.SubtitleURL)
		data.Size = view.SizeLabel
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := watchPageTemplate.Execute(w, data); err != nil {
		slog.Error("watch: failed to render page", "error", err)
	}
}
