package storage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// File is a local file to be sent to storage.
type File interface {
	Name() string
	// ContentType is the declared media type, empty when unknown.
	ContentType() string
	Size() int64
	Open() (io.ReadCloser, error)
}

// Some platforms ship mime tables without these.
var fallbackTypes = map[string]string{
	".mp4": "video/mp4",
	".mkv": "video/x-matroska",
	".srt": "application/x-subrip",
}

// LocalFile is a File backed by a path on disk.
type LocalFile struct {
	path        string
	size        int64
	contentType string
}

// OpenLocal stats path and returns a handle for it. The file itself is
// opened lazily by each transfer.
func OpenLocal(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("stat file %s: is a directory", path)
	}
	return &LocalFile{
		path:        path,
		size:        info.Size(),
		contentType: declaredType(path),
	}, nil
}

func (f *LocalFile) Name() string        { return filepath.Base(f.path) }
func (f *LocalFile) ContentType() string { return f.contentType }
func (f *LocalFile) Size() int64         { return f.size }
func (f *LocalFile) Path() string        { return f.path }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", f.path, err)
	}
	return file, nil
}

func declaredType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t := mime.TypeByExtension(ext); t != "" {
		if mediaType, _, err := mime.ParseMediaType(t); err == nil {
			return mediaType
		}
		return t
	}
	return fallbackTypes[ext]
}

type typedFile struct {
	File
	contentType string
}

func (f typedFile) ContentType() string { return f.contentType }

// WithContentType returns f with its declared type replaced.
func WithContentType(f File, contentType string) File {
	return typedFile{File: f, contentType: contentType}
}
