// Package validate holds the file acceptance rules for uploads and the
// human-readable size labels shown next to files.
package validate

import (
	"fmt"
	"math"
	"path/filepath"
	"slices"
	"strings"
)

var (
	VideoExtensions    = []string{".mp4", ".mkv"}
	SubtitleExtensions = []string{".srt"}
)

const (
	videoMessage    = "Please select a .mp4 or .mkv file"
	subtitleMessage = "Please select a .srt subtitle file"
)

func hasExtension(name string, allowed []string) bool {
	return slices.Contains(allowed, strings.ToLower(filepath.Ext(name)))
}

// VideoFile returns a message for the user when name is not an accepted
// video, or "" when it is.
func VideoFile(name string) string {
	if !hasExtension(name, VideoExtensions) {
		return videoMessage
	}
	return ""
}

func SubtitleFile(name string) string {
	if !hasExtension(name, SubtitleExtensions) {
		return subtitleMessage
	}
	return ""
}

// FormatSize renders bytes in decimal units: GB with two decimals from 1e9,
// MB with one decimal from 1e6, whole KB below that.
func FormatSize(bytes int64) string {
	b := float64(bytes)
	switch {
	case b >= 1e9:
		return fmt.Sprintf("%.2f GB", roundTo(b/1e9, 2))
	case b >= 1e6:
		return fmt.Sprintf("%.1f MB", roundTo(b/1e6, 1))
	default:
		return fmt.Sprintf("%.0f KB", roundTo(b/1e3, 0))
	}
}

// roundTo rounds half away from zero.
func roundTo(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
