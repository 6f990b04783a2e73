// Package subtitle converts SubRip (SRT) subtitle text into WebVTT so that
// browsers can attach it to a <track> element.
package subtitle

import (
	"regexp"
	"strings"
)

// MIMEType is the content type browsers expect for a WebVTT track.
const MIMEType = "text/vtt"

const header = "WEBVTT"

var (
	srtTimestampRe = regexp.MustCompile(`(\d{2}:\d{2}:\d{2}),(\d{3})`)

	// cueIndexRe matches a line holding nothing but a cue number.
	cueIndexRe = regexp.MustCompile(`(?m)^[ \t]*\d+[ \t]*$`)

	blankRunRe = regexp.MustCompile(`\n{3,}`)
)

// ToVTT rewrites SRT text as WebVTT. Timestamps switch from a comma to a
// period before the milliseconds and numeric cue indexes are dropped.
//
// Any line holding only digits is treated as an index. A numeric-only
// dialogue line is therefore emptied, and the blank line it leaves ends the
// cue there; the text after it becomes a separate block.
//
// The input is not validated against the cue grammar. Lines that are not
// recognised pass through unchanged, and WebVTT input comes back with a
// second header.
func ToVTT(srt string) string {
	content := strings.ReplaceAll(srt, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	content = srtTimestampRe.ReplaceAllString(content, "$1.$2")
	content = cueIndexRe.ReplaceAllString(content, "")
	content = blankRunRe.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)

	return header + "\n\n" + content + "\n"
}
