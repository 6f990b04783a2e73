package subtitle

import (
	"regexp"
	"strings"
	"testing"
)

func TestToVTT(t *testing.T) {
	tests := []struct {
		name string
		srt  string
		want string
	}{
		{
			name: "single cue",
			srt:  "1\n00:00:01,000 --> 00:00:02,500\nHello\n",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.500\nHello\n",
		},
		{
			name: "crlf line endings",
			srt:  "1\r\n00:00:01,000 --> 00:00:02,500\r\nHello\r\n",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.500\nHello\n",
		},
		{
			name: "bare cr line endings",
			srt:  "1\r00:00:01,000 --> 00:00:02,500\rHello\r",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.500\nHello\n",
		},
		{
			name: "two cues keep one blank line between them",
			srt:  "1\n00:00:01,000 --> 00:00:02,000\nA\n\n2\n00:00:03,000 --> 00:00:04,000\nB\n",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nA\n\n00:00:03.000 --> 00:00:04.000\nB\n",
		},
		{
			name: "index surrounded by whitespace",
			srt:  "  12 \t\n00:01:23,456 --> 00:01:25,789\nLine one\nLine two\n",
			want: "WEBVTT\n\n00:01:23.456 --> 00:01:25.789\nLine one\nLine two\n",
		},
		{
			name: "long blank runs collapse",
			srt:  "00:00:01,000 --> 00:00:02,000\nA\n\n\n\n\n\n00:00:03,000 --> 00:00:04,000\nB",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nA\n\n00:00:03.000 --> 00:00:04.000\nB\n",
		},
		{
			name: "timestamp inside text is rewritten too",
			srt:  "1\n00:00:01,000 --> 00:00:02,000\nat 01:02:03,004 exactly\n",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nat 01:02:03.004 exactly\n",
		},
		{
			name: "numeric dialogue line is dropped",
			srt:  "1\n00:00:01,000 --> 00:00:02,000\n42\nanswer\n",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\n\nanswer\n",
		},
		{
			name: "unrecognised lines pass through",
			srt:  "not a subtitle\n,,, --> ???\n",
			want: "WEBVTT\n\nnot a subtitle\n,,, --> ???\n",
		},
		{
			name: "empty input",
			srt:  "",
			want: "WEBVTT\n\n\n",
		},
		{
			name: "surrounding whitespace trimmed",
			srt:  "\n\n   \n1\n00:00:01,000 --> 00:00:02,000\nHi\n\n\n\n",
			want: "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToVTT(tt.srt)
			if got != tt.want {
				t.Errorf("ToVTT(%q) = %q, want %q", tt.srt, got, tt.want)
			}
		})
	}
}

func TestToVTT_OutputShape(t *testing.T) {
	commaTimestamp := regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}`)
	inputs := []string{
		"1\n00:00:01,000 --> 00:00:02,500\nHello\n",
		"1\r\n00:00:00,000 --> 00:00:00,999\r\nA\r\n\r\n2\r\n10:59:59,123 --> 11:00:00,000\r\nB, C\r\n",
		"7\n12:34:56,789 --> 12:34:57,000 position:10%\n<i>styled</i>\n",
		"garbage",
	}
	for _, in := range inputs {
		out := ToVTT(in)
		if !strings.HasPrefix(out, "WEBVTT\n\n") {
			t.Errorf("ToVTT(%q) should start with header and blank line, got %q", in, out)
		}
		if commaTimestamp.MatchString(out) {
			t.Errorf("ToVTT(%q) still contains comma timestamps: %q", in, out)
		}
		if !strings.HasSuffix(out, "\n") || strings.HasSuffix(out, "\n\n\n") {
			t.Errorf("ToVTT(%q) should end with a single line feed, got %q", in, out)
		}
	}
}

func TestToVTT_PreservesNonNumericLines(t *testing.T) {
	srt := "3\n00:00:05,000 --> 00:00:06,000\nFirst line, with comma\n- Second line -\n"
	out := ToVTT(srt)

	for _, line := range []string{"First line, with comma", "- Second line -"} {
		if !strings.Contains(out, "\n"+line+"\n") {
			t.Errorf("expected output to keep %q, got %q", line, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if line == "3" {
			t.Errorf("expected cue index to be removed, got %q", out)
		}
	}
}

func TestToVTT_AlreadyConverted(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n"

	got := ToVTT(vtt)

	want := "WEBVTT\n\nWEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n"
	if got != want {
		t.Errorf("ToVTT on WebVTT input = %q, want %q", got, want)
	}
}
