package subtitle

import "testing"

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"plain utf8", []byte("1\nhéllo\n"), "1\nhéllo\n"},
		{"utf8 bom", []byte("\xEF\xBB\xBF1\nhi\n"), "1\nhi\n"},
		{"utf16 little endian", []byte{0xFF, 0xFE, '1', 0x00, '\n', 0x00}, "1\n"},
		{"utf16 big endian", []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}, "hi"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DecodeText(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
