package subtitle

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeText turns raw subtitle bytes into a UTF-8 string. A UTF-8 byte
// order mark is dropped and UTF-16 files carrying a BOM are transcoded;
// anything else is treated as UTF-8.
func DecodeText(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("decode subtitle text: %w", err)
	}
	return string(out), nil
}
