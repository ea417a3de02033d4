package compare

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadFile is the default Loader. The context is honored between the stat and
// the read; the read itself is not cancellable.
func ReadFile(ctx context.Context, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}

// Decode converts raw file bytes to UTF-8 text. UTF-16 is recognized by BOM;
// everything else is treated as UTF-8. Malformed sequences are substituted
// with U+FFFD instead of failing.
func Decode(raw []byte) (string, error) {
	var dec *encoding.Decoder
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	default:
		dec = unicode.UTF8BOM.NewDecoder()
	}
	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize collapses CRLF and lone CR line endings to LF before storage.
func Normalize(text string) string {
	return lineEndings.Replace(text)
}
