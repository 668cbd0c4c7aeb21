package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Auto selects the charset by heuristic detection instead of by name.
const Auto = "auto"

// ErrUndecodable is returned when neither the primary nor the fallback
// charset can decode the input without invalid byte sequences.
var ErrUndecodable = errors.New("input is not decodable with the configured encodings")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}

	replacementChar = []byte(string(utf8.RuneError))
)

// Decoder converts raw export bytes to UTF-8 using a primary charset and,
// when that fails, a fallback charset.
type Decoder struct {
	primary  string
	fallback string
}

// NewDecoder returns a Decoder for the given charset names. Names are
// WHATWG labels ("utf-8", "windows-1252", "iso-8859-1", ...) or Auto.
func NewDecoder(primary, fallback string) *Decoder {
	return &Decoder{primary: primary, fallback: fallback}
}

// NewUTF8Reader reads r fully and returns a reader over its UTF-8 form.
//
// Decoding order:
//  1. A byte order mark wins (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. The primary charset
//  3. The fallback charset
func (d *Decoder) NewUTF8Reader(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	s, err := d.DecodeString(data)
	if err != nil {
		return nil, err
	}

	return strings.NewReader(s), nil
}

// DecodeString decodes data following the same order as NewUTF8Reader.
func (d *Decoder) DecodeString(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		rest := data[len(bomUTF8):]
		if !utf8.Valid(rest) {
			return "", fmt.Errorf("utf-8 bom followed by invalid utf-8: %w", ErrUndecodable)
		}

		return string(rest), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeStrict(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), data)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeStrict(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), data)
	}

	for _, name := range []string{d.primary, d.fallback} {
		if name == "" {
			continue
		}

		s, err := decodeNamed(name, data)
		if err == nil {
			return s, nil
		}

		slog.Debug("decode attempt failed", "charset", name, "error", err)
	}

	return "", ErrUndecodable
}

func decodeNamed(name string, data []byte) (string, error) {
	if strings.EqualFold(name, Auto) {
		name = detect(data)
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("unknown charset %q: %w", name, err)
	}

	if canonical, _ := htmlindex.Name(enc); canonical == "utf-8" {
		if !utf8.Valid(data) {
			return "", errors.New("invalid utf-8 sequence")
		}

		return string(data), nil
	}

	return decodeStrict(enc, data)
}

// decodeStrict rejects output that gained replacement characters, which is
// how x/text reports bytes the charset cannot map.
func decodeStrict(enc xenc.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}

	if bytes.Contains(out, replacementChar) && !bytes.Contains(data, replacementChar) {
		return "", errors.New("unmappable byte sequence")
	}

	return string(out), nil
}

// detect guesses a charset label via chardet, defaulting to windows-1252.
func detect(data []byte) string {
	if utf8.Valid(data) {
		return "utf-8"
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return "windows-1252"
	}

	switch result.Charset {
	case "UTF-8":
		return "utf-8"
	case "ISO-8859-9":
		return "iso-8859-9"
	}

	return "windows-1252"
}
