// Package textenc turns raw template bytes into text and back. Detection
// tries byte order marks, then strict UTF-8, then scores lenient decodes of a
// fixed set of legacy encodings.
package textenc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names.
const (
	UTF8        = "utf-8"
	UTF16LE     = "utf-16le"
	UTF16BE     = "utf-16be"
	Windows1252 = "windows-1252"
	ISO88591    = "iso-8859-1"
	ShiftJIS    = "shift_jis"
	EUCJP       = "euc-jp"
	EUCKR       = "euc-kr"
	GBK         = "gbk"

	// Auto requests detection.
	Auto = "auto"
)

var (
	// ErrUnknownEncoding is returned for an unsupported encoding name.
	ErrUnknownEncoding = errors.New("unknown encoding")

	// ErrInvalidText is returned when bytes are not valid in the requested
	// encoding.
	ErrInvalidText = errors.New("invalid text for encoding")

	// ErrUnencodable is returned when text cannot be represented in the
	// target encoding.
	ErrUnencodable = errors.New("text not representable in encoding")
)

//nolint:gochecknoglobals // Read-only tables.
var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}

	encodings = map[string]encoding.Encoding{
		UTF8:        unicode.UTF8,
		UTF16LE:     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
		UTF16BE:     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
		Windows1252: charmap.Windows1252,
		ISO88591:    charmap.ISO8859_1,
		ShiftJIS:    japanese.ShiftJIS,
		EUCJP:       japanese.EUCJP,
		EUCKR:       korean.EUCKR,
		GBK:         simplifiedchinese.GBK,
	}

	aliases = map[string]string{
		"utf8":       UTF8,
		"cp1252":     Windows1252,
		"latin1":     ISO88591,
		"iso8859-1":  ISO88591,
		"sjis":       ShiftJIS,
		"shift-jis":  ShiftJIS,
		"cp932":      ShiftJIS,
		"eucjp":      EUCJP,
		"euckr":      EUCKR,
		"cp949":      EUCKR,
		"cp936":      GBK,
		"utf16le":    UTF16LE,
		"utf16be":    UTF16BE,
		"utf-16-le":  UTF16LE,
		"utf-16-be":  UTF16BE,
		"iso_8859-1": ISO88591,
	}

	// Lenient candidates in tie-break order.
	candidates = []string{Windows1252, ShiftJIS, EUCJP, GBK, EUCKR}
)

// Decoded is text recovered from raw bytes.
type Decoded struct {
	// Text is the decoded content without any byte order mark.
	Text string

	// Encoding is the canonical name of the encoding used.
	Encoding string

	// BOM reports whether the input started with a byte order mark.
	BOM bool

	// Detected is false when the encoding was given explicitly.
	Detected bool
}

// Names returns the supported encoding names.
func Names() []string {
	return []string{UTF8, UTF16LE, UTF16BE, Windows1252, ISO88591, ShiftJIS, EUCJP, EUCKR, GBK}
}

// Canonical returns the canonical name for an encoding name or alias.
func Canonical(name string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == Auto {
		return Auto, nil
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if _, ok := encodings[key]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	return key, nil
}

// Decode converts raw bytes to text. An empty hint or "auto" detects the
// encoding; any other hint forces it.
func Decode(raw []byte, hint string) (*Decoded, error) {
	name, err := Canonical(hint)
	if err != nil {
		return nil, err
	}
	if name != Auto {
		return decodeAs(raw, name)
	}

	switch {
	case bytes.HasPrefix(raw, utf8BOM):
		return decodeAs(raw, UTF8)
	case bytes.HasPrefix(raw, utf16LEBOM):
		return decodeAs(raw, UTF16LE)
	case bytes.HasPrefix(raw, utf16BEBOM):
		return decodeAs(raw, UTF16BE)
	case utf8.Valid(raw):
		return &Decoded{Text: string(raw), Encoding: UTF8, Detected: true}, nil
	}

	// Latin-1 maps every byte to a rune and back, so it is the floor.
	best := &Decoded{Text: decodeLatin1(raw), Encoding: ISO88591, Detected: true}
	bestScore := score(best.Text)
	for _, candidate := range candidates {
		text, err := encodings[candidate].NewDecoder().Bytes(raw)
		if err != nil || !RoundTrips(raw, string(text), candidate, false) {
			continue
		}
		if s := score(string(text)); s > bestScore || (s == bestScore && best.Encoding == ISO88591) {
			best = &Decoded{Text: string(text), Encoding: candidate, Detected: true}
			bestScore = s
		}
	}

	return best, nil
}

// RoundTrips reports whether encoding text as name reproduces raw exactly.
// Decoders replace malformed input with U+FFFD, which would silently change
// content on write.
func RoundTrips(raw []byte, text, name string, bom bool) bool {
	encoded, err := Encode(text, name, bom)
	return err == nil && bytes.Equal(encoded, raw)
}

func decodeLatin1(raw []byte) string {
	runes := make([]rune, len(raw))
	for i, b := range raw {
		runes[i] = rune(b)
	}
	return string(runes)
}

// decodeAs decodes raw with a known encoding, stripping its BOM.
func decodeAs(raw []byte, name string) (*Decoded, error) {
	decoded := &Decoded{Encoding: name}

	switch name {
	case UTF8:
		if bytes.HasPrefix(raw, utf8BOM) {
			raw = raw[len(utf8BOM):]
			decoded.BOM = true
		}
		if !utf8.Valid(raw) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidText, name)
		}
		decoded.Text = string(raw)
		return decoded, nil
	case UTF16LE:
		raw, decoded.BOM = trimBOM(raw, utf16LEBOM)
	case UTF16BE:
		raw, decoded.BOM = trimBOM(raw, utf16BEBOM)
	}

	text, err := encodings[name].NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidText, name, err)
	}
	decoded.Text = string(text)
	return decoded, nil
}

func trimBOM(raw, bom []byte) ([]byte, bool) {
	if bytes.HasPrefix(raw, bom) {
		return raw[len(bom):], true
	}
	return raw, false
}

// Encode converts text to bytes in the named encoding, writing a byte order
// mark first when bom is set and the encoding has one.
func Encode(text, name string, bom bool) ([]byte, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	if canonical == Auto {
		canonical = UTF8
	}

	var prefix []byte
	if bom {
		switch canonical {
		case UTF8:
			prefix = utf8BOM
		case UTF16LE:
			prefix = utf16LEBOM
		case UTF16BE:
			prefix = utf16BEBOM
		}
	}

	if canonical == UTF8 {
		return append(append([]byte(nil), prefix...), text...), nil
	}

	body, err := encodings[canonical].NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnencodable, canonical, err)
	}
	return append(append([]byte(nil), prefix...), body...), nil
}
