// Package advertise extracts the host nickname from the advertise data blob
// a Switch console broadcasts for its LAN session.
package advertise

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Hex character window holding the zero padded nickname.
const (
	NameStart = 56
	NameEnd   = 94

	// NameSize is the size of the nickname field in bytes.
	NameSize = (NameEnd - NameStart) / 2
)

// ErrDecode is returned when the advertise data is too short, is not hex,
// or the nickname bytes are not valid text in the requested encoding.
var ErrDecode = errors.New("advertise data decode failure")

// Encoding selects how nickname bytes are turned into text.
type Encoding string

// Supported encodings.
const (
	UTF8    Encoding = "utf-8"
	Latin1  Encoding = "latin1"
	UTF16LE Encoding = "utf-16le"
)

// Default is used when no encoding is configured.
const Default = UTF8

// ParseEncoding maps a user supplied name onto a supported Encoding.
// The empty string yields Default.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "latin1", "latin-1", "iso-8859-1":
		return Latin1, nil
	case "utf-16le", "utf-16", "utf16":
		return UTF16LE, nil
	}

	return "", fmt.Errorf("unsupported advertise encoding %q", name)
}

// DecodeName returns the nickname stored in data.
//
// The hex window [NameStart, NameEnd) is decoded to bytes, every zero byte is
// dropped and the remainder is decoded as text using enc.
func DecodeName(data string, enc Encoding) (string, error) {
	if len(data) < NameEnd {
		return "", fmt.Errorf("%w: need at least %d hex characters, got %d", ErrDecode, NameEnd, len(data))
	}

	raw, err := hex.DecodeString(data[NameStart:NameEnd])
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}

	raw = bytes.ReplaceAll(raw, []byte{0}, nil)

	return decodeText(raw, enc)
}

func decodeText(raw []byte, enc Encoding) (string, error) {
	switch enc {
	case "", UTF8:
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: invalid utf-8 sequence", ErrDecode)
		}
		return string(raw), nil

	case Latin1:
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return string(out), nil

	case UTF16LE:
		if len(raw)%2 != 0 {
			return "", fmt.Errorf("%w: odd byte count %d for utf-16", ErrDecode, len(raw))
		}
		out, err := utf16().NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return "", fmt.Errorf("%w: invalid utf-16 sequence", ErrDecode)
		}
		return string(out), nil
	}

	return "", fmt.Errorf("%w: unsupported encoding %q", ErrDecode, enc)
}

// EncodeName builds a hex advertise blob of size bytes (at least NameEnd/2)
// holding name in the nickname field. Names longer than NameSize bytes are
// truncated. It is the inverse of DecodeName for names without zero bytes.
func EncodeName(name string, enc Encoding, size int) (string, error) {
	if size < NameEnd/2 {
		size = NameEnd / 2
	}

	var (
		field []byte
		err   error
	)
	switch enc {
	case "", UTF8:
		field = []byte(name)
	case Latin1:
		field, err = charmap.ISO8859_1.NewEncoder().Bytes([]byte(name))
	case UTF16LE:
		field, err = utf16().NewEncoder().Bytes([]byte(name))
	default:
		err = fmt.Errorf("unsupported encoding %q", enc)
	}
	if err != nil {
		return "", err
	}
	if len(field) > NameSize {
		field = field[:NameSize]
	}

	blob := make([]byte, size)
	copy(blob[NameStart/2:], field)

	return hex.EncodeToString(blob), nil
}

func utf16() encoding.Encoding {
	return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
}
