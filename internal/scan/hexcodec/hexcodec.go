// Package hexcodec converts between single bytes and their two-hex-digit
// textual form, and hex-encodes whole strings for token payload output.
package hexcodec

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// upper canonicalizes mixed-case hex digits before parsing, so that
// alphabet lines written with either "x5c" or "x5C" load the same way.
var upper = cases.Upper(language.Und)

const hexDigits = "0123456789ABCDEF"

// ByteToHex returns the 3-character textual form of b: "x" followed by
// the zero-padded uppercase two-digit hex representation.
func ByteToHex(b byte) string {
	return string([]byte{
		'x',
		hexDigits[b>>4],
		hexDigits[b&0x0F],
	})
}

// HexToByte parses a two-hex-digit string (case-insensitive) as a byte.
// It fails if h is not exactly two hex digits.
func HexToByte(h string) (byte, error) {
	if len(h) != 2 {
		return 0, errors.Errorf("hex escape must be exactly two digits, got %q", h)
	}

	normalized := upper.String(h)
	hi, err := hexNibble(normalized[0])
	if err != nil {
		return 0, errors.Wrapf(err, "hex escape %q", h)
	}
	lo, err := hexNibble(normalized[1])
	if err != nil {
		return 0, errors.Wrapf(err, "hex escape %q", h)
	}

	return hi<<4 | lo, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}

// EncodeString returns the concatenation of ByteToHex over each byte of s.
func EncodeString(s []byte) string {
	var sb []byte
	sb = make([]byte, 0, len(s)*3)
	for _, b := range s {
		sb = append(sb, 'x', hexDigits[b>>4], hexDigits[b&0x0F])
	}
	return string(sb)
}
