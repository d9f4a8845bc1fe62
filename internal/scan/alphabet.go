package scan

import (
	"github.com/pkg/errors"

	"github.com/luther-lang/luther/internal/scan/hexcodec"
)

// Alphabet is a dense, ordered mapping from input character to symbol
// index. Indices are assigned in encounter order starting at 0.
type Alphabet struct {
	indexOf     map[byte]int
	size        int
	newlineChar byte
	hasNewline  bool
}

// NewlineChar returns the character assigned the first symbol index (0),
// which by convention is the scanner's newline character (spec.md §4.5).
// It is recorded once at build time rather than recovered by scanning
// indexOf, since the assignment order that makes it index 0 is already
// known there.
func (a *Alphabet) NewlineChar() (byte, bool) {
	return a.newlineChar, a.hasNewline
}

// Size returns the number of distinct characters in the alphabet.
func (a *Alphabet) Size() int {
	return a.size
}

// Symbol returns the symbol index assigned to ch, or ok=false if ch is not
// in the alphabet.
func (a *Alphabet) Symbol(ch byte) (int, bool) {
	idx, ok := a.indexOf[ch]
	return idx, ok
}

// ParseAlphabetLine builds an Alphabet from a single definition-file line.
// Whitespace is stripped first; the remaining characters are scanned left
// to right. A literal 'x' consumes the next two characters as a hex escape
// (via hexcodec.HexToByte); any other character is inserted as itself.
// Each decoded character receives the next available symbol index.
// Duplicate characters are a fatal load error (spec.md §9 "Recommended").
func ParseAlphabetLine(line string) (*Alphabet, error) {
	stripped := stripWhitespace(line)

	a := &Alphabet{indexOf: make(map[byte]int)}
	for i := 0; i < len(stripped); i++ {
		var ch byte
		if stripped[i] == 'x' {
			if i+2 >= len(stripped) {
				return nil, errors.Errorf("truncated hex escape at position %d in alphabet line %q", i, line)
			}
			decoded, err := hexcodec.HexToByte(stripped[i+1 : i+3])
			if err != nil {
				return nil, errors.Wrapf(err, "alphabet line %q", line)
			}
			ch = decoded
			i += 2
		} else {
			ch = stripped[i]
		}

		if _, exists := a.indexOf[ch]; exists {
			return nil, errors.Errorf("duplicate alphabet character %q in line %q", ch, line)
		}

		if a.size == 0 {
			a.newlineChar = ch
			a.hasNewline = true
		}
		a.indexOf[ch] = a.size
		a.size++
	}

	return a, nil
}

func stripWhitespace(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
