package scan

import (
	"fmt"
	"io"

	"github.com/luther-lang/luther/internal/scan/hexcodec"
)

// Tokenizer runs the maximal-munch dispatch loop described in spec.md
// §4.4: at each cursor position, every runner attempts a match, the
// longest wins (earlier definition-order entry wins ties), and the
// winning rule's token is emitted before the cursor advances.
type Tokenizer struct {
	scanner *Scanner
	runners []*Runner
}

// NewTokenizer constructs one Runner per transition-table entry, in
// definition order, bound to s's alphabet.
func NewTokenizer(s *Scanner) *Tokenizer {
	runners := make([]*Runner, len(s.Entries))
	for i, e := range s.Entries {
		runners[i] = NewRunner(e.Dfa, s.Alphabet, e.TokenID, e.ReplaceWith)
	}
	return &Tokenizer{scanner: s, runners: runners}
}

// Emit is called once per non-IGNORE token the tokenizer produces, with the
// token's id, its (hex-encoded or replace-with) payload, and the line/column
// the match started at.
type Emit func(tokenID, payload string, line, column int) error

// Tokenize consumes source entirely, invoking emit for every non-IGNORE
// token in order (spec.md §4.4, §4.5). IGNORE rules (spec.md §4.5, §9)
// advance the cursor without calling emit. A cursor position where no rule
// matches at all is a fatal NoMatchError (spec.md §7, §9 "sane behavior"
// decision).
func (t *Tokenizer) Tokenize(source []byte, emit Emit) error {
	remaining := source
	line, column := 1, 1
	prevLine, prevColumn := 1, 1

	for len(remaining) > 0 {
		bestIdx := -1
		var best MatchResult

		for i, r := range t.runners {
			res, err := r.FirstMatch(remaining, t.scanner.NewlineChar)
			if err != nil {
				if alphaErr, ok := err.(*AlphabetError); ok {
					alphaErr.Line, alphaErr.Col = advanceCursor(line, column, alphaErr.relNewlines, alphaErr.relColumn, alphaErr.relColumn)
					return alphaErr
				}
				return err
			}
			if res.Length > best.Length {
				best = res
				bestIdx = i
			}
		}

		if bestIdx == -1 || best.Length == 0 {
			return &NoMatchError{Line: line, Col: column}
		}

		winner := t.runners[bestIdx]
		lexeme := remaining[:best.Length]

		if winner.TokenID() != IgnoreTokenID {
			payload := hexcodec.EncodeString(lexeme)
			if rw := winner.ReplaceWith(); rw != nil {
				payload = *rw
			}
			if err := emit(winner.TokenID(), payload, prevLine, prevColumn); err != nil {
				return err
			}
		}

		line, column = advanceCursor(line, column, best.NewlinesBeforeAccept, best.Length, best.Column)
		prevLine, prevColumn = line, column

		remaining = remaining[best.Length:]
	}

	return nil
}

// TokenizeAll is Tokenize with emit wired to write the spec's line format
// ("<token-id> <payload> <line> <column>\n") to out.
func (t *Tokenizer) TokenizeAll(source []byte, out io.Writer) error {
	return t.Tokenize(source, func(tokenID, payload string, line, column int) error {
		_, err := fmt.Fprintf(out, "%s %s %d %d\n", tokenID, payload, line, column)
		return err
	})
}

// advanceCursor returns the updated (line, column) after consuming a run
// that crossed newlines newline characters: when newlines is 0 the column
// simply advances by length; otherwise the line advances by newlines and
// the column resets to col, the column at the end of the run (spec.md §9
// "Column after multi-newline lexeme").
func advanceCursor(line, column, newlines, length, col int) (int, int) {
	if newlines == 0 {
		return line, column + length
	}
	return line + newlines, col
}
