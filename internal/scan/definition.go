package scan

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Entry is a transition-table entry: a DFA paired with its token-id and an
// optional literal replace-with payload (spec.md §3).
type Entry struct {
	TokenID     string
	ReplaceWith *string
	Dfa         *Dfa
}

// Scanner owns an alphabet, a newline character, and the ordered list of
// transition-table entries loaded from a scanner definition file. It is
// immutable after construction (spec.md §3).
type Scanner struct {
	Alphabet    *Alphabet
	NewlineChar byte
	Entries     []Entry
}

// DfaOpener opens the DFA file named by a definition entry. Filesystem
// acquisition is out of this package's scope (spec.md §1); callers supply
// how a path becomes a readable stream, typically os.Open.
type DfaOpener func(path string) (io.ReadCloser, error)

// LoadScannerDefinition reads a scanner definition from r: the first
// non-empty line is the alphabet line, and subsequent lines are
// transition-table entries (spec.md §4.5). A line that fails the entry
// grammar stops accumulation, permitting trailing blank/comment lines. An
// empty definition (no alphabet line at all) is a fatal error.
func LoadScannerDefinition(path string, r io.Reader, openDfa DfaOpener) (*Scanner, error) {
	lines := bufio.NewScanner(r)

	var alphabetLine string
	found := false
	for lines.Scan() {
		text := strings.TrimSpace(lines.Text())
		if text == "" {
			continue
		}
		alphabetLine = text
		found = true
		break
	}
	if err := lines.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading scanner definition %q", path)
	}
	if !found {
		return nil, &DefinitionError{Path: path, Reason: "missing alphabet line (empty file)"}
	}

	alphabet, err := ParseAlphabetLine(alphabetLine)
	if err != nil {
		return nil, &DefinitionError{Path: path, Reason: err.Error()}
	}

	newlineChar, ok := alphabet.NewlineChar()
	if !ok {
		return nil, &DefinitionError{Path: path, Reason: "alphabet is empty, no newline character"}
	}

	var entries []Entry
	for lines.Scan() {
		text := lines.Text()
		fields := strings.Fields(text)
		if len(fields) != 2 && len(fields) != 3 {
			break
		}

		dfaPath, tokenID := fields[0], fields[1]
		threeToken := len(fields) == 3

		dfaReader, err := openDfa(dfaPath)
		if err != nil {
			return nil, &DfaLoadError{Path: dfaPath, ThreeToken: threeToken, Cause: err}
		}
		dfa, err := LoadDfa(dfaReader, alphabet.Size())
		closeErr := dfaReader.Close()
		if err != nil {
			return nil, &DfaLoadError{Path: dfaPath, ThreeToken: threeToken, Cause: err}
		}
		if closeErr != nil {
			return nil, &DfaLoadError{Path: dfaPath, ThreeToken: threeToken, Cause: closeErr}
		}

		entry := Entry{TokenID: tokenID, Dfa: dfa}
		if threeToken {
			replaceWith := fields[2]
			entry.ReplaceWith = &replaceWith
		}
		entries = append(entries, entry)
	}
	if err := lines.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading scanner definition %q", path)
	}

	return &Scanner{
		Alphabet:    alphabet,
		NewlineChar: newlineChar,
		Entries:     entries,
	}, nil
}

// IgnoreTokenID is the sentinel token-id that marks a rule whose matches
// should be consumed without emitting a token record (spec.md §4.5, §9).
const IgnoreTokenID = "IGNORE"
