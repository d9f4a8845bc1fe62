package scan

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLinearDfaText returns row-grammar text for a DFA that accepts
// exactly the literal string (as symbols in alphabet) and nothing else: a
// straight-line chain of states, dead on any deviation.
func buildLinearDfaText(t *testing.T, alphabet *Alphabet, literal string) string {
	t.Helper()
	width := alphabet.Size()

	var sb strings.Builder
	for i := 0; i <= len(literal); i++ {
		accept := "-"
		if i == len(literal) {
			accept = "+"
		}
		fmt.Fprintf(&sb, "%s %d", accept, i)

		transitions := make([]string, width)
		for s := range transitions {
			transitions[s] = "E"
		}
		if i < len(literal) {
			symbol, ok := alphabet.Symbol(literal[i])
			require.True(t, ok)
			transitions[symbol] = fmt.Sprintf("%d", i+1)
		}
		for _, tr := range transitions {
			sb.WriteByte(' ')
			sb.WriteString(tr)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func wikiAlphabet(t *testing.T) *Alphabet {
	t.Helper()
	a, err := ParseAlphabetLine("x0ax20x5C x6fpqrx73")
	require.NoError(t, err)
	return a
}

func notoDfaText() string {
	return "- 0 E E E E 1 1 1 1\n+ 1 E E E E 1 1 1 1\n"
}

func buildScanner(t *testing.T, entries []Entry, alphabet *Alphabet) *Scanner {
	t.Helper()
	nl, ok := alphabet.NewlineChar()
	require.True(t, ok)
	return &Scanner{Alphabet: alphabet, NewlineChar: nl, Entries: entries}
}

func loadTestDfa(t *testing.T, text string, width int) *Dfa {
	t.Helper()
	d, err := LoadDfa(strings.NewReader(text), width)
	require.NoError(t, err)
	return d
}

func TestTokenizeAllSingleToken(t *testing.T) {
	alphabet := wikiAlphabet(t)
	dfa := loadTestDfa(t, notoDfaText(), alphabet.Size())
	sc := buildScanner(t, []Entry{{TokenID: "pqrs", Dfa: dfa}}, alphabet)

	var out strings.Builder
	err := NewTokenizer(sc).TokenizeAll([]byte("pqrs"), &out)
	require.NoError(t, err)
	assert.Equal(t, "pqrs x70x71x72x73 1 1\n", out.String())
}

func TestTokenizeAllAbortsOnNoMatch(t *testing.T) {
	alphabet := wikiAlphabet(t)
	dfa := loadTestDfa(t, notoDfaText(), alphabet.Size())
	sc := buildScanner(t, []Entry{{TokenID: "pqrs", Dfa: dfa}}, alphabet)

	var out strings.Builder
	err := NewTokenizer(sc).TokenizeAll([]byte("pqrso"), &out)
	require.Error(t, err)
	var noMatch *NoMatchError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, 1, noMatch.Line)
	assert.Equal(t, 5, noMatch.Col)
	assert.Equal(t, "pqrs x70x71x72x73 1 1\n", out.String())
}

func TestTokenizeAllAlphabetErrorReportsOffendingBytePosition(t *testing.T) {
	alphabet := wikiAlphabet(t)
	pqDfa := loadTestDfa(t, buildLinearDfaText(t, alphabet, "pq"), alphabet.Size())
	sc := buildScanner(t, []Entry{{TokenID: "pq", Dfa: pqDfa}}, alphabet)

	var out strings.Builder
	err := NewTokenizer(sc).TokenizeAll([]byte("pqz"), &out)
	require.Error(t, err)
	var alphaErr *AlphabetError
	require.ErrorAs(t, err, &alphaErr)
	assert.Equal(t, byte('z'), alphaErr.Char)
	// "pq" is consumed successfully before the unmapped 'z', so the error
	// must point at 'z' itself (column 3), not the match's start (column 1).
	assert.Equal(t, 1, alphaErr.Line)
	assert.Equal(t, 3, alphaErr.Col)
}

func TestTokenizeAllIgnoreSuppressesEmissionButAdvancesCursor(t *testing.T) {
	alphabet := wikiAlphabet(t)
	pqrsDfa := loadTestDfa(t, notoDfaText(), alphabet.Size())
	ignoreDfa := loadTestDfa(t, buildLinearDfaText(t, alphabet, "\n"), alphabet.Size())

	sc := buildScanner(t, []Entry{
		{TokenID: "pqrs", Dfa: pqrsDfa},
		{TokenID: IgnoreTokenID, Dfa: ignoreDfa},
	}, alphabet)

	var out strings.Builder
	err := NewTokenizer(sc).TokenizeAll([]byte("pqrs\npq"), &out)
	require.NoError(t, err)
	assert.Equal(t, "pqrs x70x71x72x73 1 1\npqrs x70x71 2 1\n", out.String())
}

func TestTokenizeAllReplaceWithLiteralPayload(t *testing.T) {
	alphabet := wikiAlphabet(t)
	literal := `\ooo\ \ooo\`
	whackDfa := loadTestDfa(t, buildLinearDfaText(t, alphabet, literal), alphabet.Size())
	replace := "x5cooox5cx20x5cooox5c"

	sc := buildScanner(t, []Entry{
		{TokenID: "whack", Dfa: whackDfa, ReplaceWith: &replace},
	}, alphabet)

	var out strings.Builder
	err := NewTokenizer(sc).TokenizeAll([]byte(literal), &out)
	require.NoError(t, err)
	assert.Equal(t, "whack x5cooox5cx20x5cooox5c 1 1\n", out.String())
}

func TestTokenizeAllTieBreakEarlierEntryWins(t *testing.T) {
	alphabet := wikiAlphabet(t)
	dfa := loadTestDfa(t, notoDfaText(), alphabet.Size())

	sc := buildScanner(t, []Entry{
		{TokenID: "first", Dfa: dfa},
		{TokenID: "second", Dfa: dfa},
	}, alphabet)

	var out strings.Builder
	err := NewTokenizer(sc).TokenizeAll([]byte("pqrs"), &out)
	require.NoError(t, err)
	assert.Equal(t, "first x70x71x72x73 1 1\n", out.String())
}

func TestTokenizeAllLengthInvariant(t *testing.T) {
	alphabet := wikiAlphabet(t)
	dfa := loadTestDfa(t, notoDfaText(), alphabet.Size())
	sc := buildScanner(t, []Entry{{TokenID: "pqrs", Dfa: dfa}}, alphabet)

	source := []byte("pqrspqrspqrs")
	var out strings.Builder
	err := NewTokenizer(sc).TokenizeAll(source, &out)
	require.NoError(t, err)

	// Exactly one token line, covering the whole source (greedy run).
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 1)
}

func TestTokenizeAllDeterministic(t *testing.T) {
	alphabet := wikiAlphabet(t)
	dfa := loadTestDfa(t, notoDfaText(), alphabet.Size())
	sc := buildScanner(t, []Entry{{TokenID: "pqrs", Dfa: dfa}}, alphabet)

	source := []byte("pqrs")
	var out1, out2 strings.Builder
	require.NoError(t, NewTokenizer(sc).TokenizeAll(source, &out1))
	require.NoError(t, NewTokenizer(sc).TokenizeAll(source, &out2))
	assert.Equal(t, out1.String(), out2.String())
}
