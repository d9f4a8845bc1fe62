package scan

// Runner is a stateful cursor over a single Dfa. It is created once per
// transition-table entry and reset before every tokenize attempt. Unlike
// the reference implementation's interior-mutability Regex (a shared
// borrow with Cell fields, see original_source/src/regex.rs), Runner uses
// an ordinary mutable receiver: callers hold an exclusive *Runner for the
// duration of a match, matching spec.md §9's recommendation to avoid the
// interior-mutability trick.
type Runner struct {
	dfa         *Dfa
	alphabet    *Alphabet
	tokenID     string
	replaceWith *string

	currentState  int // DfaDeadState once dead
	consumedLength int
}

// NewRunner constructs a Runner bound to dfa and alphabet for the lifetime
// of a Scanner. tokenID and replaceWith are carried through to token
// emission; replaceWith may be nil.
func NewRunner(dfa *Dfa, alphabet *Alphabet, tokenID string, replaceWith *string) *Runner {
	r := &Runner{
		dfa:         dfa,
		alphabet:    alphabet,
		tokenID:     tokenID,
		replaceWith: replaceWith,
	}
	r.Reset()
	return r
}

// TokenID returns the token-id string this runner's rule was defined with.
func (r *Runner) TokenID() string { return r.tokenID }

// ReplaceWith returns the rule's literal replacement payload, or nil if
// none was configured.
func (r *Runner) ReplaceWith() *string { return r.replaceWith }

// Reset returns the runner to its initial state: current_state = 0,
// consumed_length = 0.
func (r *Runner) Reset() {
	r.currentState = 0
	r.consumedLength = 0
}

// Feed advances the runner by one input character. If the runner is
// already dead, it does nothing and returns (DfaDeadState, nil). Feeding
// a character outside the alphabet is a fatal error (spec.md §4.3).
func (r *Runner) Feed(ch byte) (int, error) {
	if r.currentState == DfaDeadState {
		return DfaDeadState, nil
	}

	symbol, ok := r.alphabet.Symbol(ch)
	if !ok {
		return DfaDeadState, &AlphabetError{Char: ch}
	}

	next := r.dfa.Transition(r.currentState, symbol)
	if next == DfaDeadState {
		r.currentState = DfaDeadState
		return DfaDeadState, nil
	}

	r.consumedLength++
	r.currentState = next
	return next, nil
}

// AcceptingNow reports whether the runner's current state is not dead and
// is an accepting state.
func (r *Runner) AcceptingNow() bool {
	return r.currentState != DfaDeadState && r.dfa.Accepting(r.currentState)
}

// MatchResult is the outcome of Runner.FirstMatch: the longest accepting
// prefix length, the number of newline characters consumed since the
// previous accepting position of the same scan (up to and including the
// accepting character), and the column position at the accept.
type MatchResult struct {
	Length            int
	NewlinesBeforeAccept int
	Column            int
}

// FirstMatch scans input byte by byte, feeding the runner and tracking a
// running column/newline count, and returns the LONGEST accepting prefix
// (not merely the first). newlineCh is the scanner's newline character.
// The runner is reset before returning, whether or not a match was found;
// calling FirstMatch twice in succession on the same input returns equal
// results (spec.md §8 invariant 3).
func (r *Runner) FirstMatch(input []byte, newlineCh byte) (MatchResult, error) {
	defer r.Reset()

	var best MatchResult
	var havebest bool

	position := 0
	newlines := 0

	for _, ch := range input {
		state, err := r.Feed(ch)
		if err != nil {
			if alphaErr, ok := err.(*AlphabetError); ok {
				alphaErr.relNewlines = newlines
				alphaErr.relColumn = position
			}
			return MatchResult{}, err
		}
		if state == DfaDeadState {
			break
		}

		position++
		if ch == newlineCh {
			newlines++
			position = 1
		}

		if r.AcceptingNow() {
			best = MatchResult{
				Length:            r.consumedLength,
				NewlinesBeforeAccept: newlines,
				Column:            position,
			}
			havebest = true
			newlines = 0
		}
	}

	if !havebest {
		return MatchResult{Length: 0, NewlinesBeforeAccept: 0, Column: 1}, nil
	}
	return best, nil
}

// FullMatch reports whether the runner's DFA accepts all of input exactly
// (no leftover, no early death). The runner is reset before returning.
func (r *Runner) FullMatch(input []byte) (bool, error) {
	defer r.Reset()

	for _, ch := range input {
		if _, err := r.Feed(ch); err != nil {
			return false, err
		}
	}

	return r.AcceptingNow() && r.consumedLength == len(input), nil
}
