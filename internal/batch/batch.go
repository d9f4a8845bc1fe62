// Package batch runs luther over a manifest of (definition, source, output)
// triples, one per line. It is CLI/IO glue layered on top of the core
// tokenizer (spec.md §1 scopes the CLI itself out of the core), grounded
// on aretext/shell/cmd.go's use of github.com/google/shlex to split a
// command line the way a shell would, so manifest paths containing quoted
// spaces parse correctly.
package batch

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// Line is one parsed, not-yet-run manifest entry.
type Line struct {
	Num        int
	Definition string
	Source     string
	Output     string
}

// Result reports the outcome of running one manifest Line.
type Result struct {
	Line Line
	Err  error
}

// ParseManifest reads a batch manifest: one "definition source output"
// triple per line, shlex-split. Blank lines and lines starting with '#'
// are skipped.
func ParseManifest(r io.Reader) ([]Line, error) {
	scanner := bufio.NewScanner(r)

	var lines []Line
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields, err := shlex.Split(text)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest line %d: shlex.Split", lineNum)
		}
		if len(fields) != 3 {
			return nil, fmt.Errorf("manifest line %d: expected 3 fields (definition source output), got %d", lineNum, len(fields))
		}

		lines = append(lines, Line{
			Num:        lineNum,
			Definition: fields[0],
			Source:     fields[1],
			Output:     fields[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading manifest")
	}

	return lines, nil
}

// Run executes runOne for every parsed Line, continuing past a failure by
// default so one bad manifest entry doesn't abort the whole batch, and
// returns a Result per line in manifest order.
func Run(lines []Line, runOne func(Line) error) []Result {
	results := make([]Result, len(lines))
	for i, line := range lines {
		results[i] = Result{Line: line, Err: runOne(line)}
	}
	return results
}
