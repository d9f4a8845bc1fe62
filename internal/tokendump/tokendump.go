// Package tokendump renders a column-aligned, human-readable table of
// emitted tokens, for luther's -explain debug mode (SPEC_FULL.md §4.2).
// Alignment uses display width rather than byte or rune count, grounded on
// aretext's internal/pkg/display column-tracking, since token-id and
// replace-with payloads come from a UTF-8 definition file and are not
// constrained to single-width ASCII.
package tokendump

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Record is one emitted token, in the same shape the line-oriented sink
// writes (SPEC_FULL.md §4.2): a token-id, its (possibly hex-encoded or
// replace-with) payload, and the line/column the match started at.
type Record struct {
	TokenID string
	Payload string
	Line    int
	Column  int
}

const columnGap = 2

// Write renders records as a column-aligned table to out, one row per
// record plus a header row, with columns sized to the widest entry in
// each column (by display width, not byte length).
func Write(out io.Writer, records []Record) error {
	headers := [4]string{"TOKEN", "PAYLOAD", "LINE", "COL"}
	widthOf := [4]int{}
	for i, h := range headers {
		widthOf[i] = runewidth.StringWidth(h)
	}

	rows := make([][4]string, len(records))
	for i, r := range records {
		row := [4]string{r.TokenID, r.Payload, fmt.Sprintf("%d", r.Line), fmt.Sprintf("%d", r.Column)}
		rows[i] = row
		for col, cell := range row {
			if w := runewidth.StringWidth(cell); w > widthOf[col] {
				widthOf[col] = w
			}
		}
	}

	if err := writeRow(out, headers[:], widthOf[:]); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeRow(out, row[:], widthOf[:]); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(out io.Writer, cells []string, widths []int) error {
	var b strings.Builder
	for i, cell := range cells {
		b.WriteString(cell)
		if i == len(cells)-1 {
			break
		}
		pad := widths[i] - runewidth.StringWidth(cell) + columnGap
		for p := 0; p < pad; p++ {
			b.WriteByte(' ')
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(out, b.String())
	return err
}
