package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifestSkipsBlankAndCommentLines(t *testing.T) {
	manifest := strings.Join([]string{
		"# a sample manifest",
		"",
		"def.luther src.txt out.tok",
		"   ",
		"# trailing comment",
		`"with space/def.luther" "with space/src.txt" "with space/out.tok"`,
	}, "\n")

	lines, err := ParseManifest(strings.NewReader(manifest))
	require.NoError(t, err)
	require.Len(t, lines, 2)

	assert.Equal(t, Line{Num: 3, Definition: "def.luther", Source: "src.txt", Output: "out.tok"}, lines[0])
	assert.Equal(t, Line{
		Num:        6,
		Definition: "with space/def.luther",
		Source:     "with space/src.txt",
		Output:     "with space/out.tok",
	}, lines[1])
}

func TestParseManifestRejectsWrongFieldCount(t *testing.T) {
	_, err := ParseManifest(strings.NewReader("def.luther src.txt"))
	assert.Error(t, err)
}

func TestParseManifestRejectsUnbalancedQuotes(t *testing.T) {
	_, err := ParseManifest(strings.NewReader(`def.luther "unterminated src.txt out.tok`))
	assert.Error(t, err)
}

func TestRunContinuesPastFailure(t *testing.T) {
	lines := []Line{
		{Num: 1, Definition: "a.luther", Source: "a.txt", Output: "a.tok"},
		{Num: 2, Definition: "bad.luther", Source: "b.txt", Output: "b.tok"},
		{Num: 3, Definition: "c.luther", Source: "c.txt", Output: "c.tok"},
	}

	var ran []string
	results := Run(lines, func(l Line) error {
		ran = append(ran, l.Definition)
		if l.Definition == "bad.luther" {
			return assert.AnError
		}
		return nil
	})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"a.luther", "bad.luther", "c.luther"}, ran)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}
