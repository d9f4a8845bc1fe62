// Package sink implements the output sink luther's tokenizer writes
// token records to: an append-only, line-per-token stream (spec.md §5)
// that is nevertheless written atomically, so a crash mid-tokenization
// never leaves a half-written output file on disk.
package sink

import (
	"io"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"

	"github.com/luther-lang/luther/internal/scan"
)

// PendingFile wraps a renameio pending file as an io.Writer that only
// becomes visible at path once Commit succeeds. Grounded on
// aretext/file/save.go's use of renameio.NewPendingFile +
// CloseAtomicallyReplace.
type PendingFile struct {
	path string
	pf   *renameio.PendingFile
}

// Create opens a new pending output file at path. The file does not exist
// at path until Commit is called.
func Create(path string) (*PendingFile, error) {
	pf, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644), renameio.WithExistingPermissions())
	if err != nil {
		return nil, &scan.OutputCreateError{Path: path, Cause: errors.Wrap(err, "renameio.NewPendingFile")}
	}
	return &PendingFile{path: path, pf: pf}, nil
}

// Write implements io.Writer, appending to the pending file's temp copy.
func (p *PendingFile) Write(b []byte) (int, error) {
	n, err := p.pf.Write(b)
	if err != nil {
		return n, errors.Wrapf(err, "write output %q", p.path)
	}
	return n, nil
}

// Commit atomically replaces path with everything written so far.
func (p *PendingFile) Commit() error {
	if err := p.pf.CloseAtomicallyReplace(); err != nil {
		return &scan.OutputCreateError{Path: p.path, Cause: err}
	}
	return nil
}

// Abandon discards the pending file without touching path. Safe to call
// after Commit; it is then a no-op.
func (p *PendingFile) Abandon() {
	p.pf.Cleanup()
}

var _ io.Writer = (*PendingFile)(nil)
