// Package vbi builds, persists, and queries VBI side-indexes over VCF files.
//
// A VBI index maps every record in a source file to its chromosome, 1-based
// position, and an opaque seek token, so records can be re-read directly
// without scanning. The index is read-only once loaded and may be shared
// across sessions.
package vbi

import (
	"fmt"
	"os"
)

// Index is an in-memory VBI index. The three parallel arrays have one entry
// per record in file-traversal order; positions are not globally sorted
// across chromosomes. ChromIDs values index into Chroms.
type Index struct {
	SampleCount int64
	Chroms      []string // unique chromosome names, first-seen order
	ChromIDs    []int32
	Positions   []int64
	Offsets     []int64
	Fingerprint Fingerprint

	tree *intervalTree
}

// RecordCount returns the number of indexed records.
func (ix *Index) RecordCount() int64 {
	return int64(len(ix.Positions))
}

// ChromName returns the chromosome name of record id.
func (ix *Index) ChromName(id int64) string {
	return ix.Chroms[ix.ChromIDs[id]]
}

// ensureTree builds the interval index on first use. The index is immutable
// after load, so the tree is built once and never updated.
func (ix *Index) ensureTree() *intervalTree {
	if ix.tree == nil {
		ix.tree = buildIntervalTree(ix)
	}
	return ix.tree
}

// Fingerprint identifies the source file an index was built from. Stored
// offsets are only valid against a byte-identical source, so sessions verify
// the fingerprint before querying.
type Fingerprint struct {
	Size    int64
	ModTime int64 // unix seconds
}

func fingerprintOf(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat source file: %w", err)
	}
	return Fingerprint{Size: info.Size(), ModTime: info.ModTime().Unix()}, nil
}

// Verify checks that path still matches the fingerprint recorded at build
// time, failing fast with ErrFingerprint on any mismatch.
func (fp Fingerprint) Verify(path string) error {
	cur, err := fingerprintOf(path)
	if err != nil {
		return err
	}
	if cur != fp {
		return fmt.Errorf("%w: %s changed since the index was built (size %d -> %d)",
			ErrFingerprint, path, fp.Size, cur.Size)
	}
	return nil
}
