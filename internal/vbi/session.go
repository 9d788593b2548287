package vbi

import (
	"go.uber.org/zap"

	"github.com/sounkou-bioinfo/vbi/internal/region"
	"github.com/sounkou-bioinfo/vbi/internal/vcf"
)

// Session aggregates an open source-file reader, its parsed header, a loaded
// index, and the materializer's scratch state for repeated queries against
// one file. Because the reader holds a single read cursor, a Session is not
// safe for concurrent queries; open one Session per goroutine. The Index is
// read-only after load and may be shared between sessions.
type Session struct {
	rdr    *vcf.Reader
	ix     *Index
	mat    *Materializer
	logger *zap.Logger
}

// OpenSession loads (or, for URL paths, fetches) the index, verifies it
// against the source file, and opens the source for seeking. On any failure
// everything acquired so far is released before returning.
func OpenSession(srcPath, indexPath string, threads int) (*Session, error) {
	ix, err := FetchIndex(indexPath)
	if err != nil {
		return nil, err
	}
	if err := ix.Fingerprint.Verify(srcPath); err != nil {
		return nil, err
	}

	rdr, err := vcf.Open(srcPath, threads)
	if err != nil {
		return nil, err
	}

	return NewSession(rdr, ix), nil
}

// NewSession wraps an already-open reader and a loaded (possibly shared)
// index. The session takes ownership of the reader; Close releases it.
func NewSession(rdr *vcf.Reader, ix *Index) *Session {
	return &Session{
		rdr:    rdr,
		ix:     ix,
		mat:    NewMaterializer(rdr, ix),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used for per-record failure messages.
func (s *Session) SetLogger(l *zap.Logger) {
	s.logger = l
	s.mat.SetLogger(l)
}

// Index returns the loaded index.
func (s *Session) Index() *Index {
	return s.ix
}

// Header returns the parsed source-file header.
func (s *Session) Header() *vcf.Header {
	return s.rdr.Header()
}

// QueryRegions materializes all records matching a comma-separated region
// specifier, in file order (linear scan).
func (s *Session) QueryRegions(spec string, flags Flags) []Row {
	return s.mat.Rows(QueryRegionsLinear(s.ix, region.ParseMulti(spec)), flags)
}

// QueryRegionsTree is QueryRegions resolved through the interval index.
// Result order follows tree traversal, not file order.
func (s *Session) QueryRegionsTree(spec string, flags Flags) []Row {
	return s.mat.Rows(QueryRegionsTree(s.ix, region.ParseMulti(spec)), flags)
}

// QueryRange materializes the 1-based inclusive record range [start, end],
// clamped to the valid bounds.
func (s *Session) QueryRange(start, end int64, flags Flags) []Row {
	return s.mat.Rows(QueryIndexRange(s.ix, start, end), flags)
}

// RegionLines returns the raw record lines matching a region specifier.
// Records that fail to re-read come back as empty strings.
func (s *Session) RegionLines(spec string, useTree bool) []string {
	regions := region.ParseMulti(spec)
	var ids []int64
	if useTree {
		ids = QueryRegionsTree(s.ix, regions)
	} else {
		ids = QueryRegionsLinear(s.ix, regions)
	}
	return s.mat.Lines(ids)
}

// RangeLines returns the raw record lines for a 1-based inclusive record
// range.
func (s *Session) RangeLines(start, end int64) []string {
	return s.mat.Lines(QueryIndexRange(s.ix, start, end))
}

// Close tears the session down in reverse-acquisition order: materializer
// state, then the source reader, then the index reference.
func (s *Session) Close() error {
	s.mat = nil
	var err error
	if s.rdr != nil {
		err = s.rdr.Close()
		s.rdr = nil
	}
	s.ix = nil
	return err
}
