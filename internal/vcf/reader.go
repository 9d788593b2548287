// Package vcf reads VCF files, plain or BGZF-compressed, with exact
// per-record seek positions.
package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// Reader reads records from a VCF file and can reposition to any previously
// observed Tell value. It holds the underlying file open with a single read
// cursor, so it is not safe for concurrent use.
type Reader struct {
	path       string
	f          *os.File
	bg         *bgzf.Reader  // nil for plain sources
	pr         *offsetReader // nil for BGZF sources
	hdr        *Header
	lineNumber int
	scratch    []byte
}

// Open opens a VCF file for reading and parses its header. Gzip-framed input
// must be BGZF; vanilla gzip streams have no usable seek positions and are
// rejected. threads is forwarded to the BGZF decompressor as a worker-count
// hint and has no other effect.
func Open(path string, threads int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	var magic [2]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("read vcf magic: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	r := &Reader{path: path, f: f}

	if magic[0] == 0x1f && magic[1] == 0x8b {
		if threads < 1 {
			threads = 1
		}
		r.bg, err = bgzf.NewReader(f, threads)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open bgzf stream %s (plain gzip is not seekable, use bgzip): %w", path, err)
		}
	} else {
		r.pr = newOffsetReader(f)
	}

	if err := r.readHeader(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// Header returns the parsed header.
func (r *Reader) Header() *Header {
	return r.hdr
}

// Path returns the path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Tell returns the seek token for the current position: a BGZF virtual
// offset (compressed block address <<16 | in-block offset, the htslib
// bgzf_tell packing) for compressed sources, a plain byte offset otherwise.
// Tell is exact only because reads never run past a line boundary.
func (r *Reader) Tell() int64 {
	if r.bg != nil {
		end := r.bg.LastChunk().End
		return end.File<<16 | int64(end.Block)
	}
	return r.pr.off
}

// Seek repositions the reader to a token previously returned by Tell.
func (r *Reader) Seek(token int64) error {
	if r.bg != nil {
		off := bgzf.Offset{File: token >> 16, Block: uint16(token & 0xffff)}
		if err := r.bg.Seek(off); err != nil {
			return fmt.Errorf("bgzf seek %s: %w", r.path, err)
		}
		return nil
	}
	if err := r.pr.seek(token); err != nil {
		return fmt.Errorf("seek %s: %w", r.path, err)
	}
	return nil
}

// Next reads the next record. Returns nil, nil at end of input.
func (r *Reader) Next() (*Record, error) {
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read record line: %w", err)
		}
		r.lineNumber++

		text := strings.TrimRight(string(line), "\r\n")
		if text == "" {
			continue
		}
		return parseLine(text, r.lineNumber)
	}
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and the underlying file.
func (r *Reader) Close() error {
	if r.bg != nil {
		r.bg.Close()
	}
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}

// readHeader reads header lines up to and including the #CHROM line.
func (r *Reader) readHeader() error {
	hdr := &Header{Infos: make(map[string]InfoField)}
	for {
		line, err := r.readLine()
		if err == io.EOF {
			return &ParseError{Line: r.lineNumber, Message: "no #CHROM header line found"}
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}
		r.lineNumber++

		text := strings.TrimRight(string(line), "\r\n")

		if strings.HasPrefix(text, "##") {
			hdr.Lines = append(hdr.Lines, text)
			if info, ok := parseInfoLine(text); ok {
				hdr.Infos[info.ID] = info
			}
			continue
		}

		if strings.HasPrefix(text, "#CHROM") {
			hdr.Lines = append(hdr.Lines, text)
			hdr.ColumnLine = text
			fields := strings.Split(text, "\t")
			if len(fields) > 9 {
				hdr.Samples = fields[9:]
			}
			r.hdr = hdr
			return nil
		}

		return &ParseError{Line: r.lineNumber, Message: "expected #CHROM header line"}
	}
}

// readLine returns the next line including its newline. For BGZF sources the
// line is read byte by byte: the decompressor buffers whole blocks, and
// consuming past a newline would leave LastChunk pointing beyond the next
// record start.
func (r *Reader) readLine() ([]byte, error) {
	if r.pr != nil {
		return r.pr.readLine()
	}

	buf := r.scratch[:0]
	var b [1]byte
	for {
		n, err := r.bg.Read(b[:])
		if n > 0 {
			buf = append(buf, b[0])
			if b[0] == '\n' {
				r.scratch = buf
				return buf, nil
			}
		}
		if err != nil {
			if err == io.EOF && len(buf) > 0 {
				r.scratch = buf
				return buf, nil
			}
			return nil, err
		}
	}
}

// offsetReader is a buffered reader over a plain file that tracks the byte
// offset of the next unread byte.
type offsetReader struct {
	f   *os.File
	br  *bufio.Reader
	off int64
}

func newOffsetReader(f *os.File) *offsetReader {
	return &offsetReader{f: f, br: bufio.NewReader(f)}
}

func (o *offsetReader) readLine() ([]byte, error) {
	line, err := o.br.ReadBytes('\n')
	o.off += int64(len(line))
	if err == io.EOF && len(line) > 0 {
		return line, nil
	}
	if err != nil {
		return nil, err
	}
	return line, nil
}

func (o *offsetReader) seek(off int64) error {
	if _, err := o.f.Seek(off, io.SeekStart); err != nil {
		return err
	}
	o.br.Reset(o.f)
	o.off = off
	return nil
}
