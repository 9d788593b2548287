package vbi

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// Index file layout, little-endian throughout:
//
//	magic            [4]byte "VBIX"
//	version          int32
//	fingerprint      size int64, mtime int64
//	sample_count     int64
//	record_count     int64
//	chrom_count      int32
//	chrom table      chrom_count × (len int32, raw bytes)
//	records          record_count × (chrom_id int32, position int64, offset int64)
//	checksum         uint32, CRC-32 (IEEE) of everything after the magic
const (
	indexVersion = 1

	// Chromosome names longer than this indicate a corrupt table.
	maxChromNameLen = 1 << 20
)

var indexMagic = [4]byte{'V', 'B', 'I', 'X'}

var (
	ErrBadMagic    = errors.New("vbi: not a VBI index file")
	ErrVersion     = errors.New("vbi: unsupported index version")
	ErrChecksum    = errors.New("vbi: index checksum mismatch")
	ErrFingerprint = errors.New("vbi: index does not match source file")
)

// WriteIndex serializes ix to path. The index is written to a temporary file
// and renamed into place, so an interrupted write never leaves a partial
// index at path.
func WriteIndex(ix *Index, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	if err := writeIndexTo(f, ix); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write index %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close index file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename index file: %w", err)
	}
	return nil
}

func writeIndexTo(f io.Writer, ix *Index) error {
	bw := bufio.NewWriter(f)
	if _, err := bw.Write(indexMagic[:]); err != nil {
		return err
	}

	// The checksum covers everything between the magic and the trailing CRC.
	crc := crc32.NewIEEE()
	w := io.MultiWriter(bw, crc)

	fields := []any{
		int32(indexVersion),
		ix.Fingerprint.Size,
		ix.Fingerprint.ModTime,
		ix.SampleCount,
		ix.RecordCount(),
		int32(len(ix.Chroms)),
	}
	for _, v := range fields {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	for _, name := range ix.Chroms {
		if err := binary.Write(w, binary.LittleEndian, int32(len(name))); err != nil {
			return err
		}
		if _, err := w.Write([]byte(name)); err != nil {
			return err
		}
	}

	for i := range ix.Positions {
		if err := binary.Write(w, binary.LittleEndian, ix.ChromIDs[i]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, ix.Positions[i]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, ix.Offsets[i]); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, crc.Sum32()); err != nil {
		return err
	}
	return bw.Flush()
}

// LoadIndex reads a VBI index from path and eagerly builds its interval
// index. Truncated or malformed input aborts the load.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	ix, err := readIndexFrom(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load index %s: %w", path, err)
	}
	ix.ensureTree()
	return ix, nil
}

func readIndexFrom(br io.Reader) (*Index, error) {
	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, truncated(err)
	}
	if magic != indexMagic {
		return nil, ErrBadMagic
	}

	crc := crc32.NewIEEE()
	r := io.TeeReader(br, crc)

	var version int32
	if err := readLE(r, &version); err != nil {
		return nil, err
	}
	if version != indexVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, version)
	}

	ix := &Index{}
	var recordCount int64
	var chromCount int32
	for _, v := range []any{
		&ix.Fingerprint.Size,
		&ix.Fingerprint.ModTime,
		&ix.SampleCount,
		&recordCount,
		&chromCount,
	} {
		if err := readLE(r, v); err != nil {
			return nil, err
		}
	}
	if recordCount < 0 || chromCount < 0 {
		return nil, fmt.Errorf("corrupt index: negative counts")
	}

	ix.Chroms = make([]string, chromCount)
	for i := range ix.Chroms {
		var n int32
		if err := readLE(r, &n); err != nil {
			return nil, err
		}
		if n < 0 || n > maxChromNameLen {
			return nil, fmt.Errorf("corrupt index: chromosome name length %d", n)
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, truncated(err)
		}
		ix.Chroms[i] = string(name)
	}

	ix.ChromIDs = make([]int32, recordCount)
	ix.Positions = make([]int64, recordCount)
	ix.Offsets = make([]int64, recordCount)
	for i := int64(0); i < recordCount; i++ {
		if err := readLE(r, &ix.ChromIDs[i]); err != nil {
			return nil, err
		}
		if err := readLE(r, &ix.Positions[i]); err != nil {
			return nil, err
		}
		if err := readLE(r, &ix.Offsets[i]); err != nil {
			return nil, err
		}
		if c := ix.ChromIDs[i]; c < 0 || c >= chromCount {
			return nil, fmt.Errorf("corrupt index: record %d references chromosome %d of %d", i, c, chromCount)
		}
	}

	sum := crc.Sum32()
	var stored uint32
	// Read the trailing checksum from br directly so it is not hashed itself.
	if err := binary.Read(br, binary.LittleEndian, &stored); err != nil {
		return nil, truncated(err)
	}
	if stored != sum {
		return nil, fmt.Errorf("%w: stored %08x, computed %08x", ErrChecksum, stored, sum)
	}

	return ix, nil
}

func readLE(r io.Reader, v any) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return truncated(err)
	}
	return nil
}

func truncated(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("truncated index: %w", err)
	}
	return err
}
