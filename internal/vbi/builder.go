package vbi

import (
	"fmt"

	"github.com/sounkou-bioinfo/vbi/internal/vcf"
)

// Build scans src once and writes a VBI index to out. The seek token for each
// record is captured before the record is decoded, so replaying a token lands
// exactly on the record start. threads is forwarded to the decompression
// layer only. Build returns the index it wrote.
func Build(src, out string, threads int) (*Index, error) {
	fp, err := fingerprintOf(src)
	if err != nil {
		return nil, err
	}

	r, err := vcf.Open(src, threads)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	ix := &Index{
		SampleCount: int64(len(r.Header().Samples)),
		ChromIDs:    make([]int32, 0, 1024),
		Positions:   make([]int64, 0, 1024),
		Offsets:     make([]int64, 0, 1024),
		Fingerprint: fp,
	}

	intern := make(map[string]int32)
	for {
		token := r.Tell()
		rec, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", src, err)
		}
		if rec == nil {
			break
		}

		id, ok := intern[rec.Chrom]
		if !ok {
			id = int32(len(ix.Chroms))
			ix.Chroms = append(ix.Chroms, rec.Chrom)
			intern[rec.Chrom] = id
		}

		ix.ChromIDs = append(ix.ChromIDs, id)
		ix.Positions = append(ix.Positions, rec.Pos)
		ix.Offsets = append(ix.Offsets, token)
	}

	if err := WriteIndex(ix, out); err != nil {
		return nil, err
	}
	return ix, nil
}
