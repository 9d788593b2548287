// Package region parses genomic region specifiers.
package region

import (
	"math"
	"strconv"
	"strings"
)

// MaxEnd is the end coordinate of an unbounded region ("chr1" with no range).
const MaxEnd = math.MaxInt64

// Region is a chromosome name with an inclusive 1-based coordinate range.
type Region struct {
	Chrom   string
	Start   int64
	End     int64
	IsPoint bool
}

// Contains reports whether the given position on chrom falls inside the region.
func (r Region) Contains(chrom string, pos int64) bool {
	return chrom == r.Chrom && pos >= r.Start && pos <= r.End
}

// Parse parses a single region specifier. Accepted forms:
//
//	chrom            whole chromosome
//	chrom:pos        single position
//	chrom:start-end  inclusive range
//
// Coordinates are not validated: malformed numeric text parses to 0 and
// start > end is allowed; such regions simply match nothing.
func Parse(spec string) Region {
	colon := strings.IndexByte(spec, ':')
	if colon < 0 {
		return Region{Chrom: spec, Start: 0, End: MaxEnd}
	}

	chrom := spec[:colon]
	coords := spec[colon+1:]

	dash := strings.IndexByte(coords, '-')
	if dash < 0 {
		pos := parseCoord(coords)
		return Region{Chrom: chrom, Start: pos, End: pos, IsPoint: true}
	}

	return Region{
		Chrom: chrom,
		Start: parseCoord(coords[:dash]),
		End:   parseCoord(coords[dash+1:]),
	}
}

// ParseMulti parses a comma-separated list of region specifiers.
// Empty tokens are skipped.
func ParseMulti(spec string) []Region {
	var regions []Region
	for _, tok := range strings.Split(spec, ",") {
		if tok == "" {
			continue
		}
		regions = append(regions, Parse(tok))
	}
	return regions
}

func parseCoord(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
