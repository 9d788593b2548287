package vbi

import "github.com/sounkou-bioinfo/vbi/internal/region"

// QueryRegionsLinear returns the ids of all records falling inside any of
// the given regions, by scanning the whole index. Output order is file
// order; each record is matched at most once even when regions overlap.
func QueryRegionsLinear(ix *Index, regions []region.Region) []int64 {
	var hits []int64
	n := ix.RecordCount()
	for i := int64(0); i < n; i++ {
		chrom := ix.ChromName(i)
		pos := ix.Positions[i]
		for _, reg := range regions {
			if reg.Contains(chrom, pos) {
				hits = append(hits, i)
				break
			}
		}
	}
	return hits
}

// QueryRegionsTree answers the same predicate as QueryRegionsLinear through
// the interval index. The result is set-equal to the linear query but its
// order is tree-traversal order (ascending position within each region),
// which is not a stable contract; callers needing file order use the linear
// query.
func QueryRegionsTree(ix *Index, regions []region.Region) []int64 {
	t := ix.ensureTree()

	var hits []int64
	var seen map[int64]struct{}
	if len(regions) > 1 {
		seen = make(map[int64]struct{})
	}

	for _, reg := range regions {
		for _, id := range t.overlap(reg.Chrom, reg.Start, reg.End) {
			if seen != nil {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
			}
			hits = append(hits, id)
		}
	}
	return hits
}

// QueryIndexRange returns the contiguous record ids for a 1-based inclusive
// [start, end] range. Both endpoints are clamped to the valid range rather
// than rejected; an inverted range after clamping yields an empty result.
func QueryIndexRange(ix *Index, start, end int64) []int64 {
	start--
	end--
	if start < 0 {
		start = 0
	}
	if n := ix.RecordCount(); end >= n {
		end = n - 1
	}
	if end < start {
		return nil
	}

	ids := make([]int64, 0, end-start+1)
	for i := start; i <= end; i++ {
		ids = append(ids, i)
	}
	return ids
}
