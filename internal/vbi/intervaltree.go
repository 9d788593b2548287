package vbi

import "sort"

// intervalTree provides O(log n + k) overlap queries over the indexed
// records using a sorted-slice approach. Entries are loaded once at index
// load time and never modified afterwards.
type intervalTree struct {
	chroms map[string]*chromTree
}

type chromTree struct {
	entries []treeEntry
	maxEnd  []int64 // maxEnd[i] = max(end) for entries[:i+1]
}

// treeEntry is one record as a zero-length interval: start == end == position.
type treeEntry struct {
	start int64
	end   int64
	id    int64
}

// buildIntervalTree creates the interval index from the loaded arrays: one
// point interval per record, grouped by chromosome, then sorted and
// augmented so overlap queries are sub-linear.
func buildIntervalTree(ix *Index) *intervalTree {
	t := &intervalTree{chroms: make(map[string]*chromTree, len(ix.Chroms))}

	for i := int64(0); i < ix.RecordCount(); i++ {
		name := ix.ChromName(i)
		ct := t.chroms[name]
		if ct == nil {
			ct = &chromTree{}
			t.chroms[name] = ct
		}
		pos := ix.Positions[i]
		ct.entries = append(ct.entries, treeEntry{start: pos, end: pos, id: i})
	}

	for _, ct := range t.chroms {
		ct.finalize()
	}
	return t
}

func (ct *chromTree) finalize() {
	sort.Slice(ct.entries, func(i, j int) bool {
		return ct.entries[i].start < ct.entries[j].start
	})

	// Prefix-max array: maxEnd[i] = max(end) over entries[:i+1], so a
	// backward scan can stop as soon as no earlier entry can still overlap.
	ct.maxEnd = make([]int64, len(ct.entries))
	for i, e := range ct.entries {
		ct.maxEnd[i] = e.end
		if i > 0 && ct.maxEnd[i-1] > ct.maxEnd[i] {
			ct.maxEnd[i] = ct.maxEnd[i-1]
		}
	}
}

// overlap returns the ids of all entries on chrom overlapping the inclusive
// [start, end] range, in ascending start order.
func (t *intervalTree) overlap(chrom string, start, end int64) []int64 {
	ct := t.chroms[chrom]
	if ct == nil || len(ct.entries) == 0 {
		return nil
	}

	// Candidates are entries with start <= end of the query range.
	hi := sort.Search(len(ct.entries), func(i int) bool {
		return ct.entries[i].start > end
	})

	var hits []int64
	for i := hi - 1; i >= 0; i-- {
		if ct.maxEnd[i] < start {
			break
		}
		if ct.entries[i].end >= start {
			hits = append(hits, ct.entries[i].id)
		}
	}

	// The scan runs backward; flip to ascending start order.
	for i, j := 0, len(hits)-1; i < j; i, j = i+1, j-1 {
		hits[i], hits[j] = hits[j], hits[i]
	}
	return hits
}
