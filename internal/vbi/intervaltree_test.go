package vbi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func treeFor(chroms []string, positions []int64) *intervalTree {
	ix := &Index{}
	intern := make(map[string]int32)
	for i, c := range chroms {
		id, ok := intern[c]
		if !ok {
			id = int32(len(ix.Chroms))
			ix.Chroms = append(ix.Chroms, c)
			intern[c] = id
		}
		ix.ChromIDs = append(ix.ChromIDs, id)
		ix.Positions = append(ix.Positions, positions[i])
		ix.Offsets = append(ix.Offsets, int64(i))
	}
	return buildIntervalTree(ix)
}

func TestIntervalTree_Empty(t *testing.T) {
	tree := buildIntervalTree(&Index{})
	assert.Empty(t, tree.overlap("chr1", 0, 1000))
}

func TestIntervalTree_SinglePoint(t *testing.T) {
	tree := treeFor([]string{"chr1"}, []int64{100})

	assert.Equal(t, []int64{0}, tree.overlap("chr1", 50, 150))
	assert.Equal(t, []int64{0}, tree.overlap("chr1", 100, 100), "point query on the point")
	assert.Equal(t, []int64{0}, tree.overlap("chr1", 100, 200), "start boundary inclusive")
	assert.Equal(t, []int64{0}, tree.overlap("chr1", 50, 100), "end boundary inclusive")
	assert.Empty(t, tree.overlap("chr1", 101, 200))
	assert.Empty(t, tree.overlap("chr1", 0, 99))
	assert.Empty(t, tree.overlap("chr2", 50, 150), "unknown chromosome")
}

func TestIntervalTree_UnsortedInput(t *testing.T) {
	// Build order is file order; the tree must answer in position order.
	tree := treeFor(
		[]string{"chr1", "chr1", "chr1", "chr1"},
		[]int64{300, 100, 200, 50},
	)

	assert.Equal(t, []int64{1, 2}, tree.overlap("chr1", 100, 200))
	assert.Equal(t, []int64{3, 1, 2, 0}, tree.overlap("chr1", 0, 1000), "ascending position, ids in file numbering")
}

func TestIntervalTree_ChromosomesAreIndependent(t *testing.T) {
	tree := treeFor(
		[]string{"chr1", "chr2", "chr1", "chr2"},
		[]int64{100, 100, 200, 200},
	)

	assert.Equal(t, []int64{0, 2}, tree.overlap("chr1", 0, 1000))
	assert.Equal(t, []int64{1, 3}, tree.overlap("chr2", 0, 1000))
}

func TestIntervalTree_DuplicatePositions(t *testing.T) {
	tree := treeFor([]string{"chr1", "chr1", "chr1"}, []int64{100, 100, 100})
	assert.Len(t, tree.overlap("chr1", 100, 100), 3)
}
