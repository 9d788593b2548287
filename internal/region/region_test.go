package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_WholeChromosome(t *testing.T) {
	r := Parse("chr1")
	assert.Equal(t, "chr1", r.Chrom)
	assert.Equal(t, int64(0), r.Start)
	assert.Equal(t, int64(MaxEnd), r.End)
	assert.False(t, r.IsPoint)
}

func TestParse_Point(t *testing.T) {
	r := Parse("chr2:1000")
	assert.Equal(t, "chr2", r.Chrom)
	assert.Equal(t, int64(1000), r.Start)
	assert.Equal(t, int64(1000), r.End)
	assert.True(t, r.IsPoint)
}

func TestParse_Range(t *testing.T) {
	r := Parse("X:100-200")
	assert.Equal(t, "X", r.Chrom)
	assert.Equal(t, int64(100), r.Start)
	assert.Equal(t, int64(200), r.End)
	assert.False(t, r.IsPoint)
}

func TestParse_MalformedCoordinatesBecomeZero(t *testing.T) {
	// No validation by design: bad numbers parse to 0 instead of erroring.
	r := Parse("chr1:abc")
	assert.Equal(t, int64(0), r.Start)
	assert.Equal(t, int64(0), r.End)

	r = Parse("chr1:100-")
	assert.Equal(t, int64(100), r.Start)
	assert.Equal(t, int64(0), r.End, "open-ended range parses to end=0 and matches nothing")
}

func TestParseMulti(t *testing.T) {
	regions := ParseMulti("chr1:100-200,chr2:500,chr3")
	assert.Len(t, regions, 3)
	assert.Equal(t, "chr1", regions[0].Chrom)
	assert.True(t, regions[1].IsPoint)
	assert.Equal(t, int64(MaxEnd), regions[2].End)
}

func TestParseMulti_SkipsEmptyTokens(t *testing.T) {
	regions := ParseMulti("chr1,,chr2")
	assert.Len(t, regions, 2)
}

func TestContains(t *testing.T) {
	r := Parse("chr1:100-200")
	assert.True(t, r.Contains("chr1", 100), "start boundary inclusive")
	assert.True(t, r.Contains("chr1", 200), "end boundary inclusive")
	assert.False(t, r.Contains("chr1", 99))
	assert.False(t, r.Contains("chr1", 201))
	assert.False(t, r.Contains("chr2", 150), "other chromosome")
}
