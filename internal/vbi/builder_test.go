package vbi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sounkou-bioinfo/vbi/internal/vcf"
)

func TestBuild_MatchesSequentialScan(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		name := "plain"
		if compressed {
			name = "bgzf"
		}
		t.Run(name, func(t *testing.T) {
			src, ix := buildTestIndex(t, compressed)

			chroms, positions, _ := scanSource(t, src)
			require.Equal(t, int64(len(positions)), ix.RecordCount())
			assert.Equal(t, int64(2), ix.SampleCount)
			assert.Equal(t, []string{"chr1", "chr2"}, ix.Chroms, "first-seen interning order")

			for i := range positions {
				assert.Equal(t, chroms[i], ix.ChromName(int64(i)), "record %d chromosome", i)
				assert.Equal(t, positions[i], ix.Positions[i], "record %d position", i)
			}
		})
	}
}

func TestBuild_OffsetsReplayToRecordStarts(t *testing.T) {
	for _, compressed := range []bool{false, true} {
		name := "plain"
		if compressed {
			name = "bgzf"
		}
		t.Run(name, func(t *testing.T) {
			src, ix := buildTestIndex(t, compressed)
			_, _, lines := scanSource(t, src)

			r, err := vcf.Open(src, 1)
			require.NoError(t, err)
			defer r.Close()

			// Replay out of file order to prove tokens are independent.
			for i := int(ix.RecordCount()) - 1; i >= 0; i-- {
				require.NoError(t, r.Seek(ix.Offsets[i]))
				rec, err := r.Next()
				require.NoError(t, err)
				require.NotNil(t, rec, "record %d", i)
				assert.Equal(t, lines[i], rec.Line, "record %d", i)
			}
		})
	}
}

func TestBuild_ThreadHint(t *testing.T) {
	src := writeTestVCF(t, true)
	out := src + ".vbi"
	ix, err := Build(src, out, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(10), ix.RecordCount())
}

func TestBuild_MissingSource(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.vbi")
	_, err := Build(filepath.Join(dir, "nope.vcf"), out, 1)
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no index file on failed build")
}

func TestBuild_UnwritableDestination(t *testing.T) {
	src := writeTestVCF(t, false)
	_, err := Build(src, filepath.Join(t.TempDir(), "missing", "out.vbi"), 1)
	require.Error(t, err)
}
