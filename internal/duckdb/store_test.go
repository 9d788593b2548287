package duckdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sounkou-bioinfo/vbi/internal/vbi"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRows() []vbi.Row {
	return []vbi.Row{
		{
			RecordID: 0, Chrom: "chr1", Pos: 50, ID: "rs1", Ref: "A", Alt: "G",
			Qual: "30", Filter: "PASS", NumAlleles: 2,
			Info: "DP=5", FormatIDs: "GT", Genotypes: "0/0;0/1",
		},
		{
			RecordID: 1, Chrom: "chr1", Pos: 100, ID: "rs2", Ref: "C", Alt: "T",
			Qual: "40", Filter: "PASS", NumAlleles: 2,
			Info: "DP=8", FormatIDs: "GT", Genotypes: "0/1;1/1",
		},
		{
			RecordID: 5, Chrom: "chr2", Pos: 10, ID: "rs6", Ref: "G", Alt: "A",
			Qual: "25", Filter: "PASS", NumAlleles: 2,
		},
	}
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteAndLookupRows(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteRows(sampleRows()))

	row, err := s.LookupRecord(1)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "chr1", row.Chrom)
	assert.Equal(t, int64(100), row.Pos)
	assert.Equal(t, "rs2", row.ID)
	assert.Equal(t, "0/1;1/1", row.Genotypes)
	assert.Equal(t, 2, row.NumAlleles)
	assert.False(t, row.Sentinel)

	row, err = s.LookupRecord(99)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestWriteRowsDeduplicates(t *testing.T) {
	s := openInMemory(t)

	rows := sampleRows()
	// Overlapping regions can hit the same record twice.
	rows = append(rows, rows[0])
	require.NoError(t, s.WriteRows(rows))

	found, err := s.SearchRegion("chr1", 1, 1000)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, int64(0), found[0].RecordID)
	assert.Equal(t, int64(1), found[1].RecordID)
}

func TestSearchRegion(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRows(sampleRows()))

	found, err := s.SearchRegion("chr1", 100, 100)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "rs2", found[0].ID)

	found, err = s.SearchRegion("chr2", 1, 100)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "rs6", found[0].ID)

	found, err = s.SearchRegion("chr3", 1, 100)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestSentinelRowRoundTrip(t *testing.T) {
	s := openInMemory(t)

	rows := []vbi.Row{{
		RecordID: 3, Sentinel: true,
		Chrom: vbi.Missing, ID: vbi.Missing, Ref: vbi.Missing,
		Alt: vbi.Missing, Qual: vbi.Missing, Filter: vbi.Missing,
	}}
	require.NoError(t, s.WriteRows(rows))

	row, err := s.LookupRecord(3)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.True(t, row.Sentinel)
	assert.Equal(t, vbi.Missing, row.Chrom)
}

func TestClearRows(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteRows(sampleRows()))

	require.NoError(t, s.ClearRows())

	row, err := s.LookupRecord(0)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestRecordSource(t *testing.T) {
	s := openInMemory(t)

	now := time.Now().Truncate(time.Second)
	fp := FileFingerprint{Path: "/data/sample.vcf.gz", Size: 1234, ModTime: now}
	require.NoError(t, s.RecordSource(fp))

	got, err := s.Source("/data/sample.vcf.gz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, fp.Size, got.Size)

	// Recording again replaces rather than duplicates.
	fp.Size = 5678
	require.NoError(t, s.RecordSource(fp))
	got, err = s.Source("/data/sample.vcf.gz")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(5678), got.Size)

	got, err = s.Source("/data/other.vcf.gz")
	require.NoError(t, err)
	assert.Nil(t, got)
}
