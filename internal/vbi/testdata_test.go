package vbi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bgzf"
	"github.com/stretchr/testify/require"

	"github.com/sounkou-bioinfo/vbi/internal/vcf"
)

// testVCFText is a 10-record, 2-chromosome, 2-sample fixture. chr1:300 comes
// after the chr2 block on purpose: index order is file-traversal order, not
// sorted across chromosomes.
func testVCFText() string {
	header := []string{
		"##fileformat=VCFv4.2",
		`##INFO=<ID=DP,Number=1,Type=Integer,Description="Total Depth">`,
		`##INFO=<ID=CSQ,Number=.,Type=String,Description="Consequence annotations from Ensembl VEP. Format: Allele|Consequence|IMPACT|SYMBOL">`,
		`##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">`,
		`##FORMAT=<ID=DP,Number=1,Type=Integer,Description="Read Depth">`,
		strings.Join([]string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO", "FORMAT", "S1", "S2"}, "\t"),
	}
	records := [][]string{
		{"chr1", "50", "rs1", "A", "G", "30", "PASS", "DP=5", "GT:DP", "0/0:3", "0/1:7"},
		{"chr1", "100", "rs2", "C", "T", "40", "PASS", "DP=8;CSQ=T|missense_variant|MODERATE|GENE1", "GT:DP", "0/1:2", "1/1:9"},
		{"chr1", "150", ".", "G", "A,C", ".", ".", "DP=9", "GT:DP", "1|2:4", "0/0:5"},
		{"chr1", "200", "rs4", "T", "C", "99", "q10", "DP=3", "GT:DP", "./.:0", "0/1:6"},
		{"chr1", "250", "rs5", "A", "T", "12", "PASS", "DP=4", "GT:DP", "0/0:1", "0/0:2"},
		{"chr2", "10", "rs6", "G", "C", "55", "PASS", "DP=6", "GT:DP", "0/1:3", "0/1:4"},
		{"chr2", "20", "rs7", "T", "A", "60", "PASS", "DP=7;CSQ=A|synonymous_variant|LOW|GENE2,A|upstream_gene_variant|MODIFIER|GENE3", "GT:DP", "1/1:8", "0/0:9"},
		{"chr2", "30", ".", "C", ".", ".", "PASS", "DP=2", "GT:DP", "0/0:1", "./.:0"},
		{"chr1", "300", "rs9", "G", "T", "45", "PASS", "DP=10", "GT:DP", "0/1:5", "0/0:4"},
		{"chr2", "40", "rs10", "A", "C", "20", "s50;q10", "DP=1", "GT:DP", "1/1:2", "1/1:3"},
	}

	var b strings.Builder
	for _, line := range header {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	for _, rec := range records {
		b.WriteString(strings.Join(rec, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeTestVCF(t *testing.T, compressed bool) string {
	t.Helper()
	dir := t.TempDir()
	if !compressed {
		path := filepath.Join(dir, "test.vcf")
		require.NoError(t, os.WriteFile(path, []byte(testVCFText()), 0644))
		return path
	}

	path := filepath.Join(dir, "test.vcf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := bgzf.NewWriter(f, 1)
	_, err = w.Write([]byte(testVCFText()))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

// buildTestIndex builds and loads an index for a fresh fixture, returning
// the source path and the loaded index.
func buildTestIndex(t *testing.T, compressed bool) (string, *Index) {
	t.Helper()
	src := writeTestVCF(t, compressed)
	out := src + ".vbi"
	_, err := Build(src, out, 1)
	require.NoError(t, err)
	ix, err := LoadIndex(out)
	require.NoError(t, err)
	return src, ix
}

// scanSource independently re-reads the fixture, returning chrom/pos pairs
// and raw lines in file order.
func scanSource(t *testing.T, src string) (chroms []string, positions []int64, lines []string) {
	t.Helper()
	r, err := vcf.Open(src, 1)
	require.NoError(t, err)
	defer r.Close()
	for {
		rec, err := r.Next()
		require.NoError(t, err)
		if rec == nil {
			return
		}
		chroms = append(chroms, rec.Chrom)
		positions = append(positions, rec.Pos)
		lines = append(lines, rec.Line)
	}
}
