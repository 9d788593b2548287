package vbi

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sounkou-bioinfo/vbi/internal/vcf"
)

// Missing is the sentinel substituted for any field that cannot be decoded.
const Missing = "."

// Flags selects the optional columns a materialized row carries, in addition
// to the fixed core columns. Column presence is driven jointly by these
// flags and by what the source header declares.
type Flags struct {
	IncludeInfo      bool
	IncludeFormat    bool
	IncludeGenotypes bool
}

// AnnTable is a structured multi-value annotation field (CSQ/BCSQ): one row
// per annotation entry, columns named by the header's pipe-delimited Format
// declaration.
type AnnTable struct {
	Fields []string
	Rows   [][]string
}

// Row is one materialized record. A row whose record could not be re-read
// has Sentinel set and every string column holding Missing.
type Row struct {
	RecordID int64
	Sentinel bool

	Chrom      string
	Pos        int64
	ID         string
	Ref        string
	Alt        string // comma-joined alternate alleles, "." when none
	Qual       string
	Filter     string
	NumAlleles int

	// Flag-gated columns; zero values when not requested.
	Info      string // aggregated "key=value;..." string
	FormatIDs string // semicolon-joined FORMAT identifiers
	Genotypes string // per-sample genotypes, samples joined by ';'
	CSQ       *AnnTable
	BCSQ      *AnnTable
}

// Materializer re-reads indexed records into tabular rows. Seek or decode
// failures for individual records are tolerated: the affected row is filled
// with sentinels and the batch continues.
type Materializer struct {
	rdr    *vcf.Reader
	ix     *Index
	logger *zap.Logger
}

// NewMaterializer creates a materializer over an open reader and its index.
func NewMaterializer(rdr *vcf.Reader, ix *Index) *Materializer {
	return &Materializer{rdr: rdr, ix: ix, logger: zap.NewNop()}
}

// SetLogger sets the logger for per-record failure messages.
func (m *Materializer) SetLogger(l *zap.Logger) {
	m.logger = l
}

// Rows materializes one row per record id, in the given order. The result
// always has len(ids) rows; failed records come back sentineled.
func (m *Materializer) Rows(ids []int64, flags Flags) []Row {
	rows := make([]Row, len(ids))
	for i, id := range ids {
		rows[i] = m.row(id, flags)
	}
	return rows
}

// Lines re-reads the raw record line for each id. Failed records yield an
// empty string, matching the batch-tolerant row semantics.
func (m *Materializer) Lines(ids []int64) []string {
	lines := make([]string, len(ids))
	for i, id := range ids {
		rec := m.fetch(id)
		if rec == nil {
			continue
		}
		lines[i] = rec.Line
	}
	return lines
}

// fetch seeks to a record's stored token and decodes exactly one record.
// Any failure returns nil.
func (m *Materializer) fetch(id int64) *vcf.Record {
	if id < 0 || id >= m.ix.RecordCount() {
		m.logger.Warn("record id out of range", zap.Int64("record", id))
		return nil
	}
	if err := m.rdr.Seek(m.ix.Offsets[id]); err != nil {
		m.logger.Warn("seek failed", zap.Int64("record", id), zap.Error(err))
		return nil
	}
	rec, err := m.rdr.Next()
	if err != nil {
		m.logger.Warn("decode failed", zap.Int64("record", id), zap.Error(err))
		return nil
	}
	if rec == nil {
		m.logger.Warn("offset past end of file", zap.Int64("record", id))
	}
	return rec
}

func (m *Materializer) row(id int64, flags Flags) Row {
	rec := m.fetch(id)
	if rec == nil {
		return sentinelRow(id)
	}

	row := Row{
		RecordID:   id,
		Chrom:      rec.Chrom,
		Pos:        rec.Pos,
		ID:         rec.ID,
		Ref:        rec.Ref,
		Alt:        Missing,
		Qual:       rec.Qual,
		Filter:     rec.Filter,
		NumAlleles: rec.AlleleCount(),
	}
	if row.ID == "" {
		row.ID = Missing
	}
	if len(rec.Alt) > 0 {
		row.Alt = strings.Join(rec.Alt, ",")
	}
	if row.Qual == "" {
		row.Qual = Missing
	}
	if row.Filter == "" || row.Filter == Missing {
		row.Filter = "PASS"
	}

	hdr := m.rdr.Header()
	if flags.IncludeInfo {
		row.Info = rec.Info
		if row.Info == "" {
			row.Info = Missing
		}
		row.CSQ = annTable(hdr, rec, "CSQ")
		row.BCSQ = annTable(hdr, rec, "BCSQ")
	}
	if flags.IncludeFormat {
		row.FormatIDs = Missing
		if len(rec.Format) > 0 {
			row.FormatIDs = strings.Join(rec.Format, ";")
		}
	}
	if flags.IncludeGenotypes {
		row.Genotypes = genotypeString(rec)
	}

	return row
}

func sentinelRow(id int64) Row {
	return Row{
		RecordID:  id,
		Sentinel:  true,
		Chrom:     Missing,
		ID:        Missing,
		Ref:       Missing,
		Alt:       Missing,
		Qual:      Missing,
		Filter:    Missing,
		Info:      Missing,
		FormatIDs: Missing,
		Genotypes: Missing,
	}
}

// annTable structures one multi-value annotation INFO field into a table
// keyed by the header-declared sub-field names. A record without the field,
// or a header without its Format declaration, yields nil rather than an
// error.
func annTable(hdr *vcf.Header, rec *vcf.Record, name string) *AnnTable {
	fields := hdr.AnnFields(name)
	if fields == nil {
		return nil
	}
	value, ok := rec.InfoGet(name)
	if !ok || value == "" {
		return nil
	}

	entries := strings.Split(value, ",")
	rows := make([][]string, len(entries))
	for i, entry := range entries {
		cols := strings.Split(entry, "|")
		row := make([]string, len(fields))
		for j := range row {
			row[j] = Missing
			if j < len(cols) && cols[j] != "" {
				row[j] = cols[j]
			}
		}
		rows[i] = row
	}
	return &AnnTable{Fields: fields, Rows: rows}
}

// genotypeString renders per-sample genotypes: allele indexes joined by '/',
// samples joined by ';', missing alleles as '.'.
func genotypeString(rec *vcf.Record) string {
	gtIdx := -1
	for i, f := range rec.Format {
		if f == "GT" {
			gtIdx = i
			break
		}
	}
	if gtIdx < 0 || len(rec.Samples) == 0 {
		return Missing
	}

	gts := make([]string, len(rec.Samples))
	for i, sample := range rec.Samples {
		parts := strings.Split(sample, ":")
		if gtIdx >= len(parts) {
			gts[i] = Missing
			continue
		}
		// Phased separators normalize to '/'.
		gts[i] = strings.ReplaceAll(parts[gtIdx], "|", "/")
	}
	return strings.Join(gts, ";")
}
