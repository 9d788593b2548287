// Package output provides query-result formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/sounkou-bioinfo/vbi/internal/vbi"
)

// TableWriter writes materialized rows in tab-delimited format. The column
// set is fixed for the core fields and extended by whichever optional
// columns the query requested.
type TableWriter struct {
	w       *bufio.Writer
	flags   vbi.Flags
	columns []string
}

// NewTableWriter creates a tab-delimited writer for rows materialized with
// the given flags.
func NewTableWriter(w io.Writer, flags vbi.Flags) *TableWriter {
	columns := []string{
		"#CHROM",
		"POS",
		"ID",
		"REF",
		"ALT",
		"QUAL",
		"FILTER",
		"N_ALLELES",
		"RECORD",
	}
	if flags.IncludeInfo {
		columns = append(columns, "INFO")
	}
	if flags.IncludeFormat {
		columns = append(columns, "FORMAT")
	}
	if flags.IncludeGenotypes {
		columns = append(columns, "GENOTYPES")
	}

	return &TableWriter{
		w:       bufio.NewWriter(w),
		flags:   flags,
		columns: columns,
	}
}

// WriteHeader writes the column header line.
func (tw *TableWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single row.
func (tw *TableWriter) Write(row vbi.Row) error {
	pos := vbi.Missing
	if !row.Sentinel {
		pos = strconv.FormatInt(row.Pos, 10)
	}

	values := []string{
		row.Chrom,
		pos,
		row.ID,
		row.Ref,
		row.Alt,
		row.Qual,
		row.Filter,
		strconv.Itoa(row.NumAlleles),
		strconv.FormatInt(row.RecordID+1, 10), // 1-based on the public surface
	}
	if tw.flags.IncludeInfo {
		values = append(values, row.Info)
	}
	if tw.flags.IncludeFormat {
		values = append(values, row.FormatIDs)
	}
	if tw.flags.IncludeGenotypes {
		values = append(values, row.Genotypes)
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// WriteAll writes the header followed by every row and flushes.
func (tw *TableWriter) WriteAll(rows []vbi.Row) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, row := range rows {
		if err := tw.Write(row); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes buffered output.
func (tw *TableWriter) Flush() error {
	return tw.w.Flush()
}
