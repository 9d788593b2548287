package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/sounkou-bioinfo/vbi/internal/vbi"
)

// WriteRows batch-inserts materialized rows into DuckDB using the Appender
// API. Duplicate record ids (the same record hit by overlapping regions) are
// deduplicated before writing.
func (s *Store) WriteRows(rows []vbi.Row) error {
	if len(rows) == 0 {
		return nil
	}

	seen := make(map[int64]bool, len(rows))
	deduped := make([]vbi.Row, 0, len(rows))
	for _, r := range rows {
		if !seen[r.RecordID] {
			seen[r.RecordID] = true
			deduped = append(deduped, r)
		}
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "variant_rows")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range deduped {
		if err := appender.AppendRow(
			r.RecordID, r.Chrom, r.Pos, r.ID, r.Ref, r.Alt,
			r.Qual, r.Filter, int32(r.NumAlleles),
			r.Info, r.FormatIDs, r.Genotypes, r.Sentinel,
		); err != nil {
			return fmt.Errorf("append row: %w", err)
		}
	}

	return appender.Flush()
}

// ClearRows removes all exported rows.
func (s *Store) ClearRows() error {
	_, err := s.db.Exec("DELETE FROM variant_rows")
	return err
}

// LookupRecord returns the exported row with the given record id, or nil when
// no such row was exported.
func (s *Store) LookupRecord(recordID int64) (*vbi.Row, error) {
	rows, err := s.db.Query(`SELECT
		record_id, chrom, pos, id, ref, alt, qual, filter,
		n_alleles, info, format, genotypes, sentinel
		FROM variant_rows WHERE record_id=?`, recordID)
	if err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	defer rows.Close()

	out, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

// SearchRegion returns exported rows with chrom equal to the given name and
// pos within [start, end], ordered by record id.
func (s *Store) SearchRegion(chrom string, start, end int64) ([]vbi.Row, error) {
	rows, err := s.db.Query(`SELECT
		record_id, chrom, pos, id, ref, alt, qual, filter,
		n_alleles, info, format, genotypes, sentinel
		FROM variant_rows
		WHERE chrom=? AND pos>=? AND pos<=?
		ORDER BY record_id`, chrom, start, end)
	if err != nil {
		return nil, fmt.Errorf("query region: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows scans result rows into vbi.Row slices.
func scanRows(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]vbi.Row, error) {
	var out []vbi.Row
	for rows.Next() {
		var r vbi.Row
		var nAlleles int32
		if err := rows.Scan(
			&r.RecordID, &r.Chrom, &r.Pos, &r.ID, &r.Ref, &r.Alt,
			&r.Qual, &r.Filter, &nAlleles,
			&r.Info, &r.FormatIDs, &r.Genotypes, &r.Sentinel,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		r.NumAlleles = int(nAlleles)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
