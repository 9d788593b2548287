package duckdb

import (
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a source file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// RecordSource upserts the fingerprint of the VCF a set of rows came from,
// so an export can later be checked against the file it was built from.
func (s *Store) RecordSource(fp FileFingerprint) error {
	if _, err := s.db.Exec("DELETE FROM source_files WHERE path=?", fp.Path); err != nil {
		return fmt.Errorf("replace source: %w", err)
	}
	_, err := s.db.Exec(
		"INSERT INTO source_files (path, size, mod_time) VALUES (?, ?, ?)",
		fp.Path, fp.Size, fp.ModTime,
	)
	return err
}

// Source returns the recorded fingerprint for a source path, or nil when the
// path has not been recorded.
func (s *Store) Source(path string) (*FileFingerprint, error) {
	rows, err := s.db.Query("SELECT path, size, mod_time FROM source_files WHERE path=?", path)
	if err != nil {
		return nil, fmt.Errorf("query source: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var fp FileFingerprint
	if err := rows.Scan(&fp.Path, &fp.Size, &fp.ModTime); err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	return &fp, rows.Err()
}
