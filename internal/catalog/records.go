package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newUUID() string { return uuid.NewString() }

// DatasetRecord describes a saved training dataset archive.
type DatasetRecord struct {
	ID            string
	Path          string
	Reconstructor string
	Samples       int
	Channels      int
	PatternHeight int
	PatternWidth  int
	PatchHeight   int
	PatchWidth    int
	CreatedAt     time.Time
}

// ScanRecord describes a written scan file. The bounds are nil for an empty
// scan.
type ScanRecord struct {
	ID          string
	Name        string
	Initializer string
	Transform   string
	Path        string
	Points      int
	MinX, MaxX  *decimal.Decimal
	MinY, MaxY  *decimal.Decimal
	CreatedAt   time.Time
}

// RecordDataset inserts rec. A missing ID or timestamp is filled in; the
// stored record is returned.
func (s *Store) RecordDataset(ctx context.Context, rec DatasetRecord) (DatasetRecord, error) {
	s.stamp(&rec.ID, &rec.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO training_datasets (
			dataset_id, path, reconstructor, samples, channels,
			pattern_height, pattern_width, patch_height, patch_width,
			created_unix_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Path, rec.Reconstructor, rec.Samples, rec.Channels,
		rec.PatternHeight, rec.PatternWidth, rec.PatchHeight, rec.PatchWidth,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return DatasetRecord{}, fmt.Errorf("record dataset %s: %w", rec.Path, err)
	}
	logf("recorded dataset %s (%d samples) as %s", rec.Path, rec.Samples, rec.ID)
	return rec, nil
}

// ListDatasets returns all dataset records, oldest first.
func (s *Store) ListDatasets(ctx context.Context) ([]DatasetRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT dataset_id, path, reconstructor, samples, channels,
		       pattern_height, pattern_width, patch_height, patch_width,
		       created_unix_ns
		FROM training_datasets
		ORDER BY created_unix_ns, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []DatasetRecord
	for rows.Next() {
		var rec DatasetRecord
		var created int64
		if err := rows.Scan(
			&rec.ID, &rec.Path, &rec.Reconstructor, &rec.Samples, &rec.Channels,
			&rec.PatternHeight, &rec.PatternWidth, &rec.PatchHeight, &rec.PatchWidth,
			&created,
		); err != nil {
			return nil, fmt.Errorf("scan dataset row: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordScan inserts rec. A missing ID or timestamp is filled in; the stored
// record is returned.
func (s *Store) RecordScan(ctx context.Context, rec ScanRecord) (ScanRecord, error) {
	s.stamp(&rec.ID, &rec.CreatedAt)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scans (
			scan_id, name, initializer, transform, path, points,
			min_x, max_x, min_y, max_y, created_unix_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Initializer, rec.Transform, rec.Path, rec.Points,
		decimalText(rec.MinX), decimalText(rec.MaxX),
		decimalText(rec.MinY), decimalText(rec.MaxY),
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return ScanRecord{}, fmt.Errorf("record scan %s: %w", rec.Path, err)
	}
	logf("recorded scan %s (%d points) as %s", rec.Path, rec.Points, rec.ID)
	return rec, nil
}

// ListScans returns all scan records, oldest first.
func (s *Store) ListScans(ctx context.Context) ([]ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT scan_id, name, initializer, transform, path, points,
		       min_x, max_x, min_y, max_y, created_unix_ns
		FROM scans
		ORDER BY created_unix_ns, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		var minX, maxX, minY, maxY sql.NullString
		var created int64
		if err := rows.Scan(
			&rec.ID, &rec.Name, &rec.Initializer, &rec.Transform, &rec.Path, &rec.Points,
			&minX, &maxX, &minY, &maxY, &created,
		); err != nil {
			return nil, fmt.Errorf("scan scan row: %w", err)
		}
		for _, f := range []struct {
			src sql.NullString
			dst **decimal.Decimal
		}{{minX, &rec.MinX}, {maxX, &rec.MaxX}, {minY, &rec.MinY}, {maxY, &rec.MaxY}} {
			d, err := parseDecimal(f.src)
			if err != nil {
				return nil, fmt.Errorf("scan %s bounds: %w", rec.ID, err)
			}
			*f.dst = d
		}
		rec.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) stamp(id *string, created *time.Time) {
	if *id == "" {
		*id = s.newID()
	}
	if created.IsZero() {
		*created = s.clock.Now().UTC()
	}
}

func decimalText(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
