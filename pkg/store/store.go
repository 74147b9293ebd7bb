package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pario-ai/reqlens/pkg/analytics"
	"github.com/pario-ai/reqlens/pkg/models"
)

// ErrDatasetNotFound is returned when a dataset ID does not exist.
var ErrDatasetNotFound = errors.New("dataset not found")

// Store keeps imported usage exports. Only raw records are stored; every
// view is recomputed from them on demand.
type Store interface {
	// CreateDataset stores records as a new dataset.
	CreateDataset(ctx context.Context, name string, records []models.UsageRecord) (models.Dataset, error)
	// ListDatasets returns all datasets, newest import first.
	ListDatasets(ctx context.Context) ([]models.Dataset, error)
	// Dataset returns the dataset with the given ID.
	Dataset(ctx context.Context, id string) (models.Dataset, error)
	// Latest returns the most recently imported dataset.
	Latest(ctx context.Context) (models.Dataset, error)
	// Records returns the records of a dataset in timestamp order.
	Records(ctx context.Context, id string) ([]models.UsageRecord, error)
	// DeleteDataset removes a dataset and its records.
	DeleteDataset(ctx context.Context, id string) error
	// Close releases resources.
	Close() error
}

// SQLiteStore implements Store with a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

const createDatasetsTable = `
CREATE TABLE IF NOT EXISTS datasets (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	record_count INTEGER NOT NULL,
	first_date TEXT NOT NULL DEFAULT '',
	last_date TEXT NOT NULL DEFAULT '',
	imported_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_datasets_imported ON datasets(imported_at);
`

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS usage_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset_id TEXT NOT NULL,
	timestamp DATETIME NOT NULL,
	user_name TEXT NOT NULL,
	model TEXT NOT NULL,
	requests_used REAL NOT NULL,
	exceeds_quota INTEGER NOT NULL,
	total_monthly_quota TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_records_dataset_time ON usage_records(dataset_id, timestamp);
`

// New creates a SQLiteStore and runs auto-migration.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}

	if _, err := db.Exec(createDatasetsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate datasets table: %w", err)
	}

	if _, err := db.Exec(createRecordsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate usage_records table: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// CreateDataset stores records under a fresh dataset ID in one transaction.
func (s *SQLiteStore) CreateDataset(ctx context.Context, name string, records []models.UsageRecord) (models.Dataset, error) {
	ds := models.Dataset{
		ID:          uuid.NewString(),
		Name:        name,
		RecordCount: len(records),
		ImportedAt:  s.now().UTC(),
	}
	ds.FirstDate, _ = analytics.FirstDate(records)
	ds.LastDate, _ = analytics.LastDate(records)
	if ds.Name == "" {
		ds.Name = ds.ImportedAt.Format("import 2006-01-02 15:04:05")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ds, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, record_count, first_date, last_date, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.RecordCount, ds.FirstDate, ds.LastDate, ds.ImportedAt,
	)
	if err != nil {
		return ds, fmt.Errorf("insert dataset: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO usage_records (dataset_id, timestamp, user_name, model, requests_used, exceeds_quota, total_monthly_quota)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return ds, fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			ds.ID, r.Timestamp.UTC(), r.User, r.Model, r.RequestsUsed, r.ExceedsQuota, r.TotalMonthlyQuota,
		); err != nil {
			return ds, fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ds, fmt.Errorf("commit import: %w", err)
	}
	return ds, nil
}

const selectDataset = `SELECT id, name, record_count, first_date, last_date, imported_at FROM datasets`

// ListDatasets returns all datasets, newest import first.
func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]models.Dataset, error) {
	rows, err := s.db.QueryContext(ctx, selectDataset+` ORDER BY imported_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var out []models.Dataset
	for rows.Next() {
		ds, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}

// Dataset returns the dataset with the given ID.
func (s *SQLiteStore) Dataset(ctx context.Context, id string) (models.Dataset, error) {
	row := s.db.QueryRowContext(ctx, selectDataset+` WHERE id = ?`, id)
	return scanDataset(row)
}

// Latest returns the most recently imported dataset.
func (s *SQLiteStore) Latest(ctx context.Context) (models.Dataset, error) {
	row := s.db.QueryRowContext(ctx, selectDataset+` ORDER BY imported_at DESC, rowid DESC LIMIT 1`)
	return scanDataset(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (models.Dataset, error) {
	var ds models.Dataset
	err := row.Scan(&ds.ID, &ds.Name, &ds.RecordCount, &ds.FirstDate, &ds.LastDate, &ds.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ds, ErrDatasetNotFound
	}
	if err != nil {
		return ds, fmt.Errorf("scan dataset: %w", err)
	}
	ds.ImportedAt = ds.ImportedAt.UTC()
	return ds, nil
}

// Records returns the records of a dataset ordered by timestamp, then by
// position in the original export.
func (s *SQLiteStore) Records(ctx context.Context, id string) ([]models.UsageRecord, error) {
	if _, err := s.Dataset(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, user_name, model, requests_used, exceeds_quota, total_monthly_quota
		 FROM usage_records WHERE dataset_id = ? ORDER BY timestamp ASC, id ASC`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]models.UsageRecord, 0)
	for rows.Next() {
		var r models.UsageRecord
		if err := rows.Scan(&r.Timestamp, &r.User, &r.Model, &r.RequestsUsed, &r.ExceedsQuota, &r.TotalMonthlyQuota); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Timestamp = r.Timestamp.UTC()
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteDataset removes a dataset and its records.
func (s *SQLiteStore) DeleteDataset(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDatasetNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM usage_records WHERE dataset_id = ?`, id); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
