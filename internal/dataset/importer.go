package dataset

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"chstack/internal/clickhouse"
	"chstack/internal/errors"
	"chstack/internal/logging"
)

// Database is the slice of the ClickHouse client the importer needs.
type Database interface {
	Exec(ctx context.Context, query string, args ...any) error
	TableExists(ctx context.Context, table string) (bool, error)
	PrepareBatch(ctx context.Context, query string) (clickhouse.Batch, error)
}

// Importer walks a dataset directory and loads each file into its table.
type Importer struct {
	db          Database
	log         *logging.Logger
	skipTables  []string
	fullRefresh bool
}

// Option configures an Importer.
type Option func(*Importer)

// WithSkipTables sets tables that are created but never loaded.
func WithSkipTables(tables []string) Option {
	return func(i *Importer) { i.skipTables = tables }
}

// WithFullRefresh drops each table before recreating it.
func WithFullRefresh(enabled bool) Option {
	return func(i *Importer) { i.fullRefresh = enabled }
}

// NewImporter creates an Importer backed by the given database.
func NewImporter(db Database, log *logging.Logger, opts ...Option) *Importer {
	if log == nil {
		log = logging.NopLogger()
	}
	imp := &Importer{db: db, log: log}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// TableResult records the outcome for one dataset file.
type TableResult struct {
	Table string
	File  string
	// Rows is the number of rows inserted. Zero for skipped tables.
	Rows int
	// Created is true when the table was created by this run.
	Created bool
	// Skipped is true when the table was created but deliberately not loaded.
	Skipped bool
	// Err is non-nil when the file could not be processed. Other files
	// still import; the failure is reported, not fatal.
	Err error
}

// Result summarizes an import run.
type Result struct {
	Tables []TableResult
}

// Failed returns the results that carry an error.
func (r *Result) Failed() []TableResult {
	var failed []TableResult
	for _, t := range r.Tables {
		if t.Err != nil {
			failed = append(failed, t)
		}
	}
	return failed
}

// RowsInserted returns the total rows loaded across all tables.
func (r *Result) RowsInserted() int {
	total := 0
	for _, t := range r.Tables {
		total += t.Rows
	}
	return total
}

// Run walks the dataset directory recursively and imports every file.
// Each file becomes a table named after the file stem. A file that fails
// to read or load is recorded in the result and the run continues; the
// returned error is reserved for conditions that stop the whole run.
func (imp *Importer) Run(ctx context.Context, dir string) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", errors.ErrDatasetNotFound, dir)
	}

	files, err := collectFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to walk dataset directory: %w", err)
	}

	result := &Result{}
	for _, path := range files {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Tables = append(result.Tables, imp.importFile(ctx, path))
	}
	return result, nil
}

// collectFiles lists regular files under dir in walk order.
func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// importFile processes one dataset file end to end.
func (imp *Importer) importFile(ctx context.Context, path string) TableResult {
	table := tableName(path)
	log := imp.log.WithOperation("seed-data").WithTable(table)
	res := TableResult{Table: table, File: path}

	frame, err := imp.load(path, table)
	if err != nil {
		log.Warn("skipping file", "file", path, "error", err)
		res.Err = errors.NewImportError("failed to read dataset file", err).
			WithTable(table).WithFile(path)
		return res
	}

	if imp.fullRefresh {
		drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", clickhouse.QuoteIdentifier(table))
		if err := imp.db.Exec(ctx, drop); err != nil {
			res.Err = errors.NewImportError("failed to drop table", err).WithTable(table)
			return res
		}
		log.Debug("dropped table")
	}

	exists, err := imp.db.TableExists(ctx, table)
	if err != nil {
		res.Err = errors.NewImportError("failed to check table", err).WithTable(table)
		return res
	}
	if !exists {
		if err := imp.db.Exec(ctx, frame.CreateTableDDL(table)); err != nil {
			res.Err = errors.NewImportError("failed to create table", err).WithTable(table)
			return res
		}
		res.Created = true
		log.Info("created table", "columns", len(frame.Columns))
	}

	if slices.Contains(imp.skipTables, table) {
		res.Skipped = true
		log.Info("table excluded from loading")
		return res
	}

	rows, err := imp.insert(ctx, table, frame)
	if err != nil {
		res.Err = errors.NewImportError("failed to insert rows", err).
			WithTable(table).WithFile(path)
		return res
	}
	res.Rows = rows
	log.Info("inserted rows", "rows", rows)
	return res
}

// load reads a file into a Frame, dispatching on extension. The merchant
// category code file gets its dedicated reader.
func (imp *Importer) load(path, table string) (*Frame, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if table == "mcc_codes" && ext == "json" {
		return readMCCCodes(path)
	}
	read, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s", errors.ErrUnsupportedFormat, ext)
	}
	return read(path)
}

// insert loads all frame rows through one batched insert.
func (imp *Importer) insert(ctx context.Context, table string, frame *Frame) (int, error) {
	if len(frame.Rows) == 0 {
		return 0, nil
	}

	batch, err := imp.db.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", clickhouse.QuoteIdentifier(table)))
	if err != nil {
		return 0, err
	}

	for n, row := range frame.Rows {
		values := make([]any, len(row))
		for i, cell := range row {
			values[i], err = typedValue(cell, frame.Types[i])
			if err != nil {
				_ = batch.Abort()
				return 0, fmt.Errorf("row %d, column %s: %w", n+1, frame.Columns[i], err)
			}
		}
		if err := batch.Append(values...); err != nil {
			_ = batch.Abort()
			return 0, err
		}
	}

	if err := batch.Send(); err != nil {
		return 0, err
	}
	return len(frame.Rows), nil
}

// tableName derives the table name from a file path: the base name with
// its extension removed.
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
