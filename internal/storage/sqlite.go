// Package storage exports classified work orders to a SQLite database so
// they can be queried outside the CLI.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"fjacquet/maint-report/internal/fileutils"
	"fjacquet/maint-report/internal/logging"
	"fjacquet/maint-report/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339

// Run describes one classification pass stored in the database.
type Run struct {
	ID          int64
	CreatedAt   time.Time
	Source      string
	RuleVersion int
	Stats       models.ClassificationStats
}

// ComponentCount is the number of stored work orders of one component.
type ComponentCount struct {
	Component string
	Count     int
}

// SQLiteExporter writes classification runs to a SQLite database.
type SQLiteExporter struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// NewSQLiteExporter opens (creating if needed) the database at dbPath and
// migrates it to the current schema.
func NewSQLiteExporter(dbPath string, logger logging.Logger) (*SQLiteExporter, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite database path cannot be empty")
	}

	if err := fileutils.EnsureDirectoryExists(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteExporter{db: db, path: dbPath, logger: logger}, nil
}

// Path returns the database file path.
func (e *SQLiteExporter) Path() string {
	return e.path
}

// Close closes the database.
func (e *SQLiteExporter) Close() error {
	if e.db != nil {
		return e.db.Close()
	}
	return nil
}

// Export stores a run and its work orders in a single transaction and
// returns the run id.
func (e *SQLiteExporter) Export(ctx context.Context, run Run, orders []models.WorkOrder) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO classification_runs (created_at, source, rule_version, total, by_rule, by_fallback, unclassified)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.CreatedAt.UTC().Format(timestampLayout), run.Source, run.RuleVersion,
		run.Stats.Total, run.Stats.ByRule, run.Stats.ByFallback, run.Stats.Unclassified)
	if err != nil {
		return 0, fmt.Errorf("insert classification run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO work_orders (run_id, boletim, origem, entrada, saida, frota, classe, causa, descricao, month_bucket, dwell_hours, componente, metodo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare work order insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range orders {
		component := o.Componente
		if component == "" {
			component = models.CategoryUnclassified
		}
		method := o.MetodoClass
		if method == "" {
			method = models.MethodNone
		}
		if _, err := stmt.ExecContext(ctx,
			runID, o.Boletim, o.Origem, nullableTime(o.Entrada), nullableTime(o.Saida),
			o.Frota, o.Classe, o.Causa, o.Descricao, o.MonthBucket,
			o.DwellHours.String(), component, method); err != nil {
			return 0, fmt.Errorf("insert work order %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	e.logger.Info("Exported work orders to SQLite",
		logging.Field{Key: logging.FieldFile, Value: e.path},
		logging.Field{Key: "run_id", Value: runID},
		logging.Field{Key: logging.FieldCount, Value: len(orders)})

	return runID, nil
}

// Runs lists the stored runs, newest first.
func (e *SQLiteExporter) Runs(ctx context.Context) ([]Run, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT id, created_at, source, rule_version, total, by_rule, by_fallback, unclassified
		 FROM classification_runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query classification runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		if err := rows.Scan(&r.ID, &created, &r.Source, &r.RuleVersion,
			&r.Stats.Total, &r.Stats.ByRule, &r.Stats.ByFallback, &r.Stats.Unclassified); err != nil {
			return nil, fmt.Errorf("scan classification run: %w", err)
		}
		if t, err := time.Parse(timestampLayout, created); err == nil {
			r.CreatedAt = t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ComponentCounts returns the per-component totals of one run, most
// frequent first.
func (e *SQLiteExporter) ComponentCounts(ctx context.Context, runID int64) ([]ComponentCount, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT componente, COUNT(*) AS n FROM work_orders
		 WHERE run_id = ? GROUP BY componente ORDER BY n DESC, componente ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query component counts: %w", err)
	}
	defer rows.Close()

	var counts []ComponentCount
	for rows.Next() {
		var c ComponentCount
		if err := rows.Scan(&c.Component, &c.Count); err != nil {
			return nil, fmt.Errorf("scan component count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TotalDwell returns the summed dwell hours of one run.
func (e *SQLiteExporter) TotalDwell(ctx context.Context, runID int64) (decimal.Decimal, error) {
	rows, err := e.db.QueryContext(ctx, `SELECT dwell_hours FROM work_orders WHERE run_id = ?`, runID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("query dwell hours: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("scan dwell hours: %w", err)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid stored dwell hours %q: %w", raw, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

func nullableTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(timestampLayout), Valid: true}
}
