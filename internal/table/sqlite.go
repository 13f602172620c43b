package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
)

// database is a table stored in the shared sqlite file. Columns are named
// c1..cN after their header position; row_id keeps insertion order.
type database struct {
	db     *sql.DB
	path   string
	schema Schema
	mu     *sync.Mutex

	columns []string
}

func openDatabase(dir string, schema Schema) (*database, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	path := filepath.Join(dir, DatabaseFile)
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	columns := make([]string, len(schema.Header))
	for i := range columns {
		columns[i] = fmt.Sprintf("c%d", i+1)
	}

	d := &database{
		db:      db,
		path:    path,
		schema:  schema,
		mu:      lockFor(path + "#" + schema.Name),
		columns: columns,
	}

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := os.Chmod(path, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to restrict %s: %w", path, err)
	}

	return d, nil
}

func (d *database) table() string {
	return `"` + strings.ReplaceAll(d.schema.Name, `"`, `""`) + `"`
}

func (d *database) migrate() error {
	defs := make([]string, len(d.columns))
	for i, c := range d.columns {
		defs[i] = c + " TEXT NOT NULL DEFAULT ''"
	}

	_, err := d.db.Exec(fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (row_id INTEGER PRIMARY KEY AUTOINCREMENT, %s)",
		d.table(), strings.Join(defs, ", "),
	))
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", d.schema.Name, err)
	}
	return nil
}

func (d *database) Header() []string {
	return append([]string(nil), d.schema.Header...)
}

func (d *database) Rows(ctx context.Context) ([]Row, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY row_id", strings.Join(d.columns, ", "), d.table(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", d.schema.Name, err)
	}
	defer rows.Close()

	out := []Row{}
	for rows.Next() {
		row := make(Row, len(d.columns))
		dest := make([]any, len(row))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", d.schema.Name, err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *database) Append(ctx context.Context, row Row) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.insert(ctx, row)
}

func (d *database) Update(ctx context.Context, index int, row Row) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 1 {
		return fmt.Errorf("%w: %d in %s", serrors.ErrRowNotFound, index, d.schema.Name)
	}

	var rowID int64
	err := d.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT row_id FROM %s ORDER BY row_id LIMIT 1 OFFSET ?", d.table(),
	), index-1).Scan(&rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %d in %s", serrors.ErrRowNotFound, index, d.schema.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to locate row %d of %s: %w", index, d.schema.Name, err)
	}

	return d.update(ctx, rowID, row)
}

func (d *database) Upsert(ctx context.Context, keyCol int, row Row) error {
	if keyCol < 0 || keyCol >= len(d.columns) {
		return fmt.Errorf("key column %d out of range for %s", keyCol, d.schema.Name)
	}
	row = normalize(row, len(d.columns))

	d.mu.Lock()
	defer d.mu.Unlock()

	var rowID int64
	err := d.db.QueryRowContext(ctx, fmt.Sprintf(
		"SELECT row_id FROM %s WHERE %s = ? ORDER BY row_id LIMIT 1", d.table(), d.columns[keyCol],
	), row[keyCol]).Scan(&rowID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return d.insert(ctx, row)
	case err != nil:
		return fmt.Errorf("failed to look up %s: %w", d.schema.Name, err)
	}

	return d.update(ctx, rowID, row)
}

func (d *database) Close() error {
	return d.db.Close()
}

func (d *database) insert(ctx context.Context, row Row) error {
	values := args(normalize(row, len(d.columns)))
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")

	_, err := d.db.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)", d.table(), strings.Join(d.columns, ", "), placeholders,
	), values...)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", d.schema.Name, err)
	}
	return nil
}

func (d *database) update(ctx context.Context, rowID int64, row Row) error {
	sets := make([]string, len(d.columns))
	for i, c := range d.columns {
		sets[i] = c + " = ?"
	}

	values := append(args(normalize(row, len(d.columns))), rowID)
	_, err := d.db.ExecContext(ctx, fmt.Sprintf(
		"UPDATE %s SET %s WHERE row_id = ?", d.table(), strings.Join(sets, ", "),
	), values...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", d.schema.Name, err)
	}
	return nil
}

func args(row Row) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
