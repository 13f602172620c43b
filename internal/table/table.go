package table

import (
	"context"
	"fmt"
	"sync"

	"github.com/PolarWolf314/strongroom/internal/configs"
	serrors "github.com/PolarWolf314/strongroom/internal/errors"
)

// DatabaseFile is the file name used by the sqlite backend.
const DatabaseFile = "strongroom.db"

// Row is one record, one string per header column.
type Row []string

// Schema describes a table.
type Schema struct {
	// Name is the worksheet name (xlsx) or SQL table name (sqlite).
	Name string

	// File is the workbook file name used by the xlsx backend.
	File string

	// Header holds the column titles.
	Header []string
}

// Sheet is an open table.
type Sheet interface {
	// Header returns the column titles.
	Header() []string

	// Rows returns every data row in insertion order, each padded to the
	// header width.
	Rows(ctx context.Context) ([]Row, error)

	// Append adds row after the last data row.
	Append(ctx context.Context, row Row) error

	// Update replaces the data row at the 1-based index. Returns
	// ErrRowNotFound if the index is out of range.
	Update(ctx context.Context, index int, row Row) error

	// Upsert replaces the first row whose keyCol cell equals row[keyCol],
	// or appends row if none does.
	Upsert(ctx context.Context, keyCol int, row Row) error

	// Close releases the backend's resources.
	Close() error
}

// Open opens the table described by schema in dir using the named backend.
func Open(backend, dir string, schema Schema) (Sheet, error) {
	if len(schema.Header) == 0 {
		return nil, fmt.Errorf("table %s has no columns", schema.Name)
	}

	switch backend {
	case configs.BackendXLSX:
		return openWorkbook(dir, schema), nil
	case configs.BackendSQLite:
		return openDatabase(dir, schema)
	default:
		return nil, fmt.Errorf("%w: %q", serrors.ErrUnknownBackend, backend)
	}
}

// normalize pads or truncates row to width columns.
func normalize(row Row, width int) Row {
	out := make(Row, width)
	copy(out, row)
	return out
}

var (
	locksMu sync.Mutex
	locks   = make(map[string]*sync.Mutex)
)

// lockFor returns the process-wide mutex for a table.
func lockFor(key string) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()

	mu, ok := locks[key]
	if !ok {
		mu = &sync.Mutex{}
		locks[key] = mu
	}
	return mu
}
