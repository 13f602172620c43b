package table

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/utils"
)

// workbook is a table stored as a single-sheet .xlsx file. The file is
// loaded and saved on every call; nothing is cached between calls.
type workbook struct {
	path   string
	schema Schema
}

func openWorkbook(dir string, schema Schema) *workbook {
	return &workbook{
		path:   filepath.Join(dir, schema.File),
		schema: schema,
	}
}

func (w *workbook) Header() []string {
	return append([]string(nil), w.schema.Header...)
}

func (w *workbook) Rows(ctx context.Context) ([]Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mu := lockFor(w.path)
	mu.Lock()
	defer mu.Unlock()

	f, sheet, err := w.load()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return w.dataRows(f, sheet)
}

func (w *workbook) Append(ctx context.Context, row Row) error {
	return w.modify(ctx, func(f *excelize.File, sheet string, rows []Row) error {
		return w.writeRow(f, sheet, len(rows)+1, row)
	})
}

func (w *workbook) Update(ctx context.Context, index int, row Row) error {
	return w.modify(ctx, func(f *excelize.File, sheet string, rows []Row) error {
		if index < 1 || index > len(rows) {
			return fmt.Errorf("%w: %d of %d in %s", serrors.ErrRowNotFound, index, len(rows), w.schema.Name)
		}
		return w.writeRow(f, sheet, index, row)
	})
}

func (w *workbook) Upsert(ctx context.Context, keyCol int, row Row) error {
	if keyCol < 0 || keyCol >= len(w.schema.Header) {
		return fmt.Errorf("key column %d out of range for %s", keyCol, w.schema.Name)
	}
	row = normalize(row, len(w.schema.Header))

	return w.modify(ctx, func(f *excelize.File, sheet string, rows []Row) error {
		for i, existing := range rows {
			if existing[keyCol] == row[keyCol] {
				return w.writeRow(f, sheet, i+1, row)
			}
		}
		return w.writeRow(f, sheet, len(rows)+1, row)
	})
}

func (w *workbook) Close() error {
	return nil
}

// modify loads the workbook, applies fn, and saves the result atomically.
func (w *workbook) modify(ctx context.Context, fn func(f *excelize.File, sheet string, rows []Row) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := lockFor(w.path)
	mu.Lock()
	defer mu.Unlock()

	f, sheet, err := w.load()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := w.dataRows(f, sheet)
	if err != nil {
		return err
	}

	if err := fn(f, sheet, rows); err != nil {
		return err
	}

	return w.save(f)
}

// load opens the workbook, or creates an in-memory one holding only the
// header row if the file does not exist yet.
func (w *workbook) load() (*excelize.File, string, error) {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		f := excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), w.schema.Name); err != nil {
			f.Close()
			return nil, "", fmt.Errorf("failed to name sheet %s: %w", w.schema.Name, err)
		}
		header := w.Header()
		if err := f.SetSheetRow(w.schema.Name, "A1", &header); err != nil {
			f.Close()
			return nil, "", fmt.Errorf("failed to write header for %s: %w", w.schema.Name, err)
		}
		return f, w.schema.Name, nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", w.path, err)
	}

	// Workbooks saved by other tools may have renamed the sheet; fall back
	// to the first one.
	sheet := w.schema.Name
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, "", fmt.Errorf("%s has no sheets", w.path)
		}
		sheet = sheets[0]
	}

	return f, sheet, nil
}

func (w *workbook) dataRows(f *excelize.File, sheet string) ([]Row, error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", w.path, err)
	}
	if len(raw) == 0 {
		return []Row{}, nil
	}
	if err := w.checkHeader(raw[0]); err != nil {
		return nil, err
	}
	if len(raw) == 1 {
		return []Row{}, nil
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, r := range raw[1:] {
		rows = append(rows, normalize(r, len(w.schema.Header)))
	}
	return rows, nil
}

// checkHeader rejects a workbook whose header row differs from the schema,
// so columns are never read or written shifted.
func (w *workbook) checkHeader(header []string) error {
	got := normalize(header, len(w.schema.Header))
	for i, want := range w.schema.Header {
		if strings.TrimSpace(got[i]) != want {
			return fmt.Errorf("%w: %s column %d is %q, expected %q",
				serrors.ErrTableLayout, w.path, i+1, got[i], want)
		}
	}
	return nil
}

// writeRow writes row at the 1-based data index, which is sheet row index+1.
// A value longer than a cell can hold is rejected; excelize would truncate it.
func (w *workbook) writeRow(f *excelize.File, sheet string, index int, row Row) error {
	values := []string(normalize(row, len(w.schema.Header)))
	for i, value := range values {
		if n := utf8.RuneCountInString(value); n > excelize.TotalCellChars {
			return fmt.Errorf("%w: column %q has %d characters, the limit is %d",
				serrors.ErrCellTooLong, w.schema.Header[i], n, excelize.TotalCellChars)
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, index+1)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", index, err)
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", index, w.schema.Name, err)
	}
	return nil
}

func (w *workbook) save(f *excelize.File) error {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to serialise %s: %w", w.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(w.path), err)
	}
	if err := utils.WriteFileAtomic(w.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to save %s: %w", w.path, err)
	}
	return nil
}
