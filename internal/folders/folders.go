package folders

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/table"
)

const (
	StatusLocked   = "Locked"
	StatusUnlocked = "Unlocked"

	tableTimeFormat = "2006-01-02 15:04:05"
)

// Schema is the LockedFolders table.
var Schema = table.Schema{
	Name:   "LockedFolders",
	File:   "LockedFolders.xlsx",
	Header: []string{"Folder Path", "Status", "Date-Time"},
}

// Record is the last action taken on a folder.
type Record struct {
	Path   string `json:"path"`
	Status string `json:"status"`
	Date   string `json:"datetime"`
}

// Locker applies Permissions to folders and records the result.
type Locker struct {
	sheet table.Sheet
	perms Permissions

	now func() time.Time
}

// NewLocker returns a Locker recording into sheet.
func NewLocker(sheet table.Sheet, perms Permissions) *Locker {
	return &Locker{sheet: sheet, perms: perms, now: time.Now}
}

// Lock denies the current user access to the folder at path.
//
// Returns ErrMissingSecret for an empty path, ErrFolderNotFound if the
// folder does not exist and ErrFolderCommandFailed if the permission change
// fails. The table is unchanged on error.
func (l *Locker) Lock(ctx context.Context, path string) (*Record, error) {
	return l.apply(ctx, path, StatusLocked, l.perms.Lock)
}

// Unlock restores the current user's access to the folder at path.
// It fails the same way as Lock.
func (l *Locker) Unlock(ctx context.Context, path string) (*Record, error) {
	return l.apply(ctx, path, StatusUnlocked, l.perms.Unlock)
}

// List returns one record per folder ever locked or unlocked.
func (l *Locker) List(ctx context.Context) ([]Record, error) {
	rows, err := l.sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read locked folders: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		if row[0] == "" {
			continue
		}
		records = append(records, Record{Path: row[0], Status: row[1], Date: row[2]})
	}
	return records, nil
}

// CountLocked returns the number of folders whose last action was a lock.
func (l *Locker) CountLocked(ctx context.Context) (int, error) {
	records, err := l.List(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, r := range records {
		if r.Status == StatusLocked {
			n++
		}
	}
	return n, nil
}

func (l *Locker) apply(ctx context.Context, path, status string, change func(string) error) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: folder path", serrors.ErrMissingSecret)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serrors.ErrFolderNotFound, path)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", serrors.ErrFolderNotFound, abs)
	}

	if err := change(abs); err != nil {
		return nil, err
	}

	record := Record{Path: abs, Status: status, Date: l.now().Format(tableTimeFormat)}
	if err := l.sheet.Upsert(ctx, 0, table.Row{record.Path, record.Status, record.Date}); err != nil {
		return nil, fmt.Errorf("failed to record folder status: %w", err)
	}
	return &record, nil
}
