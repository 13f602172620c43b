package workflows

import (
	"context"

	"github.com/PolarWolf314/strongroom/internal/folders"
)

func withLocker[T any](ctx context.Context, fn func(*folders.Locker) (T, error)) (T, error) {
	var zero T

	env, err := loadEnvironment(ctx)
	if err != nil {
		return zero, err
	}

	perms, err := folderPermissions()
	if err != nil {
		return zero, err
	}

	sheet, err := env.openSheet(folders.Schema)
	if err != nil {
		return zero, err
	}
	defer sheet.Close()

	return fn(folders.NewLocker(sheet, perms))
}

// LockFolder denies the current user read and execute access to a folder.
//
// Returns ErrMissingSecret for an empty path.
// Returns ErrFolderNotFound if the folder does not exist.
// Returns ErrFolderCommandFailed if the permission change fails.
func LockFolder(ctx context.Context, path string) (*folders.Record, error) {
	return withLocker(ctx, func(l *folders.Locker) (*folders.Record, error) {
		return l.Lock(ctx, path)
	})
}

// UnlockFolder restores the current user's access to a folder. It fails
// the same way as LockFolder.
func UnlockFolder(ctx context.Context, path string) (*folders.Record, error) {
	return withLocker(ctx, func(l *folders.Locker) (*folders.Record, error) {
		return l.Unlock(ctx, path)
	})
}

// ListFolders returns the last recorded action for every folder.
func ListFolders(ctx context.Context) ([]folders.Record, error) {
	return withLocker(ctx, func(l *folders.Locker) ([]folders.Record, error) {
		return l.List(ctx)
	})
}

