package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/notes"
)

// CreateNoteOptions configures the create-note workflow.
type CreateNoteOptions struct {
	Title   string
	Content string
}

// SaveNoteOptions configures the save-note workflow.
type SaveNoteOptions struct {
	// Filename is the note to replace.
	Filename string

	// CurrentKey must open the note.
	CurrentKey string

	Title   string
	Content string
}

// NoteResult is returned whenever a note is sealed under a key.
type NoteResult struct {
	// Filename is the note's file name in the notes directory.
	Filename string `json:"file"`

	// Key is the note key the user needs to open the note next time.
	Key string `json:"key"`
}

func withNotes[T any](ctx context.Context, fn func(*notes.Manager) (T, error)) (T, error) {
	var zero T

	env, err := loadEnvironment(ctx)
	if err != nil {
		return zero, err
	}

	meta, err := env.openSheet(notes.MetadataSchema)
	if err != nil {
		return zero, err
	}
	defer meta.Close()

	manager := notes.NewManager(env.settings.NotesDir(), meta, notes.Options{
		KeyLength:          env.config.Notes.KeyLength,
		RecordPlaintextKey: env.config.Notes.RecordPlaintextKey,
	})
	return fn(manager)
}

// CreateNote seals a new note and returns its file name and key.
//
// Returns ErrMissingSecret if the title or content is blank.
func CreateNote(ctx context.Context, opts CreateNoteOptions) (*NoteResult, error) {
	title := strings.TrimSpace(opts.Title)
	content := strings.TrimSpace(opts.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", serrors.ErrMissingSecret)
	}

	return withNotes(ctx, func(m *notes.Manager) (*NoteResult, error) {
		filename, key, err := m.Create(ctx, title, content)
		if err != nil {
			return nil, err
		}
		return &NoteResult{Filename: filename, Key: key}, nil
	})
}

// ReadNote decrypts a note.
//
// Returns ErrInvalidKey if key does not open the note or the note does not
// exist. The two cases are indistinguishable to the caller.
func ReadNote(ctx context.Context, filename, key string) (*notes.Note, error) {
	return withNotes(ctx, func(m *notes.Manager) (*notes.Note, error) {
		note, err := m.Open(ctx, filename, key)
		if errors.Is(err, serrors.ErrNotFound) {
			return nil, serrors.ErrInvalidKey
		}
		return note, err
	})
}

// SaveNote replaces a note's title and content and re-seals it under a new
// key, returned in the result. The current key stops working.
//
// Returns ErrNotFound if the note does not exist.
// Returns ErrIncorrectKey if CurrentKey does not open it; the note is unchanged.
func SaveNote(ctx context.Context, opts SaveNoteOptions) (*NoteResult, error) {
	return withNotes(ctx, func(m *notes.Manager) (*NoteResult, error) {
		key, err := m.Save(ctx, opts.Filename, opts.CurrentKey, opts.Title, opts.Content)
		if err != nil {
			return nil, err
		}
		return &NoteResult{Filename: opts.Filename, Key: key}, nil
	})
}

// ListNotes returns note file names, newest name first, optionally filtered
// by a glob pattern.
func ListNotes(ctx context.Context, pattern string) ([]string, error) {
	return withNotes(ctx, func(m *notes.Manager) ([]string, error) {
		return m.List(pattern)
	})
}

