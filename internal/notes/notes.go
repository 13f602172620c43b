package notes

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/PolarWolf314/strongroom/internal/document"
	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/secrets"
	"github.com/PolarWolf314/strongroom/internal/table"
	"github.com/PolarWolf314/strongroom/internal/utils"
)

const (
	// Extension is the file extension of every note.
	Extension = ".docx"

	filenameTimeFormat = "20060102_150405"
	tableTimeFormat    = "2006-01-02 15:04:05"
)

// MetadataSchema is the NotesKeys table.
var MetadataSchema = table.Schema{
	Name:   "NotesKeys",
	File:   "ONotes.xlsx",
	Header: []string{"File Name", "Algorithm", "Hash of Key", "Date-Time", "Key"},
}

// Note is a decrypted note.
type Note struct {
	Filename string `json:"file"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// Options configures a Manager.
type Options struct {
	// KeyLength is the number of characters in generated note keys.
	KeyLength int

	// RecordPlaintextKey writes each note key into the metadata table.
	RecordPlaintextKey bool
}

// Manager creates, opens, and saves the notes in one directory.
type Manager struct {
	dir  string
	meta table.Sheet
	opts Options

	now func() time.Time
}

// NewManager returns a Manager for the notes in dir, recording key metadata in meta.
func NewManager(dir string, meta table.Sheet, opts Options) *Manager {
	if opts.KeyLength < 1 {
		opts.KeyLength = secrets.DefaultNoteKeyLength
	}
	return &Manager{
		dir:  dir,
		meta: meta,
		opts: opts,
		now:  time.Now,
	}
}

// Create seals a new note and returns its file name and key. Text a note
// cannot store fails with ErrUnsupportedText before anything is written.
func (m *Manager) Create(ctx context.Context, title, content string) (filename, key string, err error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	plain, err := document.Encode(title, content)
	if err != nil {
		return "", "", fmt.Errorf("failed to build document: %w", err)
	}
	defer clear(plain)

	key, err = secrets.GenerateNoteKey(m.opts.KeyLength)
	if err != nil {
		return "", "", err
	}

	sealed, err := secrets.SealWithNoteKey(key, plain)
	if err != nil {
		return "", "", err
	}

	if err := os.MkdirAll(m.dir, 0700); err != nil {
		return "", "", fmt.Errorf("failed to create %s: %w", m.dir, err)
	}

	// Hold the directory lock while choosing a name so two notes with the
	// same title in the same second get different files.
	dirLock := lockFor(m.dir)
	dirLock.Lock()
	defer dirLock.Unlock()

	now := m.now()
	filename = m.uniqueFilename(title, now)

	if err := m.recordKey(ctx, filename, key, now); err != nil {
		return "", "", err
	}
	if err := utils.WriteFileAtomic(filepath.Join(m.dir, filename), sealed, 0600); err != nil {
		return "", "", fmt.Errorf("failed to write note: %w", err)
	}

	return filename, key, nil
}

// Open decrypts a note in memory and re-seals the file under the same key.
//
// Returns ErrNotFound if the note does not exist and ErrInvalidKey if key
// does not open it. In both cases the file is unchanged.
func (m *Manager) Open(ctx context.Context, filename, key string) (*Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := m.path(filename)
	if err != nil {
		return nil, err
	}

	mu := lockFor(path)
	mu.Lock()
	defer mu.Unlock()

	sealed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read note: %w", err)
	}
	plain, err := secrets.OpenWithNoteKey(key, sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serrors.ErrInvalidKey, filename)
	}
	defer clear(plain)

	title, content, err := document.Decode(plain)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	resealed, err := secrets.SealWithNoteKey(key, plain)
	if err != nil {
		return nil, err
	}
	if err := utils.WriteFileAtomic(path, resealed, 0600); err != nil {
		return nil, fmt.Errorf("failed to re-seal note: %w", err)
	}
	if err := m.recordKey(ctx, filename, key, m.now()); err != nil {
		return nil, err
	}

	return &Note{Filename: filename, Title: title, Content: content}, nil
}

// Save replaces a note's title and content and seals it under a new key,
// which it returns. The current key stops working.
//
// Returns ErrNotFound if the note does not exist and ErrIncorrectKey if
// currentKey does not open it. In both cases the file is unchanged.
func (m *Manager) Save(ctx context.Context, filename, currentKey, title, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := m.path(filename)
	if err != nil {
		return "", err
	}

	mu := lockFor(path)
	mu.Lock()
	defer mu.Unlock()

	sealed, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read note: %w", err)
	}
	old, err := secrets.OpenWithNoteKey(currentKey, sealed)
	if err != nil {
		return "", fmt.Errorf("%w: %s", serrors.ErrIncorrectKey, filename)
	}
	clear(old)

	plain, err := document.Encode(title, content)
	if err != nil {
		return "", fmt.Errorf("failed to build document: %w", err)
	}
	defer clear(plain)

	newKey, err := m.rotateKey(currentKey)
	if err != nil {
		return "", err
	}

	resealed, err := secrets.SealWithNoteKey(newKey, plain)
	if err != nil {
		return "", err
	}

	if err := m.recordKey(ctx, filename, newKey, m.now()); err != nil {
		return "", err
	}
	if err := utils.WriteFileAtomic(path, resealed, 0600); err != nil {
		return "", fmt.Errorf("failed to write note: %w", err)
	}

	return newKey, nil
}

// List returns note file names, newest name first. A non-empty pattern
// filters names with doublestar glob syntax.
func (m *Manager) List(pattern string) ([]string, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", m.dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !strings.HasSuffix(name, Extension) {
			continue
		}
		if pattern != "" {
			// The pattern was validated above.
			if ok, _ := doublestar.Match(pattern, name); !ok {
				continue
			}
		}
		names = append(names, name)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Count returns the number of notes.
func (m *Manager) Count() (int, error) {
	names, err := m.List("")
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// Filename returns the file name a note with title would get at t, before
// any collision suffix.
func Filename(title string, t time.Time) string {
	safe := utils.SanitizeTitle(title)
	if safe == "" {
		safe = "note"
	}
	return safe + "_" + t.Format(filenameTimeFormat) + Extension
}

func (m *Manager) uniqueFilename(title string, t time.Time) string {
	name := Filename(title, t)
	base := strings.TrimSuffix(name, Extension)
	for i := 2; utils.FileExists(filepath.Join(m.dir, name)); i++ {
		name = fmt.Sprintf("%s_%d%s", base, i, Extension)
	}
	return name
}

// path resolves a note file name inside the notes directory. Names that
// are not plain file names are treated as missing.
func (m *Manager) path(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		filepath.Base(filename) != filename || strings.ContainsAny(filename, `/\`) ||
		!strings.HasSuffix(filename, Extension) {
		return "", fmt.Errorf("%w: %q", serrors.ErrNotFound, filename)
	}

	path := filepath.Join(m.dir, filename)
	if !utils.FileExists(path) {
		return "", fmt.Errorf("%w: %s", serrors.ErrNotFound, filename)
	}
	return path, nil
}

// rotateKey generates a note key different from old.
func (m *Manager) rotateKey(old string) (string, error) {
	for {
		key, err := secrets.GenerateNoteKey(m.opts.KeyLength)
		if err != nil {
			return "", err
		}
		if key != old {
			return key, nil
		}
	}
}

// recordKey upserts the metadata row for filename. Call it before writing
// the sealed file: a note must never end up under a key the caller was not
// given.
func (m *Manager) recordKey(ctx context.Context, filename, key string, t time.Time) error {
	plainKey := ""
	if m.opts.RecordPlaintextKey {
		plainKey = key
	}

	row := table.Row{filename, secrets.Algorithm, KeyHash(key), t.Format(tableTimeFormat), plainKey}
	if err := m.meta.Upsert(ctx, 0, row); err != nil {
		return fmt.Errorf("failed to record key metadata: %w", err)
	}
	return nil
}

// KeyHash is the hex SHA-256 of a note key, as stored in the metadata table.
func KeyHash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

var (
	locksMu sync.Mutex
	locks   = make(map[string]*sync.Mutex)
)

func lockFor(path string) *sync.Mutex {
	locksMu.Lock()
	defer locksMu.Unlock()

	mu, ok := locks[path]
	if !ok {
		mu = &sync.Mutex{}
		locks[path] = mu
	}
	return mu
}
