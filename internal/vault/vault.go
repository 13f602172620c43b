package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/table"
)

const (
	// DefaultCategory is used when an entry is saved without a category.
	DefaultCategory = "Other"

	// DecryptErrorPlaceholder replaces a password that does not decrypt.
	DecryptErrorPlaceholder = "⚠️ Error"

	tableTimeFormat = "2006-01-02 15:04:05"
)

// Schema is the Vault table.
var Schema = table.Schema{
	Name:   "Vault",
	File:   "PasswordVault.xlsx",
	Header: []string{"ID", "Website", "Name", "Email/Username/Phone", "Password", "Category", "Date"},
}

const (
	colID = iota
	colWebsite
	colName
	colContact
	colPassword
	colCategory
	colDate
)

// TextCipher encrypts and decrypts short text fields.
type TextCipher interface {
	EncryptText(plaintext string) (string, error)
	DecryptText(ciphertext string) (string, error)
}

// Entry is a vault entry with its password in plaintext.
type Entry struct {
	ID       string `json:"id"`
	Row      int    `json:"row"`
	Website  string `json:"website"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// Store reads and writes entries in a Vault table.
type Store struct {
	sheet  table.Sheet
	cipher TextCipher

	now   func() time.Time
	newID func() string
}

// NewStore returns a Store over sheet, encrypting passwords with cipher.
func NewStore(sheet table.Sheet, cipher TextCipher) *Store {
	return &Store{
		sheet:  sheet,
		cipher: cipher,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Save encrypts entry's password and appends it with a new ID.
//
// Returns ErrMissingSecret if the website or password is empty.
func (s *Store) Save(ctx context.Context, entry Entry) (*Entry, error) {
	entry = clean(entry)
	if err := validate(entry); err != nil {
		return nil, err
	}

	entry.ID = s.newID()
	row, err := s.encode(entry)
	if err != nil {
		return nil, err
	}

	if err := s.sheet.Append(ctx, row); err != nil {
		return nil, fmt.Errorf("failed to save vault entry: %w", err)
	}

	entry.Date = row[colDate]
	return &entry, nil
}

// List returns every entry with its password decrypted. Passwords that do
// not decrypt are replaced by DecryptErrorPlaceholder.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		password, err := s.cipher.DecryptText(row[colPassword])
		if err != nil {
			password = DecryptErrorPlaceholder
		}

		entries = append(entries, Entry{
			ID:       row[colID],
			Row:      i + 1,
			Website:  row[colWebsite],
			Name:     row[colName],
			Contact:  row[colContact],
			Password: password,
			Category: row[colCategory],
			Date:     row[colDate],
		})
	}
	return entries, nil
}

// Update replaces the entry with the given ID. The ID is kept and the date
// refreshed.
//
// Returns ErrEntryNotFound if no entry has that ID and ErrMissingSecret if
// the website or password is empty.
func (s *Store) Update(ctx context.Context, id string, entry Entry) (*Entry, error) {
	rows, err := s.sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	id = strings.TrimSpace(id)
	for i, row := range rows {
		if id != "" && row[colID] == id {
			return s.replace(ctx, i+1, id, entry)
		}
	}
	return nil, fmt.Errorf("%w: %s", serrors.ErrEntryNotFound, id)
}

// UpdateRow replaces the entry at the 1-based row index, keeping its ID.
// Rows without an ID are given one.
//
// Returns ErrEntryNotFound if the index is out of range.
func (s *Store) UpdateRow(ctx context.Context, index int, entry Entry) (*Entry, error) {
	rows, err := s.sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}
	if index < 1 || index > len(rows) {
		return nil, fmt.Errorf("%w: row %d", serrors.ErrEntryNotFound, index)
	}

	id := rows[index-1][colID]
	if id == "" {
		id = s.newID()
	}
	return s.replace(ctx, index, id, entry)
}

// Count returns the number of entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	rows, err := s.sheet.Rows(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read vault: %w", err)
	}
	return len(rows), nil
}

// ResealResult counts the outcome of Reseal.
type ResealResult struct {
	// Resealed is the number of passwords rewritten.
	Resealed int `json:"resealed"`

	// Skipped is the number of passwords left as they were because they
	// could not be resealed, typically because they no longer decrypt.
	Skipped int `json:"skipped"`
}

// Reseal rewrites every stored password with reseal. All passwords are
// resealed in memory before any row is written. Empty passwords are left
// alone and not counted.
func (s *Store) Reseal(ctx context.Context, reseal func(ciphertext string) (string, error)) (*ResealResult, error) {
	rows, err := s.sheet.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault: %w", err)
	}

	result := &ResealResult{}
	changed := make(map[int]table.Row)
	for i, row := range rows {
		if row[colPassword] == "" {
			continue
		}
		resealed, err := reseal(row[colPassword])
		if err != nil {
			result.Skipped++
			continue
		}
		row[colPassword] = resealed
		changed[i+1] = row
		result.Resealed++
	}

	for i := 1; i <= len(rows); i++ {
		row, ok := changed[i]
		if !ok {
			continue
		}
		if err := s.sheet.Update(ctx, i, row); err != nil {
			return nil, fmt.Errorf("failed to rewrite vault row %d: %w", i, err)
		}
	}
	return result, nil
}

func (s *Store) replace(ctx context.Context, index int, id string, entry Entry) (*Entry, error) {
	entry = clean(entry)
	if err := validate(entry); err != nil {
		return nil, err
	}

	entry.ID = id
	row, err := s.encode(entry)
	if err != nil {
		return nil, err
	}

	if err := s.sheet.Update(ctx, index, row); err != nil {
		if errors.Is(err, serrors.ErrRowNotFound) {
			return nil, fmt.Errorf("%w: row %d", serrors.ErrEntryNotFound, index)
		}
		return nil, fmt.Errorf("failed to update vault entry: %w", err)
	}

	entry.Row = index
	entry.Date = row[colDate]
	return &entry, nil
}

func (s *Store) encode(entry Entry) (table.Row, error) {
	encrypted, err := s.cipher.EncryptText(entry.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt password: %w", err)
	}

	row := make(table.Row, len(Schema.Header))
	row[colID] = entry.ID
	row[colWebsite] = entry.Website
	row[colName] = entry.Name
	row[colContact] = entry.Contact
	row[colPassword] = encrypted
	row[colCategory] = entry.Category
	row[colDate] = s.now().Format(tableTimeFormat)
	return row, nil
}

func clean(entry Entry) Entry {
	entry.Website = strings.TrimSpace(entry.Website)
	entry.Name = strings.TrimSpace(entry.Name)
	entry.Contact = strings.TrimSpace(entry.Contact)
	entry.Password = strings.TrimSpace(entry.Password)
	entry.Category = strings.TrimSpace(entry.Category)
	if entry.Category == "" {
		entry.Category = DefaultCategory
	}
	return entry
}

func validate(entry Entry) error {
	if entry.Website == "" {
		return fmt.Errorf("%w: website", serrors.ErrMissingSecret)
	}
	if entry.Password == "" {
		return fmt.Errorf("%w: password", serrors.ErrMissingSecret)
	}
	return nil
}
