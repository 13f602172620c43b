package vault

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/PolarWolf314/strongroom/internal/configs"
	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/secrets"
	"github.com/PolarWolf314/strongroom/internal/table"
)

var fixedTime = time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)

func newTestStore(t *testing.T, backend string, cipher TextCipher) (*Store, table.Sheet) {
	t.Helper()

	dir := t.TempDir()
	sheet, err := table.Open(backend, dir, Schema)
	if err != nil {
		t.Fatalf("Failed to open vault table: %v", err)
	}
	t.Cleanup(func() { sheet.Close() })

	if cipher == nil {
		cipher = secrets.KeyringAt(filepath.Join(dir, "vault_master.key"))
	}

	s := NewStore(sheet, cipher)
	s.now = func() time.Time { return fixedTime }
	return s, sheet
}

// prefixCipher is a reversible stand-in that fails on marked values.
type prefixCipher struct{}

func (prefixCipher) EncryptText(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	return "enc:" + plaintext, nil
}

func (prefixCipher) DecryptText(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	if !strings.HasPrefix(ciphertext, "enc:") {
		return "", serrors.ErrDecryptFailed
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type failingCipher struct{}

func (failingCipher) EncryptText(string) (string, error) {
	return "", fmt.Errorf("%w: key unavailable", serrors.ErrEncryptFailed)
}

func (failingCipher) DecryptText(string) (string, error) {
	return "", serrors.ErrDecryptFailed
}

func TestSaveAndList(t *testing.T) {
	for _, backend := range []string{configs.BackendXLSX, configs.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			s, sheet := newTestStore(t, backend, nil)

			saved, err := s.Save(ctx, Entry{
				Website:  " example.com ",
				Name:     "Personal",
				Contact:  "me@example.com",
				Password: "hunter2",
			})
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if saved.ID == "" {
				t.Error("Expected an ID to be assigned")
			}
			if saved.Category != DefaultCategory {
				t.Errorf("Expected default category %q, got %q", DefaultCategory, saved.Category)
			}
			if saved.Website != "example.com" {
				t.Errorf("Expected trimmed website, got %q", saved.Website)
			}

			rows, err := sheet.Rows(ctx)
			if err != nil {
				t.Fatalf("Rows failed: %v", err)
			}
			if len(rows) != 1 {
				t.Fatalf("Expected 1 row, got %d", len(rows))
			}
			if rows[0][colPassword] == "hunter2" || rows[0][colPassword] == "" {
				t.Errorf("Password must be stored encrypted, got %q", rows[0][colPassword])
			}
			if rows[0][colDate] != "2024-05-01 09:30:00" {
				t.Errorf("Unexpected date %q", rows[0][colDate])
			}

			entries, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("Expected 1 entry, got %d", len(entries))
			}
			got := entries[0]
			if got.Password != "hunter2" || got.ID != saved.ID || got.Row != 1 {
				t.Errorf("Unexpected entry %+v", got)
			}
		})
	}
}

func TestSave_RandomisedCiphertext(t *testing.T) {
	ctx := context.Background()
	s, sheet := newTestStore(t, configs.BackendXLSX, nil)

	for _, site := range []string{"a.com", "b.com"} {
		if _, err := s.Save(ctx, Entry{Website: site, Password: "same-password"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	rows, err := sheet.Rows(ctx)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	if rows[0][colPassword] == rows[1][colPassword] {
		t.Error("Equal passwords must encrypt to different ciphertexts")
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for _, e := range entries {
		if e.Password != "same-password" {
			t.Errorf("Entry %s: expected password to decrypt, got %q", e.Website, e.Password)
		}
	}
}

func TestSave_MissingFields(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, configs.BackendXLSX, prefixCipher{})

	tests := []struct {
		name  string
		entry Entry
	}{
		{"NoWebsite", Entry{Password: "p"}},
		{"NoPassword", Entry{Website: "w"}},
		{"WhitespaceOnly", Entry{Website: "  ", Password: "  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Save(ctx, tt.entry); !errors.Is(err, serrors.ErrMissingSecret) {
				t.Errorf("Expected ErrMissingSecret, got: %v", err)
			}
		})
	}

	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("Rejected entries must not be stored, got %d", n)
	}
}

func TestSave_PasswordTooLongForWorkbook(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, configs.BackendXLSX, nil)

	_, err := s.Save(ctx, Entry{Website: "example.com", Password: strings.Repeat("p", 30000)})
	if !errors.Is(err, serrors.ErrCellTooLong) {
		t.Fatalf("Expected ErrCellTooLong, got: %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected nothing stored, got: %+v", entries)
	}
}

func TestList_ForeignWorkbookLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	f := excelize.NewFile()
	header := []string{"Website", "Name", "Email/Username/Phone", "Password", "Category", "Date"}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		t.Fatalf("Failed to write header: %v", err)
	}
	row := []string{"example.com", "me", "me@example.com", "gAAAAA", "Other", "2024-01-01 10:00:00"}
	if err := f.SetSheetRow("Sheet1", "A2", &row); err != nil {
		t.Fatalf("Failed to write row: %v", err)
	}
	if err := f.SaveAs(filepath.Join(dir, Schema.File)); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	f.Close()

	sheet, err := table.Open(configs.BackendXLSX, dir, Schema)
	if err != nil {
		t.Fatalf("Failed to open vault table: %v", err)
	}
	defer sheet.Close()
	s := NewStore(sheet, prefixCipher{})

	if _, err := s.List(ctx); !errors.Is(err, serrors.ErrTableLayout) {
		t.Errorf("List: expected ErrTableLayout, got: %v", err)
	}
	if _, err := s.Save(ctx, Entry{Website: "w", Password: "p"}); !errors.Is(err, serrors.ErrTableLayout) {
		t.Errorf("Save: expected ErrTableLayout, got: %v", err)
	}
}

func TestSave_EncryptFailure(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, configs.BackendXLSX, failingCipher{})

	if _, err := s.Save(ctx, Entry{Website: "w", Password: "p"}); !errors.Is(err, serrors.ErrEncryptFailed) {
		t.Errorf("Expected ErrEncryptFailed, got: %v", err)
	}
	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("Nothing should be written when encryption fails, got %d rows", n)
	}
}

func TestList_UndecryptableRow(t *testing.T) {
	ctx := context.Background()
	s, sheet := newTestStore(t, configs.BackendXLSX, prefixCipher{})

	if _, err := s.Save(ctx, Entry{Website: "good.com", Password: "fine"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := sheet.Append(ctx, table.Row{"id-2", "bad.com", "", "", "garbage", "Other", "2024-01-01 00:00:00"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Password != "fine" {
		t.Errorf("Expected first password to decrypt, got %q", entries[0].Password)
	}
	if entries[1].Password != DecryptErrorPlaceholder {
		t.Errorf("Expected placeholder, got %q", entries[1].Password)
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, configs.BackendXLSX, prefixCipher{})

	first, err := s.Save(ctx, Entry{Website: "one.com", Password: "p1"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := s.Save(ctx, Entry{Website: "two.com", Password: "p2", Category: "Work"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	later := fixedTime.Add(time.Hour)
	s.now = func() time.Time { return later }

	updated, err := s.Update(ctx, second.ID, Entry{Website: "two.org", Name: "renamed", Password: "p2-new"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.ID != second.ID || updated.Row != 2 {
		t.Errorf("Update must keep identity, got %+v", updated)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	got := entries[1]
	if got.Website != "two.org" || got.Name != "renamed" || got.Password != "p2-new" {
		t.Errorf("Entry not updated: %+v", got)
	}
	if got.Category != DefaultCategory {
		t.Errorf("Expected category to fall back to %q, got %q", DefaultCategory, got.Category)
	}
	if got.Date != "2024-05-01 10:30:00" {
		t.Errorf("Expected refreshed date, got %q", got.Date)
	}
	if entries[0].Website != "one.com" || entries[0].ID != first.ID {
		t.Errorf("Other entries must be unchanged: %+v", entries[0])
	}

	if _, err := s.Update(ctx, "no-such-id", Entry{Website: "w", Password: "p"}); !errors.Is(err, serrors.ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound, got: %v", err)
	}
	if _, err := s.Update(ctx, "", Entry{Website: "w", Password: "p"}); !errors.Is(err, serrors.ErrEntryNotFound) {
		t.Errorf("Expected ErrEntryNotFound for empty id, got: %v", err)
	}
	if _, err := s.Update(ctx, first.ID, Entry{Website: "w"}); !errors.Is(err, serrors.ErrMissingSecret) {
		t.Errorf("Expected ErrMissingSecret, got: %v", err)
	}
}

func TestUpdateRow(t *testing.T) {
	ctx := context.Background()
	s, sheet := newTestStore(t, configs.BackendXLSX, prefixCipher{})

	saved, err := s.Save(ctx, Entry{Website: "row.com", Password: "p"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// A row written without an ID.
	if err := sheet.Append(ctx, table.Row{"", "legacy.com", "", "", "enc:old", "Other", "2023-01-01 00:00:00"}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	updated, err := s.UpdateRow(ctx, 1, Entry{Website: "row.org", Password: "q"})
	if err != nil {
		t.Fatalf("UpdateRow failed: %v", err)
	}
	if updated.ID != saved.ID {
		t.Errorf("UpdateRow must keep the existing ID, got %q want %q", updated.ID, saved.ID)
	}

	legacy, err := s.UpdateRow(ctx, 2, Entry{Website: "legacy.com", Password: "new"})
	if err != nil {
		t.Fatalf("UpdateRow failed: %v", err)
	}
	if legacy.ID == "" {
		t.Error("Expected an ID to be assigned to a legacy row")
	}

	for _, index := range []int{0, 3, -2} {
		if _, err := s.UpdateRow(ctx, index, Entry{Website: "w", Password: "p"}); !errors.Is(err, serrors.ErrEntryNotFound) {
			t.Errorf("UpdateRow(%d): expected ErrEntryNotFound, got %v", index, err)
		}
	}
}

func TestCount(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, configs.BackendSQLite, prefixCipher{})

	for i := 0; i < 4; i++ {
		if _, err := s.Save(ctx, Entry{Website: fmt.Sprintf("site%d.com", i), Password: "p"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 4 {
		t.Errorf("Expected 4 entries, got %d", n)
	}
}

func TestStore_Reseal(t *testing.T) {
	for _, backend := range []string{configs.BackendXLSX, configs.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			s, sheet := newTestStore(t, backend, prefixCipher{})

			for _, e := range []Entry{
				{Website: "a.example", Password: "one"},
				{Website: "b.example", Password: "two"},
			} {
				if _, err := s.Save(ctx, e); err != nil {
					t.Fatalf("Save failed: %v", err)
				}
			}

			result, err := s.Reseal(ctx, func(ciphertext string) (string, error) {
				if ciphertext == "enc:two" {
					return "", errors.New("cannot reseal")
				}
				return "enc:re-" + strings.TrimPrefix(ciphertext, "enc:"), nil
			})
			if err != nil {
				t.Fatalf("Reseal failed: %v", err)
			}
			if result.Resealed != 1 || result.Skipped != 1 {
				t.Errorf("Expected 1 resealed and 1 skipped, got: %+v", result)
			}

			rows, err := sheet.Rows(ctx)
			if err != nil {
				t.Fatalf("Rows failed: %v", err)
			}
			if rows[0][colPassword] != "enc:re-one" {
				t.Errorf("Expected the first password resealed, got: %q", rows[0][colPassword])
			}
			if rows[1][colPassword] != "enc:two" {
				t.Errorf("Expected the second password unchanged, got: %q", rows[1][colPassword])
			}
			if rows[0][colID] == "" || rows[0][colWebsite] != "a.example" {
				t.Errorf("Expected other fields kept, got: %v", rows[0])
			}
		})
	}
}
