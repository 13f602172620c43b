package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/strongroom/internal/configs"
	"github.com/PolarWolf314/strongroom/internal/folders"
	logger "github.com/PolarWolf314/strongroom/internal/logging"
	"github.com/PolarWolf314/strongroom/internal/notes"
	"github.com/PolarWolf314/strongroom/internal/vault"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

const testPassphrase = "correct horse battery staple"

type testClient struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

// setupTestServer points the global settings at a fresh temp directory.
func setupTestServer(t *testing.T) *testClient {
	t.Helper()

	original := configs.StrongroomSettings
	tempDir := t.TempDir()
	configs.StrongroomSettings = configs.NewSettings(filepath.Join(tempDir, "data"), filepath.Join(tempDir, "config"))
	t.Cleanup(func() {
		configs.StrongroomSettings = original
	})

	s := New(configs.DefaultConfig(), logger.Logger{Out: io.Discard, Err: io.Discard})
	return &testClient{t: t, handler: s.Handler()}
}

func (c *testClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "127.0.0.1:40000"
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == sessionCookie {
			if cookie.MaxAge < 0 {
				c.cookie = nil
			} else {
				c.cookie = cookie
			}
		}
	}
	return rec
}

func (c *testClient) login() {
	c.t.Helper()
	if rec := c.do(http.MethodPost, "/api/setup", setupRequest{Pass1: testPassphrase, Pass2: testPassphrase}); rec.Code != http.StatusCreated {
		c.t.Fatalf("Expected setup to return 201, got: %d %s", rec.Code, rec.Body.String())
	}
	if rec := c.do(http.MethodPost, "/api/login", loginRequest{Pass: testPassphrase}); rec.Code != http.StatusNoContent {
		c.t.Fatalf("Expected login to return 204, got: %d %s", rec.Code, rec.Body.String())
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestStatusAndSetup(t *testing.T) {
	c := setupTestServer(t)

	rec := c.do(http.MethodGet, "/api/status", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", rec.Code)
	}
	if decodeBody[statusResponse](t, rec).MasterSet {
		t.Error("Expected master_set to be false in a fresh environment")
	}

	rec = c.do(http.MethodPost, "/api/setup", setupRequest{Pass1: "a", Pass2: "b"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for mismatched passphrases, got: %d", rec.Code)
	}
	rec = c.do(http.MethodPost, "/api/setup", setupRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty passphrase, got: %d", rec.Code)
	}

	rec = c.do(http.MethodPost, "/api/setup", setupRequest{Pass1: testPassphrase, Pass2: testPassphrase})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got: %d %s", rec.Code, rec.Body.String())
	}
	rec = c.do(http.MethodPost, "/api/setup", setupRequest{Pass1: "other", Pass2: "other"})
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 for a second setup, got: %d", rec.Code)
	}

	if !decodeBody[statusResponse](t, c.do(http.MethodGet, "/api/status", nil)).MasterSet {
		t.Error("Expected master_set to be true after setup")
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	c := setupTestServer(t)

	for _, path := range []string{"/api/dashboard", "/api/notes", "/api/vault", "/api/folders", "/api/metrics"} {
		rec := c.do(http.MethodGet, path, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for %s without a session, got: %d", path, rec.Code)
		}
	}

	c.cookie = &http.Cookie{Name: sessionCookie, Value: "forged"}
	if rec := c.do(http.MethodGet, "/api/dashboard", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for an unknown session, got: %d", rec.Code)
	}
}

func TestLoginAndLogout(t *testing.T) {
	c := setupTestServer(t)

	if rec := c.do(http.MethodPost, "/api/login", loginRequest{Pass: "x"}); rec.Code != http.StatusConflict {
		t.Errorf("Expected 409 before setup, got: %d", rec.Code)
	}

	c.do(http.MethodPost, "/api/setup", setupRequest{Pass1: testPassphrase, Pass2: testPassphrase})

	rec := c.do(http.MethodPost, "/api/login", loginRequest{Pass: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a wrong passphrase, got: %d", rec.Code)
	}
	if c.cookie != nil {
		t.Fatal("Expected no session cookie after a failed login")
	}

	rec = c.do(http.MethodPost, "/api/login", loginRequest{Pass: testPassphrase})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got: %d %s", rec.Code, rec.Body.String())
	}
	if c.cookie == nil {
		t.Fatal("Expected a session cookie after login")
	}
	if !c.cookie.HttpOnly {
		t.Error("Expected session cookie to be HttpOnly")
	}
	if c.cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("Expected SameSite=Lax, got: %v", c.cookie.SameSite)
	}

	rec = c.do(http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d %s", rec.Code, rec.Body.String())
	}
	dashboard := decodeBody[workflows.DashboardResult](t, rec)
	if dashboard != (workflows.DashboardResult{}) {
		t.Errorf("Expected zero counts, got: %+v", dashboard)
	}

	stale := c.cookie
	c.do(http.MethodPost, "/api/logout", nil)
	c.cookie = stale
	if rec := c.do(http.MethodGet, "/api/dashboard", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got: %d", rec.Code)
	}
}

func TestLoginReplacesExistingSession(t *testing.T) {
	c := setupTestServer(t)
	c.login()

	first := c.cookie
	c.do(http.MethodPost, "/api/login", loginRequest{Pass: testPassphrase})
	if c.cookie.Value == first.Value {
		t.Fatal("Expected a new session token on login")
	}

	c.cookie = first
	if rec := c.do(http.MethodGet, "/api/dashboard", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected the previous session to be cleared, got: %d", rec.Code)
	}
}

func TestLoginRateLimit(t *testing.T) {
	original := configs.StrongroomSettings
	tempDir := t.TempDir()
	configs.StrongroomSettings = configs.NewSettings(filepath.Join(tempDir, "data"), filepath.Join(tempDir, "config"))
	t.Cleanup(func() {
		configs.StrongroomSettings = original
	})

	config := configs.DefaultConfig()
	config.Server.LoginRatePerMinute = 2
	s := New(config, logger.Logger{Out: io.Discard, Err: io.Discard})
	c := &testClient{t: t, handler: s.Handler()}

	for i := 0; i < 2; i++ {
		if rec := c.do(http.MethodPost, "/api/login", loginRequest{Pass: "x"}); rec.Code == http.StatusTooManyRequests {
			t.Fatalf("Attempt %d should not be rate limited", i+1)
		}
	}

	rec := c.do(http.MethodPost, "/api/login", loginRequest{Pass: "x"})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got: %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Expected a Retry-After header")
	}
}

func TestNotesRoutes(t *testing.T) {
	c := setupTestServer(t)
	c.login()

	rec := c.do(http.MethodPost, "/api/notes", noteRequest{Title: "  ", Content: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a blank title, got: %d", rec.Code)
	}

	rec = c.do(http.MethodPost, "/api/notes", noteRequest{Title: "Shopping List", Content: "eggs\nmilk"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got: %d %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[workflows.NoteResult](t, rec)
	if created.Filename == "" || created.Key == "" {
		t.Fatalf("Expected file and key, got: %+v", created)
	}

	wrongKey := c.do(http.MethodPost, "/api/notes/"+created.Filename+"/open", openNoteRequest{Key: "zzzzzz"})
	if wrongKey.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a wrong key, got: %d", wrongKey.Code)
	}
	if msg := decodeBody[errorResponse](t, wrongKey).Error; msg != "invalid key" {
		t.Errorf("Expected message 'invalid key', got: %q", msg)
	}

	missing := c.do(http.MethodPost, "/api/notes/nope_20250101_000000.docx/open", openNoteRequest{Key: "zzzzzz"})
	if missing.Code != wrongKey.Code || missing.Body.String() != wrongKey.Body.String() {
		t.Errorf("Expected a missing note to look like a wrong key, got: %d %s", missing.Code, missing.Body.String())
	}

	rec = c.do(http.MethodPost, "/api/notes/"+created.Filename+"/open", openNoteRequest{Key: created.Key})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d %s", rec.Code, rec.Body.String())
	}
	note := decodeBody[notes.Note](t, rec)
	if note.Title != "Shopping List" || note.Content != "eggs\nmilk" {
		t.Errorf("Unexpected note: %+v", note)
	}

	rec = c.do(http.MethodPost, "/api/notes/"+created.Filename+"/save", saveNoteRequest{
		CurrentKey: created.Key,
		Title:      "Shopping List",
		Content:    "eggs\nmilk\nbread",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d %s", rec.Code, rec.Body.String())
	}
	saved := decodeBody[workflows.NoteResult](t, rec)
	if saved.Key == created.Key {
		t.Error("Expected save to rotate the key")
	}

	rec = c.do(http.MethodPost, "/api/notes/"+created.Filename+"/open", openNoteRequest{Key: created.Key})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected the old key to stop working, got: %d", rec.Code)
	}

	rec = c.do(http.MethodPost, "/api/notes/missing"+notes.Extension+"/save", saveNoteRequest{
		CurrentKey: saved.Key,
		Title:      "t",
		Content:    "c",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 when saving a missing note, got: %d", rec.Code)
	}

	rec = c.do(http.MethodGet, "/api/notes", nil)
	files := decodeBody[[]string](t, rec)
	if len(files) != 1 || files[0] != created.Filename {
		t.Errorf("Expected [%s], got: %v", created.Filename, files)
	}

	rec = c.do(http.MethodGet, "/api/notes?match=nothing*", nil)
	if files := decodeBody[[]string](t, rec); len(files) != 0 {
		t.Errorf("Expected no matches, got: %v", files)
	}
	if rec := c.do(http.MethodGet, "/api/notes?match=%5B", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad pattern, got: %d", rec.Code)
	}
}

func TestVaultRoutes(t *testing.T) {
	c := setupTestServer(t)
	c.login()

	if files := decodeBody[[]vault.Entry](t, c.do(http.MethodGet, "/api/vault", nil)); len(files) != 0 {
		t.Fatalf("Expected an empty vault, got: %v", files)
	}

	rec := c.do(http.MethodPost, "/api/vault", entryRequest{Website: "example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a password, got: %d", rec.Code)
	}

	rec = c.do(http.MethodPost, "/api/vault", entryRequest{
		Website:  "example.com",
		Name:     "Example",
		Contact:  "me@example.com",
		Password: "hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got: %d %s", rec.Code, rec.Body.String())
	}
	added := decodeBody[vault.Entry](t, rec)
	if added.ID == "" {
		t.Fatal("Expected the entry to have an ID")
	}
	if added.Category != "Other" {
		t.Errorf("Expected default category 'Other', got: %q", added.Category)
	}

	entries := decodeBody[[]vault.Entry](t, c.do(http.MethodGet, "/api/vault", nil))
	if len(entries) != 1 || entries[0].Password != "hunter2" {
		t.Fatalf("Expected one decrypted entry, got: %+v", entries)
	}

	rec = c.do(http.MethodPut, "/api/vault/"+added.ID, entryRequest{
		Website:  "example.com",
		Password: "correct horse",
		Category: "Work",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d %s", rec.Code, rec.Body.String())
	}

	entries = decodeBody[[]vault.Entry](t, c.do(http.MethodGet, "/api/vault", nil))
	if len(entries) != 1 || entries[0].Password != "correct horse" || entries[0].Category != "Work" {
		t.Errorf("Expected the updated entry, got: %+v", entries)
	}

	rec = c.do(http.MethodPut, "/api/vault/no-such-id", entryRequest{Website: "x", Password: "y"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown ID, got: %d", rec.Code)
	}

	rekeyed := decodeBody[vault.ResealResult](t, c.do(http.MethodPost, "/api/vault/rekey", nil))
	if rekeyed.Resealed != 1 || rekeyed.Skipped != 0 {
		t.Errorf("Expected one resealed password, got: %+v", rekeyed)
	}

	entries = decodeBody[[]vault.Entry](t, c.do(http.MethodGet, "/api/vault", nil))
	if len(entries) != 1 || entries[0].Password != "correct horse" {
		t.Errorf("Expected the password to survive rotation, got: %+v", entries)
	}

	dashboard := decodeBody[workflows.DashboardResult](t, c.do(http.MethodGet, "/api/dashboard", nil))
	if dashboard.VaultEntries != 1 {
		t.Errorf("Expected 1 vault entry on the dashboard, got: %d", dashboard.VaultEntries)
	}
}

func TestFolderRoutes(t *testing.T) {
	c := setupTestServer(t)
	c.login()

	dir := filepath.Join(t.TempDir(), "private")
	if err := os.Mkdir(dir, 0700); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0700) })

	rec := c.do(http.MethodPost, "/api/folders", folderRequest{FolderPath: dir, Action: "hide"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an unknown action, got: %d", rec.Code)
	}

	rec = c.do(http.MethodPost, "/api/folders", folderRequest{FolderPath: filepath.Join(dir, "missing"), Action: "lock"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing folder, got: %d", rec.Code)
	}

	rec = c.do(http.MethodPost, "/api/folders", folderRequest{FolderPath: dir, Action: "lock"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d %s", rec.Code, rec.Body.String())
	}
	if record := decodeBody[folders.Record](t, rec); record.Status != folders.StatusLocked {
		t.Errorf("Expected status %s, got: %s", folders.StatusLocked, record.Status)
	}

	dashboard := decodeBody[workflows.DashboardResult](t, c.do(http.MethodGet, "/api/dashboard", nil))
	if dashboard.LockedFolders != 1 {
		t.Errorf("Expected 1 locked folder, got: %d", dashboard.LockedFolders)
	}

	rec = c.do(http.MethodPost, "/api/folders", folderRequest{FolderPath: dir, Action: "unlock"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d %s", rec.Code, rec.Body.String())
	}

	records := decodeBody[[]folders.Record](t, c.do(http.MethodGet, "/api/folders", nil))
	if len(records) != 1 || records[0].Status != folders.StatusUnlocked {
		t.Errorf("Expected one unlocked record, got: %+v", records)
	}
}

func TestMetricsRoute(t *testing.T) {
	c := setupTestServer(t)
	c.login()

	c.do(http.MethodPost, "/api/vault", entryRequest{Website: "a", Password: "b"})

	rec := c.do(http.MethodGet, "/api/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got: %d", rec.Code)
	}
	m := decodeBody[metricsResponse](t, rec)
	if m.Cipher.Sealed < 1 {
		t.Errorf("Expected at least one seal, got: %d", m.Cipher.Sealed)
	}
	if m.Requests < 1 {
		t.Errorf("Expected requests to be counted, got: %d", m.Requests)
	}
}

func TestUnknownFieldsRejected(t *testing.T) {
	c := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/setup", strings.NewReader(`{"pass1":"a","pass2":"a","admin":true}`))
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown fields, got: %d", rec.Code)
	}
}

func TestUnstorableValuesRejected(t *testing.T) {
	c := setupTestServer(t)
	c.login()

	rec := c.do(http.MethodPost, "/api/notes", noteRequest{Title: "Control", Content: "a\x01b"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a control character, got: %d %s", rec.Code, rec.Body.String())
	}

	rec = c.do(http.MethodPost, "/api/vault", entryRequest{Website: "example.com", Password: strings.Repeat("p", 30000)})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an oversized password, got: %d %s", rec.Code, rec.Body.String())
	}

	if files := decodeBody[[]string](t, c.do(http.MethodGet, "/api/notes", nil)); len(files) != 0 {
		t.Errorf("Expected no notes, got: %v", files)
	}
	if entries := decodeBody[[]vault.Entry](t, c.do(http.MethodGet, "/api/vault", nil)); len(entries) != 0 {
		t.Errorf("Expected no vault entries, got: %+v", entries)
	}
}
