package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
	"github.com/PolarWolf314/strongroom/internal/folders"
	"github.com/PolarWolf314/strongroom/internal/secrets"
	"github.com/PolarWolf314/strongroom/internal/vault"
	"github.com/PolarWolf314/strongroom/internal/workflows"
)

type statusResponse struct {
	MasterSet bool `json:"master_set"`
}

type setupRequest struct {
	Pass1 string `json:"pass1"`
	Pass2 string `json:"pass2"`
}

type loginRequest struct {
	Pass string `json:"pass"`
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type openNoteRequest struct {
	Key string `json:"key"`
}

type saveNoteRequest struct {
	CurrentKey string `json:"current_key"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

type entryRequest struct {
	Website  string `json:"website"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Password string `json:"password"`
	Category string `json:"category"`
}

func (e entryRequest) entry() vault.Entry {
	return vault.Entry{
		Website:  e.Website,
		Name:     e.Name,
		Contact:  e.Contact,
		Password: e.Password,
		Category: e.Category,
	}
}

type folderRequest struct {
	FolderPath string `json:"folder_path"`
	Action     string `json:"action"`
}

type metricsResponse struct {
	Cipher        secrets.CipherStats `json:"cipher"`
	Requests      int64               `json:"requests"`
	LoginFailures int64               `json:"login_failures"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, statusResponse{MasterSet: workflows.IsMasterSet()})
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := workflows.CreateMaster(r.Context(), workflows.CreateMasterOptions{
		Passphrase:   []byte(req.Pass1),
		Confirmation: []byte(req.Pass2),
	})
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, statusResponse{MasterSet: true})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.loginLimiter.allow(clientIP(r)) {
		w.Header().Set("Retry-After", "60")
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ok, err := workflows.VerifyMaster(r.Context(), []byte(req.Pass))
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	if !ok {
		s.loginFailures.Inc(1)
		s.logger.Warnf("Failed login from %s", clientIP(r))
		s.writeWorkflowError(w, serrors.ErrUnauthenticated)
		return
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.delete(cookie.Value)
	}
	token := s.sessions.create()
	http.SetCookie(w, sessionCookieFor(token, int(sessionTTL.Seconds())))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.delete(cookie.Value)
	}
	http.SetCookie(w, sessionCookieFor("", -1))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := workflows.Dashboard(r.Context())
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, metricsResponse{
		Cipher:        secrets.Stats(),
		Requests:      s.requests.Count(),
		LoginFailures: s.loginFailures.Count(),
	})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	files, err := workflows.ListNotes(r.Context(), r.URL.Query().Get("match"))
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, files)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := workflows.CreateNote(r.Context(), workflows.CreateNoteOptions{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result)
}

func (s *Server) handleOpenNote(w http.ResponseWriter, r *http.Request) {
	var req openNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := workflows.ReadNote(r.Context(), chi.URLParam(r, "file"), strings.TrimSpace(req.Key))
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, note)
}

func (s *Server) handleSaveNote(w http.ResponseWriter, r *http.Request) {
	var req saveNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := workflows.SaveNote(r.Context(), workflows.SaveNoteOptions{
		Filename:   chi.URLParam(r, "file"),
		CurrentKey: strings.TrimSpace(req.CurrentKey),
		Title:      req.Title,
		Content:    req.Content,
	})
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := workflows.ListEntries(r.Context())
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	if entries == nil {
		entries = []vault.Entry{}
	}
	writeJSON(w, entries)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := workflows.AddEntry(r.Context(), req.entry())
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := workflows.UpdateEntry(r.Context(), workflows.UpdateEntryOptions{
		ID:    chi.URLParam(r, "id"),
		Entry: req.entry(),
	})
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, entry)
}

func (s *Server) handleRekeyVault(w http.ResponseWriter, r *http.Request) {
	result, err := workflows.RotateVaultKey(r.Context())
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	records, err := workflows.ListFolders(r.Context())
	if err != nil {
		s.writeWorkflowError(w, err)
		return
	}
	if records == nil {
		records = []folders.Record{}
	}
	writeJSON(w, records)
}

func (s *Server) handleFolderAction(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	switch req.Action {
	case "lock":
		record, err := workflows.LockFolder(r.Context(), req.FolderPath)
		if err != nil {
			s.writeWorkflowError(w, err)
			return
		}
		writeJSON(w, record)
	case "unlock":
		record, err := workflows.UnlockFolder(r.Context(), req.FolderPath)
		if err != nil {
			s.writeWorkflowError(w, err)
			return
		}
		writeJSON(w, record)
	default:
		writeError(w, http.StatusBadRequest, `action must be "lock" or "unlock"`)
	}
}
