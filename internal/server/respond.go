package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bmatcuk/doublestar/v4"

	serrors "github.com/PolarWolf314/strongroom/internal/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSONStatus(w, code, errorResponse{Error: msg})
}

// decodeJSON reads the request body into v, answering 400 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeWorkflowError maps a workflow error to a status code and a message
// safe to show the client.
func (s *Server) writeWorkflowError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, serrors.ErrInvalidKey), errors.Is(err, serrors.ErrIncorrectKey):
		writeError(w, http.StatusUnauthorized, "invalid key")
	case errors.Is(err, serrors.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, serrors.ErrUnauthenticated.Error())
	case errors.Is(err, serrors.ErrNotFound),
		errors.Is(err, serrors.ErrEntryNotFound),
		errors.Is(err, serrors.ErrFolderNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, serrors.ErrMissingSecret),
		errors.Is(err, serrors.ErrUnsupportedText),
		errors.Is(err, serrors.ErrCellTooLong),
		errors.Is(err, serrors.ErrPassphraseMismatch),
		errors.Is(err, doublestar.ErrBadPattern):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, serrors.ErrMasterAlreadySet),
		errors.Is(err, serrors.ErrMasterNotSet),
		errors.Is(err, serrors.ErrTableLayout):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, serrors.ErrFolderCommandFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
