package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pomgrid/pomgrid/pkg/matrix"
	"github.com/pomgrid/pomgrid/pkg/store"
)

// defaultSnapshotLimit caps /api/snapshots when no limit is given.
const defaultSnapshotLimit = 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMatrix serves the matrix document. The file is read on every
// request so a fresh analyze run shows up without restarting the
// server.
func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readMatrix(w, r)
	if doc == nil || err != nil {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGroup(w http.ResponseWriter, r *http.Request) {
	doc, err := s.readMatrix(w, r)
	if doc == nil || err != nil {
		return
	}
	groupID := chi.URLParam(r, "group")
	group := doc.Group(groupID)
	if group == nil {
		writeError(w, http.StatusNotFound, "group not found: "+groupID)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// readMatrix loads the matrix file, writing the error response itself
// when the file is missing or malformed.
func (s *Server) readMatrix(w http.ResponseWriter, r *http.Request) (*matrix.Document, error) {
	doc, err := matrix.ReadDocumentFile(s.matrixPath)
	if err != nil {
		s.logger.Warn("matrix unavailable", "id", RequestID(r.Context()), "path", s.matrixPath, "err", err)
		writeError(w, http.StatusNotFound, "matrix not available; run analyze first")
		return nil, err
	}
	return doc, nil
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}

	limit := defaultSnapshotLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit: "+raw)
			return
		}
		limit = n
	}

	snaps, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list snapshots", "id", RequestID(r.Context()), "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	if snaps == nil {
		snaps = []*store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "snapshot store not configured")
		return
	}

	id := chi.URLParam(r, "id")
	snap, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found: "+id)
			return
		}
		s.logger.Error("get snapshot", "id", RequestID(r.Context()), "snapshot", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load snapshot")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// writeJSON writes v as a two-space-indented JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeError writes a JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
