package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ayusman/floorsign/internal/gesture"
	"github.com/ayusman/floorsign/internal/store"
)

// LaneSource exposes the lanes the running engine uses and rebuilds them
// after an override changes.
type LaneSource interface {
	Lanes() []gesture.Lane
	LoadLanes() error
}

// LaneHandler serves /api/lanes and /api/lanes/{label}.
type LaneHandler struct {
	store  *store.Store
	source LaneSource
}

// NewLaneHandler creates a LaneHandler backed by s and src.
func NewLaneHandler(s *store.Store, src LaneSource) *LaneHandler {
	return &LaneHandler{store: s, source: src}
}

type listLanesResponse struct {
	Lanes     []gesture.Lane `json:"lanes"`
	Overrides []gesture.Lane `json:"overrides"`
}

// ServeHTTP routes collection and item requests.
func (h *LaneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/lanes")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w)
		return
	}

	label, err := gesture.ParseLabel(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown label")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, label)
	case http.MethodPut:
		h.put(w, r, label)
	case http.MethodDelete:
		h.delete(w, label)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/lanes and returns the effective lanes in evaluation
// order together with the stored overrides.
func (h *LaneHandler) list(w http.ResponseWriter) {
	overrides, err := h.store.Lanes().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list lanes")
		return
	}
	if overrides == nil {
		overrides = []gesture.Lane{}
	}

	writeJSON(w, http.StatusOK, listLanesResponse{
		Lanes:     h.source.Lanes(),
		Overrides: overrides,
	})
}

// get handles GET /api/lanes/{label} and returns the effective lane.
func (h *LaneHandler) get(w http.ResponseWriter, label gesture.Label) {
	for _, l := range h.source.Lanes() {
		if l.Target == label {
			writeJSON(w, http.StatusOK, l)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Lane not found")
}

// put handles PUT /api/lanes/{label}: stores an override and reloads.
func (h *LaneHandler) put(w http.ResponseWriter, r *http.Request, label gesture.Label) {
	var lane gesture.Lane
	if err := json.NewDecoder(r.Body).Decode(&lane); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if lane.Target != gesture.Neutral && lane.Target != label {
		writeError(w, http.StatusBadRequest, "Label in body does not match path")
		return
	}
	lane.Target = label

	// Reject overrides that would leave the running lane set unusable, so a
	// bad row never reaches the store and breaks the next boot.
	if _, err := gesture.NewStabilizer(store.Merge(h.source.Lanes(), []gesture.Lane{lane})); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Lanes().Upsert(lane); err != nil {
		if errors.Is(err, gesture.ErrInvalidLane) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to save lane")
		return
	}

	if err := h.source.LoadLanes(); err != nil {
		log.Printf("api: reload after lane update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to apply lane")
		return
	}

	writeJSON(w, http.StatusOK, lane)
}

// delete handles DELETE /api/lanes/{label}: drops the override and reloads.
func (h *LaneHandler) delete(w http.ResponseWriter, label gesture.Label) {
	if err := h.store.Lanes().Delete(label); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No override for lane")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete lane")
		return
	}

	if err := h.source.LoadLanes(); err != nil {
		log.Printf("api: reload after lane delete failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to apply lanes")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
