package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/floorsign/internal/store"
)

// DefaultSelectionLimit is used when no limit query parameter is given.
const DefaultSelectionLimit = 50

// SelectionHandler serves GET /api/selections.
type SelectionHandler struct {
	store *store.Store
}

// NewSelectionHandler creates a SelectionHandler backed by s.
func NewSelectionHandler(s *store.Store) *SelectionHandler {
	return &SelectionHandler{store: s}
}

type listSelectionsResponse struct {
	Selections []*store.Selection `json:"selections"`
}

func (h *SelectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := DefaultSelectionLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	selections, err := h.store.Selections().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list selections")
		return
	}
	if selections == nil {
		selections = []*store.Selection{}
	}

	writeJSON(w, http.StatusOK, listSelectionsResponse{Selections: selections})
}
