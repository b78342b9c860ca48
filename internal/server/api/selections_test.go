package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/ayusman/floorsign/internal/store"
)

func TestSelectionHandler(t *testing.T) {
	s := newTestStore(t)
	h := NewSelectionHandler(s)

	base := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	for i, f := range []int{2, 5, 9} {
		sel := &store.Selection{Floor: f, ConfirmedAt: base.Add(time.Duration(i) * time.Second)}
		if err := s.Selections().Create(sel); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		path   string
		status int
		floors []int
	}{
		{"default limit", "/api/selections", http.StatusOK, []int{9, 5, 2}},
		{"explicit limit", "/api/selections?limit=1", http.StatusOK, []int{9}},
		{"zero limit", "/api/selections?limit=0", http.StatusBadRequest, nil},
		{"non-numeric limit", "/api/selections?limit=all", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.status != http.StatusOK {
				return
			}

			var response listSelectionsResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(response.Selections) != len(tt.floors) {
				t.Fatalf("expected %d selections, got %d", len(tt.floors), len(response.Selections))
			}
			for i, sel := range response.Selections {
				if sel.Floor != tt.floors[i] {
					t.Errorf("selection %d floor = %d, want %d", i, sel.Floor, tt.floors[i])
				}
				if sel.ID == "" {
					t.Errorf("selection %d has no id", i)
				}
			}
		})
	}
}

func TestSelectionHandler_Empty(t *testing.T) {
	h := NewSelectionHandler(newTestStore(t))

	rec := do(t, h, http.MethodGet, "/api/selections", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if body := rec.Body.String(); body != "{\"selections\":[]}\n" {
		t.Errorf("body = %q", body)
	}
}

func TestSelectionHandler_MethodNotAllowed(t *testing.T) {
	h := NewSelectionHandler(newTestStore(t))

	if rec := do(t, h, http.MethodPost, "/api/selections", "{}"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
