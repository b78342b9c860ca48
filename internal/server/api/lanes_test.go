package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/floorsign/internal/gesture"
	"github.com/ayusman/floorsign/internal/store"
)

// newTestStore creates a Store with a temporary database.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// fakeSource merges stored overrides onto the default lanes on reload.
type fakeSource struct {
	store   *store.Store
	lanes   []gesture.Lane
	reloads int
	err     error
}

func newFakeSource(s *store.Store) *fakeSource {
	return &fakeSource{store: s, lanes: gesture.DefaultLanes()}
}

func (f *fakeSource) Lanes() []gesture.Lane { return f.lanes }

func (f *fakeSource) LoadLanes() error {
	f.reloads++
	if f.err != nil {
		return f.err
	}
	overrides, err := f.store.Lanes().List()
	if err != nil {
		return err
	}
	f.lanes = store.Merge(gesture.DefaultLanes(), overrides)
	return nil
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLaneHandler_List(t *testing.T) {
	s := newTestStore(t)
	h := NewLaneHandler(s, newFakeSource(s))

	rec := do(t, h, http.MethodGet, "/api/lanes", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listLanesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Lanes) != len(gesture.DefaultLanes()) {
		t.Errorf("expected %d lanes, got %d", len(gesture.DefaultLanes()), len(response.Lanes))
	}
	if response.Overrides == nil || len(response.Overrides) != 0 {
		t.Errorf("expected empty overrides, got %v", response.Overrides)
	}
}

func TestLaneHandler_Get(t *testing.T) {
	s := newTestStore(t)
	h := NewLaneHandler(s, newFakeSource(s))

	rec := do(t, h, http.MethodGet, "/api/lanes/confirm", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var lane gesture.Lane
	if err := json.NewDecoder(rec.Body).Decode(&lane); err != nil {
		t.Fatalf("failed to decode lane: %v", err)
	}
	if lane.Target != gesture.Confirm || lane.Threshold != 30 || !lane.ConfirmsFloor || lane.Policy != gesture.PolicyExclusive {
		t.Errorf("unexpected lane: %+v", lane)
	}

	if rec := do(t, h, http.MethodGet, "/api/lanes/wave", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown label: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/lanes/neutral", ""); rec.Code != http.StatusNotFound {
		t.Errorf("label without lane: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestLaneHandler_Put(t *testing.T) {
	s := newTestStore(t)
	src := newFakeSource(s)
	h := NewLaneHandler(s, src)

	rec := do(t, h, http.MethodPut, "/api/lanes/point_up", `{"threshold": 8, "increment": 2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if src.reloads != 1 {
		t.Errorf("expected 1 reload, got %d", src.reloads)
	}

	stored, err := s.Lanes().Get(gesture.PointUp)
	if err != nil {
		t.Fatalf("override not stored: %v", err)
	}
	if stored.Threshold != 8 || stored.Increment != 2 {
		t.Errorf("stored = %+v", stored)
	}

	rec = do(t, h, http.MethodGet, "/api/lanes/point_up", "")
	var lane gesture.Lane
	json.NewDecoder(rec.Body).Decode(&lane)
	if lane.Threshold != 8 {
		t.Errorf("effective threshold = %d, want 8", lane.Threshold)
	}
}

func TestLaneHandler_Put_Invalid(t *testing.T) {
	s := newTestStore(t)
	src := newFakeSource(s)
	h := NewLaneHandler(s, src)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"invalid json", "/api/lanes/point_up", `{`},
		{"zero threshold", "/api/lanes/point_up", `{"threshold": 0}`},
		{"label mismatch", "/api/lanes/point_up", `{"label": "all_up", "threshold": 3}`},
		{"neutral target", "/api/lanes/neutral", `{"threshold": 3}`},
		{"bad policy", "/api/lanes/point_up", `{"threshold": 3, "policy": "greedy"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPut, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}

	if src.reloads != 0 {
		t.Errorf("invalid requests should not reload, got %d", src.reloads)
	}
}

func TestLaneHandler_Put_RejectsLaneSetWithoutConfirm(t *testing.T) {
	s := newTestStore(t)
	src := newFakeSource(s)
	h := NewLaneHandler(s, src)

	// confirms_floor defaults to false when left out of the body.
	rec := do(t, h, http.MethodPut, "/api/lanes/confirm", `{"threshold": 30, "policy": "exclusive"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if _, err := s.Lanes().Get(gesture.Confirm); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("override should not be stored, Get() error = %v", err)
	}
	if src.reloads != 0 {
		t.Errorf("rejected override should not reload, got %d", src.reloads)
	}

	// A second confirming lane is rejected as well.
	rec = do(t, h, http.MethodPut, "/api/lanes/all_up", `{"threshold": 20, "confirms_floor": true}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestLaneHandler_Put_ReloadFails(t *testing.T) {
	s := newTestStore(t)
	src := newFakeSource(s)
	src.err = errors.New("camera busy")
	h := NewLaneHandler(s, src)

	rec := do(t, h, http.MethodPut, "/api/lanes/all_up", `{"threshold": 5, "increment": 5}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
}

func TestLaneHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	src := newFakeSource(s)
	h := NewLaneHandler(s, src)

	if err := s.Lanes().Upsert(gesture.Lane{Target: gesture.AllDown, Threshold: 4, Increment: -4}); err != nil {
		t.Fatal(err)
	}

	rec := do(t, h, http.MethodDelete, "/api/lanes/all_down", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if src.reloads != 1 {
		t.Errorf("expected 1 reload, got %d", src.reloads)
	}

	rec = do(t, h, http.MethodDelete, "/api/lanes/all_down", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestLaneHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	h := NewLaneHandler(s, newFakeSource(s))

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/lanes"},
		{http.MethodDelete, "/api/lanes"},
		{http.MethodPost, "/api/lanes/confirm"},
		{http.MethodPatch, "/api/lanes/confirm"},
	} {
		if rec := do(t, h, tc.method, tc.path, ""); rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status %d, got %d", tc.method, tc.path, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
