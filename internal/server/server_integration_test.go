package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/floorsign/internal/floor"
	"github.com/ayusman/floorsign/internal/gesture"
	"github.com/ayusman/floorsign/internal/store"
)

// engineApp rebuilds a real engine from stored lane overrides.
type engineApp struct {
	store  *store.Store
	engine *floor.Engine
}

func (a *engineApp) LoadLanes() error {
	overrides, err := a.store.Lanes().List()
	if err != nil {
		return err
	}
	e, err := floor.NewEngine(store.Merge(gesture.DefaultLanes(), overrides), floor.DefaultInitialThreshold)
	if err != nil {
		return err
	}
	a.engine = e
	return nil
}

func (a *engineApp) Lanes() []gesture.Lane    { return a.engine.Lanes() }
func (a *engineApp) Snapshot() floor.Snapshot { return a.engine.Snapshot() }

func TestAPI_LaneWorkflow(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	app := &engineApp{store: s}
	if err := app.LoadLanes(); err != nil {
		t.Fatalf("LoadLanes() error = %v", err)
	}

	ts := httptest.NewServer(New(Config{Store: s, App: app}))
	defer ts.Close()
	client := ts.Client()

	// 1. Override the single-step lane.
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/lanes/point_up",
		bytes.NewBufferString(`{"threshold": 3, "increment": 1, "policy": "shared"}`))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT /api/lanes/point_up error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// 2. The engine now counts with the new threshold.
	resp, err = client.Get(ts.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state error = %v", err)
	}
	var snap struct {
		Lanes []floor.LaneProgress `json:"lanes"`
	}
	json.NewDecoder(resp.Body).Decode(&snap)
	resp.Body.Close()

	var found bool
	for _, lp := range snap.Lanes {
		if lp.Label == gesture.PointUp {
			found = true
			if lp.Threshold != 3 {
				t.Errorf("point_up threshold = %d, want 3", lp.Threshold)
			}
		}
	}
	if !found {
		t.Error("point_up lane missing from state")
	}

	// 3. Listing shows the override.
	resp, err = client.Get(ts.URL + "/api/lanes")
	if err != nil {
		t.Fatalf("GET /api/lanes error = %v", err)
	}
	var listed struct {
		Overrides []gesture.Lane `json:"overrides"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()
	if len(listed.Overrides) != 1 || listed.Overrides[0].Target != gesture.PointUp {
		t.Errorf("overrides = %+v", listed.Overrides)
	}

	// 4. Deleting restores the default.
	req, _ = http.NewRequest(http.MethodDelete, ts.URL+"/api/lanes/point_up", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	for _, l := range app.Lanes() {
		if l.Target != gesture.PointUp {
			continue
		}
		for _, d := range gesture.DefaultLanes() {
			if d.Target == gesture.PointUp && d.Threshold != l.Threshold {
				t.Errorf("threshold after delete = %d, want default %d", l.Threshold, d.Threshold)
			}
		}
	}
}

func TestAPI_SelectionHistory(t *testing.T) {
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	ts := httptest.NewServer(New(Config{Store: s}))
	defer ts.Close()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, f := range []int{3, 11} {
		if err := s.Selections().Create(&store.Selection{
			Floor:       f,
			Delta:       f,
			ConfirmedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	resp, err := ts.Client().Get(ts.URL + "/api/selections?limit=1")
	if err != nil {
		t.Fatalf("GET /api/selections error = %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Selections []store.Selection `json:"selections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Selections) != 1 || body.Selections[0].Floor != 11 {
		t.Errorf("selections = %+v, want only floor 11", body.Selections)
	}
}
