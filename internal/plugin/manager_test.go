package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir string, m Manifest) {
	t.Helper()
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func mkPluginDir(t *testing.T, root, name string) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}
	return dir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()
	dir := mkPluginDir(t, root, "sound")
	writeManifest(t, dir, Manifest{
		Name:        "sound",
		Version:     "1.0.0",
		Description: "Plays feedback clips",
		Executable:  "sound",
		Actions:     []string{"play"},
	})

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	p := plugins[0]
	if p.Manifest.Name != "sound" || p.Manifest.Version != "1.0.0" {
		t.Errorf("manifest = %+v", p.Manifest)
	}
	if p.Path != dir {
		t.Errorf("Path = %q, want %q", p.Path, dir)
	}
	if p.Executable != filepath.Join(dir, "sound") {
		t.Errorf("Executable = %q", p.Executable)
	}
	if !p.Manifest.Supports("play") || p.Manifest.Supports("stop") {
		t.Error("Supports() should only accept play")
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	root := t.TempDir()

	writeManifest(t, mkPluginDir(t, root, "b"), Manifest{Name: "beta", Executable: "beta"})
	writeManifest(t, mkPluginDir(t, root, "a"), Manifest{Name: "alpha", Executable: "alpha"})

	// Name and executable default to the directory name.
	writeManifest(t, mkPluginDir(t, root, "gamma"), Manifest{})

	bad := mkPluginDir(t, root, "broken")
	if err := os.WriteFile(filepath.Join(bad, ManifestFile), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	mkPluginDir(t, root, "empty")
	if err := os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	var names []string
	for _, p := range manager.List() {
		names = append(names, p.Manifest.Name)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	gamma, err := manager.Get("gamma")
	if err != nil {
		t.Fatalf("Get(gamma) error = %v", err)
	}
	if gamma.Executable != filepath.Join(root, "gamma", "gamma") {
		t.Errorf("gamma executable = %q", gamma.Executable)
	}
	if !gamma.Manifest.Supports("anything") {
		t.Error("a manifest without actions should accept any action")
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "nope"))
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir = %v, want nil", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no plugins")
	}
}

func TestManager_Discover_Rescan(t *testing.T) {
	root := t.TempDir()
	dir := mkPluginDir(t, root, "sound")
	writeManifest(t, dir, Manifest{Name: "sound"})

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Get("sound"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := manager.Discover(); err != nil {
		t.Fatal(err)
	}
	if _, err := manager.Get("sound"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get() after removal error = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_PluginDir(t *testing.T) {
	if got := NewManager("/opt/floorsign/plugins").PluginDir(); got != "/opt/floorsign/plugins" {
		t.Errorf("PluginDir() = %q", got)
	}
}
