package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlay_RejectsMissingFile(t *testing.T) {
	if _, err := play(""); err == nil {
		t.Error("play(\"\") should fail")
	}

	missing := filepath.Join(t.TempDir(), "Confirm.mp3")
	if _, err := play(missing); !os.IsNotExist(err) {
		t.Errorf("play(missing) error = %v, want not-exist", err)
	}
}

func TestPlayers_Configured(t *testing.T) {
	for goos, list := range players {
		for _, candidate := range list {
			if len(candidate) == 0 {
				t.Errorf("%s: empty player command", goos)
			}
		}
	}
}
