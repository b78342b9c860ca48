// Package plugin discovers external helper executables and runs them with a
// JSON request on stdin and a JSON response on stdout.
package plugin

import (
	"encoding/json"
	"errors"
	"slices"
)

var (
	// ErrPluginNotFound is returned when a requested plugin cannot be found.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrUnsupportedAction is returned when a plugin does not declare an action.
	ErrUnsupportedAction = errors.New("action not supported by plugin")
	// ErrPluginFailed is returned when a plugin reports success=false.
	ErrPluginFailed = errors.New("plugin reported failure")
)

// Manifest is the plugin.json file found in each plugin directory.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Supports reports whether the manifest declares action. A manifest with no
// actions accepts any.
func (m Manifest) Supports(action string) bool {
	return len(m.Actions) == 0 || slices.Contains(m.Actions, action)
}

// Request is written to the plugin's stdin.
type Request struct {
	Action string          `json:"action"`
	Clip   string          `json:"clip,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
