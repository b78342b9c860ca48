// Package main provides the sound plugin: it plays one audio clip per
// request with the platform's command-line player.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string          `json:"action"`
	Clip   string          `json:"clip"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type playParams struct {
	File string `json:"file"`
}

// players lists candidate commands per OS, tried in order.
var players = map[string][][]string{
	"darwin":  {{"afplay"}},
	"linux":   {{"paplay"}, {"aplay", "-q"}, {"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}},
	"freebsd": {{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err), nil)
		return
	}

	if req.Action != "play" {
		writeResponse(fmt.Errorf("unknown action: %s", req.Action), nil)
		return
	}

	var params playParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			writeResponse(fmt.Errorf("invalid params: %w", err), nil)
			return
		}
	}

	player, err := play(params.File)
	if err != nil {
		writeResponse(fmt.Errorf("clip %s: %w", req.Clip, err), nil)
		return
	}

	data, _ := json.Marshal(map[string]string{"clip": req.Clip, "player": player})
	writeResponse(nil, data)
}

// play blocks until the clip finishes and returns the player used.
func play(file string) (string, error) {
	if file == "" {
		return "", errors.New("no file given")
	}
	if _, err := os.Stat(file); err != nil {
		return "", err
	}

	for _, candidate := range players[runtime.GOOS] {
		path, err := exec.LookPath(candidate[0])
		if err != nil {
			continue
		}
		args := append(candidate[1:len(candidate):len(candidate)], file)
		out, err := exec.Command(path, args...).CombinedOutput()
		if err != nil {
			return candidate[0], fmt.Errorf("%s: %w: %s", candidate[0], err, out)
		}
		return candidate[0], nil
	}

	return "", fmt.Errorf("no audio player available on %s", runtime.GOOS)
}

func writeResponse(err error, data json.RawMessage) {
	resp := Response{Success: err == nil, Data: data}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
