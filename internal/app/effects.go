package app

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"

	"github.com/ayusman/floorsign/internal/floor"
	"github.com/ayusman/floorsign/internal/plugin"
	"github.com/ayusman/floorsign/internal/store"
)

const (
	effectBuffer = 256
	soundBuffer  = 4
)

// ClipFiles maps clips to the files played by the sound plugin, relative to
// the configured sound directory.
var ClipFiles = map[floor.Clip]string{
	floor.ClipInitialize:    "initialize.mp3",
	floor.ClipFloorChanging: "Floor_changing.mp3",
	floor.ClipConfirm:       "Confirm.mp3",
}

// dispatcher carries effects out off the pipeline goroutine. Sounds get
// their own worker since a clip plays for longer than a frame.
type dispatcher struct {
	app     *App
	effects chan floor.Effect
	sounds  chan floor.Clip

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func newDispatcher(a *App) *dispatcher {
	d := &dispatcher{
		app:     a,
		effects: make(chan floor.Effect, effectBuffer),
		sounds:  make(chan floor.Clip, soundBuffer),
	}
	d.wg.Add(2)
	go d.run()
	go d.playSounds()
	return d
}

// emit queues e. Display and sound effects never block and are dropped
// when the queue is full; a confirmation waits for room so a committed floor
// is always recorded and announced.
func (d *dispatcher) emit(e floor.Effect) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}
	if e.Kind == floor.EffectConfirmed {
		d.effects <- e
		return
	}
	select {
	case d.effects <- e:
	default:
		Logf("Dropping %s effect: dispatcher is behind", e.Kind)
	}
}

// close stops accepting effects and waits for queued ones to finish.
func (d *dispatcher) close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.effects)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	defer close(d.sounds)

	for e := range d.effects {
		switch e.Kind {
		case floor.EffectPlaySound:
			select {
			case d.sounds <- e.Clip:
			default:
				Logf("Dropping %s sound: player is busy", e.Clip)
			}
		case floor.EffectUpdateDisplay:
			d.app.notify(e.Display)
		case floor.EffectConfirmed:
			d.app.confirm(e.Confirmation)
		}
	}
}

func (d *dispatcher) playSounds() {
	defer d.wg.Done()
	for clip := range d.sounds {
		d.app.playSound(clip)
	}
}

func (a *App) playSound(clip floor.Clip) {
	if a.config.Sounds == nil {
		return
	}

	file, ok := ClipFiles[clip]
	if !ok {
		Logf("No sound file for clip %s", clip)
		return
	}

	params, err := json.Marshal(map[string]string{"file": filepath.Join(a.config.SoundDir, file)})
	if err != nil {
		Logf("Failed to encode sound params: %v", err)
		return
	}

	req := &plugin.Request{Action: "play", Clip: string(clip), Params: params}
	if _, err := a.config.Sounds.Run(context.Background(), a.config.SoundPlugin, req); err != nil {
		Logf("Failed to play %s: %v", clip, err)
	}
}

// confirm records a committed selection and forwards it to the lift link.
func (a *App) confirm(c floor.Confirmation) {
	Logf("Floor %d confirmed (%+d from %d)", c.Floor, c.Delta, c.PreviousFloor)

	if s := a.config.Store; s != nil {
		sel := &store.Selection{
			Floor:         c.Floor,
			PreviousFloor: c.PreviousFloor,
			Delta:         c.Delta,
		}
		if err := s.Selections().Create(sel); err != nil {
			Logf("Failed to record selection: %v", err)
		}
		if err := s.Settings().SetInt(store.KeyFloor, c.Floor); err != nil {
			Logf("Failed to save floor: %v", err)
		}
	}

	if err := a.config.Sink.Announce(c.Floor); err != nil {
		Logf("Failed to announce floor %d: %v", c.Floor, err)
	}
}
