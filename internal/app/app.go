// Package app wires the camera, hand detector and floor engine together and
// carries the engine's effects out to sound, storage, the lift link and
// display subscribers.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/floorsign/internal/capture"
	"github.com/ayusman/floorsign/internal/detector"
	"github.com/ayusman/floorsign/internal/floor"
	"github.com/ayusman/floorsign/internal/gesture"
	"github.com/ayusman/floorsign/internal/lift"
	"github.com/ayusman/floorsign/internal/plugin"
	"github.com/ayusman/floorsign/internal/store"
)

// Logf is used for all pipeline and dispatcher logging.
var Logf = log.Printf

// Config holds configuration options for the application.
type Config struct {
	Store *store.Store

	// Camera defaults to the device named by CameraID.
	Camera   capture.Camera
	CameraID int
	// Detector defaults to MediaPipe, falling back to the mock detector.
	Detector detector.Detector
	Mirror   bool

	MotionThresh float64
	IdleTimeout  time.Duration

	// Lanes are the configured lanes; stored overrides are merged on top.
	Lanes            []gesture.Lane
	InitialThreshold int
	Margin           float64

	// Sounds plays clips through SoundPlugin. Nil disables sound.
	Sounds      *plugin.Runner
	SoundPlugin string
	SoundDir    string

	// Sink receives confirmed floors. Defaults to lift.Discard.
	Sink lift.Sink
}

// App is the main application that turns camera frames into floor selections.
type App struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	gate       *capture.Gate
	detector   detector.Detector
	classifier *gesture.Classifier

	engineMu sync.Mutex
	engine   *floor.Engine

	mu          sync.RWMutex
	enabled     bool
	stopCh      chan struct{}
	done        chan struct{}
	snapshot    floor.Snapshot
	subscribers []func(floor.Display)

	frameMu sync.Mutex
	latest  *gocv.Mat

	dispatch *dispatcher
}

// New creates an App, loads its lanes and starts the effect dispatcher.
func New(config Config) (*App, error) {
	if config.MotionThresh <= 0 {
		config.MotionThresh = 1.0 // 1% pixel change
	}
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = capture.DefaultIdleTimeout
	}
	if config.InitialThreshold == 0 {
		config.InitialThreshold = floor.DefaultInitialThreshold
	}
	if config.Lanes == nil {
		config.Lanes = gesture.DefaultLanes()
	}
	if config.Sink == nil {
		config.Sink = lift.Discard{}
	}
	if config.Camera == nil {
		config.Camera = capture.NewCamera(config.CameraID)
	}

	a := &App{
		config:     config,
		camera:     config.Camera,
		motion:     capture.NewMotionDetector(config.MotionThresh),
		gate:       capture.NewGate(config.IdleTimeout),
		detector:   config.Detector,
		classifier: gesture.NewClassifier(config.Margin),
	}

	if a.detector == nil {
		dc := detector.DefaultConfig()
		dc.Mirror = config.Mirror
		if mp, err := detector.NewMediaPipeDetector(dc); err == nil {
			a.detector = mp
			Logf("Using MediaPipe hand detection")
		} else {
			Logf("MediaPipe not available (%v), using mock detector", err)
			a.detector = detector.NewMockDetector()
		}
	}

	if err := a.LoadLanes(); err != nil {
		a.motion.Close()
		return nil, err
	}

	a.dispatch = newDispatcher(a)
	return a, nil
}

// LoadLanes merges stored overrides onto the configured lanes. The first
// call builds the engine and restores the confirmed floor from the store;
// later calls swap the lanes and keep the controller state.
func (a *App) LoadLanes() error {
	lanes := a.config.Lanes
	if a.config.Store != nil {
		overrides, err := a.config.Store.Lanes().List()
		if err != nil {
			return fmt.Errorf("failed to load lane overrides: %w", err)
		}
		lanes = store.Merge(lanes, overrides)
	}

	a.engineMu.Lock()
	if a.engine != nil {
		if err := a.engine.SetLanes(lanes); err != nil {
			a.engineMu.Unlock()
			return err
		}
	} else {
		engine, err := floor.NewEngine(lanes, a.config.InitialThreshold)
		if err != nil {
			a.engineMu.Unlock()
			return err
		}
		engine.Restore(a.storedFloor())
		a.engine = engine
	}
	snap := a.engine.Snapshot()
	a.engineMu.Unlock()

	a.mu.Lock()
	a.snapshot = snap
	a.mu.Unlock()

	Logf("Loaded %d lanes", len(lanes))
	return nil
}

func (a *App) storedFloor() int {
	if a.config.Store == nil {
		return 0
	}
	n, err := a.config.Store.Settings().GetInt(store.KeyFloor)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			Logf("Failed to restore floor: %v", err)
		}
		return 0
	}
	return n
}

// ProcessHands runs one frame of detections through the classifier and the
// engine. Only the first hand is classified; an empty slice is a no-hand
// frame.
func (a *App) ProcessHands(hands []detector.HandLandmarks) floor.Frame {
	label, ok := gesture.Neutral, false
	if len(hands) > 0 {
		label, ok = a.classifier.Classify(&hands[0])
	}

	a.engineMu.Lock()
	frame := a.engine.Step(label, ok)
	snap := a.engine.Snapshot()
	a.engineMu.Unlock()

	a.mu.Lock()
	a.snapshot = snap
	a.mu.Unlock()

	if frame.Command != nil {
		Logf("Command %s (increment %+d)", frame.Command.Label(), frame.Command.Increment())
	}
	for _, e := range frame.Effects {
		a.dispatch.emit(e)
	}
	return frame
}

// Snapshot returns the engine state as of the last processed frame.
func (a *App) Snapshot() floor.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshot
}

// Lanes returns the effective lanes in evaluation order.
func (a *App) Lanes() []gesture.Lane {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.engine.Lanes()
}

// Subscribe registers fn for every display update. Callbacks run on the
// dispatcher goroutine and must not block.
func (a *App) Subscribe(fn func(floor.Display)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscribers = append(a.subscribers, fn)
}

func (a *App) notify(d floor.Display) {
	a.mu.RLock()
	subs := make([]func(floor.Display), len(a.subscribers))
	copy(subs, a.subscribers)
	a.mu.RUnlock()

	for _, fn := range subs {
		fn(d)
	}
}

// SetEnabled enables or disables gesture detection.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether gesture detection is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// Start opens the camera and begins the detection pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("failed to open camera: %w", err)
	}
	a.camera.SetFPS(a.gate.FPS())

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	Logf("Detection pipeline started")
	return nil
}

// Stop halts the detection pipeline and closes the camera.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done

	if err := a.camera.Close(); err != nil {
		Logf("Error closing camera: %v", err)
	}
	Logf("Detection pipeline stopped")
}

// Close stops the pipeline, drains pending effects and releases the
// detector, motion detector and lift sink.
func (a *App) Close() error {
	a.Stop()
	a.dispatch.close()

	a.motion.Close()

	a.frameMu.Lock()
	if a.latest != nil {
		a.latest.Close()
		a.latest = nil
	}
	a.frameMu.Unlock()

	var errs []error
	if err := a.detector.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing detector: %w", err))
	}
	if err := a.config.Sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing lift sink: %w", err))
	}
	return errors.Join(errs...)
}

// ReadFrame returns a copy of the most recent camera frame, so previews do
// not compete with the pipeline for the device. The caller closes it.
func (a *App) ReadFrame() (*gocv.Mat, error) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()

	if a.latest == nil {
		return nil, capture.ErrNoFrames
	}
	frame := a.latest.Clone()
	return &frame, nil
}

func (a *App) keepFrame(frame *gocv.Mat) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()

	if a.latest == nil {
		m := gocv.NewMat()
		a.latest = &m
	}
	frame.CopyTo(a.latest)
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}
