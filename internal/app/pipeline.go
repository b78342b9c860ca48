package app

import (
	"time"

	"gocv.io/x/gocv"
)

// runPipeline is the main detection loop that processes frames from the camera.
//
// The loop idles at capture.IdleFPS. Motion, or a hand seen on the previous
// frame, switches it to the active rate where every frame is run through the
// detector and the engine. Holding a pose produces almost no motion, so a
// visible hand alone keeps the pipeline active. After the idle timeout with
// neither, it drops back to idle.
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(frameInterval(a.gate.FPS()))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				Logf("Error reading frame: %v", err)
				continue
			}

			if a.step(frame, time.Now()) {
				ticker.Reset(frameInterval(a.gate.FPS()))
			}
			frame.Close()
		}
	}
}

// step runs one camera frame through the motion gate and, when active, the
// detector and engine. It reports whether the frame rate changed.
func (a *App) step(frame *gocv.Mat, now time.Time) bool {
	a.keepFrame(frame)

	motion, _ := a.motion.Detect(frame)
	active, changed := a.gate.Observe(motion || a.Snapshot().HandSeen, now)
	if changed {
		a.camera.SetFPS(a.gate.FPS())
		if active {
			Logf("Switched to active mode")
		} else {
			Logf("Switched to idle mode")
		}
	}

	if !active {
		return changed
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		Logf("Error detecting hands: %v", err)
		return changed
	}

	a.ProcessHands(hands)
	return changed
}

func frameInterval(fps int) time.Duration {
	return time.Second / time.Duration(fps)
}
