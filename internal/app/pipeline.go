package app

import (
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/parsaforughi/pixxel-age-filter/internal/capture"
	"github.com/parsaforughi/pixxel-age-filter/internal/export"
	"github.com/parsaforughi/pixxel-age-filter/internal/facemesh"
	"github.com/parsaforughi/pixxel-age-filter/internal/logging"
	"github.com/parsaforughi/pixxel-age-filter/internal/server"
	"github.com/parsaforughi/pixxel-age-filter/internal/session"
	"github.com/parsaforughi/pixxel-age-filter/internal/skin"
	"github.com/parsaforughi/pixxel-age-filter/internal/store"
)

// recorder tracks the open store session for the pipeline goroutine.
type recorder struct {
	sessionID string
	pending   []store.Reading
}

// runPipeline is the main loop that processes frames from the camera.
// It owns the session state machine: every transition happens on this
// goroutine, and other goroutines only file requests or read cached state.
//
// Pipeline logic:
// 1. Start at the idle rate (5 fps)
// 2. On scene change, switch to the active rate (30 fps)
// 3. Run face mesh detection while the scene is occupied
// 4. Feed each frame through the session state machine
// 5. Persist stabilized readings in batches, opening a store session on
//    the first displayed result
// 6. Publish every result to the live socket and, when watched, the
//    preview stream
// 7. On face loss past tolerance, pause, or stop, close out the store
//    session and fire export hooks
func (a *App) runPipeline(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	rec := &recorder{pending: make([]store.Reading, 0, readingBatchSize)}

	// Track whether we're at the active capture rate
	activeMode := false

	// Track enablement so pausing can close out the viewing once
	wasEnabled := false

	// Frame interval based on current FPS
	frameInterval := time.Second / time.Duration(capture.IdleFPS)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			a.finishSession(rec)
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				if wasEnabled {
					wasEnabled = false
					a.finishSession(rec)
					a.session.Reset()
					a.syncState()
					a.presence.Reset()
					if activeMode {
						activeMode = false
						a.camera.SetFPS(capture.IdleFPS)
						frameInterval = time.Second / time.Duration(capture.IdleFPS)
						ticker.Reset(frameInterval)
					}
					a.publish(session.FrameResult{State: a.session.State()})
					logging.Info(nil, "analysis paused")
				}
				continue
			}
			if !wasEnabled {
				wasEnabled = true
				logging.Info(nil, "analysis resumed")
			}

			if a.consumeRetry() {
				a.retryCamera()
			}
			if a.consumeReset() {
				a.finishSession(rec)
				a.session.Reset()
				a.syncState()
			}

			// Without camera permission there are no frames to process;
			// keep clients informed of the state instead
			state := a.session.State()
			if state == session.StateAwaitingPermission || state == session.StatePermissionError {
				a.publish(session.FrameResult{State: state})
				continue
			}

			// Step 1: Read a frame from the camera
			frame, err := a.camera.ReadFrame()
			if err != nil {
				logging.Warn(logging.Fields{"error": err.Error()}, "failed to read frame")
				continue
			}

			// Step 2: Presence gating drives the capture rate
			present, _ := a.presence.Observe(frame)

			if present && !activeMode {
				activeMode = true
				a.camera.SetFPS(capture.ActiveFPS)
				frameInterval = time.Second / time.Duration(capture.ActiveFPS)
				ticker.Reset(frameInterval)
				logging.Debug(nil, "switched to active capture")
			} else if !present && activeMode {
				activeMode = false
				a.camera.SetFPS(capture.IdleFPS)
				frameInterval = time.Second / time.Duration(capture.IdleFPS)
				ticker.Reset(frameInterval)
				logging.Debug(nil, "switched to idle capture")
			}

			// Step 3: Face mesh detection, only while the scene is occupied
			var lm *facemesh.Landmarks
			if present {
				if detector := a.Detector(); detector != nil {
					lm, err = detector.Detect(frame)
					if err != nil {
						logging.Warn(logging.Fields{"error": err.Error()}, "face detection failed")
						lm = nil
					}
				}
			}

			// Mirror the landmarks so the overlay matches the selfie view
			if lm != nil && a.mirrorEnabled() {
				lm = lm.Mirror()
			}

			// Step 4: Advance the session state machine
			result := a.session.ProcessFrame(lm)

			// Step 5: Persistence
			a.record(result, rec)

			// Step 6: Fan-out
			a.publish(result)
			a.publishPreview(frame)

			frame.Close()
		}
	}
}

// retryCamera re-attempts opening the camera after a permission failure.
func (a *App) retryCamera() {
	if a.session.State() != session.StatePermissionError {
		return
	}

	a.session.Retry()
	if err := a.camera.Open(); err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "camera retry failed")
		a.session.DenyPermission()
	} else {
		a.camera.SetFPS(capture.IdleFPS)
		a.session.GrantPermission()
		logging.Info(nil, "camera access restored")
	}
	a.syncState()
}

// publish caches the result for tray readers and pushes it to the live
// socket.
func (a *App) publish(result session.FrameResult) {
	a.mu.Lock()
	a.lastState = result.State
	if result.Metrics != nil {
		a.lastReading = *result.Metrics
		a.hasReading = true
	}
	a.mu.Unlock()

	if a.live != nil {
		a.live.Publish(server.NewUpdate(result))
	}
}

// publishPreview JPEG-encodes the frame for the MJPEG stream. Encoding is
// skipped entirely while nobody is watching.
func (a *App) publishPreview(frame *gocv.Mat) {
	if a.stream == nil || a.stream.Viewers() == 0 {
		return
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "failed to encode preview frame")
		return
	}

	// The native buffer is freed on Close, so hand the handler a copy
	jpeg := make([]byte, buf.Len())
	copy(jpeg, buf.GetBytes())
	buf.Close()

	a.stream.PublishFrame(jpeg)
}

// record persists displayed readings and closes out the store session when
// the viewing ends.
func (a *App) record(result session.FrameResult, rec *recorder) {
	if a.config.Store != nil && result.State == session.StateDisplaying && result.Metrics != nil {
		if rec.sessionID == "" {
			id := uuid.New().String()
			if err := a.config.Store.Sessions().Create(&store.Session{ID: id}); err != nil {
				logging.Error(logging.Fields{"error": err.Error()}, "failed to create session row")
			} else {
				rec.sessionID = id
				logging.Info(logging.Fields{"session": id}, "viewing session started")
			}
		}

		if rec.sessionID != "" {
			m := result.Metrics
			rec.pending = append(rec.pending, store.Reading{
				EstimatedAge: m.EstimatedAge,
				Wrinkles:     m.Wrinkles,
				EyeAging:     m.EyeAging,
				Texture:      m.Texture,
				Volume:       m.Volume,
				SkinTone:     m.SkinTone,
			})
			if len(rec.pending) >= readingBatchSize {
				a.flushReadings(rec)
			}
		}
	}

	if result.Ended {
		a.finishSession(rec)
	}
}

// flushReadings writes buffered readings to the store.
func (a *App) flushReadings(rec *recorder) {
	if rec.sessionID == "" || len(rec.pending) == 0 {
		return
	}

	if err := a.config.Store.Readings().Append(rec.sessionID, rec.pending); err != nil {
		logging.Error(logging.Fields{"error": err.Error(), "session": rec.sessionID}, "failed to persist readings")
	}
	rec.pending = rec.pending[:0]
}

// finishSession flushes buffered readings, marks the store session ended,
// and fires export hooks. It is a no-op when no session is open.
func (a *App) finishSession(rec *recorder) {
	if rec.sessionID == "" {
		return
	}

	a.flushReadings(rec)

	last, ok := a.LastReading()
	summaryAge := 0
	if ok {
		summaryAge = last.EstimatedAge
	}

	if err := a.config.Store.Sessions().End(rec.sessionID, summaryAge); err != nil {
		logging.Error(logging.Fields{"error": err.Error(), "session": rec.sessionID}, "failed to end session row")
	} else {
		logging.Info(logging.Fields{"session": rec.sessionID, "age": summaryAge}, "viewing session ended")
		if sess, err := a.config.Store.Sessions().GetByID(rec.sessionID); err == nil {
			a.fireSessionEnd(sess, last)
		}
	}

	rec.sessionID = ""
	rec.pending = rec.pending[:0]
}

// fireSessionEnd runs every hook subscribed to session_end. Hooks run off
// the pipeline goroutine so a slow hook cannot stall capture.
func (a *App) fireSessionEnd(sess *store.Session, last skin.Metrics) {
	hooks := a.hookMgr.ForEvent(export.EventSessionEnd)
	if len(hooks) == 0 {
		return
	}

	endedAt := time.Now()
	if sess.EndedAt != nil {
		endedAt = *sess.EndedAt
	}

	event := &export.Event{
		Event: export.EventSessionEnd,
		Session: export.SessionSummary{
			SessionID: sess.ID,
			StartedAt: sess.StartedAt,
			EndedAt:   endedAt,
			Frames:    sess.Frames,
			Last:      last,
		},
	}

	for _, h := range hooks {
		go func(h *export.Hook) {
			resp, err := a.hookExec.Execute(h, event)
			if err != nil {
				logging.Warn(logging.Fields{"hook": h.Manifest.Name, "error": err.Error()}, "session hook failed")
				return
			}
			if !resp.Success {
				logging.Warn(logging.Fields{"hook": h.Manifest.Name, "error": resp.Error}, "session hook reported failure")
			}
		}(h)
	}
}
