// Package app wires the capture pipeline: camera, presence gating, face
// detection, skin analysis, persistence, and result fan-out.
package app

import (
	"sync"

	"github.com/parsaforughi/pixxel-age-filter/internal/capture"
	"github.com/parsaforughi/pixxel-age-filter/internal/export"
	"github.com/parsaforughi/pixxel-age-filter/internal/facemesh"
	"github.com/parsaforughi/pixxel-age-filter/internal/logging"
	"github.com/parsaforughi/pixxel-age-filter/internal/server"
	"github.com/parsaforughi/pixxel-age-filter/internal/session"
	"github.com/parsaforughi/pixxel-age-filter/internal/skin"
	"github.com/parsaforughi/pixxel-age-filter/internal/store"
)

const (
	// readingBatchSize is how many stabilized readings are buffered before
	// they are written to the store in one transaction.
	readingBatchSize = 30
	// hookTimeoutMs is the time in milliseconds an export hook may run.
	hookTimeoutMs = 5000
)

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	HooksDir       string
	CameraID       int
	PresenceThresh float64
	Width          int
	Height         int
}

// App is the main application that orchestrates capture, analysis, and
// result delivery.
type App struct {
	config   Config
	camera   capture.Camera
	presence *capture.PresenceGate
	detector facemesh.Detector
	session  *session.Session
	hookMgr  *export.Manager
	hookExec *export.Executor

	// live and stream are optional fan-out targets, set before Start.
	live   *server.LiveHandler
	stream *server.StreamHandler

	mu          sync.RWMutex
	enabled     bool
	mirror      bool
	lastState   session.State
	lastReading skin.Metrics
	hasReading  bool
	resetReq    bool
	retryReq    bool
	stopCh      chan struct{}
	doneCh      chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	presenceThreshold := config.PresenceThresh
	if presenceThreshold <= 0 {
		presenceThreshold = capture.DefaultChangeThreshold
	}

	width := config.Width
	if width <= 0 {
		width = capture.DefaultWidth
	}
	height := config.Height
	if height <= 0 {
		height = capture.DefaultHeight
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		presence: capture.NewPresenceGate(presenceThreshold),
		session:  session.New(width, height),
		hookMgr:  export.NewManager(config.HooksDir),
		hookExec: export.NewExecutor(hookTimeoutMs),
		mirror:   true,
		enabled:  false,
		stopCh:   nil,
	}
	a.lastState = a.session.State()

	// Try MediaPipe first, fall back to mock detector
	if mp, err := facemesh.NewMediaPipeDetector(facemesh.DefaultConfig()); err == nil {
		a.detector = mp
		logging.Info(nil, "using MediaPipe face mesh detection")
	} else {
		logging.Warn(logging.Fields{"error": err.Error()}, "MediaPipe not available, using mock detector")
		a.detector = facemesh.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables the analysis pipeline. Disabling closes
// out any viewing session in progress.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether the analysis pipeline is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d facemesh.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera sets the camera implementation to use.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetLive attaches the WebSocket handler that receives every frame result.
// Must be called before Start.
func (a *App) SetLive(h *server.LiveHandler) {
	a.live = h
}

// SetStream attaches the MJPEG handler fed with preview frames. Must be
// called before Start.
func (a *App) SetStream(h *server.StreamHandler) {
	a.stream = h
}

// LoadSettings reads persisted settings into the pipeline.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}

	mirror := a.config.Store.Settings().GetDefault(store.SettingMirror, "true")

	a.mu.Lock()
	a.mirror = mirror == "true"
	a.mu.Unlock()

	logging.Info(logging.Fields{"mirror": mirror}, "settings loaded")
	return nil
}

// DiscoverHooks scans the hooks directory for export hooks.
func (a *App) DiscoverHooks() error {
	return a.hookMgr.Discover()
}

// Hooks returns the export hook manager.
func (a *App) Hooks() *export.Manager {
	return a.hookMgr
}

// Detector returns the face detector.
func (a *App) Detector() facemesh.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SessionState returns the most recent presentation state.
func (a *App) SessionState() session.State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastState
}

// LastReading returns the most recent stabilized reading, if any.
func (a *App) LastReading() (skin.Metrics, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastReading, a.hasReading
}

// RequestRetry asks the pipeline to re-attempt camera access after a
// permission failure.
func (a *App) RequestRetry() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.retryReq = true
}

// RequestReset asks the pipeline to abandon the current viewing and start
// a fresh search.
func (a *App) RequestReset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetReq = true
}

// Start begins the capture pipeline. A camera failure is not fatal: the
// session enters the permission error state and waits for a retry.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Close out rows left open by a previous crash
	if a.config.Store != nil {
		if err := a.config.Store.Sessions().EndStale(); err != nil {
			logging.Warn(logging.Fields{"error": err.Error()}, "failed to end stale sessions")
		}
	}

	if err := a.camera.Open(); err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "camera unavailable, waiting for retry")
		a.session.DenyPermission()
	} else {
		a.camera.SetFPS(capture.IdleFPS)
		a.session.GrantPermission()
	}
	a.lastState = a.session.State()

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)

	logging.Info(nil, "capture pipeline started")
	return nil
}

// Stop halts the capture pipeline and releases resources. It waits for the
// pipeline to flush and close any open viewing session.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	doneCh := a.doneCh
	a.stopCh = nil
	a.doneCh = nil
	a.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
		<-doneCh
	}

	if err := a.camera.Close(); err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "error closing camera")
	}

	a.presence.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			logging.Warn(logging.Fields{"error": err.Error()}, "error closing detector")
		}
	}

	logging.Info(nil, "capture pipeline stopped")
}

func (a *App) mirrorEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mirror
}

func (a *App) consumeRetry() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	req := a.retryReq
	a.retryReq = false
	return req
}

func (a *App) consumeReset() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	req := a.resetReq
	a.resetReq = false
	return req
}

func (a *App) syncState() {
	a.mu.Lock()
	a.lastState = a.session.State()
	a.mu.Unlock()
}
