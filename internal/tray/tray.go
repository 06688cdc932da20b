// Package tray provides the desktop system tray interface for the Pixxel
// skin analysis camera.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle    func(enabled bool)
	onRetry     func()
	onDashboard func()
	onQuit      func()
	enabled     bool
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuToggle  *systray.MenuItem
	menuLastAge *systray.MenuItem
	menuRetry   *systray.MenuItem
}

// New creates a new Tray instance with analysis enabled by default.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback function to be called when analysis is paused
// or resumed from the menu.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnRetry sets the callback function to be called when the retry camera
// menu item is clicked.
func (t *Tray) OnRetry(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRetry = fn
}

// OnDashboard sets the callback function to be called when the dashboard
// menu item is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback function to be called when the quit menu item
// is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	// Set the tray title and tooltip
	systray.SetTitle("Pixxel")
	systray.SetTooltip("Pixxel Skin Analysis")

	// Create menu items
	t.menuToggle = systray.AddMenuItem("● Analyzing", "Pause or resume skin analysis")
	systray.AddSeparator()

	t.menuLastAge = systray.AddMenuItem("Age: --", "Last estimated skin age")
	t.menuLastAge.Disable()

	t.menuRetry = systray.AddMenuItem("Retry Camera", "Request camera access again")
	t.menuRetry.Hide()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Pixxel")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuRetry.ClickedCh:
				t.handleRetry()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
// It performs cleanup tasks.
func (t *Tray) onExit() {
	// Cleanup resources if needed
}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	// Update menu item text based on new state
	if enabled {
		t.menuToggle.SetTitle("● Analyzing")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}

	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleRetry handles the retry camera menu item click.
func (t *Tray) handleRetry() {
	t.mu.RLock()
	callback := t.onRetry
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleDashboard handles the dashboard menu item click.
func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetLastAge updates the last reading display in the menu. Ages at or
// below zero clear the line.
func (t *Tray) SetLastAge(age int) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastAge != nil {
		if age <= 0 {
			t.menuLastAge.SetTitle("Age: --")
		} else {
			t.menuLastAge.SetTitle(fmt.Sprintf("Age: %d", age))
		}
	}
}

// SetCameraError shows or hides the retry camera menu item. It is driven
// by the pipeline's permission state.
func (t *Tray) SetCameraError(active bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuRetry == nil {
		return
	}
	if active {
		t.menuRetry.Show()
	} else {
		t.menuRetry.Hide()
	}
}

// Quit closes the tray menu and unblocks Run. It is safe to call from
// any goroutine, including signal handlers.
func (t *Tray) Quit() {
	systray.Quit()
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
