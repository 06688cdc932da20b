package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/parsaforughi/pixxel-age-filter/internal/app"
	"github.com/parsaforughi/pixxel-age-filter/internal/logging"
	"github.com/parsaforughi/pixxel-age-filter/internal/server"
	"github.com/parsaforughi/pixxel-age-filter/internal/session"
	"github.com/parsaforughi/pixxel-age-filter/internal/store"
	"github.com/parsaforughi/pixxel-age-filter/internal/tray"
)

func main() {
	fmt.Println("Pixxel - Live Skin Analysis")

	// A missing .env file is fine, configuration can come from the
	// environment directly
	_ = godotenv.Load()

	// Resolve the data directory
	dataDir := os.Getenv("PIXXEL_DATA_DIR")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logging.Fatal(logging.Fields{"error": err.Error()}, "failed to get home directory")
		}
		dataDir = filepath.Join(homeDir, ".pixxel")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		logging.Fatal(logging.Fields{"error": err.Error()}, "failed to create data directory")
	}

	// Default file logging into the data directory unless overridden
	if os.Getenv("PIXXEL_LOG_DIR") == "" {
		os.Setenv("PIXXEL_LOG_DIR", filepath.Join(dataDir, "logs"))
	}

	// Initialize the store
	st, err := store.New(filepath.Join(dataDir, "pixxel.db"))
	if err != nil {
		logging.Fatal(logging.Fields{"error": err.Error()}, "failed to initialize store")
	}
	defer st.Close()

	cameraID := 0
	if v := os.Getenv("PIXXEL_CAMERA"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			logging.Fatal(logging.Fields{"value": v}, "PIXXEL_CAMERA must be a device index")
		}
		cameraID = id
	}

	hooksDir := os.Getenv("PIXXEL_HOOKS_DIR")
	if hooksDir == "" {
		hooksDir = filepath.Join(dataDir, "hooks")
	}

	// Result fan-out shared between the pipeline and the server
	live := server.NewLiveHandler()
	stream := server.NewStreamHandler()

	application := app.New(app.Config{
		Store:    st,
		HooksDir: hooksDir,
		CameraID: cameraID,
	})
	application.SetLive(live)
	application.SetStream(stream)

	if err := application.LoadSettings(); err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "failed to load settings")
	}
	if err := application.DiscoverHooks(); err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "failed to discover export hooks")
	} else if n := len(application.Hooks().List()); n > 0 {
		logging.Info(logging.Fields{"hooks": n}, "export hooks discovered")
	}

	// Find web directory
	webDir := resolveWebDir(dataDir)
	if webDir != "" {
		logging.Info(logging.Fields{"dir": webDir}, "serving dashboard assets")
	}

	// Configure and start the server
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Live:      live,
		Stream:    stream,
	})

	addr := os.Getenv("PIXXEL_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	go func() {
		logging.Info(logging.Fields{"addr": addr}, "starting server")
		if err := srv.ListenAndServe(addr); err != nil {
			logging.Fatal(logging.Fields{"error": err.Error()}, "server failed")
		}
	}()

	if err := application.Start(); err != nil {
		logging.Fatal(logging.Fields{"error": err.Error()}, "failed to start capture pipeline")
	}
	application.SetEnabled(true)

	t := tray.New()
	t.OnToggle(func(enabled bool) {
		application.SetEnabled(enabled)
	})
	t.OnRetry(application.RequestRetry)
	t.OnDashboard(func() {
		openBrowser(dashboardURL(addr))
	})

	// Keep the tray's reading line and retry item in sync with the pipeline
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if reading, ok := application.LastReading(); ok {
				t.SetLastAge(reading.EstimatedAge)
			} else {
				t.SetLastAge(0)
			}
			t.SetCameraError(application.SessionState() == session.StatePermissionError)
		}
	}()

	// Route interrupts through the tray's quit path
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		t.Quit()
	}()

	// Blocks until quit is selected or a signal arrives
	t.Run()

	application.Stop()
	logging.Info(nil, "shutdown complete")
}

// resolveWebDir searches for the dashboard asset directory.
// It checks PIXXEL_WEB, then "web", "../web", "../../web", and finally
// <dataDir>/web. Returns the first existing directory or empty string.
func resolveWebDir(dataDir string) string {
	if dir := os.Getenv("PIXXEL_WEB"); dir != "" {
		return dir
	}

	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}

// dashboardURL builds a browser URL from the server listen address.
func dashboardURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens url with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		logging.Warn(logging.Fields{"error": err.Error()}, "failed to open browser")
	}
}
