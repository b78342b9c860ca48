package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/floorsign/internal/app"
	"github.com/ayusman/floorsign/internal/config"
	"github.com/ayusman/floorsign/internal/floor"
	"github.com/ayusman/floorsign/internal/lift"
	"github.com/ayusman/floorsign/internal/plugin"
	"github.com/ayusman/floorsign/internal/server"
	"github.com/ayusman/floorsign/internal/store"
	"github.com/ayusman/floorsign/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides listen_addr)")
	noTray := flag.Bool("no-tray", false, "run without the system tray")
	flag.Parse()

	fmt.Println("floorsign - gesture floor selection")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	listenAddr := cfg.GetListenAddr()
	if *addr != "" {
		listenAddr = *addr
	}

	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "floorsign.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	sink := openSink(cfg)

	plugins := plugin.NewManager(cfg.GetPluginDir())
	if err := plugins.Discover(); err != nil {
		log.Printf("Failed to discover plugins: %v", err)
	}

	a, err := app.New(app.Config{
		Store:            st,
		CameraID:         cfg.GetCameraID(),
		Mirror:           cfg.GetMirror(),
		MotionThresh:     cfg.GetMotionThreshold(),
		IdleTimeout:      cfg.GetIdleTimeout(),
		Lanes:            cfg.GetLanes(),
		InitialThreshold: cfg.GetInitialThreshold(),
		Margin:           cfg.GetMargin(),
		Sounds:           plugin.NewRunner(plugins, plugin.NewExecutor(plugin.DefaultTimeout)),
		SoundPlugin:      cfg.GetSoundPlugin(),
		SoundDir:         cfg.GetSoundDir(),
		Sink:             sink,
	})
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	hub := server.NewHub()
	t := tray.New()
	a.Subscribe(func(d floor.Display) { hub.Broadcast(d) })
	a.Subscribe(t.SetDisplay)

	webDir := findWebDir(dataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
		Frames:    a,
		Hub:       hub,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", listenAddr)
		if err := srv.ListenAndServe(listenAddr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Printf("Detection disabled: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *noTray {
		<-ctx.Done()
	} else {
		t.OnToggle(a.SetEnabled)
		t.OnSettings(func() { openBrowser(settingsURL(listenAddr)) })
		go func() {
			<-ctx.Done()
			t.Quit()
		}()
		t.Run()
	}

	fmt.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if err := a.Close(); err != nil {
		log.Printf("App shutdown: %v", err)
	}
}

// openSink opens the configured serial port, falling back to a sink that
// drops announcements.
func openSink(cfg *config.Config) lift.Sink {
	port := cfg.GetSerialPort()
	if port == "" {
		return lift.Discard{}
	}

	sink, err := lift.OpenSerial(port, cfg.GetSerialBaud())
	if err != nil {
		log.Printf("Lift link unavailable: %v", err)
		return lift.Discard{}
	}
	fmt.Printf("Announcing floors on %s\n", port)
	return sink
}

// settingsURL turns a listen address into a browsable local URL.
func settingsURL(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "http://localhost:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		log.Printf("Unsupported platform: %s", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
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
