package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/leapmedia/internal/app"
	"github.com/ayusman/leapmedia/internal/capture"
	"github.com/ayusman/leapmedia/internal/config"
	"github.com/ayusman/leapmedia/internal/cue"
	"github.com/ayusman/leapmedia/internal/gesture"
	"github.com/ayusman/leapmedia/internal/render"
	"github.com/ayusman/leapmedia/internal/server"
	"github.com/ayusman/leapmedia/internal/store"
	"github.com/ayusman/leapmedia/internal/tray"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("[leapmedia] ")
	fmt.Println("LeapMedia - Gesture Media Controls")

	configPath := flag.String("config", config.DefaultPath(), "path to the YAML config file")
	replay := flag.String("replay", "", "play frames from a recording instead of the tracking service")
	noTray := flag.Bool("no-tray", false, "run without the system tray icon")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *replay != "" {
		cfg.Source.Kind = config.SourceReplay
		cfg.Source.ReplayPath = *replay
	}
	if *noTray {
		cfg.Tray = false
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hands := server.NewBroadcaster()
	a, err := app.New(app.Config{
		Store:         st,
		Source:        newSource(cfg),
		PluginDir:     cfg.Plugins.Dir,
		PluginTimeout: cfg.Plugins.Timeout,
		QueueSize:     cfg.Plugins.QueueSize,
		Cue:           newCue(cfg),
		Hands:         hands,
		Laterality:    cfg.Gestures.Laterality,
		Presets:       cfg.Gestures.Presets,
		Timing:        cfg.Gestures.Timing,
		Retention:     cfg.Store.Retention,
	})
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}
	if err := a.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}
	log.Printf("Presets: %v", cfg.Gestures.Presets)

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	httpSrv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.New(server.Config{
			StaticDir:  webDir,
			Store:      st,
			Controller: a,
			Hands:      hands,
			HUD:        render.NewHUD(render.DefaultSize, render.DefaultRange),
			Stats:      func() any { return a.Stats() },
		}),
	}
	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	if err := a.Start(ctx); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	if cfg.Tray {
		runTray(ctx, stop, a, "http://"+browserAddr(cfg.Server.Addr)+"/api/state")
	} else {
		<-ctx.Done()
	}

	log.Println("Shutting down")
	a.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

func newSource(cfg *config.Config) capture.Source {
	if cfg.Source.Kind == config.SourceReplay {
		return capture.NewReplaySource(capture.ReplayConfig{
			Path:     cfg.Source.ReplayPath,
			Loop:     cfg.Source.ReplayLoop,
			Realtime: true,
		})
	}
	return capture.NewLeapSource(cfg.Source.LeapURL)
}

func newCue(cfg *config.Config) *cue.Player {
	if !cfg.Cue.Enabled {
		return nil
	}
	cc := cue.DefaultConfig()
	if len(cfg.Cue.Command) > 0 {
		cc.Command = cfg.Cue.Command
	}
	if cfg.Cue.Timeout > 0 {
		cc.Timeout = cfg.Cue.Timeout
	}
	return cue.NewPlayer(cc)
}

// runTray blocks on the tray event loop until Quit is chosen or ctx ends.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, statusURL string) {
	t := tray.New()
	t.SetEnabled(a.IsEnabled())
	t.OnToggle(func(enabled bool) {
		if err := a.SetEnabled(enabled); err != nil {
			log.Printf("Failed to save enabled setting: %v", err)
		}
	})
	t.OnStatus(func() { openBrowser(statusURL) })
	t.OnQuit(stop)
	a.OnAction(func(act gesture.Action) { t.SetLastAction(act.String()) })

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

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
		log.Printf("Failed to open browser: %v", err)
		return
	}
	go cmd.Wait()
}

// browserAddr turns a listen address such as ":8080" into one a browser can open.
func browserAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	return addr
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.leapmedia/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
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

	homeWebDir := filepath.Join(config.Dir(), "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
