package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/amechi-aduba/drawVSAI-react/internal/app"
	"github.com/amechi-aduba/drawVSAI-react/internal/classifier"
	"github.com/amechi-aduba/drawVSAI-react/internal/config"
	"github.com/amechi-aduba/drawVSAI-react/internal/server"
	"github.com/amechi-aduba/drawVSAI-react/internal/store"
	"github.com/amechi-aduba/drawVSAI-react/internal/tray"
)

func main() {
	useTray := flag.Bool("tray", false, "run with a system tray icon")
	flag.Parse()

	fmt.Println("drawVSAI - draw against the classifier")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, ".drawvsai")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	params, err := config.Load(".", dataDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	st, err := store.New(filepath.Join(dataDir, "drawvsai.db"))
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// The word list ships as a text file next to the model; the store
	// copy is what the API serves and curates.
	categories, err := classifier.LoadCategories(filepath.Join(dataDir, "categories.txt"))
	if err != nil {
		log.Printf("Using built-in categories: %v", err)
	}
	if err := st.Categories().Seed(categories); err != nil {
		log.Fatalf("Failed to seed categories: %v", err)
	}
	categories, err = st.Categories().Labels()
	if err != nil {
		log.Fatalf("Failed to load categories: %v", err)
	}

	// No model, no game: a classifier start failure is fatal.
	model, err := classifier.NewService(classifier.ServiceConfig{
		InputSize:     params.TargetSize,
		NumCategories: len(categories),
	})
	if err != nil {
		log.Fatalf("Failed to start sketch classifier: %v", err)
	}
	defer model.Close()

	a, err := app.New(app.Config{
		Store:      st,
		Params:     params,
		Model:      model,
		Categories: categories,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer a.Close()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	// The tracking toggle persists across restarts.
	a.SetEnabled(st.Settings().GetOrDefault("enabled", "true") == "true")

	webDir := findWebDir(params.StaticDir, dataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	addr := fmt.Sprintf(":%d", params.HTTPPort)
	fmt.Printf("Starting server on %s\n", addr)

	if *useTray {
		go func() {
			if err := srv.ListenAndServe(addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
		runTray(a, st, addr)
		return
	}

	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// runTray blocks on the system tray loop, mirroring the tracking toggle
// into the pipeline. Quit exits the process.
func runTray(a *app.App, st *store.Store, addr string) {
	t := tray.New()
	t.OnToggle(func(enabled bool) {
		a.SetEnabled(enabled)
		if err := st.Settings().Set("enabled", fmt.Sprintf("%t", enabled)); err != nil {
			log.Printf("Failed to persist toggle: %v", err)
		}
	})
	t.OnOpenUI(func() {
		openBrowser("http://localhost" + addr)
	})
	t.OnQuit(func() {
		a.Close()
	})

	// Mirror the round into the menu.
	go func() {
		for range time.Tick(time.Second) {
			snap := a.Engine().Snapshot()
			t.SetRound(snap.Target, snap.Score)
		}
	}()

	t.Run()
}

// openBrowser opens the given URL in the default browser.
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
	}
}

// findWebDir searches for the static file directory in common
// locations: the configured path, relative paths from the working
// directory, and ~/.drawvsai/web.
func findWebDir(configured, dataDir string) string {
	candidates := []string{configured, "web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}
