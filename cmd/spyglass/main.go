package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ellerys/spyglass/internal/api"
	"github.com/ellerys/spyglass/internal/config"
	"github.com/ellerys/spyglass/internal/ui"
	"github.com/ellerys/spyglass/internal/watcher"
)

func main() {
	server := flag.String("server", "", "session API base URL (overrides config)")
	session := flag.String("session", "", "session id to open at startup")
	flag.Parse()

	cfgPath, err := config.Path()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *server != "" {
		cfg.ServerURL = *server
	}

	// First run: persist defaults so there is a file to edit and watch.
	if _, statErr := os.Stat(cfgPath); os.IsNotExist(statErr) {
		_ = cfg.Save(cfgPath)
	}

	if os.Getenv("SPYGLASS_DEBUG") == "1" {
		if f, err := tea.LogToFile("spyglass-debug.log", "spyglass"); err == nil {
			defer f.Close()
		}
	}

	// Settings live-reload is best effort; run without it if the config
	// directory cannot be watched.
	w, err := watcher.New(cfgPath)
	if err != nil {
		w = nil
	} else {
		defer w.Close()
	}

	p := tea.NewProgram(
		ui.New(api.New(cfg.ServerURL), cfg, cfgPath, w, *session),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
