// Command manifesto-tui browses the manifesto experiences and their image
// galleries in a terminal.
package main

import (
	"flag"
	"os"

	"github.com/Zachkp/council-manifesto/internal/config"
	"github.com/Zachkp/council-manifesto/internal/content"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

func main() {
	contentFlag := flag.String("content", "", "Path to the site YAML file (defaults to config, then built-in content)")
	flag.Parse()

	path := *contentFlag
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatal("loading config", "err", err)
		}
		path = cfg.Content.Path
	}

	site, err := content.Load(path)
	if err != nil {
		log.Fatal("loading content", "path", path, "err", err)
	}

	if _, err := tea.NewProgram(newModel(site), tea.WithAltScreen()).Run(); err != nil {
		log.Error("tui exited", "err", err)
		os.Exit(1)
	}
}
