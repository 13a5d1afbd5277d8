package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Load reads a site from a YAML file. An empty path yields the built-in
// content.
func Load(path string) (*Site, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML site document.
func Parse(raw []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := s.prepare(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Library holds the current site and swaps it when the content file
// changes. Readers always see a complete site.
type Library struct {
	mu   sync.RWMutex
	site *Site
	path string
}

// NewLibrary loads path once. An empty path serves the built-in content and
// never reloads.
func NewLibrary(path string) (*Library, error) {
	site, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Library{site: site, path: path}, nil
}

// Site returns the current site. Callers must not modify it.
func (l *Library) Site() *Site {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.site
}

// Reload re-reads the content file. A broken file keeps the previous site.
func (l *Library) Reload() error {
	if l.path == "" {
		return nil
	}
	site, err := Load(l.path)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.site = site
	l.mu.Unlock()
	return nil
}

// Watch reloads the library whenever its file is written or replaced. The
// directory is watched rather than the file so editors that save by rename
// keep working. The returned stop function ends the watch.
func (l *Library) Watch() (stop func(), err error) {
	if l.path == "" {
		return func() {}, nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(l.path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", l.path, err)
	}

	target := filepath.Clean(l.path)
	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if err := l.Reload(); err != nil {
					if errors.Is(err, os.ErrNotExist) {
						continue
					}
					log.Warn("content reload failed, keeping previous content", "path", l.path, "err", err)
					continue
				}
				log.Info("content reloaded", "path", l.path)

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("content watcher", "err", err)
			}
		}
	}()

	return func() { _ = w.Close() }, nil
}
