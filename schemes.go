package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Scheme is one government-scheme catalog entry. Field names match the
// catalog file and the API response.
type Scheme struct {
	SchemeName      string `json:"scheme_name"`
	Brief           string `json:"brief"`
	OfficialWebsite string `json:"official_website"`
}

type schemeFile struct {
	Schemes []Scheme `json:"schemes"`
}

// SchemeCatalog serves the scheme list from a JSON file and hot-reloads it
// when the file changes on disk.
type SchemeCatalog struct {
	path string

	mu    sync.RWMutex
	items []Scheme
}

// EmptySchemeCatalog is the fallback when no catalog file exists; every
// search answers with zero schemes.
func EmptySchemeCatalog() *SchemeCatalog {
	return &SchemeCatalog{}
}

func LoadSchemeCatalog(path string) (*SchemeCatalog, error) {
	c := &SchemeCatalog{path: path}
	if err := c.reload(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *SchemeCatalog) reload() error {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("read scheme catalog: %w", err)
	}
	var f schemeFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse scheme catalog: %w", err)
	}
	c.mu.Lock()
	c.items = f.Schemes
	c.mu.Unlock()
	return nil
}

// Watch reloads the catalog whenever the file is rewritten. Editors and
// config pushes replace the file, so Create counts as a change too.
func (c *SchemeCatalog) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: most writers replace the file, which would drop a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != c.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := c.reload(); err != nil {
					logger.Warnw("scheme catalog reload failed", "err", err)
				} else {
					logger.Infow("scheme catalog reloaded", "count", c.Len())
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnw("scheme catalog watcher error", "err", err)
			}
		}
	}()
	return nil
}

func (c *SchemeCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Search filters the catalog case-insensitively over name and brief. An empty
// query returns the full catalog.
func (c *SchemeCatalog) Search(query string) []Scheme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]Scheme, len(c.items))
		copy(out, c.items)
		return out
	}
	out := []Scheme{}
	for _, s := range c.items {
		if strings.Contains(strings.ToLower(s.SchemeName), query) ||
			strings.Contains(strings.ToLower(s.Brief), query) {
			out = append(out, s)
		}
	}
	return out
}
