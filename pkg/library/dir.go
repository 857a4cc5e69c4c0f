package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-formdesigner/pkg/model"
)

// DirStore keeps one design per .json/.yaml file in a directory. Designs are
// cached in memory; Watch keeps the cache in step with edits made outside
// the store.
type DirStore struct {
	root string
	cfg  config

	mu      sync.RWMutex
	designs map[string]model.Design
	files   map[string]string

	subsMu sync.Mutex
	subs   map[int]func(id string)
	nextID int
}

// OpenDir scans root, creating it when missing.
func OpenDir(root string, opts ...Option) (*DirStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("library: create %s: %w", root, err)
	}
	s := &DirStore{
		root:    root,
		cfg:     newConfig(opts),
		designs: make(map[string]model.Design),
		files:   make(map[string]string),
		subs:    make(map[int]func(string)),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the directory backing the store.
func (s *DirStore) Root() string { return s.root }

// Reload rescans the directory. Files that fail to decode are logged and
// skipped.
func (s *DirStore) Reload() error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return fmt.Errorf("library: read %s: %w", s.root, err)
	}
	designs := make(map[string]model.Design)
	files := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		design, ok := s.readFile(path)
		if !ok {
			continue
		}
		designs[design.ID] = design
		files[design.ID] = path
	}
	s.mu.Lock()
	s.designs = designs
	s.files = files
	s.mu.Unlock()
	return nil
}

func (s *DirStore) readFile(path string) (model.Design, bool) {
	if _, ok := FormatFromPath(path); !ok {
		return model.Design{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		s.cfg.logger.Warn("read design failed", "path", path, "error", err)
		return model.Design{}, false
	}
	design, err := Decode(data)
	if err != nil {
		s.cfg.logger.Warn("decode design failed", "path", path, "error", err)
		return model.Design{}, false
	}
	if design.ID == "" {
		design.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return design, true
}

// Save implements Store. The design is written to <id><ext> unless it was
// loaded from another file, which is then rewritten in place.
func (s *DirStore) Save(ctx context.Context, design model.Design) (model.Design, error) {
	if err := ctx.Err(); err != nil {
		return model.Design{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var previous *model.Design
	if existing, ok := s.designs[design.ID]; ok {
		previous = &existing
	}
	stored, err := s.cfg.stamp(design, previous)
	if err != nil {
		return model.Design{}, err
	}

	path, ok := s.files[stored.ID]
	if !ok {
		path = filepath.Join(s.root, stored.ID+s.cfg.format.Extension())
	}
	format, _ := FormatFromPath(path)
	data, err := Encode(stored, format)
	if err != nil {
		return model.Design{}, err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return model.Design{}, fmt.Errorf("library: write %s: %w", path, err)
	}
	s.designs[stored.ID] = stored
	s.files[stored.ID] = path
	return model.CloneDesign(stored), nil
}

// Load implements Store.
func (s *DirStore) Load(ctx context.Context, id string) (model.Design, error) {
	if err := ctx.Err(); err != nil {
		return model.Design{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	design, ok := s.designs[id]
	if !ok {
		return model.Design{}, ErrNotFound
	}
	return model.CloneDesign(design), nil
}

// List implements Store.
func (s *DirStore) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.designs))
	for _, design := range s.designs {
		out = append(out, Summarize(design))
	}
	sortSummaries(out)
	return out, nil
}

// Delete implements Store.
func (s *DirStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := s.files[id]
	if !ok {
		return ErrNotFound
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("library: remove %s: %w", path, err)
	}
	delete(s.designs, id)
	delete(s.files, id)
	return nil
}

// OnChange registers fn to run with the id of every design the watcher
// reloads or drops. The returned func unregisters it.
func (s *DirStore) OnChange(fn func(id string)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

func (s *DirStore) publish(id string) {
	s.subsMu.Lock()
	subs := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()
	for _, fn := range subs {
		fn(id)
	}
}

// Watch follows the directory with fsnotify until ctx is done, refreshing
// cached designs as files change.
func (s *DirStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("library: watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.root); err != nil {
		return fmt.Errorf("library: watch %s: %w", s.root, err)
	}
	s.cfg.logger.Debug("watching designs", "dir", s.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.cfg.logger.Warn("design watcher error", "error", err)
		}
	}
}

func (s *DirStore) handleEvent(event fsnotify.Event) {
	if _, ok := FormatFromPath(event.Name); !ok {
		return
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if id, ok := s.dropPath(event.Name); ok {
			s.publish(id)
		}
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		design, ok := s.readFile(event.Name)
		if !ok {
			return
		}
		s.mu.Lock()
		if current, exists := s.designs[design.ID]; exists && current.UpdatedAt.Equal(design.UpdatedAt) && s.files[design.ID] == event.Name {
			s.mu.Unlock()
			return
		}
		s.designs[design.ID] = design
		s.files[design.ID] = event.Name
		s.mu.Unlock()
		s.publish(design.ID)
	}
}

func (s *DirStore) dropPath(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, file := range s.files {
		if file == path {
			delete(s.designs, id)
			delete(s.files, id)
			return id, true
		}
	}
	return "", false
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
