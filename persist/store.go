package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Store reads and writes editor state files as JSON.
type Store struct {
	Path string
}

// NewStore creates a store bound to a file path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Save writes the state to the store's path, creating parent directories
// as needed. The write goes through a temp file and rename so a crash
// mid-save never truncates the previous file.
func (s *Store) Save(st State) error {
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.Path)
}

// Load reads and decodes the state file, returning import warnings
// alongside the surviving records.
func (s *Store) Load() (State, []Warning, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return State{}, nil, fmt.Errorf("read state: %w", err)
	}
	return Decode(data)
}

// Exists reports whether the state file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.Path)
	return err == nil
}

// Autosaver debounces change notifications into periodic saves. It runs
// entirely on the caller's event loop: MarkDirty on every mutation, Tick
// from the frame timer.
type Autosaver struct {
	store    *Store
	interval time.Duration
	logger   *log.Logger

	dirty    bool
	lastSave time.Time
	nowFn    func() time.Time
}

// NewAutosaver creates an autosaver writing through store at most once per
// interval.
func NewAutosaver(store *Store, interval time.Duration, logger *log.Logger) *Autosaver {
	if logger == nil {
		logger = log.Default()
	}
	return &Autosaver{
		store:    store,
		interval: interval,
		logger:   logger,
		nowFn:    time.Now,
	}
}

// MarkDirty records that the state has changed since the last save.
func (a *Autosaver) MarkDirty() {
	a.dirty = true
}

// Tick saves the snapshot if the state is dirty and the debounce interval
// has elapsed. Save failures are logged and retried on a later tick.
func (a *Autosaver) Tick(snapshot func() State) {
	if !a.dirty || a.nowFn().Sub(a.lastSave) < a.interval {
		return
	}
	if err := a.store.Save(snapshot()); err != nil {
		a.logger.Warn("autosave failed", "path", a.store.Path, "err", err)
		return
	}
	a.dirty = false
	a.lastSave = a.nowFn()
	a.logger.Debug("autosaved", "path", a.store.Path)
}

// Flush saves immediately if dirty, regardless of the interval.
func (a *Autosaver) Flush(snapshot func() State) {
	if !a.dirty {
		return
	}
	if err := a.store.Save(snapshot()); err != nil {
		a.logger.Warn("flush failed", "path", a.store.Path, "err", err)
		return
	}
	a.dirty = false
	a.lastSave = a.nowFn()
}
