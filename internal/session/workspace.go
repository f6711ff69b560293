package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eleven-am/jump-backend/internal/shared"
)

var ErrInvalidID = errors.New("invalid session id")

// Workspace owns one directory per session under root. Everything a session
// writes (the upload, the rendered report) lives inside it so that releasing the
// directory releases every resource the session held.
type Workspace struct {
	root   string
	logger *slog.Logger
}

func NewWorkspace(root string, logger *slog.Logger) (*Workspace, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "jump-backend")
	}
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Workspace{root: root, logger: logger.With("component", "workspace")}, nil
}

func (w *Workspace) Root() string {
	return w.root
}

func (w *Workspace) Path(id string) (string, error) {
	if !shared.ValidID(IDPrefix, id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return filepath.Join(w.root, id), nil
}

// Dir is an acquired session directory. Release may be called any number of
// times; only the first call removes the directory.
type Dir struct {
	path    string
	once    sync.Once
	err     error
	release func(string) error
}

func (d *Dir) Path() string {
	return d.path
}

func (d *Dir) Release() error {
	d.once.Do(func() {
		d.err = d.release(d.path)
	})
	return d.err
}

func (w *Workspace) Acquire(id string) (*Dir, error) {
	path, err := w.Path(id)
	if err != nil {
		return nil, err
	}
	if err := os.Mkdir(path, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &Dir{path: path, release: os.RemoveAll}, nil
}

// Release removes the directory of id. Missing directories are not an error.
func (w *Workspace) Release(id string) error {
	path, err := w.Path(id)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove session dir: %w", err)
	}
	return nil
}

// Count returns the number of session directories currently on disk.
func (w *Workspace) Count() (int, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return 0, fmt.Errorf("read workspace root: %w", err)
	}

	n := 0
	for _, entry := range entries {
		if entry.IsDir() && shared.ValidID(IDPrefix, entry.Name()) {
			n++
		}
	}
	return n, nil
}

// Stale lists session directories last modified before now-maxAge.
func (w *Workspace) Stale(maxAge time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(w.root)
	if err != nil {
		return nil, fmt.Errorf("read workspace root: %w", err)
	}

	cutoff := now.Add(-maxAge)
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() || !shared.ValidID(IDPrefix, entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			w.logger.Warn("stat session dir failed", "error", err, "dir", entry.Name())
			continue
		}
		if info.ModTime().Before(cutoff) {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}
