// Package video exposes the frame count, frame rate and individual frames of an
// uploaded jump video. Decoding is delegated to interchangeable backends chosen by
// file extension.
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

var (
	ErrFrameUnavailable  = errors.New("frame unavailable")
	ErrUnsupportedFormat = errors.New("unsupported video format")
	ErrInvalidMetadata   = errors.New("invalid video metadata")
)

// Source is an opened video. Frame may fail for any index; callers that only need
// timing must not depend on it.
type Source interface {
	FrameCount() int
	FrameRate() float64
	Frame(ctx context.Context, index int) (image.Image, error)
	Close() error
}

type Backend interface {
	Name() string
	Open(ctx context.Context, path string) (Source, error)
}

type Metadata struct {
	FrameCount int     `json:"frame_count"`
	FrameRate  float64 `json:"frame_rate"`
}

func (m Metadata) Validate() error {
	if m.FrameCount <= 0 {
		return fmt.Errorf("%w: frame count %d", ErrInvalidMetadata, m.FrameCount)
	}
	if m.FrameRate <= 0 || math.IsNaN(m.FrameRate) || math.IsInf(m.FrameRate, 0) {
		return fmt.Errorf("%w: frame rate %v", ErrInvalidMetadata, m.FrameRate)
	}
	return nil
}

func (m Metadata) LastIndex() int {
	return m.FrameCount - 1
}

func (m Metadata) Contains(index int) bool {
	return index >= 0 && index < m.FrameCount
}

type Opener struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

func NewOpener() *Opener {
	return &Opener{backends: make(map[string]Backend)}
}

func (o *Opener) Register(backend Backend, exts ...string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ext := range exts {
		o.backends[normalizeExt(ext)] = backend
	}
}

func (o *Opener) backendFor(name string) (Backend, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	b, ok := o.backends[normalizeExt(filepath.Ext(name))]
	return b, ok
}

func (o *Opener) Supported(name string) bool {
	_, ok := o.backendFor(name)
	return ok
}

func (o *Opener) Extensions() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	exts := make([]string, 0, len(o.backends))
	for ext := range o.backends {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func (o *Opener) Open(ctx context.Context, path string) (Source, error) {
	b, ok := o.backendFor(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	src, err := b.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", b.Name(), err)
	}
	return src, nil
}

// Probe opens path just long enough to read and validate its metadata.
func Probe(ctx context.Context, o *Opener, path string) (Metadata, error) {
	src, err := o.Open(ctx, path)
	if err != nil {
		return Metadata{}, err
	}
	defer src.Close()

	meta := Metadata{FrameCount: src.FrameCount(), FrameRate: src.FrameRate()}
	if err := meta.Validate(); err != nil {
		return Metadata{}, err
	}
	return meta, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
