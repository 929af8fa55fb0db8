// ABOUTME: Inbox watcher that hands new or changed documents to a handler
// ABOUTME: Debounces write bursts per file and skips files whose content is unchanged
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/harper/finreport/internal/loader"
	"github.com/rs/zerolog/log"
)

// DefaultDebounce is how long a file must be quiet before it is processed
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled file
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	// Scan processes the supported files already in the directory on start
	Scan bool
}

// Watcher watches one directory for supported documents
type Watcher struct {
	dir      string
	handle   Handler
	debounce time.Duration
	scan     bool
	hashes   map[string]string // last processed content hash per path
}

// New creates a watcher for dir
func New(dir string, handle Handler, opts Options) (*Watcher, error) {
	if handle == nil {
		return nil, errors.New("handler is required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		dir:      dir,
		handle:   handle,
		debounce: opts.Debounce,
		scan:     opts.Scan,
		hashes:   make(map[string]string),
	}, nil
}

// Run watches until ctx is cancelled. Files are processed one at a time.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching directory")

	if w.scan {
		if err := w.scanExisting(ctx); err != nil {
			return err
		}
	}

	pending := make(map[string]*time.Timer)
	ready := make(chan string, 16)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.wants(event.Name) {
				continue
			}
			switch {
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				if t, ok := pending[event.Name]; ok {
					t.Reset(w.debounce)
					continue
				}
				name := event.Name
				pending[name] = time.AfterFunc(w.debounce, func() {
					select {
					case ready <- name:
					case <-ctx.Done():
					}
				})
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				if t, ok := pending[event.Name]; ok {
					t.Stop()
					delete(pending, event.Name)
				}
				delete(w.hashes, event.Name)
			}

		case path := <-ready:
			delete(pending, path)
			w.process(ctx, path)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")

		case <-ctx.Done():
			log.Info().Str("dir", w.dir).Msg("watcher stopped")
			return nil
		}
	}
}

func (w *Watcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", w.dir, err)
	}
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil
		}
		path := filepath.Join(w.dir, e.Name())
		if e.IsDir() || !w.wants(path) {
			continue
		}
		w.process(ctx, path)
	}
	return nil
}

// process runs the handler unless the file vanished or its content was already handled
func (w *Watcher) process(ctx context.Context, path string) {
	hash, err := fileHash(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not hash file")
		return
	}
	if w.hashes[path] == hash {
		log.Debug().Str("path", path).Msg("content unchanged, skipping")
		return
	}

	start := time.Now()
	if err := w.handle(ctx, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to process file")
		return
	}
	w.hashes[path] = hash
	log.Info().Str("path", path).Dur("elapsed", time.Since(start)).Msg("processed file")
}

// wants reports whether path is a supported, non-hidden document
func (w *Watcher) wants(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") {
		return false
	}
	return loader.Supported(base)
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
