// Package directory holds the people list that mention suggestions are drawn
// from.
//
// The list is published as an immutable snapshot behind an atomic pointer.
// Readers call Snapshot at the moment they need data and never observe a
// partially updated list; writers build a new slice and swap it in. A people
// file on disk can be loaded once or watched for changes.
package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/treykane/cli-notes-suggest/internal/logging"
	"github.com/treykane/cli-notes-suggest/internal/suggest"
)

// ErrInvalidEntry reports a people file entry without an id or name.
var ErrInvalidEntry = errors.New("invalid directory entry")

// Directory is a concurrency-safe people list.
type Directory struct {
	people atomic.Pointer[[]suggest.Mention]
	log    *slog.Logger
}

// New returns a directory holding people.
func New(people ...suggest.Mention) *Directory {
	d := &Directory{log: logging.New("directory")}
	d.Set(people)
	return d
}

// Snapshot returns the current list. The slice is shared and must not be
// modified; successive calls return the same slice until the list changes.
func (d *Directory) Snapshot() []suggest.Mention {
	if p := d.people.Load(); p != nil {
		return *p
	}
	return nil
}

// Len returns the number of people.
func (d *Directory) Len() int { return len(d.Snapshot()) }

// Set replaces the list with a copy of people.
func (d *Directory) Set(people []suggest.Mention) {
	next := slices.Clone(people)
	if next == nil {
		next = []suggest.Mention{}
	}
	d.people.Store(&next)
}

// Add inserts m, replacing any entry with the same id.
func (d *Directory) Add(m suggest.Mention) {
	cur := d.Snapshot()
	next := make([]suggest.Mention, 0, len(cur)+1)
	replaced := false
	for _, p := range cur {
		if p.PersonID == m.PersonID {
			next = append(next, m)
			replaced = true
			continue
		}
		next = append(next, p)
	}
	if !replaced {
		next = append(next, m)
	}
	d.people.Store(&next)
}

// Remove deletes the entry with the given id and reports whether it existed.
func (d *Directory) Remove(id string) bool {
	cur := d.Snapshot()
	i := slices.IndexFunc(cur, func(p suggest.Mention) bool { return p.PersonID == id })
	if i < 0 {
		return false
	}
	next := slices.Delete(slices.Clone(cur), i, i+1)
	d.people.Store(&next)
	return true
}

// Load replaces the list with the contents of a people file.
func (d *Directory) Load(path string) error {
	people, err := ReadFile(path)
	if err != nil {
		return err
	}
	d.Set(people)
	d.log.Info("directory loaded", "path", path, "people", len(people))
	return nil
}

// ReadFile parses a JSON people file: a list of {"id", "name", "handle"}
// objects.
func ReadFile(path string) ([]suggest.Mention, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read people file: %w", err)
	}
	var people []suggest.Mention
	if err := json.Unmarshal(data, &people); err != nil {
		return nil, fmt.Errorf("parse people file %s: %w", path, err)
	}
	for i := range people {
		people[i].PersonID = strings.TrimSpace(people[i].PersonID)
		people[i].Name = strings.TrimSpace(people[i].Name)
		if people[i].PersonID == "" || people[i].Name == "" {
			return nil, fmt.Errorf("people file %s entry %d: %w", path, i, ErrInvalidEntry)
		}
	}
	return people, nil
}

// Watch reloads the list whenever the people file at path is written,
// created or renamed into place, and calls onChange with the new snapshot.
// The parent directory is watched so editors that replace the file
// atomically are seen. Watch returns once the watcher is running; it stops
// when ctx is done. A failed reload keeps the previous list.
func (d *Directory) Watch(ctx context.Context, path string, onChange func([]suggest.Mention)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve people file: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
					continue
				}
				if err := d.Load(abs); err != nil {
					d.log.Warn("reload directory", "path", abs, "error", err)
					continue
				}
				if onChange != nil {
					onChange(d.Snapshot())
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				d.log.Warn("directory watcher", "path", abs, "error", err)
			}
		}
	}()
	d.log.Debug("watching people file", "path", abs)
	return nil
}
