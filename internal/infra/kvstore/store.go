// Package kvstore provides a YAML file-backed key-value store.
// Other processes (or a sync tool) may rewrite the file; Reload picks up
// their changes and notifies subscribers.
package kvstore

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

// Store implements domain.KeyValueStore on a YAML file.
// Fields are ordered to minimize memory padding.
type Store struct {
	modTime time.Time
	values  map[string]string
	subs    map[int]func(changed []string)
	path    string
	nextSub int
	mu      sync.Mutex
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
		subs:   make(map[int]func([]string)),
	}
	values, modTime, err := s.readFile()
	if err != nil {
		return nil, err
	}
	s.values = values
	s.modTime = modTime
	return s, nil
}

// Get returns the value for key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value and writes the file. Subscribers are not notified of local writes.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.values[key]; ok && old == value {
		return nil
	}
	s.values[key] = value
	return s.writeLocked()
}

// Remove deletes a key and writes the file.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.writeLocked()
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.values))
}

// Subscribe registers fn for external changes.
func (s *Store) Subscribe(fn func(changed []string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Reload re-reads the file and notifies subscribers with the keys that differ
// from the in-memory values. It returns the changed keys.
// The file is read under the lock so a concurrent Set is never overwritten by
// an older snapshot.
func (s *Store) Reload() ([]string, error) {
	s.mu.Lock()
	values, modTime, err := s.readFile()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	var changed []string
	for k, v := range values {
		if old, ok := s.values[k]; !ok || old != v {
			changed = append(changed, k)
		}
	}
	for k := range s.values {
		if _, ok := values[k]; !ok {
			changed = append(changed, k)
		}
	}
	s.values = values
	s.modTime = modTime
	subs := slices.Collect(maps.Values(s.subs))
	s.mu.Unlock()

	if len(changed) == 0 {
		return nil, nil
	}
	slices.Sort(changed)
	for _, fn := range subs {
		fn(changed)
	}
	return changed, nil
}

// Watch polls the file every interval and reloads it when its modification time changes.
// It returns when ctx is done.
func (s *Store) Watch(ctx context.Context, interval time.Duration, onErr func(error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			info, err := os.Stat(s.path)
			if err != nil {
				continue
			}
			s.mu.Lock()
			stale := !info.ModTime().Equal(s.modTime)
			s.mu.Unlock()
			if !stale {
				continue
			}
			if _, err := s.Reload(); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}

func (s *Store) readFile() (map[string]string, time.Time, error) {
	values := make(map[string]string)
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, time.Time{}, nil
		}
		return nil, time.Time{}, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(content, &values); err != nil {
		return nil, time.Time{}, fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]string)
	}

	var modTime time.Time
	if info, err := os.Stat(s.path); err == nil {
		modTime = info.ModTime()
	}
	return values, modTime, nil
}

func (s *Store) writeLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	content, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	if info, err := os.Stat(s.path); err == nil {
		s.modTime = info.ModTime()
	}
	return nil
}

var _ domain.KeyValueStore = (*Store)(nil)
