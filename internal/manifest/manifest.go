// Package manifest persists file digests between runs so callers can tell
// which files changed since they were last recorded.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"fphash/internal/hasher"
)

// Current schema version - increment when the payload format changes.
const schemaVersion uint16 = 1

// ErrSchema reports a manifest written by an incompatible version.
var ErrSchema = errors.New("manifest schema mismatch")

// Status classifies a path when compared against the manifest.
type Status uint8

const (
	StatusUnchanged  Status = iota // digest matches the recorded one
	StatusModified                 // digest differs
	StatusAdded                    // no recorded digest
	StatusUnreadable               // no digest could be computed
)

// String returns the string representation of Status.
func (s Status) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusModified:
		return "modified"
	case StatusAdded:
		return "added"
	case StatusUnreadable:
		return "unreadable"
	default:
		return "unknown"
	}
}

// Changed reports whether the path must be treated as changed.
func (s Status) Changed() bool { return s != StatusUnchanged }

// Change is the comparison outcome for one path.
type Change struct {
	Path     string
	Status   Status
	Previous string // recorded digest, if any
	Current  string // new digest, if readable
}

// payload is the on-disk form.
type payload struct {
	Schema  uint16
	Count   uint32
	Digests map[string]string
}

// Manifest maps file paths to their recorded digests.
// Thread-safe for concurrent access.
type Manifest struct {
	mu      sync.RWMutex
	digests map[string]string
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{digests: make(map[string]string)}
}

// Load reads a manifest from path. A missing file yields an empty manifest.
func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var p payload
	if err := msgpack.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("%s: decode manifest: %w", path, err)
	}
	if p.Schema != schemaVersion {
		return nil, fmt.Errorf("%s: schema %d, want %d: %w", path, p.Schema, schemaVersion, ErrSchema)
	}
	if int(p.Count) != len(p.Digests) {
		return nil, fmt.Errorf("%s: manifest records %d entries, found %d", path, p.Count, len(p.Digests))
	}
	m := New()
	for k, v := range p.Digests {
		m.digests[k] = v
	}
	return m, nil
}

// Save writes the manifest to path atomically.
func (m *Manifest) Save(path string) (err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count, err := safecast.Conv[uint32](len(m.digests))
	if err != nil {
		return fmt.Errorf("manifest too large: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	enc := msgpack.NewEncoder(f)
	enc.SetSortMapKeys(true)
	if err = enc.Encode(&payload{Schema: schemaVersion, Count: count, Digests: m.digests}); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), path)
}

// Get returns the recorded digest for path.
func (m *Manifest) Get(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.digests[path]
	return d, ok
}

// Len returns the number of recorded paths.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.digests)
}

// Record stores the digests of readable results and forgets unreadable ones,
// so an unreadable file is never considered unchanged later.
func (m *Manifest) Record(results []hasher.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range results {
		if r.OK {
			m.digests[r.Path] = r.Digest
		} else {
			delete(m.digests, r.Path)
		}
	}
}

// Diff compares results against the recorded digests, in result order.
func (m *Manifest) Diff(results []hasher.Result) []Change {
	m.mu.RLock()
	defer m.mu.RUnlock()

	changes := make([]Change, 0, len(results))
	for _, r := range results {
		prev, known := m.digests[r.Path]
		c := Change{Path: r.Path, Previous: prev, Current: r.Digest}
		switch {
		case !r.OK:
			c.Status = StatusUnreadable
		case !known:
			c.Status = StatusAdded
		case prev != r.Digest:
			c.Status = StatusModified
		default:
			c.Status = StatusUnchanged
		}
		changes = append(changes, c)
	}
	return changes
}

// Paths returns the recorded paths in sorted order.
func (m *Manifest) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.digests))
	for p := range m.digests {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
