package shellcache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// APIPrefix marks request paths that must never be cached: generation calls
// are side-effecting and their answers are never valid stale.
const APIPrefix = "/api/"

// DefaultGeneration is the current shell snapshot name. Any change to the
// shell's asset set requires bumping this.
const DefaultGeneration = "listing-shell-v1"

// DefaultManifest is the fixed set of shell assets kept for offline loads.
var DefaultManifest = []string{
	"/",
	"/index.html",
	"/styles.css",
	"/app.js",
	"/manifest.webmanifest",
	"/icon-192.png",
	"/icon-512.png",
}

// documentPaths are served network-first so a reachable server always wins
// over a stale shell; everything else is cache-first.
var documentPaths = map[string]struct{}{
	"/":           {},
	"/index.html": {},
}

// Fetcher loads a path from the network.
type Fetcher func(ctx context.Context, path string) ([]byte, error)

// Store keeps named generations of path→body entries. Exactly one generation
// is live; activating a new one deletes every other.
type Store struct {
	mu          sync.RWMutex
	generations map[string]map[string][]byte
	active      string
}

func New() *Store {
	return &Store{generations: make(map[string]map[string][]byte)}
}

// Activate installs a new generation: the manifest is fetched into it, it
// becomes the live generation, and all previous generations are purged.
// Manifest entries under the API prefix are refused outright.
func (s *Store) Activate(ctx context.Context, generation string, manifest []string, fetch Fetcher) error {
	if generation == "" {
		return fmt.Errorf("shellcache: generation name is required")
	}
	entries := make(map[string][]byte, len(manifest))
	for _, path := range manifest {
		if strings.HasPrefix(path, APIPrefix) {
			return fmt.Errorf("shellcache: refusing to cache API path %s", path)
		}
		body, err := fetch(ctx, path)
		if err != nil {
			return fmt.Errorf("shellcache: fetch %s: %w", path, err)
		}
		entries[path] = body
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations = map[string]map[string][]byte{generation: entries}
	s.active = generation
	return nil
}

// Fetch serves one request through the cache policy: API traffic bypasses
// the store entirely, shell documents are network-first with cached
// fallback, other assets are cache-first and populated on first fetch.
func (s *Store) Fetch(ctx context.Context, path string, fetch Fetcher) ([]byte, error) {
	if strings.HasPrefix(path, APIPrefix) {
		return fetch(ctx, path)
	}

	if _, isDocument := documentPaths[path]; isDocument {
		body, err := fetch(ctx, path)
		if err == nil {
			s.put(path, body)
			return body, nil
		}
		if cached, ok := s.get(path); ok {
			return cached, nil
		}
		return nil, err
	}

	if cached, ok := s.get(path); ok {
		return cached, nil
	}
	body, err := fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	s.put(path, body)
	return body, nil
}

// Generations lists the stored generation names, sorted.
func (s *Store) Generations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.generations))
	for name := range s.generations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Contains reports whether the live generation holds an entry for path.
func (s *Store) Contains(path string) bool {
	_, ok := s.get(path)
	return ok
}

func (s *Store) get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	gen, ok := s.generations[s.active]
	if !ok {
		return nil, false
	}
	body, ok := gen[path]
	return body, ok
}

func (s *Store) put(path string, body []byte) {
	if strings.HasPrefix(path, APIPrefix) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	gen, ok := s.generations[s.active]
	if !ok {
		return
	}
	gen[path] = body
}
