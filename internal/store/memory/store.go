// Package memory provides an in-memory implementation of store.Store.
// It mirrors the semantics of the Redis backend, including per-key
// modification tracking for optimistic transactions, key TTLs, and
// paged scans. Suitable for single-process deployments and tests; NOT
// suitable for anything distributed.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prn-tf/medtrack/internal/store"
)

// entry represents a single stored value.
type entry struct {
	value     string
	expiresAt time.Time
	noExpiry  bool
}

// Store implements store.Store using an in-memory map.
type Store struct {
	mu       sync.Mutex
	items    map[string]entry
	versions map[string]uint64

	// forcedConflicts makes the next N transaction commits fail with
	// ErrTxConflict regardless of watched-key state. Test hook.
	forcedConflicts int

	stopCh  chan struct{}
	stopped bool

	// Now is the clock used for TTL expiry. Overridable in tests.
	Now func() time.Time
}

// New creates a new in-memory store.
func New() *Store {
	s := &Store{
		items:    make(map[string]entry),
		versions: make(map[string]uint64),
		stopCh:   make(chan struct{}),
		Now:      time.Now,
	}

	go s.cleanupLoop()

	return s
}

// cleanupLoop periodically removes expired entries.
func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, it := range s.items {
		if s.expired(it) {
			delete(s.items, key)
			s.versions[key]++
		}
	}
}

// Stop stops the cleanup goroutine.
func (s *Store) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
	}
}

// ForceConflicts makes the next n transaction commits abort with
// ErrTxConflict. Used by tests to exercise the bounded-retry path.
func (s *Store) ForceConflicts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forcedConflicts = n
}

func (s *Store) expired(it entry) bool {
	if it.noExpiry {
		return false
	}
	return s.Now().After(it.expiresAt)
}

// live returns the entry for key if present and unexpired.
// Caller must hold mu. Expired entries are removed lazily.
func (s *Store) live(key string) (entry, bool) {
	it, ok := s.items[key]
	if !ok {
		return entry{}, false
	}
	if s.expired(it) {
		delete(s.items, key)
		s.versions[key]++
		return entry{}, false
	}
	return it, true
}

func (s *Store) put(key, value string, ttl time.Duration) {
	it := entry{value: value, noExpiry: ttl == 0}
	if ttl != 0 {
		it.expiresAt = s.Now().Add(ttl)
	}
	s.items[key] = it
	s.versions[key]++
}

// Get retrieves the value for key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.live(key)
	if !ok {
		return "", store.ErrKeyNotFound
	}
	return it.value, nil
}

// Set stores a value. A ttl of 0 means the value does not expire.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(key, value, ttl)
	return nil
}

// SetNX stores a value only if the key does not already exist.
func (s *Store) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(key); ok {
		return false, nil
	}
	s.put(key, value, ttl)
	return true, nil
}

// GetDel atomically retrieves and deletes the value for key.
func (s *Store) GetDel(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.live(key)
	if !ok {
		return "", store.ErrKeyNotFound
	}
	delete(s.items, key)
	s.versions[key]++
	return it.value, nil
}

// Delete removes the given keys and returns how many existed.
func (s *Store) Delete(ctx context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if _, ok := s.live(key); ok {
			delete(s.items, key)
			s.versions[key]++
			deleted++
		}
	}
	return deleted, nil
}

// Scan iterates keys matching the glob pattern, one page per call.
// The cursor is an offset into the sorted key set; like Redis, the scan
// promises no isolation against concurrent writes.
func (s *Store) Scan(ctx context.Context, cursor uint64, match string, count int64) ([]string, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count <= 0 {
		count = 10
	}

	all := make([]string, 0, len(s.items))
	for key, it := range s.items {
		if !s.expired(it) && globMatch(match, key) {
			all = append(all, key)
		}
	}
	sort.Strings(all)

	if cursor >= uint64(len(all)) {
		return nil, 0, nil
	}

	end := cursor + uint64(count)
	if end >= uint64(len(all)) {
		return all[cursor:], 0, nil
	}
	return all[cursor:end], end, nil
}

// Watch runs fn inside an optimistic transaction over the given keys.
func (s *Store) Watch(ctx context.Context, fn func(store.Tx) error, keys ...string) error {
	s.mu.Lock()
	watched := make(map[string]uint64, len(keys))
	for _, key := range keys {
		s.live(key) // settle lazy expiry before snapshotting versions
		watched[key] = s.versions[key]
	}
	s.mu.Unlock()

	return fn(&tx{store: s, watched: watched})
}

// tx implements store.Tx over the memory store.
type tx struct {
	store   *Store
	watched map[string]uint64
	done    bool
}

func (t *tx) Get(ctx context.Context, key string) (string, error) {
	return t.store.Get(ctx, key)
}

func (t *tx) Exec(ctx context.Context, fn func(store.Pipe) error) error {
	if t.done {
		return store.ErrTxConflict
	}
	t.done = true

	p := &pipe{}
	if err := fn(p); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.forcedConflicts > 0 {
		s.forcedConflicts--
		return store.ErrTxConflict
	}

	for key, version := range t.watched {
		s.live(key)
		if s.versions[key] != version {
			return store.ErrTxConflict
		}
	}

	for _, op := range p.ops {
		if op.delete {
			if _, ok := s.live(op.key); ok {
				delete(s.items, op.key)
				s.versions[op.key]++
			}
			continue
		}
		s.put(op.key, op.value, op.ttl)
	}
	return nil
}

// pipe records queued writes.
type pipe struct {
	ops []pipeOp
}

type pipeOp struct {
	key    string
	value  string
	ttl    time.Duration
	delete bool
}

func (p *pipe) Set(key, value string, ttl time.Duration) {
	p.ops = append(p.ops, pipeOp{key: key, value: value, ttl: ttl})
}

func (p *pipe) Delete(keys ...string) {
	for _, key := range keys {
		p.ops = append(p.ops, pipeOp{key: key, delete: true})
	}
}

// globMatch matches s against a Redis-style glob pattern supporting
// '*' and '?'. That is the full pattern surface the repositories use.
func globMatch(pattern, s string) bool {
	// Iterative wildcard matching with single-star backtracking.
	var pi, si int
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			star = pi
			mark = si
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			si = mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)
