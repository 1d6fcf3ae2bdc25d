// Package store implements the shared keyspace: a map from key to Entry
// where an Entry holds either a scalar string or an ordered list, never
// both at once. Every exported method is atomic with respect to the
// keyspace lock.
package store

import (
	"errors"
	"sync"
	"time"
)

// ErrWrongType is returned when a command is applied to a key whose stored
// value is the wrong variant (e.g. a list op on a scalar key).
var ErrWrongType = errors.New("WRONGTYPE Operation against a key holding the wrong kind of value")

// kind tags which variant an Entry currently holds.
type kind int

const (
	kindScalar kind = iota
	kindList
)

// entry is the keyspace's internal record for one key. Exactly one of
// scalar/list is meaningful at a time, selected by kind.
type entry struct {
	kind kind

	scalar string
	list   []string

	createdAt time.Time
	// hasTTL is false for entries with no expiry (the zero value of
	// ttl, 0, is itself a legal expiry -- PX 0 -- so a bool flag is
	// required to distinguish "no expiry" from "expires immediately").
	hasTTL bool
	ttl    time.Duration
}

// expired reports whether e should be treated as absent at now. Only
// scalar entries carry a TTL; list entries never expire.
func (e *entry) expired(now time.Time) bool {
	if !e.hasTTL {
		return false
	}
	return now.Sub(e.createdAt) >= e.ttl
}

// Store is the keyspace. The zero value is not usable; construct with New.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry

	// cond is signaled after every successful RPUSH/LPUSH commits, once
	// the mutation is visible in entries. internal/blocking waits on it.
	cond *sync.Cond
}

// New returns an empty Store.
func New() *Store {
	s := &Store{entries: make(map[string]*entry)}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Locker exposes the keyspace mutex so internal/blocking can share it with
// its own sync.Cond wait loop without this package depending on that one.
func (s *Store) Locker() sync.Locker { return &s.mu }

// Cond exposes the keyspace's condition variable so internal/blocking can
// wait on and be woken by keyspace mutations without a circular import.
func (s *Store) Cond() *sync.Cond { return s.cond }

// Get returns the scalar value at key, applying lazy expiry first. The
// second return is false if the key is absent (including just-expired).
// Returns ErrWrongType if key holds a list.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.getLiveLocked(key)
	if e == nil {
		return "", false, nil
	}
	if e.kind != kindScalar {
		return "", false, ErrWrongType
	}
	return e.scalar, true, nil
}

// Set unconditionally creates or overwrites a scalar entry. ttl is the
// expiry duration; hasTTL false means no expiry. Pre-existing expiry state
// of an overwritten key is irrelevant -- SET never checks it.
func (s *Store) Set(key, value string, hasTTL bool, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &entry{
		kind:      kindScalar,
		scalar:    value,
		createdAt: time.Now(),
		hasTTL:    hasTTL,
		ttl:       ttl,
	}
}

// PushRight implements RPUSH: append values to the tail, auto-vivifying an
// absent key as an empty list first. Returns the length after the push, or
// ErrWrongType if key holds a scalar (no mutation in that case).
func (s *Store) PushRight(key string, values []string) (int, error) {
	return s.push(key, values, false)
}

// PushLeft implements LPUSH: prepend values to the head in argument order
// (so each value lands at position 0 in turn -- the last argument ends up
// at the very front). Returns the length after the push, or ErrWrongType.
func (s *Store) PushLeft(key string, values []string) (int, error) {
	return s.push(key, values, true)
}

func (s *Store) push(key string, values []string, left bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if ok && e.kind != kindList {
		return 0, ErrWrongType
	}
	if !ok {
		e = &entry{kind: kindList}
		s.entries[key] = e
	}

	if left {
		for _, v := range values {
			e.list = append([]string{v}, e.list...)
		}
	} else {
		e.list = append(e.list, values...)
	}

	n := len(e.list)
	// Broadcast while still holding the lock, so the append is visible to
	// any waiter's re-scan before it wakes.
	s.cond.Broadcast()
	return n, nil
}

// Range implements LRANGE's index normalization and slicing.
func (s *Store) Range(key string, start, stop int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return []string{}, nil
	}
	if e.kind != kindList {
		return nil, ErrWrongType
	}
	return normalizeRange(e.list, start, stop), nil
}

// normalizeRange applies LRANGE's index normalization and clamping rules to
// a snapshot of list. It never mutates list.
func normalizeRange(list []string, start, stop int) []string {
	length := len(list)
	if length == 0 {
		return []string{}
	}

	s := start
	if s < 0 {
		s = length + s
	}
	if s < 0 {
		s = 0
	}
	if s > length {
		s = length
	}

	e := stop
	if e < 0 {
		e = length + e
	}
	if e < 0 {
		e = 0
	}
	if e > length-1 {
		e = length - 1
	}

	if s >= length || s > e {
		return []string{}
	}

	out := make([]string, e-s+1)
	copy(out, list[s:e+1])
	return out
}

// Len implements LLEN. Absent key reports 0, never an error.
func (s *Store) Len(key string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	if e.kind != kindList {
		return 0, ErrWrongType
	}
	return len(e.list), nil
}

// PopLeftOne implements LPOP with no count: removes and returns the head
// element. ok is false if the key is absent or the list is empty.
func (s *Store) PopLeftOne(key string) (value string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[key]
	if !exists {
		return "", false, nil
	}
	if e.kind != kindList {
		return "", false, ErrWrongType
	}
	if len(e.list) == 0 {
		return "", false, nil
	}

	v := e.list[0]
	e.list = e.list[1:]
	return v, true, nil
}

// PopLeftCount implements LPOP with an explicit count: removes up to n
// elements from the head (n must already be validated non-negative by the
// caller) and returns them head-to-tail. present reports whether the key
// existed at all, distinguishing "absent key" from "empty list"; an empty
// list yields present true and no values.
func (s *Store) PopLeftCount(key string, n int) (values []string, present bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[key]
	if !exists {
		return nil, false, nil
	}
	if e.kind != kindList {
		return nil, true, ErrWrongType
	}

	take := n
	if take > len(e.list) {
		take = len(e.list)
	}
	if take == 0 {
		return []string{}, true, nil
	}

	out := make([]string, take)
	copy(out, e.list[:take])
	e.list = e.list[take:]
	return out, true, nil
}

// TryPopLeftLocked scans keys in order under the keyspace lock and pops the head
// of the first non-empty list it finds. Used both by BLPOP's initial
// non-blocking scan and by internal/blocking's re-scan loop; the caller
// must already hold s's mutex (via Locker()) when calling this.
func (s *Store) TryPopLeftLocked(keys []string) (winner, value string, ok bool) {
	for _, key := range keys {
		e, exists := s.entries[key]
		if !exists || e.kind != kindList || len(e.list) == 0 {
			continue
		}
		v := e.list[0]
		e.list = e.list[1:]
		return key, v, true
	}
	return "", "", false
}

// getLiveLocked returns the entry at key after applying lazy expiry,
// deleting it from the map if it has expired. Caller must hold s.mu.
func (s *Store) getLiveLocked(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if e.expired(time.Now()) {
		delete(s.entries, key)
		return nil
	}
	return e
}
