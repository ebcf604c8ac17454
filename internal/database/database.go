package database

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id is not present in the store.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned when adding a record whose id is already present.
	ErrDuplicateID = errors.New("record already exists")
	// ErrRetiredID is returned when adding a record whose id was deleted earlier.
	ErrRetiredID = errors.New("record id was retired")
)

// Store is an ordered in-memory collection of records keyed by identifier.
// Its lifetime is the lifetime of the screen that owns it.
type Store[K comparable, T any] struct {
	// records stores all records by id.
	records map[K]T

	// order preserves display order, front first.
	order []K

	// retired holds ids deleted during this store's lifetime.
	retired map[K]struct{}

	key func(T) K
}

// NewStore creates a store seeded with records in the given order.
func NewStore[K comparable, T any](key func(T) K, records ...T) (*Store[K, T], error) {
	s := &Store[K, T]{
		records: make(map[K]T, len(records)),
		order:   make([]K, 0, len(records)),
		retired: make(map[K]struct{}),
		key:     key,
	}
	for _, rec := range records {
		if err := s.Append(rec); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Len returns the number of records.
func (s *Store[K, T]) Len() int {
	return len(s.records)
}

// KeyOf returns the identifier of rec.
func (s *Store[K, T]) KeyOf(rec T) K {
	return s.key(rec)
}

// Get retrieves a record by id.
func (s *Store[K, T]) Get(id K) (T, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Exists checks if a record exists.
func (s *Store[K, T]) Exists(id K) bool {
	_, ok := s.records[id]
	return ok
}

// IsRetired reports whether id belonged to a record deleted from this store.
func (s *Store[K, T]) IsRetired(id K) bool {
	_, ok := s.retired[id]
	return ok
}

func (s *Store[K, T]) checkNew(rec T) (K, error) {
	id := s.key(rec)
	if s.Exists(id) {
		return id, fmt.Errorf("%w: %v", ErrDuplicateID, id)
	}
	if s.IsRetired(id) {
		return id, fmt.Errorf("%w: %v", ErrRetiredID, id)
	}
	return id, nil
}

// Prepend adds a record to the front of the collection.
func (s *Store[K, T]) Prepend(rec T) error {
	id, err := s.checkNew(rec)
	if err != nil {
		return err
	}
	s.records[id] = rec
	s.order = append([]K{id}, s.order...)
	return nil
}

// Append adds a record to the end of the collection.
func (s *Store[K, T]) Append(rec T) error {
	id, err := s.checkNew(rec)
	if err != nil {
		return err
	}
	s.records[id] = rec
	s.order = append(s.order, id)
	return nil
}

// Update replaces the record matching id with the result of fn.
// The record keeps its position; fn must not change the id.
func (s *Store[K, T]) Update(id K, fn func(T) T) error {
	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	updated := fn(rec)
	if s.key(updated) != id {
		return fmt.Errorf("update of %v changed its id", id)
	}
	s.records[id] = updated
	return nil
}

// Remove removes a record from the store and retires its id.
func (s *Store[K, T]) Remove(id K) error {
	if !s.Exists(id) {
		return fmt.Errorf("%w: %v", ErrNotFound, id)
	}
	s.RemoveAll([]K{id})
	return nil
}

// RemoveAll removes every record whose id is in ids and returns how many were removed.
// Unknown ids are ignored.
func (s *Store[K, T]) RemoveAll(ids []K) int {
	drop := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if s.Exists(id) {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return 0
	}

	newOrder := make([]K, 0, len(s.order)-len(drop))
	for _, id := range s.order {
		if _, ok := drop[id]; ok {
			delete(s.records, id)
			s.retired[id] = struct{}{}
			continue
		}
		newOrder = append(newOrder, id)
	}
	s.order = newOrder
	return len(drop)
}

// All returns all records in display order.
func (s *Store[K, T]) All() []T {
	recs := make([]T, 0, len(s.order))
	for _, id := range s.order {
		recs = append(recs, s.records[id])
	}
	return recs
}

// IDs returns all record ids in display order.
func (s *Store[K, T]) IDs() []K {
	return append([]K{}, s.order...)
}
