package catalog

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"
)

// Store is the single owner of the product collection. Writers are
// serialized; readers share the lock and only ever see copies.
type Store struct {
	mu       sync.RWMutex
	products []Product
	nextID   int64
}

// NewStore seeds the store. nextID starts after the largest numeric seed id.
// Seeds must be valid and carry unique ids; loaders check both.
func NewStore(seed []Product) *Store {
	s := &Store{
		products: make([]Product, 0, len(seed)),
		nextID:   1,
	}

	seen := make(map[string]struct{}, len(seed))
	for _, p := range seed {
		if _, dup := seen[p.ID]; dup {
			panic(fmt.Sprintf("catalog: duplicate seed id %q", p.ID))
		}
		seen[p.ID] = struct{}{}

		if n, err := strconv.ParseInt(p.ID, 10, 64); err == nil && n >= s.nextID {
			s.nextID = n + 1
		}
		s.products = append(s.products, p.clone())
	}
	return s
}

// Add assigns the next id and appends. Input is expected to be validated
// already; an invariant violation here is a programming error.
func (s *Store) Add(data NewProduct) Product {
	p := data.product("")
	if err := p.validate(); err != nil {
		panic("catalog: Add called with invalid product: " + err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = strconv.FormatInt(s.nextID, 10)
	s.nextID++
	s.products = append(s.products, p)

	return p.clone()
}

// List returns a point-in-time copy of the catalog in insertion order.
// Anything derived from one List result sees a single consistent state.
func (s *Store) List() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.products)
}

// View runs fn under one read lock so multi-step reads see a single state.
// fn must not modify the slice or keep it after returning; copy out what
// has to outlive the call.
func (s *Store) View(fn func(products []Product)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.products)
}

func (s *Store) Get(id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}
	return s.products[i].clone(), nil
}

// Update merges patch into the product as one step. On error nothing changes.
func (s *Store) Update(id string, patch Patch) (Product, error) {
	if err := patch.Validate(); err != nil {
		return Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Product{}, ErrNotFound
	}

	updated := s.products[i].clone()
	patch.apply(&updated)
	s.products[i] = updated

	return updated.clone(), nil
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.products = slices.Delete(s.products, i, i+1)
	return true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Ping reports whether a reader can take the lock before ctx ends.
func (s *Store) Ping(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mu.RLock()
		s.mu.RUnlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// indexOf must be called with mu held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.products, func(p Product) bool { return p.ID == id })
}
