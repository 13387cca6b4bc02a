package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"leltar/pkg/models"
)

var ErrNotInitialized = errors.New("product catalog used before Initialize")

// State is the in-process view of the product catalog. It is rebuilt from the
// store on Initialize/Refresh and is never treated as authoritative.
type State struct {
	repo Repository

	mu          sync.RWMutex
	initialized bool
	products    map[int64]models.Product
	byName      map[string]int64
}

func NewState(repo Repository) *State {
	return &State{
		repo:     repo,
		products: map[int64]models.Product{},
		byName:   map[string]int64{},
	}
}

// Initialize loads the catalog once. Later calls are no-ops; use Refresh to
// pick up products created elsewhere.
func (s *State) Initialize(ctx context.Context) error {
	s.mu.RLock()
	done := s.initialized
	s.mu.RUnlock()
	if done {
		return nil
	}
	return s.Refresh(ctx)
}

func (s *State) Refresh(ctx context.Context) error {
	products, err := s.repo.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("load product catalog: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = make(map[int64]models.Product, len(products))
	s.byName = make(map[string]int64, len(products))
	s.addLocked(products)
	s.initialized = true

	return nil
}

func (s *State) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Add merges freshly created products into the view.
func (s *State) Add(products []models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(products)
}

// NameIndex returns a copy of the normalized name to id map.
func (s *State) NameIndex() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	out := make(map[string]int64, len(s.byName))
	for name, id := range s.byName {
		out[name] = id
	}
	return out, nil
}

// Products returns the catalog ordered by id.
func (s *State) Products() ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.initialized {
		return nil, ErrNotInitialized
	}

	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *State) addLocked(products []models.Product) {
	for _, p := range products {
		s.products[p.ID] = p
		key := NormalizeName(p.Name)
		// The lowest id wins if the store ever holds two spellings of one name.
		if existing, ok := s.byName[key]; !ok || p.ID < existing {
			s.byName[key] = p.ID
		}
	}
}
