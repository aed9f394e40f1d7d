package mindmap

import (
	"sync"

	"github.com/dtroode/aitoolmap-server/internal/model"
)

// Store is the page-scoped category/tool list.
type Store struct {
	mu         sync.RWMutex
	categories []model.Category
}

// NewStore creates a Store holding a copy of initial.
func NewStore(initial []model.Category) *Store {
	return &Store{categories: Clone(initial)}
}

// Snapshot returns a deep copy of the current list.
func (s *Store) Snapshot() []model.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.categories)
}

// Len returns the number of categories.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.categories)
}

// Find returns a copy of the named category.
func (s *Store) Find(name string) (model.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := IndexOf(s.categories, name)
	if idx == -1 {
		return model.Category{}, false
	}
	return Clone(s.categories[idx : idx+1])[0], true
}

// Replace swaps the whole list.
func (s *Store) Replace(categories []model.Category) {
	next := Clone(categories)
	s.mu.Lock()
	s.categories = next
	s.mu.Unlock()
}

// AddCategory appends an empty category.
func (s *Store) AddCategory(name string) error {
	return s.update(func(c []model.Category) ([]model.Category, error) { return AddCategory(c, name) })
}

// AppendTool appends tool to the named category.
func (s *Store) AppendTool(category string, tool model.Tool) error {
	return s.update(func(c []model.Category) ([]model.Category, error) { return AppendTool(c, category, tool) })
}

// RemoveTool removes a tool and drops the category once it is empty.
func (s *Store) RemoveTool(category, remoteID string) error {
	return s.update(func(c []model.Category) ([]model.Category, error) { return RemoveTool(c, category, remoteID) })
}

// RemoveCategory drops the named category.
func (s *Store) RemoveCategory(category string) error {
	return s.update(func(c []model.Category) ([]model.Category, error) { return RemoveCategory(c, category) })
}

func (s *Store) update(reduce func([]model.Category) ([]model.Category, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := reduce(s.categories)
	if err != nil {
		return err
	}
	s.categories = next
	return nil
}
