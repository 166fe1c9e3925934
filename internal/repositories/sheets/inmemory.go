package sheets

import (
	"context"
	"sort"
	"sync"

	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
)

// InMemoryRepository is an in-memory implementation of the sheet repository
type InMemoryRepository struct {
	mu     sync.RWMutex
	sheets map[string]*sheet.Sheet
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		sheets: make(map[string]*sheet.Sheet),
	}
}

// Create stores a new sheet
func (r *InMemoryRepository) Create(ctx context.Context, s *sheet.Sheet) error {
	if s == nil {
		return apperr.InvalidArgument("sheet cannot be nil")
	}
	if s.ID == "" {
		return apperr.InvalidArgument("sheet ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sheets[s.ID]; exists {
		return apperr.AlreadyExistsf("sheet with ID '%s' already exists", s.ID).
			WithMeta("sheet_id", s.ID)
	}

	// Store a copy to avoid external modifications
	r.sheets[s.ID] = s.Clone()

	return nil
}

// Get retrieves a sheet by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*sheet.Sheet, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("sheet ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.sheets[id]
	if !exists {
		return nil, apperr.NotFoundf("sheet with ID '%s' not found", id).
			WithMeta("sheet_id", id)
	}

	// Return a copy to avoid external modifications
	return s.Clone(), nil
}

// List retrieves all stored sheets, ordered by ID
func (r *InMemoryRepository) List(ctx context.Context) ([]*sheet.Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*sheet.Sheet, 0, len(r.sheets))
	for _, s := range r.sheets {
		result = append(result, s.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// Update replaces an existing sheet
func (r *InMemoryRepository) Update(ctx context.Context, s *sheet.Sheet) error {
	if s == nil {
		return apperr.InvalidArgument("sheet cannot be nil")
	}
	if s.ID == "" {
		return apperr.InvalidArgument("sheet ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sheets[s.ID]; !exists {
		return apperr.NotFoundf("sheet with ID '%s' not found", s.ID).
			WithMeta("sheet_id", s.ID)
	}

	r.sheets[s.ID] = s.Clone()

	return nil
}

// Delete removes a sheet
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.InvalidArgument("sheet ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sheets[id]; !exists {
		return apperr.NotFoundf("sheet with ID '%s' not found", id).
			WithMeta("sheet_id", id)
	}

	delete(r.sheets, id)

	return nil
}
