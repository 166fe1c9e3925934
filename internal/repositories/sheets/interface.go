package sheets

//go:generate mockgen -destination=mock/mock.go -package=mocksheets -source=interface.go

import (
	"context"

	"github.com/yui-dot/apollyon-sheet/internal/sheet"
)

// Repository defines the interface for sheet persistence
type Repository interface {
	// Create stores a new sheet
	Create(ctx context.Context, s *sheet.Sheet) error

	// Get retrieves a sheet by ID
	Get(ctx context.Context, id string) (*sheet.Sheet, error)

	// List retrieves all stored sheets
	List(ctx context.Context) ([]*sheet.Sheet, error)

	// Update replaces an existing sheet
	Update(ctx context.Context, s *sheet.Sheet) error

	// Delete removes a sheet
	Delete(ctx context.Context, id string) error
}
