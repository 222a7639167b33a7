package ports

import (
	"context"

	"github.com/productr/catalog-system/internal/core/domain"
)

// ProductPatch holds the fields of a partial product update; nil means unchanged.
type ProductPatch struct {
	Name         *string
	Type         *domain.ProductType
	Stock        *int
	MRP          *float64
	SellingPrice *float64
	Brand        *string
	Eligibility  *string
	Images       []string
	Published    *bool
}

// ProductRepository persists products. Every method is scoped by ownerID and a
// product owned by someone else is reported as domain.ErrProductNotFound.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// List returns the owner's products newest first, optionally filtered by a
	// case-insensitive substring of the name.
	List(ctx context.Context, ownerID, search string) ([]*domain.Product, error)
	FindByID(ctx context.Context, ownerID, id string) (*domain.Product, error)
	Update(ctx context.Context, ownerID, id string, patch ProductPatch) (*domain.Product, error)
	// TogglePublished flips the published flag in a single update.
	TogglePublished(ctx context.Context, ownerID, id string) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, id string) error
}
