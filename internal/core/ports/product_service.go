package ports

import (
	"context"

	"github.com/productr/catalog-system/internal/core/domain"
)

// CreateProductInput is the DTO passed from the transport layer to ProductService.
type CreateProductInput struct {
	OwnerID      string
	Name         string
	Type         string
	Stock        int
	MRP          float64
	SellingPrice float64
	Brand        string
	Eligibility  string
	Images       []string
	Published    *bool
}

// ProductService defines the owner-scoped catalog use cases.
type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	List(ctx context.Context, ownerID, search string) ([]*domain.Product, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Product, error)
	Update(ctx context.Context, ownerID, id string, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, id string) error
	TogglePublish(ctx context.Context, ownerID, id string) (*domain.Product, error)
}
