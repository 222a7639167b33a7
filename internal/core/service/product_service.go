package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

// ProductService implements the owner-scoped catalog use cases.
type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create binds a new product to its owner. Eligibility defaults to "Yes" and
// published to true.
func (s *ProductService) Create(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	if in.OwnerID == "" {
		return nil, domain.ErrUnauthorized
	}

	now := s.now()
	p := &domain.Product{
		Name:         strings.TrimSpace(in.Name),
		Type:         domain.ProductType(in.Type),
		Stock:        in.Stock,
		MRP:          in.MRP,
		SellingPrice: in.SellingPrice,
		Brand:        strings.TrimSpace(in.Brand),
		Eligibility:  in.Eligibility,
		Images:       in.Images,
		Published:    true,
		OwnerID:      in.OwnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if p.Eligibility == "" {
		p.Eligibility = domain.EligibilityYes
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if in.Published != nil {
		p.Published = *in.Published
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", in.OwnerID).Msg("failed to create product")
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.Info().Str("product_id", created.ID).Str("owner_id", in.OwnerID).Msg("product created")
	return created, nil
}

// List returns the owner's products, newest first.
func (s *ProductService) List(ctx context.Context, ownerID, search string) ([]*domain.Product, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.List(ctx, ownerID, strings.TrimSpace(search))
}

// Get returns one of the owner's products.
func (s *ProductService) Get(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	p, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(p, ownerID); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies a partial update to one of the owner's products.
func (s *ProductService) Update(ctx context.Context, ownerID, id string, patch ports.ProductPatch) (*domain.Product, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := validatePatch(&patch); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, ownerID, id, patch)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(p, ownerID); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete permanently removes one of the owner's products.
func (s *ProductService) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info().Str("product_id", id).Str("owner_id", ownerID).Msg("product deleted")
	return nil
}

// TogglePublish flips the published flag of one of the owner's products.
func (s *ProductService) TogglePublish(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	p, err := s.repo.TogglePublished(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(p, ownerID); err != nil {
		return nil, err
	}
	return p, nil
}

// ensureOwner rejects a record that slipped past the owner-scoped query.
func ensureOwner(p *domain.Product, ownerID string) error {
	if p == nil || p.OwnerID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}

func validatePatch(p *ports.ProductPatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return domain.ErrInvalidProduct
		}
		p.Name = &name
	}
	if p.Brand != nil {
		brand := strings.TrimSpace(*p.Brand)
		if brand == "" {
			return domain.ErrInvalidProduct
		}
		p.Brand = &brand
	}
	switch {
	case p.Type != nil && !p.Type.Valid():
		return domain.ErrInvalidProduct
	case p.Stock != nil && *p.Stock < 0:
		return domain.ErrInvalidProduct
	case p.MRP != nil && *p.MRP < 0:
		return domain.ErrInvalidProduct
	case p.SellingPrice != nil && *p.SellingPrice < 0:
		return domain.ErrInvalidProduct
	case p.Eligibility != nil && *p.Eligibility != domain.EligibilityYes && *p.Eligibility != domain.EligibilityNo:
		return domain.ErrInvalidProduct
	}
	return nil
}
