package handler

import (
	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

type createProductRequest struct {
	Name         string   `json:"name"         validate:"required"`
	Type         string   `json:"type"         validate:"required,oneof=Food Electronics Clothes 'Beauty Products' Others"`
	Stock        *int     `json:"stock"        validate:"required,min=0"`
	MRP          *float64 `json:"mrp"          validate:"required,gte=0"`
	SellingPrice *float64 `json:"sellingPrice" validate:"required,gte=0"`
	Brand        string   `json:"brand"        validate:"required"`
	Eligibility  string   `json:"eligibility"  validate:"omitempty,oneof=Yes No"`
	Images       []string `json:"images"       validate:"omitempty,dive,required"`
	Published    *bool    `json:"published"`
}

func (r *createProductRequest) toInput(ownerID string) ports.CreateProductInput {
	return ports.CreateProductInput{
		OwnerID:      ownerID,
		Name:         r.Name,
		Type:         r.Type,
		Stock:        *r.Stock,
		MRP:          *r.MRP,
		SellingPrice: *r.SellingPrice,
		Brand:        r.Brand,
		Eligibility:  r.Eligibility,
		Images:       r.Images,
		Published:    r.Published,
	}
}

// updateProductRequest is a partial update; absent fields stay unchanged and
// there is no way to name a different owner.
type updateProductRequest struct {
	Name         *string  `json:"name"`
	Type         *string  `json:"type"         validate:"omitempty,oneof=Food Electronics Clothes 'Beauty Products' Others"`
	Stock        *int     `json:"stock"        validate:"omitempty,min=0"`
	MRP          *float64 `json:"mrp"          validate:"omitempty,gte=0"`
	SellingPrice *float64 `json:"sellingPrice" validate:"omitempty,gte=0"`
	Brand        *string  `json:"brand"`
	Eligibility  *string  `json:"eligibility"  validate:"omitempty,oneof=Yes No"`
	Images       []string `json:"images"       validate:"omitempty,dive,required"`
	Published    *bool    `json:"published"`
}

func (r *updateProductRequest) toPatch() ports.ProductPatch {
	patch := ports.ProductPatch{
		Name:         r.Name,
		Stock:        r.Stock,
		MRP:          r.MRP,
		SellingPrice: r.SellingPrice,
		Brand:        r.Brand,
		Eligibility:  r.Eligibility,
		Images:       r.Images,
		Published:    r.Published,
	}
	if r.Type != nil {
		t := domain.ProductType(*r.Type)
		patch.Type = &t
	}
	return patch
}
