package domain

import "time"

// ProductType is the catalog category of a product.
type ProductType string

const (
	ProductFood        ProductType = "Food"
	ProductElectronics ProductType = "Electronics"
	ProductClothes     ProductType = "Clothes"
	ProductBeauty      ProductType = "Beauty Products"
	ProductOthers      ProductType = "Others"
)

// Valid reports whether t is one of the known categories.
func (t ProductType) Valid() bool {
	switch t {
	case ProductFood, ProductElectronics, ProductClothes, ProductBeauty, ProductOthers:
		return true
	}
	return false
}

const (
	EligibilityYes = "Yes"
	EligibilityNo  = "No"
)

// Product is a catalog item owned by exactly one user.
type Product struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         ProductType `json:"type"`
	Stock        int         `json:"stock"`
	MRP          float64     `json:"mrp"`
	SellingPrice float64     `json:"sellingPrice"`
	Brand        string      `json:"brand"`
	Eligibility  string      `json:"eligibility"`
	Images       []string    `json:"images"`
	Published    bool        `json:"published"`
	OwnerID      string      `json:"ownerId"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Validate checks the field constraints of a product about to be persisted.
func (p *Product) Validate() error {
	switch {
	case p.Name == "", p.Brand == "":
		return ErrInvalidProduct
	case !p.Type.Valid():
		return ErrInvalidProduct
	case p.Stock < 0, p.MRP < 0, p.SellingPrice < 0:
		return ErrInvalidProduct
	case p.Eligibility != EligibilityYes && p.Eligibility != EligibilityNo:
		return ErrInvalidProduct
	case p.OwnerID == "":
		return ErrUnauthorized
	}
	return nil
}
