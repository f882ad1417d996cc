package domain

import "time"

type ProductType string

const (
	ProductTypeParapharmacy ProductType = "parapharmacy"
	ProductTypePharmacy     ProductType = "pharmacy"
	ProductTypeMedical      ProductType = "medical"
)

type Category struct {
	ID          ID        `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	ParentID    *ID       `json:"parent_id,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedOn   time.Time `json:"created_on"`
}

type Product struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description"`
	Type        ProductType `json:"type"`
	PriceCents  int64       `json:"price_cents"`
	Stock       int32       `json:"stock"`
	CategoryID  ID          `json:"category_id"`
	SellerID    ID          `json:"seller_id"`
	Images      []string    `json:"images"`

	// Rental fields, only meaningful when RentalAvailable is set.
	RentalAvailable        bool  `json:"rental_available"`
	RentalPricePerDayCents int64 `json:"rental_price_per_day_cents,omitempty"`

	IsActive   bool      `json:"is_active"`
	IsFeatured bool      `json:"is_featured"`
	CreatedOn  time.Time `json:"created_on"`
	UpdatedOn  time.Time `json:"updated_on"`
}

// Available reports whether the product can currently be purchased.
func (p *Product) Available() bool {
	return p.IsActive && p.Stock > 0
}

// PrimaryImage returns the first image URL, or empty when none exist.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	Query           string
	Type            ProductType
	CategorySlug    string
	SellerID        ID
	MaxPriceCents   int64
	RentalAvailable bool
	FeaturedOnly    bool
}
