package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

var ErrInvalidProduct = errors.New("invalid product")

var slugNonWord = regexp.MustCompile(`[^a-z0-9]+`)

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, sellerID domain.ID, p *domain.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.ID = domain.NewID()
	p.SellerID = sellerID
	p.IsActive = true
	p.CreatedOn = now
	p.UpdatedOn = now
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return s.productRepo.Create(ctx, p)
}

func (s *catalogService) UpdateProduct(ctx context.Context, sellerID domain.ID, p *domain.Product) error {
	current, err := s.productRepo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if current.SellerID != sellerID {
		return ErrUnauthorized
	}
	if err := validateProduct(p); err != nil {
		return err
	}

	p.SellerID = current.SellerID
	p.CreatedOn = current.CreatedOn
	p.UpdatedOn = time.Now().UTC()
	return s.productRepo.Update(ctx, p)
}

// DeleteProduct deactivates a listing. Orders and rentals that already
// snapshot the product keep their copies.
func (s *catalogService) DeleteProduct(ctx context.Context, sellerID, productID domain.ID) error {
	current, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if current.SellerID != sellerID {
		return ErrUnauthorized
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *catalogService) GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *catalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.productRepo.GetBySlug(ctx, slug)
}

func (s *catalogService) SearchProducts(ctx context.Context, filter domain.ProductFilter, page, pageSize int32) ([]domain.Product, int32, error) {
	return s.productRepo.Search(ctx, filter, page, pageSize)
}

func (s *catalogService) ListSellerProducts(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Product, int32, error) {
	return s.productRepo.ListBySeller(ctx, sellerID, page, pageSize)
}

func (s *catalogService) AttachProductImage(ctx context.Context, sellerID, productID domain.ID, imageURL string) error {
	current, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if current.SellerID != sellerID {
		return ErrUnauthorized
	}
	return s.productRepo.AddImage(ctx, productID, imageURL)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) CreateCategory(ctx context.Context, cat *domain.Category) error {
	if cat.Name == "" {
		return fmt.Errorf("%w: category name is required", ErrInvalidProduct)
	}
	cat.ID = domain.NewID()
	if cat.Slug == "" {
		cat.Slug = Slugify(cat.Name)
	}
	cat.IsActive = true
	cat.CreatedOn = time.Now().UTC()
	return s.categoryRepo.Create(ctx, cat)
}

func validateProduct(p *domain.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidProduct)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
	}
	if p.RentalAvailable && p.RentalPricePerDayCents <= 0 {
		return fmt.Errorf("%w: rental price per day is required for rentable products", ErrInvalidProduct)
	}
	switch p.Type {
	case domain.ProductTypeParapharmacy, domain.ProductTypePharmacy, domain.ProductTypeMedical:
	default:
		return fmt.Errorf("%w: unknown product type %q", ErrInvalidProduct, p.Type)
	}
	return nil
}

// Slugify lowercases a name and collapses every non-alphanumeric run
// into a single dash.
func Slugify(name string) string {
	slug := slugNonWord.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
