package service

import (
	"context"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) GetCart(ctx context.Context, customerID domain.ID) (*domain.Cart, error) {
	return s.cartRepo.GetOrCreate(ctx, customerID)
}

// AddItem snapshots the product (name, unit price, primary image) at
// add time and merges it into the customer's cart. When the product is
// already in the cart only the quantity grows: the stored unit price is
// the one captured when the line was first added.
func (s *cartService) AddItem(ctx context.Context, customerID, productID domain.ID, quantity int32) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Available() {
		return nil, ErrProductUnavailable
	}

	item := domain.CartItem{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Quantity:       quantity,
		UnitPriceCents: product.PriceCents,
		ImageURL:       product.PrimaryImage(),
	}
	return s.cartRepo.UpsertItem(ctx, customerID, item)
}

func (s *cartService) RemoveItem(ctx context.Context, customerID, productID domain.ID) (*domain.Cart, error) {
	return s.cartRepo.RemoveItem(ctx, customerID, productID)
}

func (s *cartService) Clear(ctx context.Context, customerID domain.ID) error {
	return s.cartRepo.Clear(ctx, customerID)
}

func (s *cartService) ItemCount(ctx context.Context, customerID domain.ID) (int32, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if err == repository.ErrNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}
