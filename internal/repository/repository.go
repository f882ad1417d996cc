package repository

import (
	"context"
	"errors"
	"time"

	"paraplus-backend/internal/domain"
)

// ErrNotFound is returned when a requested entity does not exist. It is
// never silently treated as success by callers.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicate is returned on a uniqueness conflict (duplicate email,
// order number or transaction ref).
var ErrDuplicate = errors.New("duplicate key")

// ErrInsufficientStock is returned when an order would drive a
// product's stock below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.ID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id domain.ID, at time.Time) error
}

type CategoryRepository interface {
	Create(ctx context.Context, cat *domain.Category) error
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id domain.ID) error
	Search(ctx context.Context, filter domain.ProductFilter, page, pageSize int32) ([]domain.Product, int32, error)
	ListBySeller(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Product, int32, error)
	AddImage(ctx context.Context, id domain.ID, imageURL string) error
}

// CartRepository persists the single cart of each customer. Item-level
// mutations are atomic at the storage layer: two concurrent adds of the
// same product must both land as quantity increments, never as a lost
// update. Every mutation recomputes the cached cart total in the same
// transaction.
type CartRepository interface {
	GetOrCreate(ctx context.Context, customerID domain.ID) (*domain.Cart, error)
	GetByCustomer(ctx context.Context, customerID domain.ID) (*domain.Cart, error)
	UpsertItem(ctx context.Context, customerID domain.ID, item domain.CartItem) (*domain.Cart, error)
	RemoveItem(ctx context.Context, customerID domain.ID, productID domain.ID) (*domain.Cart, error)
	Clear(ctx context.Context, customerID domain.ID) error
}

type OrderRepository interface {
	// Create inserts the order and its embedded lines, and clears the
	// originating cart, in one transaction. Returns ErrDuplicate when
	// the order number collides so the caller can regenerate and retry.
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error)
	Update(ctx context.Context, order *domain.Order) error
	ListByCustomer(ctx context.Context, customerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error)
	ListBySeller(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Rental, error)
	Update(ctx context.Context, rental *domain.Rental) error
	ListByCustomer(ctx context.Context, customerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListBySeller(ctx context.Context, sellerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListDueForActivation(ctx context.Context, now time.Time) ([]domain.Rental, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id domain.ID) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	ListByCustomer(ctx context.Context, customerID domain.ID, page, pageSize int32) ([]domain.Payment, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID domain.ID, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID domain.ID) error
}
