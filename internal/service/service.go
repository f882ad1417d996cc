package service

import (
	"context"
	"errors"
	"time"

	"paraplus-backend/internal/domain"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrProductUnavailable   = errors.New("product is not available")
	ErrNotRentable          = errors.New("product is not available for rental")
	ErrInvalidTransition    = errors.New("illegal status transition")
	ErrPaymentTerminal      = errors.New("payment is in a terminal state")
	ErrMissingReason        = errors.New("failure reason is required")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrUnauthorized         = errors.New("unauthorized")
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.UserRole
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LoginWithGoogle(ctx context.Context, idToken string, role domain.UserRole) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	GetProfile(ctx context.Context, userID domain.ID) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

type CatalogService interface {
	CreateProduct(ctx context.Context, sellerID domain.ID, p *domain.Product) error
	UpdateProduct(ctx context.Context, sellerID domain.ID, p *domain.Product) error
	DeleteProduct(ctx context.Context, sellerID, productID domain.ID) error
	GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	SearchProducts(ctx context.Context, filter domain.ProductFilter, page, pageSize int32) ([]domain.Product, int32, error)
	ListSellerProducts(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Product, int32, error)
	AttachProductImage(ctx context.Context, sellerID, productID domain.ID, imageURL string) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, cat *domain.Category) error
}

type CartService interface {
	GetCart(ctx context.Context, customerID domain.ID) (*domain.Cart, error)
	AddItem(ctx context.Context, customerID, productID domain.ID, quantity int32) (*domain.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID domain.ID) (*domain.Cart, error)
	Clear(ctx context.Context, customerID domain.ID) error
	ItemCount(ctx context.Context, customerID domain.ID) (int32, error)
}

type OrderService interface {
	Checkout(ctx context.Context, customerID domain.ID, address domain.DeliveryAddress, shippingFeeCents int64, note string) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID domain.ID) (*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error)
	ListSellerOrders(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error)
	UpdateStatus(ctx context.Context, sellerID, orderID domain.ID, next domain.OrderStatus) (*domain.Order, error)
	Cancel(ctx context.Context, customerID, orderID domain.ID) (*domain.Order, error)
}

type RentalService interface {
	Reserve(ctx context.Context, customerID, productID domain.ID, dateStart, dateEnd string, depositCents int64, address *domain.DeliveryAddress, note string) (*domain.Rental, error)
	GetRental(ctx context.Context, userID, rentalID domain.ID) (*domain.Rental, error)
	ListCustomerRentals(ctx context.Context, customerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	ListSellerRentals(ctx context.Context, sellerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error)
	Start(ctx context.Context, sellerID, rentalID domain.ID) (*domain.Rental, error)
	Return(ctx context.Context, sellerID, rentalID domain.ID) (*domain.Rental, error)
	Cancel(ctx context.Context, userID, rentalID domain.ID) (*domain.Rental, error)
	ReturnDeposit(ctx context.Context, sellerID, rentalID domain.ID) (*domain.Rental, error)
}

// PaymentService is the reconciler: it records gateway-confirmed
// outcomes against exactly one order or rental. It never calls out to
// a payment gateway itself. Every operation checks that the caller owns
// the payment.
type PaymentService interface {
	RecordOrderAttempt(ctx context.Context, customerID, orderID domain.ID, method domain.PaymentMethod) (*domain.Payment, error)
	RecordRentalAttempt(ctx context.Context, customerID, rentalID domain.ID, method domain.PaymentMethod) (*domain.Payment, error)
	MarkSucceeded(ctx context.Context, customerID, paymentID domain.ID, transactionRef string) (*domain.Payment, error)
	MarkFailed(ctx context.Context, customerID, paymentID domain.ID, reason string) (*domain.Payment, error)
	Refund(ctx context.Context, customerID, paymentID domain.ID) (*domain.Payment, error)
	GetPayment(ctx context.Context, customerID, paymentID domain.ID) (*domain.Payment, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID domain.ID, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID domain.ID) error
}

type EmailService interface {
	SendOrderConfirmation(ctx context.Context, email, name, orderNumber string, finalAmountCents int64) error
	SendOrderStatusUpdate(ctx context.Context, email, name, orderNumber string, status domain.OrderStatus) error
	SendRentalReservationNotification(ctx context.Context, sellerEmail, customerName, productName string, dateStart, dateEnd time.Time) error
	SendRentalReturnNotification(ctx context.Context, customerEmail, productName string, depositReturned bool) error
	SendRentalOverdueReminder(ctx context.Context, sellerEmail, productName string, dateEnd time.Time) error
	SendPaymentReceipt(ctx context.Context, email, name string, amountCents int64, currency, transactionRef string) error
}
