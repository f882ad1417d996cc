package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/logger"
	"paraplus-backend/internal/repository"
)

// orderNumberAttempts bounds the regenerate-and-retry loop on an
// order-number collision.
const orderNumberAttempts = 5

type orderService struct {
	orderRepo repository.OrderRepository
	cartRepo  repository.CartRepository
	userRepo  repository.UserRepository
	emailSvc  EmailService
	noteRepo  repository.NotificationRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		userRepo:  userRepo,
		emailSvc:  emailSvc,
		noteRepo:  noteRepo,
	}
}

// Checkout converts the customer's cart into an immutable order. Every
// cart line is copied by value, so later catalog changes never alter
// the placed order. The originating cart is cleared in the same storage
// transaction that inserts the order.
func (s *orderService) Checkout(ctx context.Context, customerID domain.ID, address domain.DeliveryAddress, shippingFeeCents int64, note string) (*domain.Order, error) {
	cart, err := s.cartRepo.GetByCustomer(ctx, customerID)
	if err == repository.ErrNotFound {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, domain.OrderItem{
			ProductID:      line.ProductID,
			ProductName:    line.ProductName,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.LineTotalCents(),
		})
	}

	order := &domain.Order{
		ID:              domain.NewID(),
		CustomerID:      customerID,
		Items:           items,
		Status:          domain.OrderStatusPending,
		DeliveryAddress: address,
		CustomerNote:    note,
		CreatedOn:       time.Now().UTC(),
	}
	order.SetAmounts(cart.RecomputeTotal(), shippingFeeCents)

	// order numbers are unique by a storage constraint; generation is
	// not assumed collision-free
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order.OrderNumber = generateOrderNumber(order.CreatedOn)
		err = s.orderRepo.Create(ctx, order)
		if err == repository.ErrDuplicate {
			logger.Warn("Order number collision, regenerating", "order_number", order.OrderNumber, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if err == repository.ErrDuplicate {
		return nil, fmt.Errorf("could not allocate a unique order number: %w", err)
	}

	if customer, err := s.userRepo.GetByID(ctx, customerID); err == nil {
		_ = s.emailSvc.SendOrderConfirmation(ctx, customer.Email, customer.FullName(), order.OrderNumber, order.FinalAmountCents)
		notif := &domain.Notification{
			ID:      domain.NewID(),
			UserID:  customerID,
			Title:   "Order placed",
			Message: fmt.Sprintf("Your order %s has been placed", order.OrderNumber),
			Attributes: map[string]string{
				"type":     "ORDER_PLACED",
				"order_id": order.ID.String(),
			},
			CreatedOn: time.Now().UTC(),
		}
		_ = s.noteRepo.Create(ctx, notif)
	}

	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID domain.ID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != userID && !s.sellsInto(ctx, userID, order) {
		return nil, ErrUnauthorized
	}
	return order, nil
}

func (s *orderService) ListCustomerOrders(ctx context.Context, customerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID, page, pageSize)
}

func (s *orderService) ListSellerOrders(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error) {
	return s.orderRepo.ListBySeller(ctx, sellerID, page, pageSize)
}

// UpdateStatus advances an order along the fulfillment chain. Moves out
// of a terminal state, or any skip along the chain, are rejected with
// ErrInvalidTransition rather than silently ignored.
func (s *orderService) UpdateStatus(ctx context.Context, sellerID, orderID domain.ID, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.sellsInto(ctx, sellerID, order) {
		return nil, ErrUnauthorized
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	order.Status = next
	if next == domain.OrderStatusDelivered {
		now := time.Now().UTC()
		order.DeliveredOn = &now
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	if customer, err := s.userRepo.GetByID(ctx, order.CustomerID); err == nil {
		_ = s.emailSvc.SendOrderStatusUpdate(ctx, customer.Email, customer.FullName(), order.OrderNumber, next)
		notif := &domain.Notification{
			ID:      domain.NewID(),
			UserID:  order.CustomerID,
			Title:   "Order update",
			Message: fmt.Sprintf("Order %s is now %s", order.OrderNumber, next),
			Attributes: map[string]string{
				"type":     "ORDER_STATUS",
				"order_id": order.ID.String(),
				"status":   string(next),
			},
			CreatedOn: time.Now().UTC(),
		}
		_ = s.noteRepo.Create(ctx, notif)
	}

	return order, nil
}

func (s *orderService) Cancel(ctx context.Context, customerID, orderID domain.ID) (*domain.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrUnauthorized
	}
	if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, domain.OrderStatusCancelled)
	}

	order.Status = domain.OrderStatusCancelled
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// sellsInto reports whether the user sells at least one product on the
// order. Sellers only see orders they have to fulfill.
func (s *orderService) sellsInto(ctx context.Context, userID domain.ID, order *domain.Order) bool {
	orders, _, err := s.orderRepo.ListBySeller(ctx, userID, 1, 1000)
	if err != nil {
		return false
	}
	for _, o := range orders {
		if o.ID == order.ID {
			return true
		}
	}
	return false
}

func generateOrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), suffix)
}
