package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
	"paraplus-backend/internal/service"
)

func newOrderFixture() (*MockOrderRepo, *MockCartRepo, *MockUserRepo, *MockEmailService, *MockNotificationRepo, service.OrderService) {
	orderRepo := new(MockOrderRepo)
	cartRepo := new(MockCartRepo)
	userRepo := new(MockUserRepo)
	emailSvc := new(MockEmailService)
	noteRepo := new(MockNotificationRepo)
	svc := service.NewOrderService(orderRepo, cartRepo, userRepo, emailSvc, noteRepo)
	return orderRepo, cartRepo, userRepo, emailSvc, noteRepo, svc
}

func TestOrderService_Checkout(t *testing.T) {
	ctx := context.Background()
	customerID := domain.ID("cust-1")
	address := domain.DeliveryAddress{Street: "12 rue de la Sante", City: "Tunis", PostalCode: "1000", Phone: "+216 20 000 000"}

	cart := &domain.Cart{
		ID:         "cart-1",
		CustomerID: customerID,
		Items: []domain.CartItem{
			{ProductID: "p1", ProductName: "Tensiometre", Quantity: 2, UnitPriceCents: 8000},
			{ProductID: "p2", ProductName: "Gel hydroalcoolique", Quantity: 1, UnitPriceCents: 1200},
		},
	}
	cart.RecomputeTotal()

	customer := &domain.User{ID: customerID, Email: "amina@example.com", FirstName: "Amina", LastName: "Ben Salah"}

	t.Run("CopiesLinesAndComputesFinalAmount", func(t *testing.T) {
		orderRepo, cartRepo, userRepo, emailSvc, noteRepo, svc := newOrderFixture()

		cartRepo.On("GetByCustomer", ctx, customerID).Return(cart, nil).Once()
		orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		userRepo.On("GetByID", ctx, customerID).Return(customer, nil).Once()
		emailSvc.On("SendOrderConfirmation", ctx, customer.Email, "Amina Ben Salah", mock.AnythingOfType("string"), int64(17900)).Return(nil).Once()
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()

		order, err := svc.Checkout(ctx, customerID, address, 700, "leave at the door")
		require.NoError(t, err)

		assert.Equal(t, domain.OrderStatusPending, order.Status)
		assert.Len(t, order.Items, 2)
		assert.Equal(t, int64(16000), order.Items[0].LineTotalCents)
		assert.Equal(t, int64(17200), order.TotalAmountCents)
		assert.Equal(t, int64(700), order.ShippingFeeCents)
		assert.Equal(t, order.TotalAmountCents+order.ShippingFeeCents, order.FinalAmountCents)
		assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))

		orderRepo.AssertExpectations(t)
	})

	t.Run("RegeneratesOrderNumberOnCollision", func(t *testing.T) {
		orderRepo, cartRepo, userRepo, emailSvc, noteRepo, svc := newOrderFixture()

		cartRepo.On("GetByCustomer", ctx, customerID).Return(cart, nil).Once()
		orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(repository.ErrDuplicate).Once()
		orderRepo.On("Create", ctx, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
		userRepo.On("GetByID", ctx, customerID).Return(customer, nil).Once()
		emailSvc.On("SendOrderConfirmation", ctx, customer.Email, "Amina Ben Salah", mock.AnythingOfType("string"), int64(17900)).Return(nil).Once()
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()

		order, err := svc.Checkout(ctx, customerID, address, 700, "")
		require.NoError(t, err)
		assert.NotEmpty(t, order.OrderNumber)
		orderRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		_, cartRepo, _, _, _, svc := newOrderFixture()

		empty := &domain.Cart{ID: "cart-1", CustomerID: customerID}
		cartRepo.On("GetByCustomer", ctx, customerID).Return(empty, nil).Once()

		_, err := svc.Checkout(ctx, customerID, address, 700, "")
		assert.ErrorIs(t, err, service.ErrEmptyCart)
	})

	t.Run("MissingCart", func(t *testing.T) {
		_, cartRepo, _, _, _, svc := newOrderFixture()

		cartRepo.On("GetByCustomer", ctx, customerID).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.Checkout(ctx, customerID, address, 700, "")
		assert.ErrorIs(t, err, service.ErrEmptyCart)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	sellerID := domain.ID("seller-1")
	customerID := domain.ID("cust-1")
	orderID := domain.ID("order-1")

	customer := &domain.User{ID: customerID, Email: "amina@example.com", FirstName: "Amina", LastName: "Ben Salah"}

	sellerOrders := func(o domain.Order) []domain.Order { return []domain.Order{o} }

	t.Run("AdvancesOneStep", func(t *testing.T) {
		orderRepo, _, userRepo, emailSvc, noteRepo, svc := newOrderFixture()

		order := &domain.Order{ID: orderID, OrderNumber: "ORD-20260115-ABCD1234", CustomerID: customerID, Status: domain.OrderStatusConfirmed}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()
		orderRepo.On("ListBySeller", ctx, sellerID, int32(1), int32(1000)).Return(sellerOrders(*order), int32(1), nil).Once()
		orderRepo.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderStatusPreparing
		})).Return(nil).Once()
		userRepo.On("GetByID", ctx, customerID).Return(customer, nil).Once()
		emailSvc.On("SendOrderStatusUpdate", ctx, customer.Email, "Amina Ben Salah", order.OrderNumber, domain.OrderStatusPreparing).Return(nil).Once()
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()

		updated, err := svc.UpdateStatus(ctx, sellerID, orderID, domain.OrderStatusPreparing)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusPreparing, updated.Status)
	})

	t.Run("RejectsSkippingStates", func(t *testing.T) {
		orderRepo, _, _, _, _, svc := newOrderFixture()

		order := &domain.Order{ID: orderID, CustomerID: customerID, Status: domain.OrderStatusPending}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()
		orderRepo.On("ListBySeller", ctx, sellerID, int32(1), int32(1000)).Return(sellerOrders(*order), int32(1), nil).Once()

		_, err := svc.UpdateStatus(ctx, sellerID, orderID, domain.OrderStatusShipped)
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("StampsDeliveredOn", func(t *testing.T) {
		orderRepo, _, userRepo, emailSvc, noteRepo, svc := newOrderFixture()

		order := &domain.Order{ID: orderID, OrderNumber: "ORD-20260115-ABCD1234", CustomerID: customerID, Status: domain.OrderStatusShipped}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()
		orderRepo.On("ListBySeller", ctx, sellerID, int32(1), int32(1000)).Return(sellerOrders(*order), int32(1), nil).Once()
		orderRepo.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderStatusDelivered && o.DeliveredOn != nil
		})).Return(nil).Once()
		userRepo.On("GetByID", ctx, customerID).Return(customer, nil).Once()
		emailSvc.On("SendOrderStatusUpdate", ctx, customer.Email, "Amina Ben Salah", order.OrderNumber, domain.OrderStatusDelivered).Return(nil).Once()
		noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil).Once()

		updated, err := svc.UpdateStatus(ctx, sellerID, orderID, domain.OrderStatusDelivered)
		require.NoError(t, err)
		assert.NotNil(t, updated.DeliveredOn)
	})

	t.Run("ForeignSellerIsRejected", func(t *testing.T) {
		orderRepo, _, _, _, _, svc := newOrderFixture()

		order := &domain.Order{ID: orderID, CustomerID: customerID, Status: domain.OrderStatusConfirmed}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()
		orderRepo.On("ListBySeller", ctx, sellerID, int32(1), int32(1000)).Return([]domain.Order{}, int32(0), nil).Once()

		_, err := svc.UpdateStatus(ctx, sellerID, orderID, domain.OrderStatusPreparing)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()
	customerID := domain.ID("cust-1")
	orderID := domain.ID("order-1")

	t.Run("CancelsFromAnyNonTerminalState", func(t *testing.T) {
		orderRepo, _, _, _, _, svc := newOrderFixture()

		order := &domain.Order{ID: orderID, CustomerID: customerID, Status: domain.OrderStatusShipped}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()
		orderRepo.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.Status == domain.OrderStatusCancelled
		})).Return(nil).Once()

		cancelled, err := svc.Cancel(ctx, customerID, orderID)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
	})

	t.Run("DeliveredIsFinal", func(t *testing.T) {
		orderRepo, _, _, _, _, svc := newOrderFixture()

		order := &domain.Order{ID: orderID, CustomerID: customerID, Status: domain.OrderStatusDelivered}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()

		_, err := svc.Cancel(ctx, customerID, orderID)
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("ForeignCustomerIsRejected", func(t *testing.T) {
		orderRepo, _, _, _, _, svc := newOrderFixture()

		order := &domain.Order{ID: orderID, CustomerID: "someone-else", Status: domain.OrderStatusPending}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()

		_, err := svc.Cancel(ctx, customerID, orderID)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}
