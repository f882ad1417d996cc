package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/service"
)

func newPaymentFixture() (*MockPaymentRepo, *MockOrderRepo, *MockRentalRepo, *MockUserRepo, *MockEmailService, service.PaymentService) {
	paymentRepo := new(MockPaymentRepo)
	orderRepo := new(MockOrderRepo)
	rentalRepo := new(MockRentalRepo)
	userRepo := new(MockUserRepo)
	emailSvc := new(MockEmailService)
	svc := service.NewPaymentService(paymentRepo, orderRepo, rentalRepo, userRepo, emailSvc, "TND")
	return paymentRepo, orderRepo, rentalRepo, userRepo, emailSvc, svc
}

func TestPaymentService_RecordAttempt(t *testing.T) {
	ctx := context.Background()
	customerID := domain.ID("cust-1")
	orderID := domain.ID("order-1")
	rentalID := domain.ID("rent-1")

	t.Run("OrderAmountComesFromTheOrder", func(t *testing.T) {
		paymentRepo, orderRepo, _, _, _, svc := newPaymentFixture()

		order := &domain.Order{ID: orderID, OrderNumber: "ORD-20260115-ABCD1234", CustomerID: customerID, FinalAmountCents: 17900}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()
		paymentRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.AmountCents == 17900 &&
				p.Currency == "TND" &&
				p.Status == domain.PaymentStatusPending &&
				p.OrderID != nil && *p.OrderID == orderID &&
				p.RentalID == nil
		})).Return(nil).Once()

		payment, err := svc.RecordOrderAttempt(ctx, customerID, orderID, domain.PaymentMethodCard)
		require.NoError(t, err)
		assert.True(t, payment.TargetsOrder())
		assert.False(t, payment.TargetsRental())
	})

	t.Run("RentalAmountIncludesDeposit", func(t *testing.T) {
		paymentRepo, _, rentalRepo, _, _, svc := newPaymentFixture()

		rental := &domain.Rental{ID: rentalID, ProductName: "Fauteuil roulant", CustomerID: customerID, PriceTotalCents: 6000, DepositCents: 10000}
		rentalRepo.On("GetByID", ctx, rentalID).Return(rental, nil).Once()
		paymentRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.AmountCents == 16000 && p.RentalID != nil && *p.RentalID == rentalID && p.OrderID == nil
		})).Return(nil).Once()

		payment, err := svc.RecordRentalAttempt(ctx, customerID, rentalID, domain.PaymentMethodCash)
		require.NoError(t, err)
		assert.True(t, payment.TargetsRental())
	})

	t.Run("ForeignCustomerIsRejected", func(t *testing.T) {
		_, orderRepo, _, _, _, svc := newPaymentFixture()

		order := &domain.Order{ID: orderID, CustomerID: "someone-else", FinalAmountCents: 100}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()

		_, err := svc.RecordOrderAttempt(ctx, customerID, orderID, domain.PaymentMethodCard)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})

	t.Run("UnknownMethodIsRejected", func(t *testing.T) {
		_, orderRepo, rentalRepo, _, _, svc := newPaymentFixture()

		_, err := svc.RecordOrderAttempt(ctx, customerID, orderID, domain.PaymentMethod("bitcoin"))
		assert.ErrorIs(t, err, service.ErrInvalidPaymentMethod)

		_, err = svc.RecordRentalAttempt(ctx, customerID, rentalID, domain.PaymentMethod(""))
		assert.ErrorIs(t, err, service.ErrInvalidPaymentMethod)

		orderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		rentalRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_MarkSucceeded(t *testing.T) {
	ctx := context.Background()
	customerID := domain.ID("cust-1")
	orderID := domain.ID("order-1")
	paymentID := domain.ID("pay-1")

	t.Run("ConfirmsTheOrderAndMarksItPaid", func(t *testing.T) {
		paymentRepo, orderRepo, _, userRepo, emailSvc, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, OrderID: &orderID, AmountCents: 17900, Currency: "TND", Status: domain.PaymentStatusPending}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()
		paymentRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Status == domain.PaymentStatusSucceeded &&
				p.ValidatedOn != nil &&
				p.TransactionRef == "txn-42"
		})).Return(nil).Once()

		order := &domain.Order{ID: orderID, CustomerID: customerID, Status: domain.OrderStatusPending}
		orderRepo.On("GetByID", ctx, orderID).Return(order, nil).Once()
		orderRepo.On("Update", ctx, mock.MatchedBy(func(o *domain.Order) bool {
			return o.IsPaid && o.Status == domain.OrderStatusConfirmed && o.PaymentID != nil && *o.PaymentID == paymentID
		})).Return(nil).Once()

		userRepo.On("GetByID", ctx, customerID).Return(&domain.User{ID: customerID, Email: "amina@example.com", FirstName: "Amina", LastName: "Ben Salah"}, nil).Once()
		emailSvc.On("SendPaymentReceipt", ctx, "amina@example.com", "Amina Ben Salah", int64(17900), "TND", "txn-42").Return(nil).Once()

		got, err := svc.MarkSucceeded(ctx, customerID, paymentID, "txn-42")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusSucceeded, got.Status)
		orderRepo.AssertExpectations(t)
	})

	t.Run("ForeignCustomerCannotSucceedIt", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusPending}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		_, err := svc.MarkSucceeded(ctx, domain.ID("someone-else"), paymentID, "txn-42")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("SecondSuccessIsIdempotent", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		validated := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusSucceeded, TransactionRef: "txn-42", ValidatedOn: &validated}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		got, err := svc.MarkSucceeded(ctx, customerID, paymentID, "txn-99")
		require.NoError(t, err)
		assert.Equal(t, "txn-42", got.TransactionRef)
		assert.Equal(t, validated, *got.ValidatedOn)
		paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("FailedPaymentIsTerminal", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusFailed}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		_, err := svc.MarkSucceeded(ctx, customerID, paymentID, "txn-42")
		assert.ErrorIs(t, err, service.ErrPaymentTerminal)
	})
}

func TestPaymentService_MarkFailed(t *testing.T) {
	ctx := context.Background()
	customerID := domain.ID("cust-1")
	paymentID := domain.ID("pay-1")

	t.Run("RequiresReason", func(t *testing.T) {
		_, _, _, _, _, svc := newPaymentFixture()
		_, err := svc.MarkFailed(ctx, customerID, paymentID, "")
		assert.ErrorIs(t, err, service.ErrMissingReason)
	})

	t.Run("RecordsReason", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusPending}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()
		paymentRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Status == domain.PaymentStatusFailed && p.ErrorReason == "card declined"
		})).Return(nil).Once()

		got, err := svc.MarkFailed(ctx, customerID, paymentID, "card declined")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusFailed, got.Status)
	})

	t.Run("CannotFailASucceededPayment", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusSucceeded}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		_, err := svc.MarkFailed(ctx, customerID, paymentID, "late failure")
		assert.ErrorIs(t, err, service.ErrPaymentTerminal)
	})

	t.Run("ForeignCustomerCannotFailIt", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusPending}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		_, err := svc.MarkFailed(ctx, domain.ID("someone-else"), paymentID, "card declined")
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Refund(t *testing.T) {
	ctx := context.Background()
	customerID := domain.ID("cust-1")
	paymentID := domain.ID("pay-1")

	t.Run("RefundsASucceededPayment", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusSucceeded}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()
		paymentRepo.On("Update", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Status == domain.PaymentStatusRefunded && p.RefundedOn != nil
		})).Return(nil).Once()

		got, err := svc.Refund(ctx, customerID, paymentID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunded, got.Status)
	})

	t.Run("RefundOnPendingIsANoOp", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusPending}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		got, err := svc.Refund(ctx, customerID, paymentID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPending, got.Status)
		paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("RefundOnRefundedIsANoOp", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusRefunded}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		got, err := svc.Refund(ctx, customerID, paymentID)
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRefunded, got.Status)
	})

	t.Run("ForeignCustomerCannotRefundIt", func(t *testing.T) {
		paymentRepo, _, _, _, _, svc := newPaymentFixture()

		payment := &domain.Payment{ID: paymentID, CustomerID: customerID, Status: domain.PaymentStatusSucceeded}
		paymentRepo.On("GetByID", ctx, paymentID).Return(payment, nil).Once()

		_, err := svc.Refund(ctx, domain.ID("someone-else"), paymentID)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
		paymentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
