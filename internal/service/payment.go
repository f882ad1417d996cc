package service

import (
	"context"
	"fmt"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/logger"
	"paraplus-backend/internal/repository"
)

type paymentService struct {
	paymentRepo repository.PaymentRepository
	orderRepo   repository.OrderRepository
	rentalRepo  repository.RentalRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	currency    string
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	rentalRepo repository.RentalRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	currency string,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		rentalRepo:  rentalRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		currency:    currency,
	}
}

// RecordOrderAttempt opens a pending payment for an order. The amount
// is taken from the order's final amount, never from the caller.
func (s *paymentService) RecordOrderAttempt(ctx context.Context, customerID, orderID domain.ID, method domain.PaymentMethod) (*domain.Payment, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customerID {
		return nil, ErrUnauthorized
	}

	payment := &domain.Payment{
		ID:          domain.NewID(),
		CustomerID:  customerID,
		OrderID:     &order.ID,
		AmountCents: order.FinalAmountCents,
		Currency:    s.currency,
		Method:      method,
		Status:      domain.PaymentStatusPending,
		Description: fmt.Sprintf("Payment for order %s", order.OrderNumber),
		CreatedOn:   time.Now().UTC(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// RecordRentalAttempt opens a pending payment for a rental. Rental
// price and deposit are collected together.
func (s *paymentService) RecordRentalAttempt(ctx context.Context, customerID, rentalID domain.ID, method domain.PaymentMethod) (*domain.Payment, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	rental, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.CustomerID != customerID {
		return nil, ErrUnauthorized
	}

	payment := &domain.Payment{
		ID:          domain.NewID(),
		CustomerID:  customerID,
		RentalID:    &rental.ID,
		AmountCents: rental.PriceTotalCents + rental.DepositCents,
		Currency:    s.currency,
		Method:      method,
		Status:      domain.PaymentStatusPending,
		Description: fmt.Sprintf("Payment for rental of %s", rental.ProductName),
		CreatedOn:   time.Now().UTC(),
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// MarkSucceeded records a gateway-confirmed success. It is idempotent:
// a second call on an already-succeeded payment returns the stored
// record unchanged, without re-stamping the validation time. Terminal
// payments (failed, refunded) reject the transition.
func (s *paymentService) MarkSucceeded(ctx context.Context, customerID, paymentID domain.ID, transactionRef string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.CustomerID != customerID {
		return nil, ErrUnauthorized
	}
	if payment.Status == domain.PaymentStatusSucceeded {
		return payment, nil
	}
	if payment.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot succeed a %s payment", ErrPaymentTerminal, payment.Status)
	}

	now := time.Now().UTC()
	payment.Status = domain.PaymentStatusSucceeded
	payment.ValidatedOn = &now
	if transactionRef != "" {
		payment.TransactionRef = transactionRef
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	s.settleTarget(ctx, payment)

	if customer, err := s.userRepo.GetByID(ctx, payment.CustomerID); err == nil {
		_ = s.emailSvc.SendPaymentReceipt(ctx, customer.Email, customer.FullName(), payment.AmountCents, payment.Currency, payment.TransactionRef)
	}
	return payment, nil
}

// MarkFailed records a gateway-confirmed failure with a required
// human-readable reason. Failed is terminal.
func (s *paymentService) MarkFailed(ctx context.Context, customerID, paymentID domain.ID, reason string) (*domain.Payment, error) {
	if reason == "" {
		return nil, ErrMissingReason
	}

	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.CustomerID != customerID {
		return nil, ErrUnauthorized
	}
	if payment.Status.IsTerminal() || payment.Status == domain.PaymentStatusSucceeded {
		return nil, fmt.Errorf("%w: cannot fail a %s payment", ErrPaymentTerminal, payment.Status)
	}

	payment.Status = domain.PaymentStatusFailed
	payment.ErrorReason = reason
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// Refund moves a succeeded payment to refunded and stamps the refund
// time. On any other status it is a silent no-op returning the record
// unchanged.
func (s *paymentService) Refund(ctx context.Context, customerID, paymentID domain.ID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.CustomerID != customerID {
		return nil, ErrUnauthorized
	}
	if payment.Status != domain.PaymentStatusSucceeded {
		return payment, nil
	}

	now := time.Now().UTC()
	payment.Status = domain.PaymentStatusRefunded
	payment.RefundedOn = &now
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, customerID, paymentID domain.ID) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.CustomerID != customerID {
		return nil, ErrUnauthorized
	}
	return payment, nil
}

// settleTarget marks the settled order or rental paid and, for orders,
// confirms the pending order. Settlement failures are logged, not
// propagated: the payment record is already the source of truth.
func (s *paymentService) settleTarget(ctx context.Context, payment *domain.Payment) {
	switch {
	case payment.TargetsOrder():
		order, err := s.orderRepo.GetByID(ctx, *payment.OrderID)
		if err != nil {
			logger.Error("Failed to load order for settlement", "order_id", *payment.OrderID, "error", err)
			return
		}
		order.IsPaid = true
		order.PaymentID = &payment.ID
		if order.Status.CanTransitionTo(domain.OrderStatusConfirmed) {
			order.Status = domain.OrderStatusConfirmed
		}
		if err := s.orderRepo.Update(ctx, order); err != nil {
			logger.Error("Failed to mark order paid", "order_id", order.ID, "error", err)
		}
	case payment.TargetsRental():
		rental, err := s.rentalRepo.GetByID(ctx, *payment.RentalID)
		if err != nil {
			logger.Error("Failed to load rental for settlement", "rental_id", *payment.RentalID, "error", err)
			return
		}
		rental.IsPaid = true
		rental.PaymentID = &payment.ID
		if err := s.rentalRepo.Update(ctx, rental); err != nil {
			logger.Error("Failed to mark rental paid", "rental_id", rental.ID, "error", err)
		}
	}
}
