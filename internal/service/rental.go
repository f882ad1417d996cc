package service

import (
	"context"
	"fmt"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
	"paraplus-backend/internal/utils"
)

type rentalService struct {
	rentalRepo  repository.RentalRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	noteRepo    repository.NotificationRepository
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		noteRepo:    noteRepo,
	}
}

// Reserve books a date range for a rentable product. The day count and
// total price are derived from the range and the daily-price snapshot;
// the deposit is tracked separately from the rental price. A delivery
// address is optional: a nil address means pickup at the seller.
func (s *rentalService) Reserve(ctx context.Context, customerID, productID domain.ID, dateStart, dateEnd string, depositCents int64, address *domain.DeliveryAddress, note string) (*domain.Rental, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive || !product.RentalAvailable {
		return nil, ErrNotRentable
	}

	start, err := utils.ParseDate(dateStart)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := utils.ParseDate(dateEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	days, err := utils.RentalDays(start, end)
	if err != nil {
		return nil, err
	}

	rental := &domain.Rental{
		ID:               domain.NewID(),
		ProductID:        product.ID,
		ProductName:      product.Name,
		CustomerID:       customerID,
		SellerID:         product.SellerID,
		DateStart:        start,
		DateEnd:          end,
		NumberOfDays:     days,
		PricePerDayCents: product.RentalPricePerDayCents,
		PriceTotalCents:  utils.RentalTotalCents(product.RentalPricePerDayCents, days),
		DepositCents:     depositCents,
		Status:           domain.RentalStatusReserved,
		DeliveryAddress:  address,
		CustomerNote:     note,
		ReservedOn:       time.Now().UTC(),
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, err
	}

	customer, _ := s.userRepo.GetByID(ctx, customerID)
	seller, _ := s.userRepo.GetByID(ctx, product.SellerID)
	if customer != nil && seller != nil {
		_ = s.emailSvc.SendRentalReservationNotification(ctx, seller.Email, customer.FullName(), product.Name, start, end)
		notif := &domain.Notification{
			ID:      domain.NewID(),
			UserID:  seller.ID,
			Title:   "New rental reservation",
			Message: fmt.Sprintf("%s reserved %s from %s to %s", customer.FullName(), product.Name, dateStart, dateEnd),
			Attributes: map[string]string{
				"type":      "RENTAL_RESERVED",
				"rental_id": rental.ID.String(),
			},
			CreatedOn: time.Now().UTC(),
		}
		_ = s.noteRepo.Create(ctx, notif)
	}

	return rental, nil
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID domain.ID) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != userID && rt.SellerID != userID {
		return nil, ErrUnauthorized
	}
	return rt, nil
}

func (s *rentalService) ListCustomerRentals(ctx context.Context, customerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListByCustomer(ctx, customerID, status, page, pageSize)
}

func (s *rentalService) ListSellerRentals(ctx context.Context, sellerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return s.rentalRepo.ListBySeller(ctx, sellerID, status, page, pageSize)
}

// Start moves a reservation into the running state when the equipment
// is handed over.
func (s *rentalService) Start(ctx context.Context, sellerID, rentalID domain.ID) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.SellerID != sellerID {
		return nil, ErrUnauthorized
	}
	if !rt.Status.CanTransitionTo(domain.RentalStatusInProgress) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rt.Status, domain.RentalStatusInProgress)
	}

	rt.Status = domain.RentalStatusInProgress
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// Return completes the rental and stamps the actual return time. The
// deposit refund is tracked independently: a rental can be completed
// with the deposit not yet returned.
func (s *rentalService) Return(ctx context.Context, sellerID, rentalID domain.ID) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.SellerID != sellerID {
		return nil, ErrUnauthorized
	}
	if !rt.Status.CanTransitionTo(domain.RentalStatusCompleted) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rt.Status, domain.RentalStatusCompleted)
	}

	now := time.Now().UTC()
	rt.Status = domain.RentalStatusCompleted
	rt.ActualReturnedOn = &now
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}

	if customer, err := s.userRepo.GetByID(ctx, rt.CustomerID); err == nil {
		_ = s.emailSvc.SendRentalReturnNotification(ctx, customer.Email, rt.ProductName, rt.DepositReturned)
	}
	return rt, nil
}

func (s *rentalService) Cancel(ctx context.Context, userID, rentalID domain.ID) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.CustomerID != userID && rt.SellerID != userID {
		return nil, ErrUnauthorized
	}
	if !rt.Status.CanTransitionTo(domain.RentalStatusCancelled) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rt.Status, domain.RentalStatusCancelled)
	}

	rt.Status = domain.RentalStatusCancelled
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}

// ReturnDeposit flags the deposit as refunded, independent of the
// rental status transition.
func (s *rentalService) ReturnDeposit(ctx context.Context, sellerID, rentalID domain.ID) (*domain.Rental, error) {
	rt, err := s.rentalRepo.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rt.SellerID != sellerID {
		return nil, ErrUnauthorized
	}
	if rt.DepositReturned {
		return rt, nil
	}

	rt.DepositReturned = true
	if err := s.rentalRepo.Update(ctx, rt); err != nil {
		return nil, err
	}
	return rt, nil
}
