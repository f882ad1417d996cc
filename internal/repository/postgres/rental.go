package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

const rentalColumns = `id, product_id, product_name, customer_id, seller_id, date_start, date_end, number_of_days,
	        price_per_day_cents, price_total_cents, deposit_cents, status, street, city, postal_code, phone,
	        customer_note, payment_id, is_paid, deposit_returned, reserved_on, actual_returned_on`

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (id, product_id, product_name, customer_id, seller_id, date_start, date_end, number_of_days,
	              price_per_day_cents, price_total_cents, deposit_cents, status, street, city, postal_code, phone,
	              customer_note, is_paid, deposit_returned, reserved_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	// a nil address (pickup at the seller) is stored as NULL columns
	var street, city, postalCode, phone interface{}
	if rt.DeliveryAddress != nil {
		street = rt.DeliveryAddress.Street
		city = rt.DeliveryAddress.City
		postalCode = rt.DeliveryAddress.PostalCode
		phone = rt.DeliveryAddress.Phone
	}
	_, err := r.db.ExecContext(ctx, query,
		rt.ID, rt.ProductID, rt.ProductName, rt.CustomerID, rt.SellerID, rt.DateStart, rt.DateEnd, rt.NumberOfDays,
		rt.PricePerDayCents, rt.PriceTotalCents, rt.DepositCents, rt.Status, street, city, postalCode, phone,
		rt.CustomerNote, rt.IsPaid, rt.DepositReturned, rt.ReservedOn)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt := &domain.Rental{}
	var street, city, postalCode, phone sql.NullString
	var customerNote, paymentID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.ID, &rt.ProductID, &rt.ProductName, &rt.CustomerID, &rt.SellerID, &rt.DateStart, &rt.DateEnd, &rt.NumberOfDays,
		&rt.PricePerDayCents, &rt.PriceTotalCents, &rt.DepositCents, &rt.Status, &street, &city, &postalCode, &phone,
		&customerNote, &paymentID, &rt.IsPaid, &rt.DepositReturned, &rt.ReservedOn, &rt.ActualReturnedOn)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rt.DeliveryAddress = deliveryAddressFrom(street, city, postalCode, phone)
	rt.CustomerNote = customerNote.String
	if paymentID.Valid {
		pid := domain.ID(paymentID.String)
		rt.PaymentID = &pid
	}
	return rt, nil
}

func deliveryAddressFrom(street, city, postalCode, phone sql.NullString) *domain.DeliveryAddress {
	if !street.Valid {
		return nil
	}
	return &domain.DeliveryAddress{
		Street:     street.String,
		City:       city.String,
		PostalCode: postalCode.String,
		Phone:      phone.String,
	}
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status = $1, payment_id = $2, is_paid = $3, deposit_returned = $4, actual_returned_on = $5
	          WHERE id = $6`
	var paymentID interface{}
	if rt.PaymentID != nil {
		paymentID = string(*rt.PaymentID)
	}
	res, err := r.db.ExecContext(ctx, query, rt.Status, paymentID, rt.IsPaid, rt.DepositReturned, rt.ActualReturnedOn, rt.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *rentalRepository) ListByCustomer(ctx context.Context, customerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "customer_id", customerID, status, page, pageSize)
}

func (r *rentalRepository) ListBySeller(ctx context.Context, sellerID domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	return r.list(ctx, "seller_id", sellerID, status, page, pageSize)
}

func (r *rentalRepository) list(ctx context.Context, column string, id domain.ID, status string, page, pageSize int32) ([]domain.Rental, int32, error) {
	offset := (page - 1) * pageSize
	where := fmt.Sprintf("WHERE %s = $1", column)
	args := []interface{}{id}
	argIdx := 2
	if status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rentals `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM rentals %s ORDER BY reserved_on DESC LIMIT $%d OFFSET $%d`, rentalColumns, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)
	rentals, err := r.scanList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

// ListDueForActivation returns paid reservations whose start date has
// arrived but which are still waiting in reserved.
func (r *rentalRepository) ListDueForActivation(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = 'reserved' AND is_paid = TRUE AND date_start <= $1 AND date_end > $1`
	return r.scanList(ctx, query, now)
}

// ListOverdue returns running rentals whose end date has passed without
// the equipment being returned.
func (r *rentalRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = 'in_progress' AND date_end < $1`
	return r.scanList(ctx, query, now)
}

func (r *rentalRepository) scanList(ctx context.Context, query string, args ...interface{}) ([]domain.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rt domain.Rental
		var street, city, postalCode, phone sql.NullString
		var customerNote, paymentID sql.NullString
		if err := rows.Scan(
			&rt.ID, &rt.ProductID, &rt.ProductName, &rt.CustomerID, &rt.SellerID, &rt.DateStart, &rt.DateEnd, &rt.NumberOfDays,
			&rt.PricePerDayCents, &rt.PriceTotalCents, &rt.DepositCents, &rt.Status, &street, &city, &postalCode, &phone,
			&customerNote, &paymentID, &rt.IsPaid, &rt.DepositReturned, &rt.ReservedOn, &rt.ActualReturnedOn); err != nil {
			return nil, err
		}
		rt.DeliveryAddress = deliveryAddressFrom(street, city, postalCode, phone)
		rt.CustomerNote = customerNote.String
		if paymentID.Valid {
			pid := domain.ID(paymentID.String)
			rt.PaymentID = &pid
		}
		rentals = append(rentals, rt)
	}
	return rentals, rows.Err()
}
