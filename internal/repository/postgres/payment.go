package postgres

import (
	"context"
	"database/sql"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type paymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, customer_id, order_id, rental_id, amount_cents, currency, method, status,
	        transaction_ref, description, error_reason, created_on, validated_on, refunded_on`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `INSERT INTO payments (id, customer_id, order_id, rental_id, amount_cents, currency, method, status, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.CustomerID, nullableID(p.OrderID), nullableID(p.RentalID),
		p.AmountCents, p.Currency, p.Method, p.Status, p.Description, p.CreatedOn)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	return p, err
}

func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	// a duplicate transaction_ref must surface as a conflict, never
	// corrupt two records under the same reference
	query := `UPDATE payments SET status = $1, transaction_ref = NULLIF($2, ''), error_reason = $3, validated_on = $4, refunded_on = $5
	          WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, p.Status, p.TransactionRef, p.ErrorReason, p.ValidatedOn, p.RefundedOn, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) ListByCustomer(ctx context.Context, customerID domain.ID, page, pageSize int32) ([]domain.Payment, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM payments WHERE customer_id = $1`, customerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE customer_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, customerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, *p)
	}
	return payments, count, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *paymentRepository) scanRow(row rowScanner) (*domain.Payment, error) {
	p := &domain.Payment{}
	var orderID, rentalID, transactionRef, description, errorReason sql.NullString
	err := row.Scan(
		&p.ID, &p.CustomerID, &orderID, &rentalID, &p.AmountCents, &p.Currency, &p.Method, &p.Status,
		&transactionRef, &description, &errorReason, &p.CreatedOn, &p.ValidatedOn, &p.RefundedOn)
	if err != nil {
		return nil, err
	}
	if orderID.Valid {
		oid := domain.ID(orderID.String)
		p.OrderID = &oid
	}
	if rentalID.Valid {
		rid := domain.ID(rentalID.String)
		p.RentalID = &rid
	}
	p.TransactionRef = transactionRef.String
	p.Description = description.String
	p.ErrorReason = errorReason.String
	return p, nil
}

func nullableID(id *domain.ID) interface{} {
	if id == nil {
		return nil
	}
	return string(*id)
}
