package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_number, customer_id, total_amount_cents, shipping_fee_cents, final_amount_cents, status,
	        street, city, postal_code, phone, payment_id, is_paid, customer_note, seller_note, created_on, estimated_on, delivered_on`

// Create inserts the order with its embedded lines, decrements the
// stock of each ordered product and clears the originating cart, all in
// one transaction: checkout consumes both the cart and the stock. A
// decrement that would go negative aborts with ErrInsufficientStock; an
// order-number collision surfaces as ErrDuplicate. Neither leaves a
// partial write.
func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, order_number, customer_id, total_amount_cents, shipping_fee_cents, final_amount_cents, status,
	              street, city, postal_code, phone, is_paid, customer_note, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err = tx.ExecContext(ctx, query,
		o.ID, o.OrderNumber, o.CustomerID, o.TotalAmountCents, o.ShippingFeeCents, o.FinalAmountCents, o.Status,
		o.DeliveryAddress.Street, o.DeliveryAddress.City, o.DeliveryAddress.PostalCode, o.DeliveryAddress.Phone,
		o.IsPaid, o.CustomerNote, o.CreatedOn)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	itemQuery := `INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price_cents, line_total_cents)
	              VALUES ($1, $2, $3, $4, $5, $6)`
	stockQuery := `UPDATE products SET stock = stock - $1, updated_on = NOW() WHERE id = $2 AND stock >= $1`
	for _, item := range o.Items {
		if _, err := tx.ExecContext(ctx, itemQuery, o.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPriceCents, item.LineTotalCents); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, stockQuery, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: product %s", repository.ErrInsufficientStock, item.ProductID)
		}
	}

	// consume the originating cart
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE customer_id = $1)`, o.CustomerID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE carts SET total_amount_cents = 0, modified_on = $2 WHERE customer_id = $1`, o.CustomerID, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *orderRepository) GetByNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_number = $1`
	return r.scanOne(ctx, query, orderNumber)
}

func (r *orderRepository) scanOne(ctx context.Context, query string, arg interface{}) (*domain.Order, error) {
	o := &domain.Order{}
	var paymentID sql.NullString
	var customerNote, sellerNote sql.NullString
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.TotalAmountCents, &o.ShippingFeeCents, &o.FinalAmountCents, &o.Status,
		&o.DeliveryAddress.Street, &o.DeliveryAddress.City, &o.DeliveryAddress.PostalCode, &o.DeliveryAddress.Phone,
		&paymentID, &o.IsPaid, &customerNote, &sellerNote, &o.CreatedOn, &o.EstimatedOn, &o.DeliveredOn)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if paymentID.Valid {
		pid := domain.ID(paymentID.String)
		o.PaymentID = &pid
	}
	o.CustomerNote = customerNote.String
	o.SellerNote = sellerNote.String
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	// order lines are immutable; only status, payment linkage, notes and
	// delivery stamps are updatable
	query := `UPDATE orders SET status = $1, payment_id = $2, is_paid = $3, seller_note = $4, estimated_on = $5, delivered_on = $6
	          WHERE id = $7`
	var paymentID interface{}
	if o.PaymentID != nil {
		paymentID = string(*o.PaymentID)
	}
	res, err := r.db.ExecContext(ctx, query, o.Status, paymentID, o.IsPaid, o.SellerNote, o.EstimatedOn, o.DeliveredOn, o.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error) {
	where := `WHERE customer_id = $1`
	return r.list(ctx, where, customerID, page, pageSize)
}

// ListBySeller returns orders that contain at least one line for a
// product belonging to the seller.
func (r *orderRepository) ListBySeller(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Order, int32, error) {
	where := `WHERE id IN (SELECT oi.order_id FROM order_items oi JOIN products p ON p.id = oi.product_id WHERE p.seller_id = $1)`
	return r.list(ctx, where, sellerID, page, pageSize)
}

func (r *orderRepository) list(ctx context.Context, where string, arg interface{}, page, pageSize int32) ([]domain.Order, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	countQuery := `SELECT count(*) FROM orders ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, arg).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM orders %s ORDER BY created_on DESC LIMIT $2 OFFSET $3`, orderColumns, where)
	rows, err := r.db.QueryContext(ctx, query, arg, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var paymentID, customerNote, sellerNote sql.NullString
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.TotalAmountCents, &o.ShippingFeeCents, &o.FinalAmountCents, &o.Status,
			&o.DeliveryAddress.Street, &o.DeliveryAddress.City, &o.DeliveryAddress.PostalCode, &o.DeliveryAddress.Phone,
			&paymentID, &o.IsPaid, &customerNote, &sellerNote, &o.CreatedOn, &o.EstimatedOn, &o.DeliveredOn); err != nil {
			return nil, 0, err
		}
		if paymentID.Valid {
			pid := domain.ID(paymentID.String)
			o.PaymentID = &pid
		}
		o.CustomerNote = customerNote.String
		o.SellerNote = sellerNote.String
		if err := r.loadItems(ctx, &o); err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, count, rows.Err()
}

func (r *orderRepository) loadItems(ctx context.Context, o *domain.Order) error {
	query := `SELECT product_id, product_name, quantity, unit_price_cents, line_total_cents
	          FROM order_items WHERE order_id = $1`
	rows, err := r.db.QueryContext(ctx, query, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPriceCents, &item.LineTotalCents); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}
