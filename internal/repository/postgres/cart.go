package postgres

import (
	"context"
	"database/sql"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) repository.CartRepository {
	return &cartRepository{db: db}
}

const cartUpsertQuery = `INSERT INTO carts (id, customer_id, total_amount_cents, created_on, modified_on)
	          VALUES ($1, $2, 0, $3, $3)
	          ON CONFLICT (customer_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
	          RETURNING id, customer_id, total_amount_cents, created_on, modified_on`

// recompute the cached total from the line items; always runs inside
// the same transaction as the item mutation
const cartTotalQuery = `UPDATE carts
	          SET total_amount_cents = (SELECT COALESCE(SUM(quantity * unit_price_cents), 0) FROM cart_items WHERE cart_id = $1),
	              modified_on = $2
	          WHERE id = $1`

func (r *cartRepository) GetOrCreate(ctx context.Context, customerID domain.ID) (*domain.Cart, error) {
	cart := &domain.Cart{}
	err := r.db.QueryRowContext(ctx, cartUpsertQuery, domain.NewID(), customerID, time.Now().UTC()).
		Scan(&cart.ID, &cart.CustomerID, &cart.TotalAmountCents, &cart.CreatedOn, &cart.ModifiedOn)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, r.db, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) GetByCustomer(ctx context.Context, customerID domain.ID) (*domain.Cart, error) {
	cart := &domain.Cart{}
	query := `SELECT id, customer_id, total_amount_cents, created_on, modified_on FROM carts WHERE customer_id = $1`
	err := r.db.QueryRowContext(ctx, query, customerID).
		Scan(&cart.ID, &cart.CustomerID, &cart.TotalAmountCents, &cart.CreatedOn, &cart.ModifiedOn)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, r.db, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpsertItem adds the line or increments the quantity of an existing
// line for the same product in a single statement, so concurrent adds
// for one customer both land. The stored name and unit price of an
// existing line are left untouched.
func (r *cartRepository) UpsertItem(ctx context.Context, customerID domain.ID, item domain.CartItem) (*domain.Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	cart := &domain.Cart{}
	err = tx.QueryRowContext(ctx, cartUpsertQuery, domain.NewID(), customerID, now).
		Scan(&cart.ID, &cart.CustomerID, &cart.TotalAmountCents, &cart.CreatedOn, &cart.ModifiedOn)
	if err != nil {
		return nil, err
	}

	itemQuery := `INSERT INTO cart_items (cart_id, product_id, product_name, quantity, unit_price_cents, image_url)
	              VALUES ($1, $2, $3, $4, $5, $6)
	              ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	if _, err := tx.ExecContext(ctx, itemQuery, cart.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPriceCents, item.ImageURL); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, cartTotalQuery, cart.ID, now); err != nil {
		return nil, err
	}
	if err := tx.QueryRowContext(ctx, `SELECT total_amount_cents, modified_on FROM carts WHERE id = $1`, cart.ID).
		Scan(&cart.TotalAmountCents, &cart.ModifiedOn); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, tx, cart); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes the matching line if present; removing an absent
// product is a no-op. The cached total is recomputed either way.
func (r *cartRepository) RemoveItem(ctx context.Context, customerID domain.ID, productID domain.ID) (*domain.Cart, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	cart := &domain.Cart{}
	err = tx.QueryRowContext(ctx, cartUpsertQuery, domain.NewID(), customerID, now).
		Scan(&cart.ID, &cart.CustomerID, &cart.TotalAmountCents, &cart.CreatedOn, &cart.ModifiedOn)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cart.ID, productID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, cartTotalQuery, cart.ID, now); err != nil {
		return nil, err
	}
	if err := tx.QueryRowContext(ctx, `SELECT total_amount_cents, modified_on FROM carts WHERE id = $1`, cart.ID).
		Scan(&cart.TotalAmountCents, &cart.ModifiedOn); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, tx, cart); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepository) Clear(ctx context.Context, customerID domain.ID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var cartID domain.ID
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE customer_id = $1`, customerID).Scan(&cartID)
	if err == sql.ErrNoRows {
		// no cart yet means nothing to clear
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE carts SET total_amount_cents = 0, modified_on = $2 WHERE id = $1`, cartID, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *cartRepository) loadItems(ctx context.Context, q queryer, cart *domain.Cart) error {
	query := `SELECT product_id, product_name, quantity, unit_price_cents, COALESCE(image_url, '')
	          FROM cart_items WHERE cart_id = $1 ORDER BY added_on ASC`
	rows, err := q.QueryContext(ctx, query, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	cart.Items = nil
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPriceCents, &item.ImageURL); err != nil {
			return err
		}
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}
