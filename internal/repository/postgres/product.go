package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, slug, description, type, price_cents, stock, category_id, seller_id, images,
	        rental_available, rental_price_per_day_cents, is_active, is_featured, created_on, updated_on`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (id, name, slug, description, type, price_cents, stock, category_id, seller_id, images,
	              rental_available, rental_price_per_day_cents, is_active, is_featured, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Slug, p.Description, p.Type, p.PriceCents, p.Stock, p.CategoryID, p.SellerID, pq.Array(p.Images),
		p.RentalAvailable, p.RentalPricePerDayCents, p.IsActive, p.IsFeatured, p.CreatedOn, p.UpdatedOn)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *productRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	return r.getBy(ctx, `WHERE id = $1`, string(id))
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getBy(ctx, `WHERE slug = $1`, slug)
}

func (r *productRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.Product, error) {
	p := &domain.Product{}
	query := `SELECT ` + productColumns + ` FROM products ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Type, &p.PriceCents, &p.Stock, &p.CategoryID, &p.SellerID,
		pq.Array(&p.Images), &p.RentalAvailable, &p.RentalPricePerDayCents, &p.IsActive, &p.IsFeatured, &p.CreatedOn, &p.UpdatedOn)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name = $1, description = $2, type = $3, price_cents = $4, stock = $5, category_id = $6,
	              images = $7, rental_available = $8, rental_price_per_day_cents = $9, is_active = $10, is_featured = $11,
	              updated_on = NOW()
	          WHERE id = $12`
	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Description, p.Type, p.PriceCents, p.Stock, p.CategoryID, pq.Array(p.Images),
		p.RentalAvailable, p.RentalPricePerDayCents, p.IsActive, p.IsFeatured, p.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id domain.ID) error {
	// soft delete: products referenced by order lines must stay resolvable
	res, err := r.db.ExecContext(ctx, `UPDATE products SET is_active = FALSE, updated_on = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Search(ctx context.Context, filter domain.ProductFilter, page, pageSize int32) ([]domain.Product, int32, error) {
	where := `WHERE is_active = TRUE`
	args := []interface{}{}
	argIdx := 1

	if filter.Query != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Query+"%")
		argIdx++
	}
	if filter.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.CategorySlug != "" {
		where += fmt.Sprintf(" AND category_id = (SELECT id FROM categories WHERE slug = $%d)", argIdx)
		args = append(args, filter.CategorySlug)
		argIdx++
	}
	if filter.SellerID != "" {
		where += fmt.Sprintf(" AND seller_id = $%d", argIdx)
		args = append(args, filter.SellerID)
		argIdx++
	}
	if filter.MaxPriceCents > 0 {
		where += fmt.Sprintf(" AND price_cents <= $%d", argIdx)
		args = append(args, filter.MaxPriceCents)
		argIdx++
	}
	if filter.RentalAvailable {
		where += " AND rental_available = TRUE"
	}
	if filter.FeaturedOnly {
		where += " AND is_featured = TRUE"
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM products `+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, productColumns, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	products, err := r.scanList(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID domain.ID, page, pageSize int32) ([]domain.Product, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM products WHERE seller_id = $1`, sellerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + productColumns + ` FROM products WHERE seller_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	products, err := r.scanList(ctx, query, sellerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

func (r *productRepository) AddImage(ctx context.Context, id domain.ID, imageURL string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET images = array_append(images, $1), updated_on = NOW() WHERE id = $2`, imageURL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) scanList(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.Type, &p.PriceCents, &p.Stock, &p.CategoryID, &p.SellerID,
			pq.Array(&p.Images), &p.RentalAvailable, &p.RentalPricePerDayCents, &p.IsActive, &p.IsFeatured, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
