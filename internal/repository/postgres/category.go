package postgres

import (
	"context"
	"database/sql"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type categoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `INSERT INTO categories (id, name, slug, description, image_url, parent_id, is_active, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Slug, c.Description, c.ImageURL, nullableID(c.ParentID), c.IsActive, c.CreatedOn)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c := &domain.Category{}
	var description, imageURL, parentID sql.NullString
	query := `SELECT id, name, slug, description, image_url, parent_id, is_active, created_on FROM categories WHERE slug = $1`
	err := r.db.QueryRowContext(ctx, query, slug).
		Scan(&c.ID, &c.Name, &c.Slug, &description, &imageURL, &parentID, &c.IsActive, &c.CreatedOn)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.Description = description.String
	c.ImageURL = imageURL.String
	if parentID.Valid {
		pid := domain.ID(parentID.String)
		c.ParentID = &pid
	}
	return c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, slug, description, image_url, parent_id, is_active, created_on
	          FROM categories WHERE is_active = TRUE ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		var description, imageURL, parentID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &description, &imageURL, &parentID, &c.IsActive, &c.CreatedOn); err != nil {
			return nil, err
		}
		c.Description = description.String
		c.ImageURL = imageURL.String
		if parentID.Valid {
			pid := domain.ID(parentID.String)
			c.ParentID = &pid
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
