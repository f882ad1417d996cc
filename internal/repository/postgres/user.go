package postgres

import (
	"context"
	"database/sql"
	"time"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, phone, google_id, photo_url, auth_provider,
	        role, address, city, postal_code, is_active, is_verified, created_on, last_login_on`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, email, password_hash, first_name, last_name, phone, google_id, photo_url, auth_provider,
	              role, address, city, postal_code, is_active, is_verified, created_on)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Phone, u.GoogleID, u.PhotoURL, u.AuthProvider,
		u.Role, u.Address, u.City, u.PostalCode, u.IsActive, u.IsVerified, u.CreatedOn)
	if err != nil && isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	return r.getBy(ctx, `WHERE id = $1`, string(id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, `WHERE email = $1`, email)
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.getBy(ctx, `WHERE google_id = $1`, googleID)
}

func (r *userRepository) getBy(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	u := &domain.User{}
	var passwordHash, googleID, photoURL, phone, address, city, postalCode sql.NullString
	query := `SELECT ` + userColumns + ` FROM users ` + where
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &passwordHash, &u.FirstName, &u.LastName, &phone, &googleID, &photoURL, &u.AuthProvider,
		&u.Role, &address, &city, &postalCode, &u.IsActive, &u.IsVerified, &u.CreatedOn, &u.LastLoginOn)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = passwordHash.String
	u.GoogleID = googleID.String
	u.PhotoURL = photoURL.String
	u.Phone = phone.String
	u.Address = address.String
	u.City = city.String
	u.PostalCode = postalCode.String
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET first_name = $1, last_name = $2, phone = $3, photo_url = $4, address = $5, city = $6,
	              postal_code = $7, is_active = $8, is_verified = $9, google_id = NULLIF($10, ''), auth_provider = $11
	          WHERE id = $12`
	res, err := r.db.ExecContext(ctx, query,
		u.FirstName, u.LastName, u.Phone, u.PhotoURL, u.Address, u.City, u.PostalCode,
		u.IsActive, u.IsVerified, u.GoogleID, u.AuthProvider, u.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id domain.ID, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_on = $1 WHERE id = $2`, at, id)
	return err
}
