package postgres

import (
	"database/sql"

	"paraplus-backend/internal/repository"

	"github.com/lib/pq"
)

// Store bundles every repository over one database handle.
type Store struct {
	db            *sql.DB
	Users         repository.UserRepository
	Categories    repository.CategoryRepository
	Products      repository.ProductRepository
	Carts         repository.CartRepository
	Orders        repository.OrderRepository
	Rentals       repository.RentalRepository
	Payments      repository.PaymentRepository
	Notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Categories:    NewCategoryRepository(db),
		Products:      NewProductRepository(db),
		Carts:         NewCartRepository(db),
		Orders:        NewOrderRepository(db),
		Rentals:       NewRentalRepository(db),
		Payments:      NewPaymentRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
