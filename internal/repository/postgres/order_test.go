package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paraplus-backend/internal/domain"
	"paraplus-backend/internal/repository"
)

func testOrder() *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		OrderNumber: "ORD-20260115-ABCD1234",
		CustomerID:  "cust-1",
		Status:      domain.OrderStatusPending,
		DeliveryAddress: domain.DeliveryAddress{
			Street: "12 rue de la Sante", City: "Tunis", PostalCode: "1000", Phone: "+216 20 000 000",
		},
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "Tensiometre", Quantity: 2, UnitPriceCents: 8000, LineTotalCents: 16000},
			{ProductID: "p2", ProductName: "Gel hydroalcoolique", Quantity: 1, UnitPriceCents: 1200, LineTotalCents: 1200},
		},
		TotalAmountCents: 17200,
		ShippingFeeCents: 700,
		FinalAmountCents: 17900,
		CreatedOn:        time.Now().UTC(),
	}
}

func TestOrderRepository_Create(t *testing.T) {
	t.Run("InsertsLinesDecrementsStockAndClearsCartInOneTransaction", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs("order-1", "p1", "Tensiometre", int32(2), int64(8000), int64(16000)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE products SET stock").
			WithArgs(int32(2), "p1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs("order-1", "p2", "Gel hydroalcoolique", int32(1), int64(1200), int64(1200)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE products SET stock").
			WithArgs(int32(1), "p2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM cart_items").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("UPDATE carts").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = repo.Create(context.Background(), testOrder())
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientStockRollsBackTheOrder", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs("order-1", "p1", "Tensiometre", int32(2), int64(8000), int64(16000)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		// the no-negative guard matches nothing when stock is short
		mock.ExpectExec("UPDATE products SET stock").
			WithArgs(int32(2), "p1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err = repo.Create(context.Background(), testOrder())
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("OrderNumberCollisionSurfacesAsDuplicate", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "orders_order_number_key"})
		mock.ExpectRollback()

		err = repo.Create(context.Background(), testOrder())
		assert.ErrorIs(t, err, repository.ErrDuplicate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOrderRepository_Update_MissingOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrderRepository(db)

	mock.ExpectExec("UPDATE orders").WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), testOrder())
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
