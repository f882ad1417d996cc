package domain

import "time"

type RentalStatus string

const (
	RentalStatusReserved   RentalStatus = "reserved"
	RentalStatusInProgress RentalStatus = "in_progress"
	RentalStatusCompleted  RentalStatus = "completed"
	RentalStatusCancelled  RentalStatus = "cancelled"
)

func (s RentalStatus) IsTerminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	switch s {
	case RentalStatusReserved:
		return next == RentalStatusInProgress || next == RentalStatusCancelled
	case RentalStatusInProgress:
		return next == RentalStatusCompleted || next == RentalStatusCancelled
	default:
		return false
	}
}

// Rental is a booked date range for one product between one customer
// and one seller. Product name and daily price are snapshots taken at
// reservation time.
type Rental struct {
	ID                ID               `json:"id"`
	ProductID         ID               `json:"product_id"`
	ProductName       string           `json:"product_name"`
	CustomerID        ID               `json:"customer_id"`
	SellerID          ID               `json:"seller_id"`
	DateStart         time.Time        `json:"date_start"`
	DateEnd           time.Time        `json:"date_end"`
	NumberOfDays      int32            `json:"number_of_days"`
	PricePerDayCents  int64            `json:"price_per_day_cents"`
	PriceTotalCents   int64            `json:"price_total_cents"`
	DepositCents      int64            `json:"deposit_cents"`
	Status            RentalStatus     `json:"status"`
	DeliveryAddress   *DeliveryAddress `json:"delivery_address,omitempty"`
	CustomerNote      string           `json:"customer_note,omitempty"`
	PaymentID         *ID              `json:"payment_id,omitempty"`
	IsPaid            bool             `json:"is_paid"`
	DepositReturned   bool             `json:"deposit_returned"`
	ReservedOn        time.Time        `json:"reserved_on"`
	ActualReturnedOn  *time.Time       `json:"actual_returned_on,omitempty"`
}

// IsActiveAt derives whether the rental is currently running. This is
// recomputed at query time, never stored: "now" moves without any write
// to the record.
func (r *Rental) IsActiveAt(now time.Time) bool {
	return r.Status == RentalStatusInProgress &&
		!now.Before(r.DateStart) && !now.After(r.DateEnd)
}

// IsActive derives activity against the wall clock.
func (r *Rental) IsActive() bool {
	return r.IsActiveAt(time.Now().UTC())
}
