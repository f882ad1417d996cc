package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// fulfillment chain rank; cancelled and unknown statuses are not ranked
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusPreparing: 2,
	OrderStatusShipped:   3,
	OrderStatusDelivered: 4,
}

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo allows only forward moves along the fulfillment chain
// plus cancellation from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	to, ok := orderStatusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// OrderItem is an immutable line copied from a cart line at checkout.
// All values are snapshots, independent of later catalog changes.
type OrderItem struct {
	ProductID      ID     `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
}

type DeliveryAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Phone      string `json:"phone"`
}

type Order struct {
	ID               ID              `json:"id"`
	OrderNumber      string          `json:"order_number"`
	CustomerID       ID              `json:"customer_id"`
	Items            []OrderItem     `json:"items"`
	TotalAmountCents int64           `json:"total_amount_cents"`
	ShippingFeeCents int64           `json:"shipping_fee_cents"`
	FinalAmountCents int64           `json:"final_amount_cents"`
	Status           OrderStatus     `json:"status"`
	DeliveryAddress  DeliveryAddress `json:"delivery_address"`
	PaymentID        *ID             `json:"payment_id,omitempty"`
	IsPaid           bool            `json:"is_paid"`
	CustomerNote     string          `json:"customer_note,omitempty"`
	SellerNote       string          `json:"seller_note,omitempty"`
	CreatedOn        time.Time       `json:"created_on"`
	EstimatedOn      *time.Time      `json:"estimated_delivery_on,omitempty"`
	DeliveredOn      *time.Time      `json:"delivered_on,omitempty"`
}

// SetAmounts updates the order total and shipping fee together and
// recomputes the final amount. The final amount is never set directly.
func (o *Order) SetAmounts(totalCents, shippingFeeCents int64) {
	o.TotalAmountCents = totalCents
	o.ShippingFeeCents = shippingFeeCents
	o.FinalAmountCents = totalCents + shippingFeeCents
}
