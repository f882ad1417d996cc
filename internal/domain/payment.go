package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsTerminal reports whether the payment accepts no further transition.
// Succeeded is not terminal: it can still move to refunded.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusFailed || s == PaymentStatusRefunded
}

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodPaypal   PaymentMethod = "paypal"
	PaymentMethodStripe   PaymentMethod = "stripe"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

// Valid reports whether the method is one of the known payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPaypal, PaymentMethodStripe, PaymentMethodCash, PaymentMethodTransfer:
		return true
	}
	return false
}

// Payment is one payment attempt settling exactly one of an order or a
// rental. The reconciler only records gateway-confirmed outcomes; it
// never calls out to a gateway itself.
type Payment struct {
	ID             ID            `json:"id"`
	CustomerID     ID            `json:"customer_id"`
	OrderID        *ID           `json:"order_id,omitempty"`
	RentalID       *ID           `json:"rental_id,omitempty"`
	AmountCents    int64         `json:"amount_cents"`
	Currency       string        `json:"currency"`
	Method         PaymentMethod `json:"method"`
	Status         PaymentStatus `json:"status"`
	TransactionRef string        `json:"transaction_ref,omitempty"`
	Description    string        `json:"description,omitempty"`
	ErrorReason    string        `json:"error_reason,omitempty"`
	CreatedOn      time.Time     `json:"created_on"`
	ValidatedOn    *time.Time    `json:"validated_on,omitempty"`
	RefundedOn     *time.Time    `json:"refunded_on,omitempty"`
}

// TargetsOrder reports whether the payment settles an order.
func (p *Payment) TargetsOrder() bool {
	return p.OrderID != nil
}

// TargetsRental reports whether the payment settles a rental.
func (p *Payment) TargetsRental() bool {
	return p.RentalID != nil
}
