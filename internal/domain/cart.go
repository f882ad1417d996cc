package domain

import "time"

// CartItem is a line item embedded in a cart. Name, unit price and
// image are snapshots taken from the catalog when the line was created;
// they never track later catalog changes.
type CartItem struct {
	ProductID      ID     `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	ImageURL       string `json:"image_url,omitempty"`
}

// LineTotalCents returns the contribution of this line to the cart total.
func (i CartItem) LineTotalCents() int64 {
	return int64(i.Quantity) * i.UnitPriceCents
}

// Cart is the single mutable cart of one customer. It is created lazily
// on first add and emptied, never deleted.
type Cart struct {
	ID               ID         `json:"id"`
	CustomerID       ID         `json:"customer_id"`
	Items            []CartItem `json:"items"`
	TotalAmountCents int64      `json:"total_amount_cents"`
	CreatedOn        time.Time  `json:"created_on"`
	ModifiedOn       time.Time  `json:"modified_on"`
}

// AddItem merges the item into the cart: an existing line for the same
// product has its quantity incremented (the stored unit price stays),
// otherwise the line is appended. The total is recomputed.
func (c *Cart) AddItem(item CartItem) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == item.ProductID {
			c.Items[idx].Quantity += item.Quantity
			c.RecomputeTotal()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.RecomputeTotal()
}

// RemoveItem drops the line for the given product. Removing an absent
// product is a no-op, not an error.
func (c *Cart) RemoveItem(productID ID) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
	c.RecomputeTotal()
}

// Clear empties the cart and zeroes the total.
func (c *Cart) Clear() {
	c.Items = nil
	c.TotalAmountCents = 0
}

// RecomputeTotal refreshes the cached total from the line items. The
// cached value is never trusted stale across a mutation.
func (c *Cart) RecomputeTotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.LineTotalCents()
	}
	c.TotalAmountCents = total
	return total
}

// ItemCount returns the sum of all line quantities, not the line count.
func (c *Cart) ItemCount() int32 {
	var n int32
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
