package domain

import "time"

// Notification is an in-app notice shown to a user, written as a side
// effect of order, rental and payment events.
type Notification struct {
	ID         ID                `json:"id"`
	UserID     ID                `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedOn  time.Time         `json:"created_on"`
}
