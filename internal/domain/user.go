package domain

import "time"

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleSeller   UserRole = "seller"
)

type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
)

type User struct {
	ID           ID           `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // empty for OAuth-only accounts
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Phone        string       `json:"phone"`
	GoogleID     string       `json:"-"`
	PhotoURL     string       `json:"photo_url,omitempty"`
	AuthProvider AuthProvider `json:"auth_provider"`
	Role         UserRole     `json:"role"`
	Address      string       `json:"address,omitempty"`
	City         string       `json:"city,omitempty"`
	PostalCode   string       `json:"postal_code,omitempty"`
	IsActive     bool         `json:"is_active"`
	IsVerified   bool         `json:"is_verified"`
	CreatedOn    time.Time    `json:"created_on"`
	LastLoginOn  *time.Time   `json:"last_login_on,omitempty"`
}

func (u *User) IsSeller() bool {
	return u.Role == UserRoleSeller
}

func (u *User) IsCustomer() bool {
	return u.Role == UserRoleCustomer
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
