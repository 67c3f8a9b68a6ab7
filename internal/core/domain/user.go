// internal/core/domain/user.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes shoppers from store owners
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleOwner    UserRole = "owner"
	RoleAdmin    UserRole = "admin"
)

// User is an account in the system. Email is unique.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks required user fields.
func (u *User) Validate() error {
	if u.Email == "" {
		return fmt.Errorf("email is required")
	}
	if u.Name == "" {
		return fmt.Errorf("name is required")
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// Store is a kirana shop. Each store has one owner and its own inventory.
type Store struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address,omitempty"`
	Contact        string    `json:"contact,omitempty"`
	OperatingHours string    `json:"operating_hours,omitempty"`
	Latitude       float64   `json:"latitude,omitempty"`
	Longitude      float64   `json:"longitude,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks required store fields.
func (s *Store) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.OwnerID == uuid.Nil {
		return fmt.Errorf("owner_id is required")
	}
	return nil
}
