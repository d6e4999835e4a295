package domain

import (
	"time"

	"github.com/google/uuid"
)

// CustomerType represents the pricing class of a customer
type CustomerType string

const (
	CustomerTypeDealer CustomerType = "DEALER"
	CustomerTypeHotel  CustomerType = "HOTEL"
)

// Customer represents a buyer of farm products
type Customer struct {
	ID        string       `json:"id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Type      CustomerType `json:"type"`
	Phone     string       `json:"phone"`
	Address   string       `json:"address"`
	Balance   float64      `json:"balance"`
	CreatedBy string       `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewCustomer creates a new customer
func NewCustomer(code, name string, customerType CustomerType, phone, address, createdBy string) *Customer {
	now := time.Now()
	return &Customer{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Type:      customerType,
		Phone:     phone,
		Address:   address,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CustomerFilter represents filters for listing customers
type CustomerFilter struct {
	Type      *CustomerType `json:"type,omitempty"`
	CreatedBy *string       `json:"created_by,omitempty"`
	Limit     int           `json:"limit"`
	Offset    int           `json:"offset"`
}
