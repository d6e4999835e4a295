package domain

// DomainError represents a domain-specific error
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Custom errors shared across entities
var (
	ErrProductNotFound  = NewDomainError("product not found")
	ErrCustomerNotFound = NewDomainError("customer not found")
	ErrOrderNotFound    = NewDomainError("order not found")
	ErrUserNotFound     = NewDomainError("user not found")
	ErrProductInactive  = NewDomainError("cannot modify inactive product")
	ErrOrderDelivered   = NewDomainError("cannot modify delivered order")
	ErrEmptyOrder       = NewDomainError("order must contain at least one item")
	ErrInvalidPriceTier = NewDomainError("invalid price tier")
)
