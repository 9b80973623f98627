package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for domain failures.
const (
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeOrderRejected     = "ORDER_REJECTED"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a recoverable business-rule failure. The message is
// user-facing and is shown to the visitor as an error notification.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrInsufficientStock) matches errors built with a
// stock-specific message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Notification converts the error into a one-shot error notification.
func (e *DomainError) Notification() Notification {
	return ErrorNotification(e.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewInsufficientStockError reports the available stock for a product.
func NewInsufficientStockError(stock int) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock, fmt.Sprintf("Sorry, only %d items available in stock.", stock))
}

// NewOrderRejectedError wraps the reason a downstream collaborator refused the order.
func NewOrderRejectedError(reason string) *DomainError {
	return NewDomainError(ErrCodeOrderRejected, fmt.Sprintf("Your order could not be placed: %s", reason))
}

// Common domain errors
var (
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found!")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Sorry, not enough items available in stock.")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidInput, "Quantity must be a positive whole number.")
	ErrEmptyCart         = NewDomainError(ErrCodeEmptyCart, "Your cart is empty!")
	ErrOrderRejected     = NewDomainError(ErrCodeOrderRejected, "Your order could not be placed.")
)
