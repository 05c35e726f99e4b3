package usecase

import (
	"errors"

	"shop-service/internal/domain/entities"
)

// Error kinds. Delivery maps each kind to one status code.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("duplicate submission")
)

var (
	ErrInvalidUserID        = kinded(ErrUnauthenticated, "invalid user ID")
	ErrInvalidOrderID       = kinded(ErrValidation, "invalid order ID")
	ErrInvalidProductID     = kinded(ErrValidation, "invalid product ID")
	ErrInvalidAddress       = kinded(ErrValidation, "delivery address is incomplete")
	ErrEmptyCart            = kinded(ErrValidation, "cart is empty")
	ErrInvalidCancelReason  = kinded(ErrValidation, "invalid cancel reason")
	ErrMissingCancelDetails = kinded(ErrValidation, "cancel reason and description are both required")
	ErrInvalidStatus        = kinded(ErrValidation, "invalid order status")
	ErrInvalidQuantity      = kinded(ErrValidation, "invalid quantity")
	ErrOutOfStock           = kinded(ErrValidation, "product is out of stock")
	ErrInvalidProduct       = kinded(ErrValidation, "invalid product")
	ErrSellerOnly           = kinded(ErrForbidden, "seller capability required")
	ErrSubmissionInProgress = kinded(ErrDuplicate, "an order with this idempotency key is already being placed")
)

type kindedError struct {
	kind    error
	message string
}

func kinded(kind error, message string) error {
	return &kindedError{kind: kind, message: message}
}

func (e *kindedError) Error() string {
	return e.message
}

func (e *kindedError) Unwrap() error {
	return e.kind
}

// DuplicateOrderError is returned when an idempotency key was already used
// for a completed order. Order is the order that was placed the first time.
type DuplicateOrderError struct {
	Order *entities.Order
}

func (e *DuplicateOrderError) Error() string {
	return "order already placed for this idempotency key"
}

func (e *DuplicateOrderError) Unwrap() error {
	return ErrDuplicate
}
