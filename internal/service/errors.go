package service

import (
	"errors"
	"strings"

	"go-pos/pkg/validator"
)

// Error definitions
var (
	ErrProductNotFound     = errors.New("Product not found")
	ErrBarcodeExists       = errors.New("Barcode already exists")
	ErrInsufficientStock   = errors.New("Insufficient stock")
	ErrTransactionNotFound = errors.New("Transaction not found")
	ErrAlreadyVoided       = errors.New("Transaction already voided")
	ErrEmptyCart           = errors.New("Cart is empty")
	ErrPaymentMethod       = errors.New("Payment method is required")
	ErrHeldBillNotFound    = errors.New("Held bill not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailExists         = errors.New("email already exists")
)

// ValidationError carries field-level failures from request validation.
type ValidationError struct {
	Message string
	Fields  []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Details() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.String())
	}
	return out
}

// StockError lists every cart line that cannot be fulfilled.
type StockError struct {
	Details []string
}

func (e *StockError) Error() string {
	return "Insufficient stock: " + strings.Join(e.Details, "; ")
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{
			Message: "Validation failed: " + errs[0].String(),
			Fields:  errs,
		}
	}
	return nil
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}
