package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds a single order line; no catalog row holds more.
const MaxLineQuantity = 100_000

// PlaceOrder is a checkout request as submitted by the storefront.
type PlaceOrder struct {
	Customer *Customer
	Items    []LineItem
	Total    decimal.Decimal
}

// ValidationError reports a request the order writer refuses to record.
type ValidationError struct {
	message string
}

func (e ValidationError) Error() string { return e.message }

func newValidationError(format string, args ...any) error {
	return ValidationError{message: fmt.Sprintf(format, args...)}
}

// IsValidation tells business rule violations apart from store failures.
func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

func (p PlaceOrder) Validate() error {
	if p.Customer == nil {
		return newValidationError("customer is required")
	}
	if strings.TrimSpace(p.Customer.Name) == "" {
		return newValidationError("customer name is required")
	}
	if len(p.Items) == 0 {
		return newValidationError("at least one item is required")
	}
	for i, it := range p.Items {
		if strings.TrimSpace(it.Name) == "" {
			return newValidationError("item %d: name is required", i+1)
		}
		if it.Quantity <= 0 {
			return newValidationError("item %d (%s): quantity must be positive", i+1, it.Name)
		}
		if it.Quantity > MaxLineQuantity {
			return newValidationError("item %d (%s): quantity exceeds %d", i+1, it.Name, MaxLineQuantity)
		}
		if it.UnitPrice.IsNegative() {
			return newValidationError("item %d (%s): price cannot be negative", i+1, it.Name)
		}
	}
	if p.Total.IsNegative() {
		return newValidationError("total cannot be negative")
	}
	return nil
}
