package inventory

import (
	"errors"
	"fmt"
)

// ErrHistoryExhausted means the FIFO lot queue ran dry while quantity
// remained to be removed. The lot-sum invariant makes this unreachable;
// seeing it means position state was corrupted.
var ErrHistoryExhausted = errors.New("inventory cost history exhausted")

// ErrNonPositiveQuantity rejects additions of zero or negative quantity.
var ErrNonPositiveQuantity = errors.New("quantity must be positive")

// ErrNegativeShrinkage rejects a physical count reporting negative
// shrinkage. Zero is valid: counting everything present is the common
// case.
var ErrNegativeShrinkage = errors.New("shrinkage must not be negative")

// InsufficientStockError is returned when a removal asks for more units
// than are on hand.
type InsufficientStockError struct {
	Requested int64
	OnHand    int64
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested %d, %d on hand", e.Requested, e.OnHand)
}

// InvalidCostingMethodError is returned when a position is constructed
// with an unrecognized costing method.
type InvalidCostingMethodError struct {
	Method Method
}

func (e InvalidCostingMethodError) Error() string {
	return fmt.Sprintf("invalid costing method %q", e.Method)
}
