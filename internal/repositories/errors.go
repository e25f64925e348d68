package repositories

import "errors"

// ErrNotFound is returned when a requested record does not exist.
// Repository errors wrap it with entity context so callers can use
// errors.Is while handlers still get a descriptive message.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique constraint would be violated.
var ErrDuplicate = errors.New("duplicate record")

// ErrInsufficientStock is returned by the conditional stock decrement
// when a book's stock_quantity is lower than the requested quantity.
var ErrInsufficientStock = errors.New("insufficient stock")
