package services

import "errors"

// Domain errors surfaced by the services. Handlers map these onto HTTP
// statuses; anything else is treated as an internal error.
var (
	// ErrInvalidQuantity is returned for non-positive (or, on update,
	// negative) line item quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")

	// ErrCartUnavailable is returned when an order references a cart
	// that is empty, inactive or owned by someone else.
	ErrCartUnavailable = errors.New("cart is empty or does not belong to the user")

	// ErrInvalidStatusTransition is returned when an order status
	// change is not allowed by the transition table.
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// ErrCategoryInUse is returned when deleting a category that still
	// has books referencing it.
	ErrCategoryInUse = errors.New("category has books assigned to it")

	// ErrInvalidCredentials is returned on failed login. It is kept
	// deliberately vague so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailNotVerified is returned when an unverified user tries to
	// log in.
	ErrEmailNotVerified = errors.New("email address has not been verified")

	// ErrAccountDeactivated is returned when a deactivated user tries
	// to log in.
	ErrAccountDeactivated = errors.New("account has been deactivated")

	// ErrInvalidToken is returned for expired, malformed or already
	// consumed tokens of any kind.
	ErrInvalidToken = errors.New("invalid or expired token")
)
