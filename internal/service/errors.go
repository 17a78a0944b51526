package service

import "errors"

// Domain failures surfaced to the handler layer. All of these are recovered at
// the operation boundary and rendered as structured API errors — they must
// never escape as panics or raw DB errors.
var (
	// ErrInvalidLot — malformed stock lot creation: negative quantity, or an
	// expiration date not in the future on the interactive path.
	ErrInvalidLot = errors.New("invalid stock lot")

	// ErrNoAvailableStock — consume requested more than the non-expired
	// available quantity. Aborts the whole checkout.
	ErrNoAvailableStock = errors.New("no available stock")

	// ErrStripsNotSellable — strip unit requested for a medicine that is only
	// sold by the box.
	ErrStripsNotSellable = errors.New("medicine cannot be sold by strip")

	// ErrInsufficientStock — the cart-add-time soft check. Distinct from
	// ErrNoAvailableStock: stock can change between add-to-cart and checkout.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidLineIndex — cart line removal with an out-of-range index.
	ErrInvalidLineIndex = errors.New("invalid cart line index")

	// ErrEmptyCart — checkout attempted with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCustomerNotFound — referenced customer id does not resolve.
	ErrCustomerNotFound = errors.New("customer not found")

	ErrMedicineNotFound = errors.New("medicine not found")
)
