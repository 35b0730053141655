package commission

import "errors"

var (
	// ErrEmptyOrderID is returned when an order id is empty.
	ErrEmptyOrderID = errors.New("commission: empty order id")
	// ErrInvalidDeliveryDate is returned when the delivery date is zero.
	ErrInvalidDeliveryDate = errors.New("commission: invalid delivery date")
	// ErrMissingPONumber is returned when the PO number is empty.
	ErrMissingPONumber = errors.New("commission: missing po number")
	// ErrMissingJobName is returned when the job name is empty.
	ErrMissingJobName = errors.New("commission: missing job name")
	// ErrMissingCategory is returned when the category is empty.
	ErrMissingCategory = errors.New("commission: missing category")
	// ErrMissingSalesPerson is returned when the sales person name is empty.
	ErrMissingSalesPerson = errors.New("commission: missing sales person")
	// ErrNegativeQuantity is returned when quantity is negative.
	ErrNegativeQuantity = errors.New("commission: negative quantity")
	// ErrNegativeSalesAmount is returned when the sales amount is negative.
	ErrNegativeSalesAmount = errors.New("commission: negative sales amount")
	// ErrInvalidProcessedAt is returned when the settlement timestamp is zero.
	ErrInvalidProcessedAt = errors.New("commission: invalid processed at")
	// ErrInvalidPeriod is returned when a period key is not YYYY-MM.
	ErrInvalidPeriod = errors.New("commission: period must be YYYY-MM")
	// ErrInvalidStatus is returned when a stored status is unknown.
	ErrInvalidStatus = errors.New("commission: invalid status")
	// ErrInconsistentRecord is returned when commission fields disagree with status.
	ErrInconsistentRecord = errors.New("commission: commission fields inconsistent with status")
	// ErrAlreadySettled is returned when settling a completed order.
	ErrAlreadySettled = errors.New("commission: order already settled")
	// ErrOrderNotFound is returned when an order is not in the ledger.
	ErrOrderNotFound = errors.New("commission: order not found")
	// ErrNilOrder is returned when saving a nil order.
	ErrNilOrder = errors.New("commission: nil order")
)

// IsValidationError reports whether err is a creation-time validation failure.
func IsValidationError(err error) bool {
	for _, candidate := range []error{
		ErrEmptyOrderID,
		ErrInvalidDeliveryDate,
		ErrMissingPONumber,
		ErrMissingJobName,
		ErrMissingCategory,
		ErrMissingSalesPerson,
		ErrNegativeQuantity,
		ErrNegativeSalesAmount,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}
