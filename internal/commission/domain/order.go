package commission

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Result carries the commission computed and attached at settlement.
type Result struct {
	RateDisplay       string  `json:"rate_display"`
	BaseAmountDisplay string  `json:"base_amount_display"`
	Amount            float64 `json:"amount"`
	Description       string  `json:"description"`
}

// OrderRecord is the root of the commission ledger domain.
// Identity: order id assigned at creation, immutable.
type OrderRecord struct {
	id              string
	deliveryDate    time.Time
	poNumber        string
	jobName         string
	category        string
	salesPersonName string
	quantity        int
	totalSales      float64

	status      string
	result      *Result
	processedAt time.Time
	period      PeriodKey

	isNew bool
}

// NewOrderID generates a random order id.
func NewOrderID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "ord-" + hex.EncodeToString(buf)
}

// NewOrderRecord creates a pending order line after validating required fields.
func NewOrderRecord(id string, deliveryDate time.Time, poNumber, jobName, category, salesPersonName string, quantity int, totalSales float64) (*OrderRecord, error) {
	if id == "" {
		return nil, ErrEmptyOrderID
	}
	if deliveryDate.IsZero() {
		return nil, ErrInvalidDeliveryDate
	}
	if strings.TrimSpace(poNumber) == "" {
		return nil, ErrMissingPONumber
	}
	if strings.TrimSpace(jobName) == "" {
		return nil, ErrMissingJobName
	}
	if strings.TrimSpace(category) == "" {
		return nil, ErrMissingCategory
	}
	if strings.TrimSpace(salesPersonName) == "" {
		return nil, ErrMissingSalesPerson
	}
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}
	if totalSales < 0 {
		return nil, ErrNegativeSalesAmount
	}

	return &OrderRecord{
		id:              id,
		deliveryDate:    deliveryDate,
		poNumber:        poNumber,
		jobName:         jobName,
		category:        category,
		salesPersonName: salesPersonName,
		quantity:        quantity,
		totalSales:      totalSales,
		status:          StatusPending,
		isNew:           true,
	}, nil
}

// RehydrateOrder reconstructs a persisted order record.
// Commission fields must be all present or all absent, consistent with status.
func RehydrateOrder(id string, deliveryDate time.Time, poNumber, jobName, category, salesPersonName string, quantity int, totalSales float64, status string, result *Result, processedAt time.Time, period PeriodKey) (*OrderRecord, error) {
	order, err := NewOrderRecord(id, deliveryDate, poNumber, jobName, category, salesPersonName, quantity, totalSales)
	if err != nil {
		return nil, err
	}
	switch status {
	case StatusPending:
		if result != nil || !processedAt.IsZero() || period != "" {
			return nil, ErrInconsistentRecord
		}
	case StatusCompleted:
		if result == nil || processedAt.IsZero() || period == "" {
			return nil, ErrInconsistentRecord
		}
		attached := *result
		order.status = StatusCompleted
		order.result = &attached
		order.processedAt = processedAt
		order.period = period
	default:
		return nil, ErrInvalidStatus
	}
	order.isNew = false
	return order, nil
}

// Settle transitions the order from pending to completed exactly once,
// attaching the commission result and stamping the payout period from at.
func (o *OrderRecord) Settle(result Result, at time.Time) error {
	if o.status == StatusCompleted {
		return ErrAlreadySettled
	}
	period, err := NewPeriodKey(at)
	if err != nil {
		return err
	}
	attached := result
	o.result = &attached
	o.processedAt = at.UTC()
	o.period = period
	o.status = StatusCompleted
	return nil
}

// ID returns the order identity.
func (o *OrderRecord) ID() string { return o.id }

// DeliveryDate returns the business delivery date.
func (o *OrderRecord) DeliveryDate() time.Time { return o.deliveryDate }

// PONumber returns the purchase order number.
func (o *OrderRecord) PONumber() string { return o.poNumber }

// JobName returns the job name.
func (o *OrderRecord) JobName() string { return o.jobName }

// Category returns the product category used for rate lookup.
func (o *OrderRecord) Category() string { return o.category }

// SalesPersonName returns the sales person display name.
func (o *OrderRecord) SalesPersonName() string { return o.salesPersonName }

// Quantity returns the ordered quantity.
func (o *OrderRecord) Quantity() int { return o.quantity }

// TotalSalesAmount returns the total sales amount of the line.
func (o *OrderRecord) TotalSalesAmount() float64 { return o.totalSales }

// Status returns the lifecycle status.
func (o *OrderRecord) Status() string { return o.status }

// IsCompleted reports whether the order has been settled.
func (o *OrderRecord) IsCompleted() bool { return o.status == StatusCompleted }

// Commission returns a copy of the attached result, or nil while pending.
func (o *OrderRecord) Commission() *Result {
	if o.result == nil {
		return nil
	}
	result := *o.result
	return &result
}

// CommissionAmount returns the settled amount, zero while pending.
func (o *OrderRecord) CommissionAmount() float64 {
	if o.result == nil {
		return 0
	}
	return o.result.Amount
}

// ProcessedAt returns the settlement timestamp.
func (o *OrderRecord) ProcessedAt() time.Time { return o.processedAt }

// Period returns the payout period key.
func (o *OrderRecord) Period() PeriodKey { return o.period }

// IsNew reports whether the record was freshly created.
func (o *OrderRecord) IsNew() bool { return o.isNew }

// MarkPersisted marks the record as persisted.
func (o *OrderRecord) MarkPersisted() {
	if o != nil {
		o.isNew = false
	}
}

// Clone returns a detached copy marked as persisted.
func (o *OrderRecord) Clone() *OrderRecord {
	if o == nil {
		return nil
	}
	copy := *o
	copy.isNew = false
	if o.result != nil {
		result := *o.result
		copy.result = &result
	}
	return &copy
}
