package application

import (
	"context"
	"errors"
	"time"

	commission "trophy-ops/internal/commission/domain"
	"trophy-ops/internal/observability/metrics"
)

// NewOrderInput carries the fields of an "add order line" command.
type NewOrderInput struct {
	DeliveryDate     time.Time
	PONumber         string
	JobName          string
	Category         string
	SalesPersonName  string
	Quantity         int
	TotalSalesAmount float64
}

// LedgerService owns order intake and read access to the ledger.
type LedgerService struct {
	repo commission.Repository
}

// NewLedgerService constructs the service.
func NewLedgerService(repo commission.Repository) (*LedgerService, error) {
	if repo == nil {
		return nil, errors.New("ledger service: nil repository")
	}
	return &LedgerService{repo: repo}, nil
}

// AddOrder validates the input and inserts a pending order line.
// Validation failures leave the ledger untouched.
func (s *LedgerService) AddOrder(ctx context.Context, input NewOrderInput) (*commission.OrderRecord, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveOrderCreate(result, time.Since(start))
	}()

	order, err := commission.NewOrderRecord(
		commission.NewOrderID(),
		input.DeliveryDate,
		input.PONumber,
		input.JobName,
		input.Category,
		input.SalesPersonName,
		input.Quantity,
		input.TotalSalesAmount,
	)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	s.refreshPendingGauge(ctx)
	return order, nil
}

// ListOrders returns the full ledger in insertion order.
func (s *LedgerService) ListOrders(ctx context.Context) ([]*commission.OrderRecord, error) {
	return s.repo.List(ctx)
}

// Query applies the console filter to the ledger.
func (s *LedgerService) Query(ctx context.Context, filter QueryFilter) ([]*commission.OrderRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOrders(records, filter)
}

// PeriodGroups returns completed records grouped by payout period.
func (s *LedgerService) PeriodGroups(ctx context.Context) ([]PeriodGroup, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return GroupCompleted(records), nil
}

func (s *LedgerService) refreshPendingGauge(ctx context.Context) {
	pending, err := s.repo.ListByStatus(ctx, commission.StatusPending)
	if err != nil {
		return
	}
	metrics.SetPendingOrders(len(pending))
}
