package application

import (
	"context"
	"errors"
	"time"

	commission "trophy-ops/internal/commission/domain"
	"trophy-ops/internal/observability/metrics"
	"trophy-ops/internal/rateconfig"
)

// RateProvider resolves the active rate config for a category.
type RateProvider interface {
	FindActiveConfig(category string) (rateconfig.RateConfig, bool)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// SettleFailure reports an id skipped during bulk settlement.
type SettleFailure struct {
	ID  string
	Err error
}

// SettlementService transitions pending order lines to completed.
type SettlementService struct {
	repo  commission.Repository
	rates RateProvider
	clock Clock
}

// NewSettlementService constructs the service.
func NewSettlementService(repo commission.Repository, rates RateProvider, clock Clock) (*SettlementService, error) {
	if repo == nil {
		return nil, errors.New("settlement service: nil repository")
	}
	if rates == nil {
		return nil, errors.New("settlement service: nil rate provider")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &SettlementService{repo: repo, rates: rates, clock: clock}, nil
}

// SettleOne settles a single pending order line. When no active rate config
// exists for the order's category, the line still completes with a zero
// amount and an annotated description rather than blocking the operator.
func (s *SettlementService) SettleOne(ctx context.Context, id string) (*commission.OrderRecord, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveSettle(result, time.Since(start))
	}()

	if id == "" {
		result = metrics.ResultError
		return nil, commission.ErrEmptyOrderID
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		result = metrics.ResultError
		return nil, err
	}
	if order == nil {
		result = metrics.ResultError
		return nil, commission.ErrOrderNotFound
	}

	var computed commission.Result
	cfg, found := s.rates.FindActiveConfig(order.Category())
	if found {
		computed = Compute(cfg, order.Quantity(), order.TotalSalesAmount())
	} else {
		computed = degradedResult()
		metrics.IncSettleDegraded()
	}

	if err := order.Settle(computed, s.clock.Now()); err != nil {
		if errors.Is(err, commission.ErrAlreadySettled) {
			result = metrics.ResultSkipped
		} else {
			result = metrics.ResultError
		}
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		result = metrics.ResultError
		return nil, err
	}
	s.refreshPendingGauge(ctx)
	return order, nil
}

// SettleMany settles each id independently. A failure on one id does not
// roll back ids already settled in the same batch; skipped ids are reported
// so the operator can be informed.
func (s *SettlementService) SettleMany(ctx context.Context, ids []string) ([]*commission.OrderRecord, []SettleFailure) {
	metrics.ObserveSettleBulkSize(len(ids))

	var settled []*commission.OrderRecord
	var failures []SettleFailure
	for _, id := range ids {
		order, err := s.SettleOne(ctx, id)
		if err != nil {
			failures = append(failures, SettleFailure{ID: id, Err: err})
			continue
		}
		settled = append(settled, order)
	}
	return settled, failures
}

func (s *SettlementService) refreshPendingGauge(ctx context.Context) {
	pending, err := s.repo.ListByStatus(ctx, commission.StatusPending)
	if err != nil {
		return
	}
	metrics.SetPendingOrders(len(pending))
}
