package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	commission "trophy-ops/internal/commission/domain"
)

const defaultLedgerTable = "commission_orders"

const ledgerColumns = `
id, delivery_date, po_number, job_name, category, sales_person,
quantity, total_sales, status, rate_display, base_amount_display,
commission_amount, description, processed_at, period`

// LedgerRepository is a Postgres ledger implementation. Each save bumps a
// version counter so a record settled by another operator between read and
// write is detectable.
type LedgerRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*LedgerRepository)

// WithTable overrides the default table.
func WithTable(table string) RepositoryOption {
	return func(repo *LedgerRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// NewLedgerRepository constructs a repository with defaults.
func NewLedgerRepository(db *sql.DB, opts ...RepositoryOption) *LedgerRepository {
	repo := &LedgerRepository{db: db, table: defaultLedgerTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// FindByID loads an order record.
func (r *LedgerRepository) FindByID(ctx context.Context, id string) (*commission.OrderRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}
	if id == "" {
		return nil, commission.ErrEmptyOrderID
	}

	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE id = $1
LIMIT 1`, ledgerColumns, r.table)

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return order, err
}

// Save upserts the order record.
func (r *LedgerRepository) Save(ctx context.Context, order *commission.OrderRecord) error {
	if r == nil || r.db == nil {
		return errors.New("ledger repo: nil db")
	}
	if order == nil {
		return commission.ErrNilOrder
	}

	var rateDisplay, baseDisplay, description sql.NullString
	var amount sql.NullFloat64
	var processedAt sql.NullTime
	var period sql.NullString
	if result := order.Commission(); result != nil {
		rateDisplay = sql.NullString{String: result.RateDisplay, Valid: true}
		baseDisplay = sql.NullString{String: result.BaseAmountDisplay, Valid: true}
		description = sql.NullString{String: result.Description, Valid: true}
		amount = sql.NullFloat64{Float64: result.Amount, Valid: true}
		processedAt = sql.NullTime{Time: order.ProcessedAt(), Valid: true}
		period = sql.NullString{String: order.Period().String(), Valid: true}
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	id, delivery_date, po_number, job_name, category, sales_person,
	quantity, total_sales, status, rate_display, base_amount_display,
	commission_amount, description, processed_at, period, version
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1
)
ON CONFLICT (id)
DO UPDATE SET
	status = EXCLUDED.status,
	rate_display = EXCLUDED.rate_display,
	base_amount_display = EXCLUDED.base_amount_display,
	commission_amount = EXCLUDED.commission_amount,
	description = EXCLUDED.description,
	processed_at = EXCLUDED.processed_at,
	period = EXCLUDED.period,
	version = %s.version + 1,
	updated_at = NOW()`, r.table, r.table)

	_, err := r.db.ExecContext(
		ctx,
		query,
		order.ID(),
		order.DeliveryDate().UTC(),
		order.PONumber(),
		order.JobName(),
		order.Category(),
		order.SalesPersonName(),
		order.Quantity(),
		order.TotalSalesAmount(),
		order.Status(),
		rateDisplay,
		baseDisplay,
		amount,
		description,
		processedAt,
		period,
	)
	if err != nil {
		return err
	}

	order.MarkPersisted()
	return nil
}

// List returns all records in insertion order.
func (r *LedgerRepository) List(ctx context.Context) ([]*commission.OrderRecord, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM %s
ORDER BY created_at ASC, id ASC`, ledgerColumns, r.table)
	return r.queryOrders(ctx, query)
}

// ListByStatus returns records with the given status in insertion order.
func (r *LedgerRepository) ListByStatus(ctx context.Context, status string) ([]*commission.OrderRecord, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM %s
WHERE status = $1
ORDER BY created_at ASC, id ASC`, ledgerColumns, r.table)
	return r.queryOrders(ctx, query, status)
}

func (r *LedgerRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*commission.OrderRecord, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("ledger repo: nil db")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*commission.OrderRecord
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, order)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*commission.OrderRecord, error) {
	var (
		id, poNumber, jobName, category, salesPerson, status string
		deliveryDate                                         sql.NullTime
		quantity                                             int
		totalSales                                           float64
		rateDisplay, baseDisplay, description, period        sql.NullString
		amount                                               sql.NullFloat64
		processedAt                                          sql.NullTime
	)
	if err := row.Scan(
		&id, &deliveryDate, &poNumber, &jobName, &category, &salesPerson,
		&quantity, &totalSales, &status, &rateDisplay, &baseDisplay,
		&amount, &description, &processedAt, &period,
	); err != nil {
		return nil, err
	}

	var result *commission.Result
	if status == commission.StatusCompleted {
		result = &commission.Result{
			RateDisplay:       rateDisplay.String,
			BaseAmountDisplay: baseDisplay.String,
			Amount:            amount.Float64,
			Description:       description.String,
		}
	}
	return commission.RehydrateOrder(
		id, deliveryDate.Time, poNumber, jobName, category, salesPerson,
		quantity, totalSales, status, result, processedAt.Time,
		commission.PeriodKey(period.String),
	)
}
