package rateconfig

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const defaultRateConfigTable = "rate_configs"

// PostgresSource loads rate configs from a database table.
type PostgresSource struct {
	db    *sql.DB
	table string
}

// SourceOption configures the source.
type SourceOption func(*PostgresSource)

// WithTable overrides the rate config table name.
func WithTable(table string) SourceOption {
	return func(s *PostgresSource) {
		if table != "" {
			s.table = table
		}
	}
}

// NewPostgresSource constructs a source with defaults.
func NewPostgresSource(db *sql.DB, opts ...SourceOption) *PostgresSource {
	source := &PostgresSource{db: db, table: defaultRateConfigTable}
	for _, opt := range opts {
		opt(source)
	}
	return source
}

// Load reads all configured categories, active and inactive.
func (s *PostgresSource) Load(ctx context.Context) ([]RateConfig, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("rateconfig source: nil db")
	}

	query := fmt.Sprintf(`
SELECT category, calc_method, rate, active
FROM %s
ORDER BY category ASC`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []RateConfig
	for rows.Next() {
		var cfg RateConfig
		var method string
		if err := rows.Scan(&cfg.Category, &method, &cfg.Rate, &cfg.Active); err != nil {
			return nil, err
		}
		cfg.Method = CalcMethod(method)
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}
