package commission

import "context"

// Repository persists order records. List results keep insertion order.
type Repository interface {
	FindByID(ctx context.Context, id string) (*OrderRecord, error)
	Save(ctx context.Context, order *OrderRecord) error
	List(ctx context.Context) ([]*OrderRecord, error)
	ListByStatus(ctx context.Context, status string) ([]*OrderRecord, error)
}
