package strings

import (
	"context"

	"github.com/calder-cloud/strindex/internal/domain/query"
	domrec "github.com/calder-cloud/strindex/internal/domain/record"
)

// Repository defines the storage contract for analyzed strings.
type Repository interface {
	Insert(ctx context.Context, rec *domrec.StringRecord) error
	GetByValue(ctx context.Context, value string) (domrec.StringRecord, error)
	List(ctx context.Context, f query.Filter) ([]domrec.StringRecord, error)
	DeleteByValue(ctx context.Context, value string) error
	Count(ctx context.Context) (int, error)
}
