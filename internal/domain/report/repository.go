package report

import (
	"context"
)

// Repository defines persistence for report headers. Each call is its
// own unit of work; there is no cross-call transaction, which is what
// lets a terminal-status write survive the failure of the generation
// work around it.
type Repository interface {
	// Create persists a new header and fills ID and CreatedAt.
	Create(ctx context.Context, r *Report) error
	GetByID(ctx context.Context, id int64) (*Report, error)
	ListAll(ctx context.Context) ([]*Report, error)
	// SaveGenerated writes the fully populated FINISHED header.
	SaveGenerated(ctx context.Context, r *Report) error
	// UpdateStatus rewrites only the status column.
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

// ResultDataRepository defines persistence for deduplicated result
// payloads. Create must surface a hash-uniqueness violation as a
// distinct error so a losing writer can fall back to GetByHash.
type ResultDataRepository interface {
	Create(ctx context.Context, data *ResultData) error
	GetByHash(ctx context.Context, hash string) (*ResultData, error)
	GetByID(ctx context.Context, id int64) (*ResultData, error)
	ListByIDs(ctx context.Context, ids []int64) ([]*ResultData, error)
}
