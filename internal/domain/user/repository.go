package user

import (
	"context"
)

// Repository enumerates the registered users that reports cover.
// The id list is bounded by the platform's population; no paging.
type Repository interface {
	ListIDs(ctx context.Context) ([]int64, error)
}
