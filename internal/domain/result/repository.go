package result

import (
	"context"
)

// Repository exposes the read side of test results needed by report
// generation. An empty slice is a valid answer: a user who has not
// completed any test simply contributes no snapshots.
type Repository interface {
	ListCompletedByUser(ctx context.Context, userID int64) ([]Snapshot, error)
}
