// internal/infra/database/postgres_result_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"quiz_backend/internal/domain/result"
)

type PostgresResultRepository struct {
	db *sql.DB
}

func NewPostgresResultRepository(db *sql.DB) *PostgresResultRepository {
	return &PostgresResultRepository{db: db}
}

// ListCompletedByUser returns every completed test result owned by the
// user, joined with the participant username and test title the report
// payload needs. completed_at is NOT NULL on the results table, so
// every stored row is a completed attempt.
func (r *PostgresResultRepository) ListCompletedByUser(ctx context.Context, userID int64) ([]result.Snapshot, error) {
	query := `SELECT r.score, r.grade, r.time_spent_seconds, r.completed_at, u.username, t.title
               FROM results r
               JOIN users u ON u.id = r.id_user
               JOIN tests t ON t.id = r.id_test
               WHERE r.id_user = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying results for user %d: %w", userID, err)
	}
	defer rows.Close()

	snapshots := make([]result.Snapshot, 0)
	for rows.Next() {
		snap := result.Snapshot{}
		if err := rows.Scan(
			&snap.Score, &snap.Grade, &snap.TimeSpentSeconds,
			&snap.CompletedAt, &snap.UsernameParticipant, &snap.TitleTest,
		); err != nil {
			return nil, fmt.Errorf("error scanning result row for user %d: %w", userID, err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows for user %d: %w", userID, err)
	}
	return snapshots, nil
}
