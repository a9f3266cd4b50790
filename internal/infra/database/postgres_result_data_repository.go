// internal/infra/database/postgres_result_data_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq" // For pq.Array and unique-violation detection

	"quiz_backend/internal/domain/report"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation; the one on results_hash is what enforces dedup under
// concurrent report generations.
const uniqueViolation = "23505"

type PostgresResultDataRepository struct {
	db *sql.DB
}

func NewPostgresResultDataRepository(db *sql.DB) *PostgresResultDataRepository {
	return &PostgresResultDataRepository{db: db}
}

func (r *PostgresResultDataRepository) Create(ctx context.Context, data *report.ResultData) error {
	query := `INSERT INTO report_result_data (results, results_hash)
               VALUES ($1, $2)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, data.Results, data.ResultsHash).Scan(&data.ID, &data.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateResultData
		}
		return fmt.Errorf("error creating report result data: %w", err)
	}
	return nil
}

func (r *PostgresResultDataRepository) GetByHash(ctx context.Context, hash string) (*report.ResultData, error) {
	query := `SELECT id, results, results_hash, created_at
               FROM report_result_data WHERE results_hash = $1`
	data := report.ResultData{}
	err := r.db.QueryRowContext(ctx, query, hash).Scan(&data.ID, &data.Results, &data.ResultsHash, &data.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrResultDataNotFound
		}
		return nil, fmt.Errorf("error getting report result data by hash: %w", err)
	}
	return &data, nil
}

func (r *PostgresResultDataRepository) GetByID(ctx context.Context, id int64) (*report.ResultData, error) {
	query := `SELECT id, results, results_hash, created_at
               FROM report_result_data WHERE id = $1`
	data := report.ResultData{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&data.ID, &data.Results, &data.ResultsHash, &data.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrResultDataNotFound
		}
		return nil, fmt.Errorf("error getting report result data by ID: %w", err)
	}
	return &data, nil
}

func (r *PostgresResultDataRepository) ListByIDs(ctx context.Context, ids []int64) ([]*report.ResultData, error) {
	if len(ids) == 0 {
		return []*report.ResultData{}, nil
	}

	query := `SELECT id, results, results_hash, created_at
               FROM report_result_data WHERE id = ANY($1::bigint[])`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying report result data by IDs: %w", err)
	}
	defer rows.Close()

	dataRows := make([]*report.ResultData, 0, len(ids))
	for rows.Next() {
		data := report.ResultData{}
		if err := rows.Scan(&data.ID, &data.Results, &data.ResultsHash, &data.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning report result data row: %w", err)
		}
		dataRows = append(dataRows, &data)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report result data rows: %w", err)
	}
	return dataRows, nil
}
