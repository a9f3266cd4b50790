// internal/infra/database/postgres_report_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"quiz_backend/internal/domain/report"
)

// Custom errors specific to the report repositories
var ErrReportNotFound = fmt.Errorf("report not found")
var ErrResultDataNotFound = fmt.Errorf("report result data not found")
var ErrDuplicateResultData = fmt.Errorf("duplicate report result data (results_hash)")

type PostgresReportRepository struct {
	db *sql.DB
}

func NewPostgresReportRepository(db *sql.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

func (r *PostgresReportRepository) Create(ctx context.Context, rep *report.Report) error {
	query := `INSERT INTO reports (status)
               VALUES ($1)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, rep.Status).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating report: %w", err)
	}
	return nil
}

func (r *PostgresReportRepository) GetByID(ctx context.Context, id int64) (*report.Report, error) {
	query := `SELECT id, status, count_users, id_result_data,
                      time_spent_searching_users_millis, time_spent_searching_results_millis,
                      time_spent_common_millis, completed_at, created_at
               FROM reports WHERE id = $1`
	rep := report.Report{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rep.ID, &rep.Status, &rep.CountUsers, &rep.ResultDataID,
		&rep.TimeSpentSearchingUsersMillis, &rep.TimeSpentSearchingResultsMillis,
		&rep.TimeSpentCommonMillis, &rep.CompletedAt, &rep.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("error getting report by ID: %w", err)
	}
	return &rep, nil
}

func (r *PostgresReportRepository) ListAll(ctx context.Context) ([]*report.Report, error) {
	query := `SELECT id, status, count_users, id_result_data,
                      time_spent_searching_users_millis, time_spent_searching_results_millis,
                      time_spent_common_millis, completed_at, created_at
               FROM reports ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*report.Report, 0)
	for rows.Next() {
		rep := report.Report{}
		if err := rows.Scan(
			&rep.ID, &rep.Status, &rep.CountUsers, &rep.ResultDataID,
			&rep.TimeSpentSearchingUsersMillis, &rep.TimeSpentSearchingResultsMillis,
			&rep.TimeSpentCommonMillis, &rep.CompletedAt, &rep.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		reports = append(reports, &rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, nil
}

func (r *PostgresReportRepository) SaveGenerated(ctx context.Context, rep *report.Report) error {
	query := `UPDATE reports
               SET status = $1, count_users = $2, id_result_data = $3,
                   time_spent_searching_users_millis = $4,
                   time_spent_searching_results_millis = $5,
                   time_spent_common_millis = $6, completed_at = $7
               WHERE id = $8`
	res, err := r.db.ExecContext(ctx, query,
		rep.Status, rep.CountUsers, rep.ResultDataID,
		rep.TimeSpentSearchingUsersMillis, rep.TimeSpentSearchingResultsMillis,
		rep.TimeSpentCommonMillis, rep.CompletedAt, rep.ID,
	)
	if err != nil {
		return fmt.Errorf("error saving generated report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking saved report rows: %w", err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *PostgresReportRepository) UpdateStatus(ctx context.Context, id int64, status report.Status) error {
	query := `UPDATE reports SET status = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("error updating report status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking updated report rows: %w", err)
	}
	if affected == 0 {
		return ErrReportNotFound
	}
	return nil
}
