package report

import (
	"database/sql"
	"time"

	"quiz_backend/internal/domain/result"
)

// Response is the externally visible view of a report. Aggregate
// fields are pointers so a PENDING or ERROR report renders them as
// JSON null rather than zero values.
type Response struct {
	ID                              int64             `json:"id"`
	Status                          Status            `json:"status"`
	CountUsers                      *int64            `json:"countUsers"`
	Results                         []result.Snapshot `json:"results"`
	TimeSpentSearchingUsersMillis   *int64            `json:"timeSpentSearchingUsersMillis"`
	TimeSpentSearchingResultsMillis *int64            `json:"timeSpentSearchingResultsMillis"`
	TimeSpentCommonMillis           *int64            `json:"timeSpentCommonMillis"`
	CompletedAt                     *time.Time        `json:"completedAt"`
}

// ToResponse maps a header plus its decoded payload (empty for
// PENDING/ERROR reports) into the view form.
func ToResponse(r *Report, entries []result.Snapshot) Response {
	if entries == nil {
		entries = []result.Snapshot{}
	}
	return Response{
		ID:                              r.ID,
		Status:                          r.Status,
		CountUsers:                      nullableInt64(r.CountUsers),
		Results:                         entries,
		TimeSpentSearchingUsersMillis:   nullableInt64(r.TimeSpentSearchingUsersMillis),
		TimeSpentSearchingResultsMillis: nullableInt64(r.TimeSpentSearchingResultsMillis),
		TimeSpentCommonMillis:           nullableInt64(r.TimeSpentCommonMillis),
		CompletedAt:                     nullableTime(r.CompletedAt),
	}
}

func nullableInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
