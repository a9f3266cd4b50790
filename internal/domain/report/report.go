package report

import (
	"database/sql"
	"time"
)

// Status is the lifecycle state of a report. A report is created
// PENDING and moves exactly once to either FINISHED or ERROR; neither
// terminal state is ever left.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusFinished Status = "FINISHED"
	StatusError    Status = "ERROR"
)

// Report is the persisted header of one generation run. The aggregate
// fields (count, timings, payload reference, completion time) are only
// set on the FINISHED path; an ERROR report keeps them NULL.
// Corresponds to the 'reports' table.
type Report struct {
	ID                              int64
	Status                          Status
	CountUsers                      sql.NullInt64
	ResultDataID                    sql.NullInt64 // Foreign Key to report_result_data.id
	TimeSpentSearchingUsersMillis   sql.NullInt64
	TimeSpentSearchingResultsMillis sql.NullInt64
	TimeSpentCommonMillis           sql.NullInt64
	CompletedAt                     sql.NullTime
	CreatedAt                       time.Time
}

// ResultData is a content-addressed, immutable result payload. Results
// holds the canonical JSON encoding of the snapshot list and
// ResultsHash its digest; the table enforces one row per distinct hash,
// so any number of reports over identical content share a single row.
// Corresponds to the 'report_result_data' table.
type ResultData struct {
	ID          int64
	Results     []byte
	ResultsHash string
	CreatedAt   time.Time
}
