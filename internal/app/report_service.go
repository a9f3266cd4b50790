// internal/app/report_service.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"quiz_backend/internal/domain/report"
	"quiz_backend/internal/domain/result"
	"quiz_backend/internal/domain/telegram"
	"quiz_backend/internal/domain/user"
	idb "quiz_backend/internal/infra/database"
)

// ReportService defines the operations for creating, generating and
// reading user-count/result reports.
type ReportService interface {
	// CreateReport synchronously persists a new PENDING report header
	// and returns its id, so callers can poll FindByID while generation
	// runs in the background.
	CreateReport(ctx context.Context) (int64, error)
	// GenerateReportAsync launches generation off the calling
	// goroutine and returns a handle carrying the eventual outcome.
	// Abandoning the handle does not cancel the work: the report always
	// reaches FINISHED or ERROR in storage.
	GenerateReportAsync(ctx context.Context, id int64) <-chan GenerationResult
	FindByID(ctx context.Context, id int64) (report.Response, error)
	FindAll(ctx context.Context) ([]report.Response, error)
}

// ErrReportAlreadyGenerated is returned when generation is requested
// for a report that already reached FINISHED or ERROR. Terminal states
// are never left, so the request is rejected without touching the row.
var ErrReportAlreadyGenerated = errors.New("report already in a terminal state")

// GenerationResult is delivered on the handle returned by
// GenerateReportAsync: the finished report view, or the error that sent
// the report to ERROR.
type GenerationResult struct {
	Report report.Response
	Err    error
}

// ReportServiceImpl implements the ReportService interface.
type ReportServiceImpl struct {
	userRepo      user.Repository
	resultRepo    result.Repository
	reportRepo    report.Repository
	dataRepo      report.ResultDataRepository
	reportData    ReportDataService
	statusUpdater *StatusUpdater
	notifier      telegram.Notifier // optional, may be nil
	logger        logrus.FieldLogger
}

func NewReportServiceImpl(
	userRepo user.Repository,
	resultRepo result.Repository,
	reportRepo report.Repository,
	dataRepo report.ResultDataRepository,
	reportData ReportDataService,
	statusUpdater *StatusUpdater,
	notifier telegram.Notifier,
	logger logrus.FieldLogger,
) *ReportServiceImpl {
	return &ReportServiceImpl{
		userRepo:      userRepo,
		resultRepo:    resultRepo,
		reportRepo:    reportRepo,
		dataRepo:      dataRepo,
		reportData:    reportData,
		statusUpdater: statusUpdater,
		notifier:      notifier,
		logger:        logger,
	}
}

func (s *ReportServiceImpl) CreateReport(ctx context.Context) (int64, error) {
	r := &report.Report{Status: report.StatusPending}
	if err := s.reportRepo.Create(ctx, r); err != nil {
		return 0, fmt.Errorf("failed to create report: %w", err)
	}
	s.logger.Infof("Report created with id=%d", r.ID)
	return r.ID, nil
}

func (s *ReportServiceImpl) GenerateReportAsync(ctx context.Context, id int64) <-chan GenerationResult {
	out := make(chan GenerationResult, 1)
	// The work must outlive the caller: an HTTP request context gets
	// canceled the moment the handler returns, but the report still has
	// to reach a terminal status.
	bgCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(out)

		resp, err := s.generateReport(bgCtx, id)
		if err != nil {
			s.logger.Errorf("Report generation failed for id=%d: %v", id, err)
			// A rejected regeneration must not overwrite the existing
			// terminal status, and a report that could not be loaded has
			// no row to mark.
			if !errors.Is(err, ErrReportAlreadyGenerated) && !errors.Is(err, idb.ErrReportNotFound) {
				if errSave := s.statusUpdater.SaveErrorStatus(bgCtx, id); errSave != nil {
					s.logger.Errorf("Could not record ERROR status for report id=%d: %v", id, errSave)
				}
				s.notify(fmt.Sprintf("Report %d generation failed: %v", id, err))
			}
			out <- GenerationResult{Err: err}
			return
		}

		s.logger.Infof("Report id=%d generated successfully (%d users, %d result entries)",
			id, derefInt64(resp.CountUsers), len(resp.Results))
		s.notify(fmt.Sprintf("Report %d finished: %d users, %d result entries", id, derefInt64(resp.CountUsers), len(resp.Results)))
		out <- GenerationResult{Report: resp}
	}()

	return out
}

// generateReport runs the pipeline: enumerate users, collect completed
// results per user, deduplicate the payload, populate the header and
// commit FINISHED. Any error aborts the run; the caller records ERROR.
func (s *ReportServiceImpl) generateReport(ctx context.Context, id int64) (report.Response, error) {
	startTime := time.Now()

	reportToUpdate, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return report.Response{}, fmt.Errorf("failed to load report id=%d: %w", id, err)
	}
	if reportToUpdate.Status != report.StatusPending {
		return report.Response{}, fmt.Errorf("report id=%d is already %s: %w", id, reportToUpdate.Status, ErrReportAlreadyGenerated)
	}

	usersStart := time.Now()
	userIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return report.Response{}, fmt.Errorf("failed to enumerate users: %w", err)
	}
	usersMillis := time.Since(usersStart).Milliseconds()

	resultsStart := time.Now()
	entries := make([]result.Snapshot, 0)
	for _, userID := range userIDs {
		snapshots, err := s.resultRepo.ListCompletedByUser(ctx, userID)
		if err != nil {
			return report.Response{}, fmt.Errorf("failed to fetch results for user id=%d: %w", userID, err)
		}
		entries = append(entries, snapshots...)
	}
	resultsMillis := time.Since(resultsStart).Milliseconds()

	data, err := s.reportData.FindOrCreate(ctx, entries)
	if err != nil {
		return report.Response{}, fmt.Errorf("failed to find or create result data: %w", err)
	}

	// Decode before committing FINISHED: a corrupt stored payload must
	// abort the run while the report can still legally go to ERROR.
	decoded, err := report.UnmarshalResults(data.Results)
	if err != nil {
		return report.Response{}, fmt.Errorf("failed to decode result data id=%d: %w", data.ID, err)
	}

	reportToUpdate.Status = report.StatusFinished
	reportToUpdate.CountUsers = sql.NullInt64{Int64: int64(len(userIDs)), Valid: true}
	reportToUpdate.ResultDataID = sql.NullInt64{Int64: data.ID, Valid: true}
	reportToUpdate.TimeSpentSearchingUsersMillis = sql.NullInt64{Int64: usersMillis, Valid: true}
	reportToUpdate.TimeSpentSearchingResultsMillis = sql.NullInt64{Int64: resultsMillis, Valid: true}
	reportToUpdate.TimeSpentCommonMillis = sql.NullInt64{Int64: time.Since(startTime).Milliseconds(), Valid: true}
	reportToUpdate.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}

	if err := s.statusUpdater.SaveFinishedStatus(ctx, reportToUpdate); err != nil {
		return report.Response{}, err
	}
	return report.ToResponse(reportToUpdate, decoded), nil
}

func (s *ReportServiceImpl) FindByID(ctx context.Context, id int64) (report.Response, error) {
	r, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return report.Response{}, fmt.Errorf("failed to load report id=%d: %w", id, err)
	}

	var entries []result.Snapshot
	if r.ResultDataID.Valid {
		data, err := s.dataRepo.GetByID(ctx, r.ResultDataID.Int64)
		if err != nil {
			return report.Response{}, fmt.Errorf("failed to load result data id=%d for report id=%d: %w", r.ResultDataID.Int64, id, err)
		}
		entries, err = report.UnmarshalResults(data.Results)
		if err != nil {
			return report.Response{}, fmt.Errorf("failed to decode result data id=%d: %w", data.ID, err)
		}
	}
	return report.ToResponse(r, entries), nil
}

func (s *ReportServiceImpl) FindAll(ctx context.Context) ([]report.Response, error) {
	reports, err := s.reportRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	// Eager-load together the payloads referenced by any report so the
	// list view does not fan out into one query per report.
	dataIDs := make([]int64, 0)
	seen := make(map[int64]bool)
	for _, r := range reports {
		if r.ResultDataID.Valid && !seen[r.ResultDataID.Int64] {
			seen[r.ResultDataID.Int64] = true
			dataIDs = append(dataIDs, r.ResultDataID.Int64)
		}
	}

	entriesByDataID := make(map[int64][]result.Snapshot, len(dataIDs))
	if len(dataIDs) > 0 {
		dataRows, err := s.dataRepo.ListByIDs(ctx, dataIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load result data for reports: %w", err)
		}
		for _, data := range dataRows {
			decoded, err := report.UnmarshalResults(data.Results)
			if err != nil {
				return nil, fmt.Errorf("failed to decode result data id=%d: %w", data.ID, err)
			}
			entriesByDataID[data.ID] = decoded
		}
	}

	responses := make([]report.Response, 0, len(reports))
	for _, r := range reports {
		var entries []result.Snapshot
		if r.ResultDataID.Valid {
			entries = entriesByDataID[r.ResultDataID.Int64]
		}
		responses = append(responses, report.ToResponse(r, entries))
	}
	return responses, nil
}

func (s *ReportServiceImpl) notify(text string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(text); err != nil {
		s.logger.Warnf("Failed to send report notification: %v", err)
	}
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
