// internal/app/status_updater.go
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"quiz_backend/internal/domain/report"
	idb "quiz_backend/internal/infra/database"
)

// StatusUpdater writes the terminal status of a report. Every write is
// its own unit of work, never part of the generation's; the error path
// additionally detaches from the caller's context so that a canceled
// or failed generation can never suppress the ERROR record.
type StatusUpdater struct {
	reportRepo report.Repository
	logger     logrus.FieldLogger
}

func NewStatusUpdater(reportRepo report.Repository, logger logrus.FieldLogger) *StatusUpdater {
	return &StatusUpdater{reportRepo: reportRepo, logger: logger}
}

// SaveFinishedStatus persists the fully populated FINISHED header.
func (u *StatusUpdater) SaveFinishedStatus(ctx context.Context, r *report.Report) error {
	if err := u.reportRepo.SaveGenerated(ctx, r); err != nil {
		return fmt.Errorf("failed to save FINISHED report id=%d: %w", r.ID, err)
	}
	u.logger.Debugf("FINISHED status saved for report id=%d", r.ID)
	return nil
}

// SaveErrorStatus records ERROR for the report, regardless of the state
// of the generation work that failed. The header was created before
// generation started, so a missing row here is a data-integrity fault:
// it is logged loudly and returned, never swallowed.
func (u *StatusUpdater) SaveErrorStatus(ctx context.Context, reportID int64) error {
	ctx = context.WithoutCancel(ctx)
	if err := u.reportRepo.UpdateStatus(ctx, reportID, report.StatusError); err != nil {
		if errors.Is(err, idb.ErrReportNotFound) {
			u.logger.Errorf("Report id=%d vanished before ERROR status could be recorded", reportID)
		}
		return fmt.Errorf("failed to save ERROR status for report id=%d: %w", reportID, err)
	}
	u.logger.Debugf("ERROR status saved for report id=%d", reportID)
	return nil
}
