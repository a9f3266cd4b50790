package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"quiz_backend/internal/app" // For ReportService interface
)

// ReportScheduler generates a periodic snapshot report so the platform
// keeps a regular trail of user counts and test results without anyone
// having to trigger it by hand.
type ReportScheduler struct {
	cronEngine       *cron.Cron
	reportService    app.ReportService // Using the interface
	logger           logrus.FieldLogger
	cronSpecSnapshot string
}

func NewReportScheduler(
	reportService app.ReportService,
	logger logrus.FieldLogger,
	cronSpecSnapshot string, // e.g., "0 6 * * *" (6:00 AM daily)
) *ReportScheduler {
	return &ReportScheduler{
		cronEngine:       cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		reportService:    reportService,
		logger:           logger,
		cronSpecSnapshot: cronSpecSnapshot,
	}
}

func (s *ReportScheduler) Start() error {
	s.logger.Info("Starting report scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecSnapshot, func() {
		s.logger.Info("Cron job triggered for snapshot report generation.")
		s.generateSnapshotReport()
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.Info("Report scheduler started.")
	return nil
}

func (s *ReportScheduler) generateSnapshotReport() {
	ctx := context.Background()

	id, err := s.reportService.CreateReport(ctx)
	if err != nil {
		s.logger.Errorf("Scheduled snapshot report could not be created: %v", err)
		return
	}
	s.logger.Infof("Scheduled snapshot report created with id=%d", id)

	// The cron callback is already off the request path, so awaiting the
	// outcome here only affects logging, not the report itself.
	outcome := <-s.reportService.GenerateReportAsync(ctx, id)
	if outcome.Err != nil {
		s.logger.Errorf("Scheduled snapshot report id=%d failed: %v", id, outcome.Err)
		return
	}
	s.logger.Infof("Scheduled snapshot report id=%d finished.", id)
}

func (s *ReportScheduler) Stop() {
	s.logger.Info("Stopping report scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Report scheduler gracefully stopped.")
}
