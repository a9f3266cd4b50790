// internal/app/report_data_service.go
package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"quiz_backend/internal/domain/report"
	"quiz_backend/internal/domain/result"
	idb "quiz_backend/internal/infra/database"
)

// ReportDataService deduplicates report result payloads by content.
type ReportDataService interface {
	// FindOrCreate returns the stored payload whose content hash matches
	// the given snapshots, creating it on first occurrence. Equal
	// multisets of snapshots, in any order, resolve to the same row.
	FindOrCreate(ctx context.Context, entries []result.Snapshot) (*report.ResultData, error)
}

// ReportDataServiceImpl implements ReportDataService on top of the
// result-data repository and its unique hash constraint.
type ReportDataServiceImpl struct {
	dataRepo report.ResultDataRepository
	logger   logrus.FieldLogger
}

func NewReportDataServiceImpl(dataRepo report.ResultDataRepository, logger logrus.FieldLogger) *ReportDataServiceImpl {
	return &ReportDataServiceImpl{dataRepo: dataRepo, logger: logger}
}

// FindOrCreate canonicalizes and hashes the snapshot list, then runs an
// insert-or-get against the unique hash constraint. Losing a creation
// race to a concurrent generation is not an error: the winner's row is
// looked up and returned. A lookup failure after a duplicate-key insert
// is propagated as fatal; there is no retry loop.
func (s *ReportDataServiceImpl) FindOrCreate(ctx context.Context, entries []result.Snapshot) (*report.ResultData, error) {
	payload, err := report.MarshalCanonical(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize result entries: %w", err)
	}

	sum := sha256.Sum256(payload)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.dataRepo.GetByHash(ctx, hash)
	if err == nil {
		s.logger.Debugf("Reusing existing result data id=%d for hash %s", existing.ID, hash)
		return existing, nil
	}
	if !errors.Is(err, idb.ErrResultDataNotFound) {
		return nil, fmt.Errorf("failed to look up result data by hash %s: %w", hash, err)
	}

	data := &report.ResultData{
		Results:     payload,
		ResultsHash: hash,
	}
	err = s.dataRepo.Create(ctx, data)
	if err == nil {
		s.logger.Infof("Created result data id=%d for hash %s (%d entries)", data.ID, hash, len(entries))
		return data, nil
	}
	if !errors.Is(err, idb.ErrDuplicateResultData) {
		return nil, fmt.Errorf("failed to create result data for hash %s: %w", hash, err)
	}

	// A concurrent generation inserted the same content first; fall back
	// to the winner's row exactly once.
	s.logger.Infof("Result data for hash %s created concurrently, falling back to lookup", hash)
	winner, err := s.dataRepo.GetByHash(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("result data for hash %s vanished after duplicate insert: %w", hash, err)
	}
	return winner, nil
}
