package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_backend/internal/domain/report"
	"quiz_backend/internal/domain/result"
	idb "quiz_backend/internal/infra/database"
)

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// fakeResultDataRepo is an in-memory stand-in for the Postgres
// result-data repository, including its unique-hash behavior.
type fakeResultDataRepo struct {
	mu          sync.Mutex
	rows        map[string]*report.ResultData // keyed by hash
	nextID      int64
	createCalls int
	// raceOnCreate simulates a concurrent generation winning the
	// unique-constraint race: the row appears, but Create reports a
	// duplicate to the caller.
	raceOnCreate bool
	// dropAfterDup simulates the pathological case where the winning
	// row is gone by the time the loser looks it up.
	dropAfterDup bool
	// corruptWinner stores an undecodable payload in the winning row,
	// modeling a damaged row surviving in storage.
	corruptWinner bool
}

func newFakeResultDataRepo() *fakeResultDataRepo {
	return &fakeResultDataRepo{rows: make(map[string]*report.ResultData)}
}

func (f *fakeResultDataRepo) Create(ctx context.Context, data *report.ResultData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if _, ok := f.rows[data.ResultsHash]; ok {
		return idb.ErrDuplicateResultData
	}
	if f.raceOnCreate {
		f.raceOnCreate = false
		if !f.dropAfterDup {
			results := append([]byte(nil), data.Results...)
			if f.corruptWinner {
				results = []byte("{not json")
			}
			f.nextID++
			f.rows[data.ResultsHash] = &report.ResultData{
				ID:          f.nextID,
				Results:     results,
				ResultsHash: data.ResultsHash,
				CreatedAt:   time.Now(),
			}
		}
		return idb.ErrDuplicateResultData
	}
	f.nextID++
	data.ID = f.nextID
	data.CreatedAt = time.Now()
	stored := *data
	stored.Results = append([]byte(nil), data.Results...)
	f.rows[data.ResultsHash] = &stored
	return nil
}

func (f *fakeResultDataRepo) GetByHash(ctx context.Context, hash string) (*report.ResultData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[hash]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, idb.ErrResultDataNotFound
}

func (f *fakeResultDataRepo) GetByID(ctx context.Context, id int64) (*report.ResultData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, idb.ErrResultDataNotFound
}

func (f *fakeResultDataRepo) ListByIDs(ctx context.Context, ids []int64) ([]*report.ResultData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	rows := make([]*report.ResultData, 0, len(ids))
	for _, row := range f.rows {
		if wanted[row.ID] {
			copied := *row
			rows = append(rows, &copied)
		}
	}
	return rows, nil
}

func (f *fakeResultDataRepo) rowCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

func dataEntry(username, title, score string) result.Snapshot {
	return result.Snapshot{
		Score:               decimal.RequireFromString(score),
		Grade:               result.GradeB,
		TimeSpentSeconds:    300,
		CompletedAt:         time.Date(2025, 5, 2, 16, 0, 0, 0, time.UTC),
		UsernameParticipant: username,
		TitleTest:           title,
	}
}

func TestFindOrCreate_HashDeterminism(t *testing.T) {
	repo := newFakeResultDataRepo()
	svc := NewReportDataServiceImpl(repo, newTestLogger())
	ctx := context.Background()

	a := dataEntry("alice", "Go Basics", "92")
	b := dataEntry("bob", "Networking", "73")
	c := dataEntry("carol", "Go Basics", "55")

	first, err := svc.FindOrCreate(ctx, []result.Snapshot{a, b, c})
	require.NoError(t, err)

	second, err := svc.FindOrCreate(ctx, []result.Snapshot{c, b, a})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ResultsHash, second.ResultsHash)
	assert.Equal(t, 1, repo.rowCount())
	assert.Equal(t, 1, repo.createCalls)
}

func TestFindOrCreate_Idempotent(t *testing.T) {
	repo := newFakeResultDataRepo()
	svc := NewReportDataServiceImpl(repo, newTestLogger())
	ctx := context.Background()

	entries := []result.Snapshot{dataEntry("alice", "Go Basics", "92")}

	first, err := svc.FindOrCreate(ctx, entries)
	require.NoError(t, err)
	second, err := svc.FindOrCreate(ctx, entries)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.rowCount())
}

func TestFindOrCreate_KeysOnParticipantIdentity(t *testing.T) {
	repo := newFakeResultDataRepo()
	svc := NewReportDataServiceImpl(repo, newTestLogger())
	ctx := context.Background()

	// Identical result content from two different participants must
	// produce two distinct payloads.
	first, err := svc.FindOrCreate(ctx, []result.Snapshot{dataEntry("alice", "Go Basics", "92")})
	require.NoError(t, err)
	second, err := svc.FindOrCreate(ctx, []result.Snapshot{dataEntry("bob", "Go Basics", "92")})
	require.NoError(t, err)

	assert.NotEqual(t, first.ResultsHash, second.ResultsHash)
	assert.Equal(t, 2, repo.rowCount())
}

func TestFindOrCreate_EmptyEntries(t *testing.T) {
	repo := newFakeResultDataRepo()
	svc := NewReportDataServiceImpl(repo, newTestLogger())

	data, err := svc.FindOrCreate(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "[]", string(data.Results))
	assert.Len(t, data.ResultsHash, 64)
	assert.Equal(t, 1, repo.rowCount())
}

func TestFindOrCreate_LostRaceFallsBackToWinner(t *testing.T) {
	repo := newFakeResultDataRepo()
	repo.raceOnCreate = true
	svc := NewReportDataServiceImpl(repo, newTestLogger())

	data, err := svc.FindOrCreate(context.Background(), []result.Snapshot{dataEntry("alice", "Go Basics", "92")})
	require.NoError(t, err)

	assert.NotZero(t, data.ID)
	assert.Equal(t, 1, repo.rowCount())
}

func TestFindOrCreate_RaceFallbackFailureIsFatal(t *testing.T) {
	repo := newFakeResultDataRepo()
	repo.raceOnCreate = true
	repo.dropAfterDup = true
	svc := NewReportDataServiceImpl(repo, newTestLogger())

	_, err := svc.FindOrCreate(context.Background(), []result.Snapshot{dataEntry("alice", "Go Basics", "92")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, idb.ErrResultDataNotFound))
}
