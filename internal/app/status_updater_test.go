package app

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	idb "quiz_backend/internal/infra/database"
)

func TestStatusUpdater_MissingReportOnErrorPath(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	reports := newFakeReportRepo()
	updater := NewStatusUpdater(reports, logger)

	err := updater.SaveErrorStatus(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, errors.Is(err, idb.ErrReportNotFound))

	// A report row missing on the error path is a data-integrity fault:
	// logged at Error level, not only returned.
	require.NotEmpty(t, hook.Entries)
	last := hook.LastEntry()
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.Contains(t, last.Message, "vanished")
}
