package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_backend/internal/domain/result"
)

func snapshotFixture(username, title, score string) result.Snapshot {
	return result.Snapshot{
		Score:               decimal.RequireFromString(score),
		Grade:               result.GradeA,
		TimeSpentSeconds:    120,
		CompletedAt:         time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC),
		UsernameParticipant: username,
		TitleTest:           title,
	}
}

func TestMarshalCanonical_OrderIndependent(t *testing.T) {
	a := snapshotFixture("alice", "Go Basics", "92")
	b := snapshotFixture("bob", "Go Basics", "85")
	c := snapshotFixture("carol", "Networking", "65")

	payload1, err := MarshalCanonical([]result.Snapshot{a, b, c})
	require.NoError(t, err)
	payload2, err := MarshalCanonical([]result.Snapshot{c, a, b})
	require.NoError(t, err)
	payload3, err := MarshalCanonical([]result.Snapshot{b, c, a})
	require.NoError(t, err)

	assert.Equal(t, payload1, payload2)
	assert.Equal(t, payload1, payload3)
}

func TestMarshalCanonical_NormalizesIncidentalRepresentation(t *testing.T) {
	// Same logical snapshot with a different decimal scale and a
	// non-UTC timestamp for the same instant.
	plain := snapshotFixture("alice", "Go Basics", "92.5")
	shifted := snapshotFixture("alice", "Go Basics", "92.50")
	loc := time.FixedZone("UTC+3", 3*60*60)
	shifted.CompletedAt = shifted.CompletedAt.In(loc)

	payload1, err := MarshalCanonical([]result.Snapshot{plain})
	require.NoError(t, err)
	payload2, err := MarshalCanonical([]result.Snapshot{shifted})
	require.NoError(t, err)

	assert.Equal(t, payload1, payload2)
}

func TestMarshalCanonical_KeysOnFullContent(t *testing.T) {
	// Identical results that differ only in participant identity must
	// not collapse into one payload.
	first := snapshotFixture("alice", "Go Basics", "92")
	second := snapshotFixture("bob", "Go Basics", "92")

	payload1, err := MarshalCanonical([]result.Snapshot{first})
	require.NoError(t, err)
	payload2, err := MarshalCanonical([]result.Snapshot{second})
	require.NoError(t, err)

	assert.NotEqual(t, payload1, payload2)
}

func TestMarshalCanonical_EmptyList(t *testing.T) {
	payload, err := MarshalCanonical(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))

	entries, err := UnmarshalResults(payload)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalResults_RoundTrip(t *testing.T) {
	original := []result.Snapshot{
		snapshotFixture("alice", "Go Basics", "92.50"),
		snapshotFixture("bob", "Networking", "61"),
	}

	payload, err := MarshalCanonical(original)
	require.NoError(t, err)

	decoded, err := UnmarshalResults(payload)
	require.NoError(t, err)
	require.Len(t, decoded, 2)

	assert.Equal(t, "alice", decoded[0].UsernameParticipant)
	assert.True(t, decoded[0].Score.Equal(decimal.RequireFromString("92.5")),
		"score %s should equal 92.5", decoded[0].Score)
	assert.Equal(t, result.GradeA, decoded[0].Grade)
	assert.True(t, decoded[0].CompletedAt.Equal(original[0].CompletedAt))
	assert.Equal(t, "bob", decoded[1].UsernameParticipant)
}

func TestUnmarshalResults_RejectsMalformedPayload(t *testing.T) {
	_, err := UnmarshalResults([]byte(`{"not":"a list"}`))
	assert.Error(t, err)

	_, err = UnmarshalResults([]byte(`[{"score":"not-a-number"}]`))
	assert.Error(t, err)
}
