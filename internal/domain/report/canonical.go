package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"quiz_backend/internal/domain/result"
)

// canonicalEntry is the normalized wire form of one result snapshot.
// Scores are fixed to scale 2 and timestamps to UTC RFC3339Nano so that
// logically equal snapshots always encode to identical bytes no matter
// which path produced them.
type canonicalEntry struct {
	Score               string `json:"score"`
	Grade               string `json:"grade"`
	TimeSpentSeconds    int    `json:"timeSpentSeconds"`
	CompletedAt         string `json:"completedAt"`
	UsernameParticipant string `json:"usernameParticipant"`
	TitleTest           string `json:"titleTest"`
}

// MarshalCanonical encodes a snapshot list into its canonical JSON
// form. The input order is irrelevant: entries are sorted on their full
// content before encoding, so permutations of an equal multiset yield
// identical bytes (and therefore identical content hashes).
func MarshalCanonical(entries []result.Snapshot) ([]byte, error) {
	canonical := make([]canonicalEntry, 0, len(entries))
	for _, e := range entries {
		canonical = append(canonical, canonicalEntry{
			Score:               e.Score.StringFixed(2),
			Grade:               string(e.Grade),
			TimeSpentSeconds:    e.TimeSpentSeconds,
			CompletedAt:         e.CompletedAt.UTC().Format(time.RFC3339Nano),
			UsernameParticipant: e.UsernameParticipant,
			TitleTest:           e.TitleTest,
		})
	}

	sort.Slice(canonical, func(i, j int) bool {
		a, b := canonical[i], canonical[j]
		if a.UsernameParticipant != b.UsernameParticipant {
			return a.UsernameParticipant < b.UsernameParticipant
		}
		if a.TitleTest != b.TitleTest {
			return a.TitleTest < b.TitleTest
		}
		if a.CompletedAt != b.CompletedAt {
			return a.CompletedAt < b.CompletedAt
		}
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		if a.Grade != b.Grade {
			return a.Grade < b.Grade
		}
		return a.TimeSpentSeconds < b.TimeSpentSeconds
	})

	payload, err := json.Marshal(canonical)
	if err != nil {
		return nil, fmt.Errorf("error encoding canonical result entries: %w", err)
	}
	return payload, nil
}

// UnmarshalResults decodes a stored canonical payload back into
// snapshots for the report views.
func UnmarshalResults(payload []byte) ([]result.Snapshot, error) {
	var canonical []canonicalEntry
	if err := json.Unmarshal(payload, &canonical); err != nil {
		return nil, fmt.Errorf("error decoding stored result entries: %w", err)
	}

	entries := make([]result.Snapshot, 0, len(canonical))
	for _, ce := range canonical {
		score, err := decimal.NewFromString(ce.Score)
		if err != nil {
			return nil, fmt.Errorf("error decoding stored score %q: %w", ce.Score, err)
		}
		completedAt, err := time.Parse(time.RFC3339Nano, ce.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("error decoding stored completion time %q: %w", ce.CompletedAt, err)
		}
		entries = append(entries, result.Snapshot{
			Score:               score,
			Grade:               result.Grade(ce.Grade),
			TimeSpentSeconds:    ce.TimeSpentSeconds,
			CompletedAt:         completedAt,
			UsernameParticipant: ce.UsernameParticipant,
			TitleTest:           ce.TitleTest,
		})
	}
	return entries, nil
}
