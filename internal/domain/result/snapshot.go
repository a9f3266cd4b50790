package result

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is one participant's summary of a single completed test:
// the scored outcome plus the identity needed to read the report
// without further lookups.
type Snapshot struct {
	Score               decimal.Decimal `json:"score"`
	Grade               Grade           `json:"grade"`
	TimeSpentSeconds    int             `json:"timeSpentSeconds"`
	CompletedAt         time.Time       `json:"completedAt"`
	UsernameParticipant string          `json:"usernameParticipant"`
	TitleTest           string          `json:"titleTest"`
}
