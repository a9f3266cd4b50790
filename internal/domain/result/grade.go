package result

import (
	"github.com/shopspring/decimal"
)

// Grade is the final mark awarded for a completed test attempt.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeF Grade = "F"
)

var (
	gradeBoundA = decimal.NewFromInt(90)
	gradeBoundB = decimal.NewFromInt(80)
	gradeBoundC = decimal.NewFromInt(60)

	oneHundred = decimal.NewFromInt(100)
)

// CalculateGrade maps a scored-points-to-max ratio onto a Grade.
// The percentage is computed at scale 4 with half-up rounding before
// the 90/80/60 thresholds are applied.
func CalculateGrade(pointCurr, pointMax decimal.Decimal) Grade {
	percentage := pointCurr.DivRound(pointMax, 4).Mul(oneHundred)

	switch {
	case percentage.GreaterThanOrEqual(gradeBoundA):
		return GradeA
	case percentage.GreaterThanOrEqual(gradeBoundB):
		return GradeB
	case percentage.GreaterThanOrEqual(gradeBoundC):
		return GradeC
	default:
		return GradeF
	}
}
