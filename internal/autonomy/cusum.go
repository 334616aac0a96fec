package autonomy

import (
	"time"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

// CurvePoint is the state of the test after one attempt.
type CurvePoint struct {
	Attempt           int       `json:"attempt"`
	PerformedAt       time.Time `json:"performed_at"`
	Score             float64   `json:"score"`
	Success           bool      `json:"success"`
	ReviewerConfirmed bool      `json:"reviewer_confirmed"`
}

// Curve is the full LC-CUSUM result for one (resident, procedure) series.
// Applicable is false when the series is too short for the test to mean
// anything; callers branch on it instead of handling an error.
type Curve struct {
	Applicable        bool         `json:"applicable"`
	Points            []CurvePoint `json:"points"`
	Threshold         float64      `json:"threshold"`
	CompetenceReached bool         `json:"competence_reached"`
	CompetenceAt      *int         `json:"competence_at,omitempty"`
	TotalAttempts     int          `json:"total_attempts"`
}

// MinAttemptsForCurve is the shortest series the test is computed for.
const MinAttemptsForCurve = 2

// ComputeCurve runs the learning-curve CUSUM over an ordered attempt series
// (oldest first). After each attempt the cumulative log-likelihood score
// moves by the success/failure increment and is clamped at a floor of zero —
// the standard CUSUM restart convention, so an early failure run cannot
// permanently bury later good performance. Competence is declared at the
// first attempt whose post-clamp score reaches the boundary h.
//
// Pure: never fails on validated input. Series shorter than
// MinAttemptsForCurve yield Applicable=false.
func ComputeCurve(logs []domain.ProcedureLog, p Params) Curve {
	curve := Curve{
		Threshold:     p.Boundary(),
		TotalAttempts: len(logs),
	}
	if len(logs) < MinAttemptsForCurve {
		return curve
	}
	curve.Applicable = true
	curve.Points = make([]CurvePoint, 0, len(logs))

	sSuccess, sFailure := p.increments()

	cumulative := 0.0
	for i, l := range logs {
		success, confirmed := ResolveOutcome(l)
		if success {
			cumulative += sSuccess
		} else {
			cumulative += sFailure
		}
		if cumulative < 0 {
			cumulative = 0
		}

		attempt := i + 1
		curve.Points = append(curve.Points, CurvePoint{
			Attempt:           attempt,
			PerformedAt:       l.PerformedAt,
			Score:             cumulative,
			Success:           success,
			ReviewerConfirmed: confirmed,
		})

		if curve.CompetenceAt == nil && cumulative >= curve.Threshold {
			at := attempt
			curve.CompetenceAt = &at
			curve.CompetenceReached = true
		}
	}
	return curve
}
