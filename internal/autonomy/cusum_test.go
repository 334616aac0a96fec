package autonomy

import (
	"math"
	"testing"
	"time"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

func mkLog(level domain.AutonomyLevel, success *bool) domain.ProcedureLog {
	return domain.ProcedureLog{
		PerformedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		Autonomy:    level,
		Success:     success,
	}
}

func boolPtr(b bool) *bool { return &b }

func successLogs(n int) []domain.ProcedureLog {
	logs := make([]domain.ProcedureLog, 0, n)
	for i := 0; i < n; i++ {
		logs = append(logs, mkLog(domain.AutonomyAssisted, boolPtr(true)))
	}
	return logs
}

func failureLogs(n int) []domain.ProcedureLog {
	logs := make([]domain.ProcedureLog, 0, n)
	for i := 0; i < n; i++ {
		logs = append(logs, mkLog(domain.AutonomyAssisted, boolPtr(false)))
	}
	return logs
}

func TestComputeCurve_ShortSeriesNotApplicable(t *testing.T) {
	for _, n := range []int{0, 1} {
		curve := ComputeCurve(successLogs(n), DefaultSimpleParams)
		if curve.Applicable {
			t.Fatalf("series of %d attempts should not be applicable", n)
		}
		if curve.CompetenceReached || curve.CompetenceAt != nil {
			t.Fatalf("series of %d attempts should not reach competence", n)
		}
		if curve.TotalAttempts != n {
			t.Fatalf("expected total=%d got %d", n, curve.TotalAttempts)
		}
	}
}

func TestComputeCurve_ScoreNeverNegative(t *testing.T) {
	// Alternating and failure-heavy sequences must all respect the clamp.
	sequences := [][]domain.ProcedureLog{
		failureLogs(20),
		append(failureLogs(5), successLogs(3)...),
		append(successLogs(2), failureLogs(10)...),
	}
	for i, logs := range sequences {
		curve := ComputeCurve(logs, DefaultSimpleParams)
		for _, pt := range curve.Points {
			if pt.Score < 0 {
				t.Fatalf("sequence %d: negative score %v at attempt %d", i, pt.Score, pt.Attempt)
			}
		}
	}
}

func TestComputeCurve_AllSuccessCrossesAtClosedFormLength(t *testing.T) {
	p := DefaultSimpleParams
	sSuccess := math.Log((1 - p.P1) / (1 - p.P0))
	needed := int(math.Ceil(p.Boundary() / sSuccess))

	curve := ComputeCurve(successLogs(needed), p)
	if !curve.CompetenceReached {
		t.Fatalf("expected competence after %d successes", needed)
	}
	if curve.CompetenceAt == nil || *curve.CompetenceAt != needed {
		t.Fatalf("expected competence at %d, got %v", needed, curve.CompetenceAt)
	}

	// One fewer success must not cross.
	curve = ComputeCurve(successLogs(needed-1), p)
	if curve.CompetenceReached {
		t.Fatalf("competence should not be reached at %d successes", needed-1)
	}
}

func TestComputeCurve_AllFailureNeverReachesCompetence(t *testing.T) {
	curve := ComputeCurve(failureLogs(200), DefaultSimpleParams)
	if curve.CompetenceReached || curve.CompetenceAt != nil {
		t.Fatalf("all-failure series must never reach competence")
	}
	last := curve.Points[len(curve.Points)-1]
	if last.Score != 0 {
		t.Fatalf("all-failure series should stay clamped at 0, got %v", last.Score)
	}
}

func TestComputeCurve_FailThenSucceedMatchesClosedForm(t *testing.T) {
	// 3 failures then 4 successes with the simple defaults.
	logs := append(failureLogs(3), successLogs(4)...)
	p := DefaultSimpleParams

	sSuccess := math.Log(0.9 / 0.7) // ~0.251
	h := math.Log(0.8 / 0.05)       // ~2.773

	curve := ComputeCurve(logs, p)
	if math.Abs(curve.Threshold-h) > 1e-9 {
		t.Fatalf("threshold mismatch: got %v want %v", curve.Threshold, h)
	}

	// Failures clamp at zero, so after the 4 successes the score is exactly
	// 4 * sSuccess, still well below h.
	last := curve.Points[len(curve.Points)-1]
	if math.Abs(last.Score-4*sSuccess) > 1e-9 {
		t.Fatalf("expected score %v after sequence, got %v", 4*sSuccess, last.Score)
	}
	if curve.CompetenceReached {
		t.Fatalf("4 successes cannot cross h=%v with increment %v", h, sSuccess)
	}

	// Extending the success run to the closed-form count crosses exactly
	// there: the 3 clamped failures cost nothing.
	needed := int(math.Ceil(h / sSuccess))
	logs = append(failureLogs(3), successLogs(needed)...)
	curve = ComputeCurve(logs, p)
	if curve.CompetenceAt == nil || *curve.CompetenceAt != 3+needed {
		t.Fatalf("expected crossing at %d, got %v", 3+needed, curve.CompetenceAt)
	}
}

func TestComputeCurve_FallbackOutcomeFromDeclaredLevel(t *testing.T) {
	logs := []domain.ProcedureLog{
		mkLog(domain.AutonomyObserved, nil),         // failure by fallback
		mkLog(domain.AutonomyAssisted, nil),         // failure by fallback
		mkLog(domain.AutonomyCapable, nil),          // success by fallback
		mkLog(domain.AutonomyAutonomous, nil),       // success by fallback
		mkLog(domain.AutonomyObserved, boolPtr(true)), // validated success wins over low tier
	}
	curve := ComputeCurve(logs, DefaultSimpleParams)

	wantSuccess := []bool{false, false, true, true, true}
	wantConfirmed := []bool{false, false, false, false, true}
	for i, pt := range curve.Points {
		if pt.Success != wantSuccess[i] {
			t.Fatalf("attempt %d: success=%v want %v", i+1, pt.Success, wantSuccess[i])
		}
		if pt.ReviewerConfirmed != wantConfirmed[i] {
			t.Fatalf("attempt %d: reviewer_confirmed=%v want %v", i+1, pt.ReviewerConfirmed, wantConfirmed[i])
		}
	}
}

func TestComputeCurve_ValidatedFailureOverridesHighTier(t *testing.T) {
	logs := []domain.ProcedureLog{
		mkLog(domain.AutonomyAutonomous, boolPtr(false)),
		mkLog(domain.AutonomyAutonomous, boolPtr(false)),
	}
	curve := ComputeCurve(logs, DefaultSimpleParams)
	for _, pt := range curve.Points {
		if pt.Success {
			t.Fatalf("validated failure must win over declared level")
		}
	}
}
