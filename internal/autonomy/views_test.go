package autonomy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

func TestBuildMatrixCell_States(t *testing.T) {
	userID := uuid.New()
	procID := uuid.New()

	cases := []struct {
		name      string
		data      PairData
		wantState CellState
	}{
		{
			"empty pair",
			PairData{},
			CellNotStarted,
		},
		{
			"learning",
			PairData{Logs: levelLogs(domain.AutonomyObserved, domain.AutonomyAssisted)},
			CellLearning,
		},
		{
			"mastered record",
			PairData{Logs: levelLogs(domain.AutonomyAutonomous), Record: masteredRecord(1, false)},
			CellMastered,
		},
		{
			"locked record",
			PairData{Record: &domain.ProcedureCompetence{IsMastered: true, IsLocked: true}},
			CellLocked,
		},
		{
			"pre-acquired record",
			PairData{Record: masteredRecord(0, true)},
			CellPreAcquired,
		},
	}
	for _, tc := range cases {
		cell := BuildMatrixCell(userID, procID, tc.data, 3)
		if cell.State != tc.wantState {
			t.Fatalf("%s: got state %s want %s", tc.name, cell.State, tc.wantState)
		}
	}
}

func TestBuildMatrixCell_AlertWinsButKeepsLevel(t *testing.T) {
	data := PairData{
		Logs:   levelLogs(domain.AutonomyAutonomous, domain.AutonomyAutonomous),
		Record: masteredRecord(2, false),
		Band:   &Band{Min: 5, Max: 20},
	}
	cell := BuildMatrixCell(uuid.New(), uuid.New(), data, 3)

	if cell.State != CellAlert {
		t.Fatalf("over-confident cell must render as alert, got %s", cell.State)
	}
	if cell.AlertType == nil || *cell.AlertType != AlertOverConfidence {
		t.Fatalf("expected over_confidence alert type, got %v", cell.AlertType)
	}
	// The underlying classification must survive alongside the alert.
	if cell.Level != LevelMastered {
		t.Fatalf("expected underlying level mastered, got %s", cell.Level)
	}
	if cell.MasteredAtLogCount == nil || *cell.MasteredAtLogCount != 2 {
		t.Fatalf("expected mastered_at_log_count=2, got %v", cell.MasteredAtLogCount)
	}
	if cell.LogCount != 2 || cell.AutonomousCount != 2 {
		t.Fatalf("counts lost: %+v", cell)
	}
}

func TestBuildMatrixCell_UnderConfidenceAlert(t *testing.T) {
	data := PairData{
		Logs: levelLogs(repeatLevel(domain.AutonomyAssisted, 25)...),
		Band: &Band{Min: 3, Max: 10},
	}
	cell := BuildMatrixCell(uuid.New(), uuid.New(), data, 3)
	if cell.State != CellAlert {
		t.Fatalf("expected alert state, got %s", cell.State)
	}
	if cell.AlertType == nil || *cell.AlertType != AlertUnderConfidence {
		t.Fatalf("expected under_confidence, got %v", cell.AlertType)
	}
	if cell.Level != LevelLearning {
		t.Fatalf("expected underlying level learning, got %s", cell.Level)
	}
}

func repeatLevel(l domain.AutonomyLevel, n int) []domain.AutonomyLevel {
	out := make([]domain.AutonomyLevel, n)
	for i := range out {
		out[i] = l
	}
	return out
}

func TestBuildComparisonEntry(t *testing.T) {
	userID := uuid.New()
	procID := uuid.New()

	logs := append(failureLogs(2), successLogs(3)...)
	data := PairData{
		Logs:   logs,
		Record: masteredRecord(2, false),
		Band:   &Band{Min: 5, Max: 20},
	}
	entry := BuildComparisonEntry(userID, procID, data, DefaultSimpleParams)

	if entry.UserID != userID {
		t.Fatalf("user id mismatch")
	}
	if entry.LogCount != 5 {
		t.Fatalf("expected log_count=5, got %d", entry.LogCount)
	}
	if !entry.IsMastered || entry.MasteredAtLogCount == nil || *entry.MasteredAtLogCount != 2 {
		t.Fatalf("mastery fields lost: %+v", entry)
	}
	if entry.AlertType == nil || *entry.AlertType != AlertOverConfidence {
		t.Fatalf("expected over_confidence on comparison row, got %v", entry.AlertType)
	}
	if !entry.Curve.Applicable || len(entry.Curve.Points) != 5 {
		t.Fatalf("expected full curve with 5 points, got %+v", entry.Curve)
	}
}

func TestBuildComparisonEntry_NoHistory(t *testing.T) {
	entry := BuildComparisonEntry(uuid.New(), uuid.New(), PairData{}, DefaultSimpleParams)
	if entry.Curve.Applicable {
		t.Fatalf("empty history must yield a not-applicable curve")
	}
	if entry.IsMastered || entry.AlertType != nil {
		t.Fatalf("empty history must stay silent, got %+v", entry)
	}
}
