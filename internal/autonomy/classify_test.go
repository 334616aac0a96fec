package autonomy

import (
	"testing"
	"time"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

func levelLogs(levels ...domain.AutonomyLevel) []domain.ProcedureLog {
	logs := make([]domain.ProcedureLog, 0, len(levels))
	for _, l := range levels {
		logs = append(logs, mkLog(l, nil))
	}
	return logs
}

func TestClassify_NoAttemptsNoRecord(t *testing.T) {
	level, counts := Classify(nil, nil, DefaultMasteryRepeatThreshold)
	if level != LevelNotStarted {
		t.Fatalf("expected not_started, got %s", level)
	}
	if counts.Total != 0 {
		t.Fatalf("expected zero counts, got %+v", counts)
	}
}

func TestClassify_LevelsFromCounts(t *testing.T) {
	cases := []struct {
		name string
		logs []domain.ProcedureLog
		want Level
	}{
		{"low tiers only", levelLogs(domain.AutonomyObserved, domain.AutonomyAssisted), LevelLearning},
		{"best is capable", levelLogs(domain.AutonomyAssisted, domain.AutonomyCapable), LevelCapable},
		{"one autonomous", levelLogs(domain.AutonomyCapable, domain.AutonomyAutonomous), LevelDemonstratedOnce},
		{"two autonomous", levelLogs(domain.AutonomyAutonomous, domain.AutonomyAutonomous), LevelDemonstratedOnce},
		{"threshold autonomous", levelLogs(domain.AutonomyAutonomous, domain.AutonomyAutonomous, domain.AutonomyAutonomous), LevelMastered},
	}
	for _, tc := range cases {
		level, _ := Classify(tc.logs, nil, DefaultMasteryRepeatThreshold)
		if level != tc.want {
			t.Fatalf("%s: got %s want %s", tc.name, level, tc.want)
		}
	}
}

func TestClassify_RecordStates(t *testing.T) {
	n := 5
	now := time.Now().UTC()
	mastered := &domain.ProcedureCompetence{IsMastered: true, MasteredAtLogCount: &n, MasteredAt: &now}
	locked := &domain.ProcedureCompetence{IsMastered: true, IsLocked: true}
	pre := &domain.ProcedureCompetence{IsMastered: true, IsLocked: true, IsPreAcquired: true}

	if level, _ := Classify(levelLogs(domain.AutonomyObserved), mastered, 3); level != LevelMastered {
		t.Fatalf("mastered record: got %s", level)
	}
	if level, _ := Classify(nil, locked, 3); level != LevelLocked {
		t.Fatalf("locked record: got %s", level)
	}
	if level, _ := Classify(nil, pre, 3); level != LevelLocked {
		t.Fatalf("pre-acquired record: got %s", level)
	}
}

func TestClassify_LockedNeverDowngrades(t *testing.T) {
	locked := &domain.ProcedureCompetence{IsMastered: true, IsLocked: true}
	lockedLevel, _ := Classify(nil, locked, 3)

	// Any subsequent attempt history, however poor, must not lower the level.
	histories := [][]domain.ProcedureLog{
		nil,
		levelLogs(domain.AutonomyObserved),
		levelLogs(domain.AutonomyObserved, domain.AutonomyObserved, domain.AutonomyAssisted),
		failureLogs(30),
	}
	for i, logs := range histories {
		level, _ := Classify(logs, locked, 3)
		if level.Rank() < lockedLevel.Rank() {
			t.Fatalf("history %d: locked level downgraded to %s", i, level)
		}
		if level != LevelLocked {
			t.Fatalf("history %d: expected locked, got %s", i, level)
		}
	}
}

func TestClassify_CountsSupportLevel(t *testing.T) {
	logs := []domain.ProcedureLog{
		mkLog(domain.AutonomyObserved, boolPtr(false)),
		mkLog(domain.AutonomyCapable, nil),
		mkLog(domain.AutonomyAutonomous, boolPtr(true)),
	}
	_, counts := Classify(logs, nil, 3)
	want := Counts{Total: 3, Autonomous: 1, Capable: 1, ReviewerValidated: 2}
	if counts != want {
		t.Fatalf("counts: got %+v want %+v", counts, want)
	}
}

func TestDetectMastery(t *testing.T) {
	if mp := DetectMastery(levelLogs(domain.AutonomyAutonomous, domain.AutonomyAutonomous), 3); mp != nil {
		t.Fatalf("2 autonomous attempts must not trigger mastery")
	}

	logs := levelLogs(
		domain.AutonomyObserved,
		domain.AutonomyAutonomous,
		domain.AutonomyCapable,
		domain.AutonomyAutonomous,
		domain.AutonomyAutonomous,
		domain.AutonomyAutonomous,
	)
	mp := DetectMastery(logs, 3)
	if mp == nil {
		t.Fatalf("expected mastery point")
	}
	// The third autonomous attempt is the fifth log overall: the count of
	// attempts that had occurred when mastery was first met.
	if mp.AtLogCount != 5 {
		t.Fatalf("expected at_log_count=5, got %d", mp.AtLogCount)
	}
}

func TestDetectMastery_IgnoresValidationState(t *testing.T) {
	// Mastery detection counts declared top-tier attempts; a senior marking
	// one as an objective failure does not remove the declaration.
	logs := []domain.ProcedureLog{
		mkLog(domain.AutonomyAutonomous, boolPtr(false)),
		mkLog(domain.AutonomyAutonomous, nil),
		mkLog(domain.AutonomyAutonomous, boolPtr(true)),
	}
	if mp := DetectMastery(logs, 3); mp == nil || mp.AtLogCount != 3 {
		t.Fatalf("expected mastery at 3, got %+v", mp)
	}
}
