package autonomy

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

func masteredRecord(atCount int, preAcquired bool) *domain.ProcedureCompetence {
	now := time.Now().UTC()
	rec := &domain.ProcedureCompetence{
		IsMastered:         true,
		MasteredAtLogCount: &atCount,
		MasteredAt:         &now,
	}
	if preAcquired {
		rec.IsLocked = true
		rec.IsPreAcquired = true
	}
	return rec
}

func TestDetectAlerts_OverConfidence(t *testing.T) {
	entry := AlertEntry{
		UserID:      uuid.New(),
		ProcedureID: uuid.New(),
		Band:        &Band{Min: 5, Max: 20},
		Record:      masteredRecord(2, false),
		LogCount:    8,
	}
	alerts := DetectAlerts([]AlertEntry{entry})
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Type != AlertOverConfidence {
		t.Fatalf("expected over_confidence, got %s", a.Type)
	}
	if a.DeclaredAt == nil || *a.DeclaredAt != 2 {
		t.Fatalf("expected declared_at=2, got %v", a.DeclaredAt)
	}
	if a.Band.Min != 5 || a.Band.Max != 20 {
		t.Fatalf("alert must carry the configured band, got %+v", a.Band)
	}
}

func TestDetectAlerts_PreAcquiredExempt(t *testing.T) {
	entry := AlertEntry{
		UserID:      uuid.New(),
		ProcedureID: uuid.New(),
		Band:        &Band{Min: 5, Max: 20},
		Record:      masteredRecord(0, true),
		LogCount:    0,
	}
	if alerts := DetectAlerts([]AlertEntry{entry}); len(alerts) != 0 {
		t.Fatalf("pre-acquired mastery must not alert, got %+v", alerts)
	}
}

func TestDetectAlerts_UnderConfidenceBoundary(t *testing.T) {
	base := AlertEntry{
		UserID:      uuid.New(),
		ProcedureID: uuid.New(),
		Band:        &Band{Min: 3, Max: 10},
	}

	// Exactly 2x max: no alert yet, the boundary is strict.
	at20 := base
	at20.LogCount = 20
	if alerts := DetectAlerts([]AlertEntry{at20}); len(alerts) != 0 {
		t.Fatalf("20 attempts with max=10 must not alert, got %+v", alerts)
	}

	at25 := base
	at25.LogCount = 25
	alerts := DetectAlerts([]AlertEntry{at25})
	if len(alerts) != 1 {
		t.Fatalf("expected exactly one alert, got %d", len(alerts))
	}
	if alerts[0].Type != AlertUnderConfidence {
		t.Fatalf("expected under_confidence, got %s", alerts[0].Type)
	}
	if alerts[0].LogCount != 25 {
		t.Fatalf("alert must carry the observed count, got %d", alerts[0].LogCount)
	}
	if alerts[0].DeclaredAt != nil {
		t.Fatalf("under-confidence has no declared_at, got %v", alerts[0].DeclaredAt)
	}
}

func TestDetectAlerts_NoBandNoAlert(t *testing.T) {
	entries := []AlertEntry{
		{UserID: uuid.New(), ProcedureID: uuid.New(), Record: masteredRecord(1, false), LogCount: 1},
		{UserID: uuid.New(), ProcedureID: uuid.New(), LogCount: 500},
	}
	if alerts := DetectAlerts(entries); len(alerts) != 0 {
		t.Fatalf("pairs without a band must never alert, got %+v", alerts)
	}
}

func TestDetectAlerts_MasteredInsideBandSilent(t *testing.T) {
	entry := AlertEntry{
		UserID:      uuid.New(),
		ProcedureID: uuid.New(),
		Band:        &Band{Min: 5, Max: 20},
		Record:      masteredRecord(12, false),
		LogCount:    15,
	}
	if alerts := DetectAlerts([]AlertEntry{entry}); len(alerts) != 0 {
		t.Fatalf("in-band mastery must not alert, got %+v", alerts)
	}
}

func TestDetectAlerts_OnePerPairPerPass(t *testing.T) {
	// A pair that is both mastered-too-early and heavily logged still yields
	// a single alert per pass.
	entry := AlertEntry{
		UserID:      uuid.New(),
		ProcedureID: uuid.New(),
		Band:        &Band{Min: 5, Max: 6},
		Record:      masteredRecord(2, false),
		LogCount:    50,
	}
	if alerts := DetectAlerts([]AlertEntry{entry}); len(alerts) != 1 {
		t.Fatalf("expected a single alert, got %d", len(alerts))
	}
}
