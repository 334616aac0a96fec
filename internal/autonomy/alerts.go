package autonomy

import (
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

type AlertType string

const (
	AlertOverConfidence  AlertType = "over_confidence"
	AlertUnderConfidence AlertType = "under_confidence"
)

// Band is the configured expected-attempts range for one procedure.
type Band struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// AlertEntry is everything the detector needs about one (resident,
// procedure) pair. Record may be nil (never mastered), Band may be nil (no
// threshold configured, pair is skipped).
type AlertEntry struct {
	UserID      uuid.UUID
	ProcedureID uuid.UUID
	Band        *Band
	Record      *domain.ProcedureCompetence
	LogCount    int
}

// Alert flags a pair whose mastery timing looks anomalous.
type Alert struct {
	UserID      uuid.UUID `json:"user_id"`
	ProcedureID uuid.UUID `json:"procedure_id"`
	Type        AlertType `json:"alert_type"`
	DeclaredAt  *int      `json:"declared_at,omitempty"`
	LogCount    int       `json:"log_count"`
	Band        Band      `json:"band"`
}

// DetectAlerts runs one stateless detection pass. At most one alert per
// entry; pairs without a configured band never alert. Pre-acquired records
// are exempt from the over-confidence check — the senior granted mastery
// deliberately, without attempt history.
func DetectAlerts(entries []AlertEntry) []Alert {
	var alerts []Alert
	for _, e := range entries {
		if a := detectAlert(e); a != nil {
			alerts = append(alerts, *a)
		}
	}
	return alerts
}

func detectAlert(e AlertEntry) *Alert {
	if e.Band == nil {
		return nil
	}
	rec := e.Record
	if rec != nil && rec.IsMastered && !rec.IsPreAcquired {
		if rec.MasteredAtLogCount != nil && *rec.MasteredAtLogCount < e.Band.Min {
			return &Alert{
				UserID:      e.UserID,
				ProcedureID: e.ProcedureID,
				Type:        AlertOverConfidence,
				DeclaredAt:  rec.MasteredAtLogCount,
				LogCount:    e.LogCount,
				Band:        *e.Band,
			}
		}
		return nil
	}
	if rec != nil && rec.IsMastered {
		// Pre-acquired: exempt.
		return nil
	}
	// Not yet mastered: way more attempts than expected means the resident
	// is likely under-declaring.
	if e.LogCount > e.Band.Max*2 {
		return &Alert{
			UserID:      e.UserID,
			ProcedureID: e.ProcedureID,
			Type:        AlertUnderConfidence,
			LogCount:    e.LogCount,
			Band:        *e.Band,
		}
	}
	return nil
}
