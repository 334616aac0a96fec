package autonomy

import (
	"github.com/google/uuid"

	"github.com/aneslog/aneslog-backend/internal/domain"
)

// CellState is the rendering state of one matrix cell. An alert takes
// priority over the raw classification for display, but the cell keeps the
// underlying level and counts so nothing is lost.
type CellState string

const (
	CellNotStarted  CellState = "not_started"
	CellLearning    CellState = "learning"
	CellMastered    CellState = "mastered"
	CellLocked      CellState = "locked"
	CellPreAcquired CellState = "pre_acquired"
	CellAlert       CellState = "alert"
)

// PairData is the gathered inputs for one (resident, procedure) pair.
type PairData struct {
	Logs   []domain.ProcedureLog
	Record *domain.ProcedureCompetence
	Band   *Band
}

// MatrixCell is one cell of the residents x procedures grid.
type MatrixCell struct {
	State              CellState  `json:"state"`
	Level              Level      `json:"level"`
	LogCount           int        `json:"log_count"`
	AutonomousCount    int        `json:"autonomous_count"`
	AlertType          *AlertType `json:"alert_type,omitempty"`
	MasteredAtLogCount *int       `json:"mastered_at_log_count,omitempty"`
}

// BuildMatrixCell classifies one pair and overlays the alert detector.
func BuildMatrixCell(userID, procedureID uuid.UUID, d PairData, repeatThreshold int) MatrixCell {
	level, counts := Classify(d.Logs, d.Record, repeatThreshold)

	cell := MatrixCell{
		Level:           level,
		LogCount:        counts.Total,
		AutonomousCount: counts.Autonomous,
	}
	if d.Record != nil {
		cell.MasteredAtLogCount = d.Record.MasteredAtLogCount
	}

	alert := detectAlert(AlertEntry{
		UserID:      userID,
		ProcedureID: procedureID,
		Band:        d.Band,
		Record:      d.Record,
		LogCount:    counts.Total,
	})
	if alert != nil {
		t := alert.Type
		cell.AlertType = &t
		cell.State = CellAlert
		return cell
	}

	switch {
	case d.Record != nil && d.Record.IsPreAcquired:
		cell.State = CellPreAcquired
	case level == LevelLocked:
		cell.State = CellLocked
	case level == LevelMastered:
		cell.State = CellMastered
	case counts.Total == 0:
		cell.State = CellNotStarted
	default:
		cell.State = CellLearning
	}
	return cell
}

// ComparisonEntry is one resident's row in the single-procedure comparison
// view; the full curve rides along so charts can overlay learning curves
// across the cohort.
type ComparisonEntry struct {
	UserID             uuid.UUID  `json:"user_id"`
	LogCount           int        `json:"log_count"`
	IsMastered         bool       `json:"is_mastered"`
	MasteredAtLogCount *int       `json:"mastered_at_log_count,omitempty"`
	AlertType          *AlertType `json:"alert_type,omitempty"`
	Curve              Curve      `json:"lc_cusum"`
}

func BuildComparisonEntry(userID, procedureID uuid.UUID, d PairData, p Params) ComparisonEntry {
	entry := ComparisonEntry{
		UserID:   userID,
		LogCount: len(d.Logs),
		Curve:    ComputeCurve(d.Logs, p),
	}
	if d.Record != nil {
		entry.IsMastered = d.Record.IsMastered
		if d.Record.IsMastered {
			entry.MasteredAtLogCount = d.Record.MasteredAtLogCount
		}
	}
	if alert := detectAlert(AlertEntry{
		UserID:      userID,
		ProcedureID: procedureID,
		Band:        d.Band,
		Record:      d.Record,
		LogCount:    len(d.Logs),
	}); alert != nil {
		t := alert.Type
		entry.AlertType = &t
	}
	return entry
}
