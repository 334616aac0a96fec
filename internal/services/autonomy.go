package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/autonomy"
	"github.com/aneslog/aneslog-backend/internal/data/repos/catalog"
	"github.com/aneslog/aneslog-backend/internal/data/repos/competence"
	"github.com/aneslog/aneslog-backend/internal/data/repos/logbook"
	"github.com/aneslog/aneslog-backend/internal/data/repos/users"
	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/apierr"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
	"github.com/aneslog/aneslog-backend/internal/requestdata"
)

type AutonomyService interface {
	UpdateOnNewAttempt(ctx context.Context, userID, procedureID uuid.UUID) error
	Curve(ctx context.Context, userID, procedureID uuid.UUID) (*autonomy.Curve, error)
	Matrix(ctx context.Context, categoryID *uuid.UUID) (*MatrixView, error)
	Comparison(ctx context.Context, procedureID uuid.UUID) ([]ComparisonRow, error)
	Alerts(ctx context.Context) ([]autonomy.Alert, error)
}

type autonomyService struct {
	db              *gorm.DB
	log             *logger.Logger
	policy          autonomy.PolicyTable
	repeatThreshold int
	logRepo         logbook.ProcedureLogRepo
	compRepo        competence.ProcedureCompetenceRepo
	thrRepo         competence.ProcedureThresholdRepo
	procRepo        catalog.ProcedureRepo
	userRepo        users.UserRepo
}

func NewAutonomyService(
	db *gorm.DB,
	log *logger.Logger,
	policy autonomy.PolicyTable,
	repeatThreshold int,
	logRepo logbook.ProcedureLogRepo,
	compRepo competence.ProcedureCompetenceRepo,
	thrRepo competence.ProcedureThresholdRepo,
	procRepo catalog.ProcedureRepo,
	userRepo users.UserRepo,
) AutonomyService {
	if repeatThreshold < 1 {
		repeatThreshold = autonomy.DefaultMasteryRepeatThreshold
	}
	return &autonomyService{
		db:              db,
		log:             log.With("service", "AutonomyService"),
		policy:          policy,
		repeatThreshold: repeatThreshold,
		logRepo:         logRepo,
		compRepo:        compRepo,
		thrRepo:         thrRepo,
		procRepo:        procRepo,
		userRepo:        userRepo,
	}
}

// UpdateOnNewAttempt re-runs mastery detection for the pair and persists a
// competence record the first time the threshold is met. Idempotent: if the
// record already marks mastery nothing changes, and a concurrent first
// insert losing the unique-index race is absorbed as a no-op.
func (s *autonomyService) UpdateOnNewAttempt(ctx context.Context, userID, procedureID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		logs, err := s.logRepo.ListForUserProcedure(ctx, tx, userID, procedureID)
		if err != nil {
			return fmt.Errorf("error listing attempts: %w", err)
		}
		point := autonomy.DetectMastery(logs, s.repeatThreshold)
		if point == nil {
			return nil
		}

		existing, err := s.compRepo.GetForUserProcedure(ctx, tx, userID, procedureID)
		if err != nil {
			return fmt.Errorf("error fetching competence record: %w", err)
		}
		if existing != nil && existing.IsMastered {
			return nil
		}

		now := time.Now().UTC()
		if existing == nil {
			row := &domain.ProcedureCompetence{
				UserID:             userID,
				ProcedureID:        procedureID,
				IsMastered:         true,
				MasteredAtLogCount: &point.AtLogCount,
				MasteredAt:         &now,
			}
			_, created, err := s.compRepo.CreateIfAbsent(ctx, tx, row)
			if err != nil {
				return fmt.Errorf("error creating competence record: %w", err)
			}
			if created {
				s.log.Info("mastery recorded",
					"user_id", userID,
					"procedure_id", procedureID,
					"at_log_count", point.AtLogCount)
			}
			return nil
		}

		// Record exists but mastery was cleared (e.g. unlocked by a senior);
		// the threshold being met again restores it.
		existing.IsMastered = true
		existing.MasteredAtLogCount = &point.AtLogCount
		existing.MasteredAt = &now
		if err := s.compRepo.Save(ctx, tx, existing); err != nil {
			return fmt.Errorf("error updating competence record: %w", err)
		}
		s.log.Info("mastery restored",
			"user_id", userID,
			"procedure_id", procedureID,
			"at_log_count", point.AtLogCount)
		return nil
	})
}

// Curve returns the LC-CUSUM curve for one pair. Residents can only read
// their own; seniors can read anyone's.
func (s *autonomyService) Curve(ctx context.Context, userID, procedureID uuid.UUID) (*autonomy.Curve, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return nil, errUnauthorized
	}
	if rd.Role != domain.RoleSenior && rd.UserID != userID {
		return nil, apierr.New(http.StatusForbidden, "forbidden", fmt.Errorf("residents may only read their own curve"))
	}

	proc, err := s.procRepo.GetByID(ctx, nil, procedureID)
	if err != nil {
		return nil, fmt.Errorf("error fetching procedure: %w", err)
	}
	if proc == nil {
		return nil, apierr.New(http.StatusNotFound, "procedure_not_found", fmt.Errorf("procedure %s not found", procedureID))
	}

	logs, err := s.logRepo.ListForUserProcedure(ctx, nil, userID, procedureID)
	if err != nil {
		return nil, fmt.Errorf("error listing attempts: %w", err)
	}
	curve := autonomy.ComputeCurve(logs, s.paramsFor(proc))
	return &curve, nil
}

// MatrixProcedure is one column of the matrix view.
type MatrixProcedure struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	CategoryID   uuid.UUID         `json:"category_id"`
	CategoryName string            `json:"category_name,omitempty"`
	Complexity   domain.Complexity `json:"complexity"`
}

// MatrixRow is one resident's row across all procedures.
type MatrixRow struct {
	UserID   uuid.UUID                        `json:"user_id"`
	FullName string                           `json:"full_name"`
	Semester *int                             `json:"semester,omitempty"`
	Cells    map[uuid.UUID]autonomy.MatrixCell `json:"cells"`
}

type MatrixView struct {
	Procedures []MatrixProcedure `json:"procedures"`
	Rows       []MatrixRow       `json:"rows"`
}

// Matrix builds the residents x procedures grid for the caller's team.
func (s *autonomyService) Matrix(ctx context.Context, categoryID *uuid.UUID) (*MatrixView, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return nil, err
	}

	residents, err := s.userRepo.ListResidentsByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing residents: %w", err)
	}
	procedures, err := s.procRepo.ListForTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing procedures: %w", err)
	}
	if categoryID != nil {
		filtered := procedures[:0]
		for _, p := range procedures {
			if p.CategoryID == *categoryID {
				filtered = append(filtered, p)
			}
		}
		procedures = filtered
	}

	bands, err := s.bandsByProcedure(ctx, teamID)
	if err != nil {
		return nil, err
	}
	records, err := s.recordsByPair(ctx, residents)
	if err != nil {
		return nil, err
	}

	view := &MatrixView{
		Procedures: make([]MatrixProcedure, 0, len(procedures)),
		Rows:       make([]MatrixRow, 0, len(residents)),
	}
	for _, p := range procedures {
		col := MatrixProcedure{
			ID:         p.ID,
			Name:       p.Name,
			CategoryID: p.CategoryID,
			Complexity: p.Complexity,
		}
		if p.Category != nil {
			col.CategoryName = p.Category.Name
		}
		view.Procedures = append(view.Procedures, col)
	}

	for _, resident := range residents {
		logs, err := s.logRepo.ListForUser(ctx, nil, resident.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing attempts: %w", err)
		}
		byProcedure := make(map[uuid.UUID][]domain.ProcedureLog, len(procedures))
		for _, l := range logs {
			byProcedure[l.ProcedureID] = append(byProcedure[l.ProcedureID], l)
		}

		row := MatrixRow{
			UserID:   resident.ID,
			FullName: resident.FullName,
			Semester: resident.Semester,
			Cells:    make(map[uuid.UUID]autonomy.MatrixCell, len(procedures)),
		}
		for _, p := range procedures {
			row.Cells[p.ID] = autonomy.BuildMatrixCell(resident.ID, p.ID, autonomy.PairData{
				Logs:   byProcedure[p.ID],
				Record: records[pairKey{resident.ID, p.ID}],
				Band:   bands[p.ID],
			}, s.repeatThreshold)
		}
		view.Rows = append(view.Rows, row)
	}
	return view, nil
}

// ComparisonRow pairs a comparison entry with the resident's display name.
type ComparisonRow struct {
	FullName string `json:"full_name"`
	Semester *int   `json:"semester,omitempty"`
	autonomy.ComparisonEntry
}

// Comparison builds the one-procedure, all-residents view.
func (s *autonomyService) Comparison(ctx context.Context, procedureID uuid.UUID) ([]ComparisonRow, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return nil, err
	}

	proc, err := s.procRepo.GetByID(ctx, nil, procedureID)
	if err != nil {
		return nil, fmt.Errorf("error fetching procedure: %w", err)
	}
	if proc == nil {
		return nil, apierr.New(http.StatusNotFound, "procedure_not_found", fmt.Errorf("procedure %s not found", procedureID))
	}
	params := s.paramsFor(proc)

	residents, err := s.userRepo.ListResidentsByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing residents: %w", err)
	}
	residentIDs := make([]uuid.UUID, 0, len(residents))
	for _, r := range residents {
		residentIDs = append(residentIDs, r.ID)
	}

	logs, err := s.logRepo.ListForUsers(ctx, nil, residentIDs, procedureID)
	if err != nil {
		return nil, fmt.Errorf("error listing attempts: %w", err)
	}
	byUser := make(map[uuid.UUID][]domain.ProcedureLog, len(residents))
	for _, l := range logs {
		byUser[l.UserID] = append(byUser[l.UserID], l)
	}

	records, err := s.recordsByPair(ctx, residents)
	if err != nil {
		return nil, err
	}
	band, err := s.bandFor(ctx, teamID, procedureID)
	if err != nil {
		return nil, err
	}

	rows := make([]ComparisonRow, 0, len(residents))
	for _, resident := range residents {
		entry := autonomy.BuildComparisonEntry(resident.ID, procedureID, autonomy.PairData{
			Logs:   byUser[resident.ID],
			Record: records[pairKey{resident.ID, procedureID}],
			Band:   band,
		}, params)
		rows = append(rows, ComparisonRow{
			FullName:        resident.FullName,
			Semester:        resident.Semester,
			ComparisonEntry: entry,
		})
	}
	return rows, nil
}

// Alerts runs one stateless detector pass over the caller's team.
func (s *autonomyService) Alerts(ctx context.Context) ([]autonomy.Alert, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return nil, err
	}

	bands, err := s.bandsByProcedure(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if len(bands) == 0 {
		return nil, nil
	}

	residents, err := s.userRepo.ListResidentsByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing residents: %w", err)
	}
	records, err := s.recordsByPair(ctx, residents)
	if err != nil {
		return nil, err
	}

	var entries []autonomy.AlertEntry
	for _, resident := range residents {
		logs, err := s.logRepo.ListForUser(ctx, nil, resident.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing attempts: %w", err)
		}
		countByProcedure := make(map[uuid.UUID]int)
		for _, l := range logs {
			countByProcedure[l.ProcedureID]++
		}
		for procID, band := range bands {
			entries = append(entries, autonomy.AlertEntry{
				UserID:      resident.ID,
				ProcedureID: procID,
				Band:        band,
				Record:      records[pairKey{resident.ID, procID}],
				LogCount:    countByProcedure[procID],
			})
		}
	}
	return autonomy.DetectAlerts(entries), nil
}

func (s *autonomyService) paramsFor(proc *domain.Procedure) autonomy.Params {
	categoryName := ""
	if proc.Category != nil {
		categoryName = proc.Category.Name
	}
	return s.policy.ParamsFor(proc.Complexity, categoryName)
}

func (s *autonomyService) bandsByProcedure(ctx context.Context, teamID uuid.UUID) (map[uuid.UUID]*autonomy.Band, error) {
	rows, err := s.thrRepo.ListByTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("error listing thresholds: %w", err)
	}
	bands := make(map[uuid.UUID]*autonomy.Band, len(rows))
	for _, t := range rows {
		bands[t.ProcedureID] = &autonomy.Band{Min: t.MinProcedures, Max: t.MaxProcedures}
	}
	return bands, nil
}

func (s *autonomyService) bandFor(ctx context.Context, teamID, procedureID uuid.UUID) (*autonomy.Band, error) {
	row, err := s.thrRepo.GetForTeamProcedure(ctx, nil, teamID, procedureID)
	if err != nil {
		return nil, fmt.Errorf("error fetching threshold: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	return &autonomy.Band{Min: row.MinProcedures, Max: row.MaxProcedures}, nil
}

type pairKey struct {
	userID      uuid.UUID
	procedureID uuid.UUID
}

func (s *autonomyService) recordsByPair(ctx context.Context, residents []domain.User) (map[pairKey]*domain.ProcedureCompetence, error) {
	ids := make([]uuid.UUID, 0, len(residents))
	for _, r := range residents {
		ids = append(ids, r.ID)
	}
	rows, err := s.compRepo.ListForUsers(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("error listing competence records: %w", err)
	}
	out := make(map[pairKey]*domain.ProcedureCompetence, len(rows))
	for i := range rows {
		row := rows[i]
		out[pairKey{row.UserID, row.ProcedureID}] = &row
	}
	return out, nil
}

func teamOf(actor *domain.User) (uuid.UUID, error) {
	if actor.TeamID == nil || *actor.TeamID == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusBadRequest, "no_team", fmt.Errorf("user %s has no team", actor.ID))
	}
	return *actor.TeamID, nil
}
