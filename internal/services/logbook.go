package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/data/repos/catalog"
	"github.com/aneslog/aneslog-backend/internal/data/repos/logbook"
	"github.com/aneslog/aneslog-backend/internal/data/repos/users"
	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/apierr"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type CreateLogInput struct {
	ProcedureID uuid.UUID      `json:"procedure_id"`
	PerformedAt time.Time      `json:"performed_at"`
	Autonomy    string         `json:"autonomy_level"`
	Notes       string         `json:"notes"`
	Metadata    datatypes.JSON `json:"metadata"`
}

type UpdateLogInput struct {
	PerformedAt *time.Time     `json:"performed_at"`
	Autonomy    *string        `json:"autonomy_level"`
	Notes       *string        `json:"notes"`
	Metadata    datatypes.JSON `json:"metadata"`
}

// LogbookStats summarizes a resident's logbook for the dashboard.
type LogbookStats struct {
	Total          int                          `json:"total"`
	ByLevel        map[domain.AutonomyLevel]int `json:"by_level"`
	ByCategory     map[string]int               `json:"by_category"`
	ValidatedCount int                          `json:"validated_count"`
}

type LogbookService interface {
	Create(ctx context.Context, in CreateLogInput) (*domain.ProcedureLog, error)
	List(ctx context.Context, procedureID *uuid.UUID) ([]domain.ProcedureLog, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateLogInput) (*domain.ProcedureLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ValidateOutcome(ctx context.Context, id uuid.UUID, success bool) (*domain.ProcedureLog, error)
	Stats(ctx context.Context) (*LogbookStats, error)
}

type logbookService struct {
	db          *gorm.DB
	log         *logger.Logger
	logRepo     logbook.ProcedureLogRepo
	procRepo    catalog.ProcedureRepo
	userRepo    users.UserRepo
	autonomySvc AutonomyService
}

func NewLogbookService(
	db *gorm.DB,
	log *logger.Logger,
	logRepo logbook.ProcedureLogRepo,
	procRepo catalog.ProcedureRepo,
	userRepo users.UserRepo,
	autonomySvc AutonomyService,
) LogbookService {
	return &logbookService{
		db:          db,
		log:         log.With("service", "LogbookService"),
		logRepo:     logRepo,
		procRepo:    procRepo,
		userRepo:    userRepo,
		autonomySvc: autonomySvc,
	}
}

func (s *logbookService) Create(ctx context.Context, in CreateLogInput) (*domain.ProcedureLog, error) {
	actor, err := actorFromContext(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}

	level, err := domain.ParseAutonomyLevel(in.Autonomy)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_autonomy_level", err)
	}
	if in.ProcedureID == uuid.Nil {
		return nil, apierr.New(http.StatusBadRequest, "missing_procedure", fmt.Errorf("procedure_id is required"))
	}
	proc, err := s.procRepo.GetByID(ctx, nil, in.ProcedureID)
	if err != nil {
		return nil, fmt.Errorf("error fetching procedure: %w", err)
	}
	if proc == nil {
		return nil, apierr.New(http.StatusNotFound, "procedure_not_found", fmt.Errorf("procedure %s not found", in.ProcedureID))
	}

	performedAt := in.PerformedAt
	if performedAt.IsZero() {
		performedAt = time.Now().UTC()
	}

	row := &domain.ProcedureLog{
		UserID:      actor.ID,
		ProcedureID: in.ProcedureID,
		PerformedAt: performedAt,
		Autonomy:    level,
		Notes:       in.Notes,
		Metadata:    in.Metadata,
	}
	created, err := s.logRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("error creating attempt: %w", err)
	}
	s.log.Info("attempt recorded",
		"user_id", actor.ID,
		"procedure_id", in.ProcedureID,
		"autonomy", string(level))

	if err := s.autonomySvc.UpdateOnNewAttempt(ctx, actor.ID, in.ProcedureID); err != nil {
		return nil, fmt.Errorf("error updating mastery state: %w", err)
	}
	return created, nil
}

func (s *logbookService) List(ctx context.Context, procedureID *uuid.UUID) ([]domain.ProcedureLog, error) {
	actor, err := actorFromContext(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	if procedureID != nil {
		return s.logRepo.ListForUserProcedure(ctx, nil, actor.ID, *procedureID)
	}
	return s.logRepo.ListForUser(ctx, nil, actor.ID)
}

func (s *logbookService) Update(ctx context.Context, id uuid.UUID, in UpdateLogInput) (*domain.ProcedureLog, error) {
	actor, err := actorFromContext(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	row, err := s.ownedLog(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}

	if in.Autonomy != nil {
		level, err := domain.ParseAutonomyLevel(*in.Autonomy)
		if err != nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_autonomy_level", err)
		}
		row.Autonomy = level
	}
	if in.PerformedAt != nil {
		row.PerformedAt = *in.PerformedAt
	}
	if in.Notes != nil {
		row.Notes = *in.Notes
	}
	if in.Metadata != nil {
		row.Metadata = in.Metadata
	}
	if err := s.logRepo.Update(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("error updating attempt: %w", err)
	}

	// Level edits can cross the mastery threshold, so re-run detection.
	if err := s.autonomySvc.UpdateOnNewAttempt(ctx, actor.ID, row.ProcedureID); err != nil {
		return nil, fmt.Errorf("error updating mastery state: %w", err)
	}
	return row, nil
}

func (s *logbookService) Delete(ctx context.Context, id uuid.UUID) error {
	actor, err := actorFromContext(ctx, nil, s.userRepo)
	if err != nil {
		return err
	}
	row, err := s.ownedLog(ctx, actor.ID, id)
	if err != nil {
		return err
	}
	if err := s.logRepo.SoftDeleteByID(ctx, nil, row.ID); err != nil {
		return fmt.Errorf("error deleting attempt: %w", err)
	}
	s.log.Info("attempt deleted", "user_id", actor.ID, "log_id", id)
	return nil
}

// ValidateOutcome is the senior write path: it pins the objective outcome of
// one attempt, which from then on overrides the declared-level fallback.
func (s *logbookService) ValidateOutcome(ctx context.Context, id uuid.UUID, success bool) (*domain.ProcedureLog, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	row, err := s.logRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempt: %w", err)
	}
	if row == nil {
		return nil, apierr.New(http.StatusNotFound, "log_not_found", fmt.Errorf("attempt %s not found", id))
	}

	if err := s.logRepo.UpdateFields(ctx, nil, id, map[string]interface{}{
		"success":      success,
		"validated_by": actor.ID,
	}); err != nil {
		return nil, fmt.Errorf("error validating attempt: %w", err)
	}
	s.log.Info("attempt validated",
		"validated_by", actor.ID,
		"log_id", id,
		"success", success)
	return s.logRepo.GetByID(ctx, nil, id)
}

func (s *logbookService) Stats(ctx context.Context) (*LogbookStats, error) {
	actor, err := actorFromContext(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListForUser(ctx, nil, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing attempts: %w", err)
	}

	stats := &LogbookStats{
		Total:      len(logs),
		ByLevel:    make(map[domain.AutonomyLevel]int),
		ByCategory: make(map[string]int),
	}
	procIDs := make([]uuid.UUID, 0, len(logs))
	seen := make(map[uuid.UUID]bool)
	for _, l := range logs {
		stats.ByLevel[l.Autonomy]++
		if l.Success != nil {
			stats.ValidatedCount++
		}
		if !seen[l.ProcedureID] {
			seen[l.ProcedureID] = true
			procIDs = append(procIDs, l.ProcedureID)
		}
	}

	procs, err := s.procRepo.GetByIDs(ctx, nil, procIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching procedures: %w", err)
	}
	categoryByProc := make(map[uuid.UUID]string, len(procs))
	for _, p := range procs {
		if p.Category != nil {
			categoryByProc[p.ID] = p.Category.Name
		}
	}
	for _, l := range logs {
		if name, ok := categoryByProc[l.ProcedureID]; ok {
			stats.ByCategory[name]++
		}
	}
	return stats, nil
}

func (s *logbookService) ownedLog(ctx context.Context, actorID, id uuid.UUID) (*domain.ProcedureLog, error) {
	row, err := s.logRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching attempt: %w", err)
	}
	if row == nil {
		return nil, apierr.New(http.StatusNotFound, "log_not_found", fmt.Errorf("attempt %s not found", id))
	}
	if row.UserID != actorID {
		return nil, apierr.New(http.StatusForbidden, "not_owner", fmt.Errorf("attempt %s does not belong to caller", id))
	}
	return row, nil
}
