package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/data/repos/catalog"
	"github.com/aneslog/aneslog-backend/internal/data/repos/competence"
	"github.com/aneslog/aneslog-backend/internal/data/repos/users"
	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/apierr"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type ThresholdService interface {
	List(ctx context.Context) ([]domain.ProcedureThreshold, error)
	Upsert(ctx context.Context, procedureID uuid.UUID, minProcedures, maxProcedures int) (*domain.ProcedureThreshold, error)
	Delete(ctx context.Context, procedureID uuid.UUID) error
}

type thresholdService struct {
	db       *gorm.DB
	log      *logger.Logger
	thrRepo  competence.ProcedureThresholdRepo
	procRepo catalog.ProcedureRepo
	userRepo users.UserRepo
}

func NewThresholdService(
	db *gorm.DB,
	log *logger.Logger,
	thrRepo competence.ProcedureThresholdRepo,
	procRepo catalog.ProcedureRepo,
	userRepo users.UserRepo,
) ThresholdService {
	return &thresholdService{
		db:       db,
		log:      log.With("service", "ThresholdService"),
		thrRepo:  thrRepo,
		procRepo: procRepo,
		userRepo: userRepo,
	}
}

func (s *thresholdService) List(ctx context.Context) ([]domain.ProcedureThreshold, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return nil, err
	}
	return s.thrRepo.ListByTeam(ctx, nil, teamID)
}

func (s *thresholdService) Upsert(ctx context.Context, procedureID uuid.UUID, minProcedures, maxProcedures int) (*domain.ProcedureThreshold, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return nil, err
	}

	if minProcedures <= 0 || maxProcedures < minProcedures {
		return nil, apierr.New(http.StatusBadRequest, "invalid_band",
			fmt.Errorf("band must satisfy 0 < min <= max, got %d..%d", minProcedures, maxProcedures))
	}
	proc, err := s.procRepo.GetByID(ctx, nil, procedureID)
	if err != nil {
		return nil, fmt.Errorf("error fetching procedure: %w", err)
	}
	if proc == nil {
		return nil, apierr.New(http.StatusNotFound, "procedure_not_found", fmt.Errorf("procedure %s not found", procedureID))
	}

	row := &domain.ProcedureThreshold{
		TeamID:        teamID,
		ProcedureID:   procedureID,
		MinProcedures: minProcedures,
		MaxProcedures: maxProcedures,
		CreatedBy:     actor.ID,
	}
	if err := s.thrRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("error saving threshold: %w", err)
	}
	s.log.Info("threshold saved",
		"procedure_id", procedureID,
		"min", minProcedures,
		"max", maxProcedures)
	return row, nil
}

func (s *thresholdService) Delete(ctx context.Context, procedureID uuid.UUID) error {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return err
	}
	teamID, err := teamOf(actor)
	if err != nil {
		return err
	}
	if err := s.thrRepo.DeleteForTeamProcedure(ctx, nil, teamID, procedureID); err != nil {
		return fmt.Errorf("error deleting threshold: %w", err)
	}
	s.log.Info("threshold removed", "procedure_id", procedureID)
	return nil
}
