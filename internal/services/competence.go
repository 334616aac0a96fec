package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/data/repos/competence"
	"github.com/aneslog/aneslog-backend/internal/data/repos/users"
	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/apierr"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

// CompetenceService holds the supervisor-only mutations of the competence
// record. The automatic detection path never locks or pre-declares; those
// are deliberate human decisions.
type CompetenceService interface {
	Lock(ctx context.Context, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error)
	Unlock(ctx context.Context, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error)
	PreDeclare(ctx context.Context, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error)
}

type competenceService struct {
	db       *gorm.DB
	log      *logger.Logger
	compRepo competence.ProcedureCompetenceRepo
	userRepo users.UserRepo
}

func NewCompetenceService(
	db *gorm.DB,
	log *logger.Logger,
	compRepo competence.ProcedureCompetenceRepo,
	userRepo users.UserRepo,
) CompetenceService {
	return &competenceService{
		db:       db,
		log:      log.With("service", "CompetenceService"),
		compRepo: compRepo,
		userRepo: userRepo,
	}
}

// Lock ratifies an existing mastery record so later attempts can never
// downgrade it.
func (s *competenceService) Lock(ctx context.Context, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}

	var out *domain.ProcedureCompetence
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.compRepo.GetForUserProcedure(ctx, tx, userID, procedureID)
		if err != nil {
			return fmt.Errorf("error fetching competence record: %w", err)
		}
		if rec == nil || !rec.IsMastered {
			return apierr.New(http.StatusConflict, "not_mastered", fmt.Errorf("cannot lock a pair that is not mastered"))
		}
		if rec.IsLocked {
			out = rec
			return nil
		}
		now := time.Now().UTC()
		rec.IsLocked = true
		rec.LockedBy = &actor.ID
		rec.LockedAt = &now
		if err := s.compRepo.Save(ctx, tx, rec); err != nil {
			return fmt.Errorf("error locking competence record: %w", err)
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("competence locked", "user_id", userID, "procedure_id", procedureID)
	return out, nil
}

// Unlock clears the lock and the mastery fields entirely: the pair falls
// back to whatever the attempt history supports, and the detection path may
// re-award mastery later.
func (s *competenceService) Unlock(ctx context.Context, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error) {
	if _, err := requireSenior(ctx, nil, s.userRepo); err != nil {
		return nil, err
	}

	var out *domain.ProcedureCompetence
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec, err := s.compRepo.GetForUserProcedure(ctx, tx, userID, procedureID)
		if err != nil {
			return fmt.Errorf("error fetching competence record: %w", err)
		}
		if rec == nil {
			return apierr.New(http.StatusNotFound, "record_not_found", fmt.Errorf("no competence record for pair"))
		}
		rec.IsMastered = false
		rec.MasteredAtLogCount = nil
		rec.MasteredAt = nil
		rec.IsLocked = false
		rec.LockedBy = nil
		rec.LockedAt = nil
		rec.IsPreAcquired = false
		if err := s.compRepo.Save(ctx, tx, rec); err != nil {
			return fmt.Errorf("error unlocking competence record: %w", err)
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("competence unlocked", "user_id", userID, "procedure_id", procedureID)
	return out, nil
}

// PreDeclare grants mastery without attempt history, for gestures a resident
// mastered before joining. Pre-acquired implies locked, and the record
// carries no mastered-at count so the over-confidence detector skips it.
func (s *competenceService) PreDeclare(ctx context.Context, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error) {
	actor, err := requireSenior(ctx, nil, s.userRepo)
	if err != nil {
		return nil, err
	}

	var out *domain.ProcedureCompetence
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		rec, err := s.compRepo.GetForUserProcedure(ctx, tx, userID, procedureID)
		if err != nil {
			return fmt.Errorf("error fetching competence record: %w", err)
		}
		if rec == nil {
			row := &domain.ProcedureCompetence{
				UserID:        userID,
				ProcedureID:   procedureID,
				IsMastered:    true,
				MasteredAt:    &now,
				IsLocked:      true,
				LockedBy:      &actor.ID,
				LockedAt:      &now,
				IsPreAcquired: true,
			}
			created, _, err := s.compRepo.CreateIfAbsent(ctx, tx, row)
			if err != nil {
				return fmt.Errorf("error creating competence record: %w", err)
			}
			out = created
			return nil
		}
		if rec.IsMastered && !rec.IsPreAcquired {
			return apierr.New(http.StatusConflict, "already_mastered", fmt.Errorf("pair already mastered through attempts"))
		}
		rec.IsMastered = true
		rec.MasteredAtLogCount = nil
		rec.MasteredAt = &now
		rec.IsLocked = true
		rec.LockedBy = &actor.ID
		rec.LockedAt = &now
		rec.IsPreAcquired = true
		if err := s.compRepo.Save(ctx, tx, rec); err != nil {
			return fmt.Errorf("error updating competence record: %w", err)
		}
		out = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("competence pre-declared", "user_id", userID, "procedure_id", procedureID)
	return out, nil
}
