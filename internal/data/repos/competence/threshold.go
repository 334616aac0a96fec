package competence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

// ProcedureThresholdRepo persists the per (team, procedure) expected
// attempt bands.
type ProcedureThresholdRepo interface {
	ListByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]domain.ProcedureThreshold, error)
	GetForTeamProcedure(ctx context.Context, tx *gorm.DB, teamID, procedureID uuid.UUID) (*domain.ProcedureThreshold, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.ProcedureThreshold) error
	DeleteForTeamProcedure(ctx context.Context, tx *gorm.DB, teamID, procedureID uuid.UUID) error
}

type procedureThresholdRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcedureThresholdRepo(db *gorm.DB, baseLog *logger.Logger) ProcedureThresholdRepo {
	return &procedureThresholdRepo{
		db:  db,
		log: baseLog.With("repo", "ProcedureThresholdRepo"),
	}
}

func (r *procedureThresholdRepo) ListByTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]domain.ProcedureThreshold, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.ProcedureThreshold
	if teamID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("team_id = ?", teamID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *procedureThresholdRepo) GetForTeamProcedure(ctx context.Context, tx *gorm.DB, teamID, procedureID uuid.UUID) (*domain.ProcedureThreshold, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if teamID == uuid.Nil || procedureID == uuid.Nil {
		return nil, nil
	}
	var row domain.ProcedureThreshold
	err := transaction.WithContext(ctx).
		Where("team_id = ? AND procedure_id = ?", teamID, procedureID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// Upsert by unique team_id + procedure_id.
func (r *procedureThresholdRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.ProcedureThreshold) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("team_id = ? AND procedure_id = ?", row.TeamID, row.ProcedureID).
		Assign(map[string]interface{}{
			"min_procedures": row.MinProcedures,
			"max_procedures": row.MaxProcedures,
			"created_by":     row.CreatedBy,
		}).
		FirstOrCreate(row).Error
}

func (r *procedureThresholdRepo) DeleteForTeamProcedure(ctx context.Context, tx *gorm.DB, teamID, procedureID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if teamID == uuid.Nil || procedureID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("team_id = ? AND procedure_id = ?", teamID, procedureID).
		Delete(&domain.ProcedureThreshold{}).Error
}
