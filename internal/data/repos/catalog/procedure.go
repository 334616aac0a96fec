package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type ProcedureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Procedure) (*domain.Procedure, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Procedure, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]domain.Procedure, error)
	ListForTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]domain.Procedure, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.Procedure) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type procedureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcedureRepo(db *gorm.DB, baseLog *logger.Logger) ProcedureRepo {
	return &procedureRepo{
		db:  db,
		log: baseLog.With("repo", "ProcedureRepo"),
	}
}

func (r *procedureRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Procedure) (*domain.Procedure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *procedureRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Procedure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Procedure
	err := transaction.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
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

func (r *procedureRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]domain.Procedure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.Procedure
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListForTeam returns shared-catalog procedures plus the team's own,
// with categories preloaded for matrix grouping.
func (r *procedureRepo) ListForTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]domain.Procedure, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.Procedure
	q := transaction.WithContext(ctx).
		Preload("Category").
		Order("name ASC")
	if teamID == uuid.Nil {
		q = q.Where("team_id IS NULL")
	} else {
		q = q.Where("team_id IS NULL OR team_id = ?", teamID)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *procedureRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.Procedure) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *procedureRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Procedure{}).Error
}
