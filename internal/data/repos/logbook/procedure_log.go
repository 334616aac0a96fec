package logbook

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

// ProcedureLogRepo persists logbook entries. List methods always order by
// performed_at then created_at: the autonomy engine treats slice order as
// chronological order, so every caller gets the same deterministic sequence.
type ProcedureLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.ProcedureLog) (*domain.ProcedureLog, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ProcedureLog, error)
	Update(ctx context.Context, tx *gorm.DB, row *domain.ProcedureLog) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	ListForUserProcedure(ctx context.Context, tx *gorm.DB, userID, procedureID uuid.UUID) ([]domain.ProcedureLog, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.ProcedureLog, error)
	ListForUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, procedureID uuid.UUID) ([]domain.ProcedureLog, error)
	CountForUserProcedure(ctx context.Context, tx *gorm.DB, userID, procedureID uuid.UUID) (int64, error)
}

type procedureLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcedureLogRepo(db *gorm.DB, baseLog *logger.Logger) ProcedureLogRepo {
	return &procedureLogRepo{
		db:  db,
		log: baseLog.With("repo", "ProcedureLogRepo"),
	}
}

const chronological = "performed_at ASC, created_at ASC"

func (r *procedureLogRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.ProcedureLog) (*domain.ProcedureLog, error) {
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

func (r *procedureLogRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.ProcedureLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.ProcedureLog
	err := transaction.WithContext(ctx).
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

func (r *procedureLogRepo) Update(ctx context.Context, tx *gorm.DB, row *domain.ProcedureLog) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *procedureLogRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&domain.ProcedureLog{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *procedureLogRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.ProcedureLog{}).Error
}

func (r *procedureLogRepo) ListForUserProcedure(ctx context.Context, tx *gorm.DB, userID, procedureID uuid.UUID) ([]domain.ProcedureLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.ProcedureLog
	if userID == uuid.Nil || procedureID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND procedure_id = ?", userID, procedureID).
		Order(chronological).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *procedureLogRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.ProcedureLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.ProcedureLog
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(chronological).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *procedureLogRepo) ListForUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, procedureID uuid.UUID) ([]domain.ProcedureLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.ProcedureLog
	if len(userIDs) == 0 || procedureID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ? AND procedure_id = ?", userIDs, procedureID).
		Order(chronological).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *procedureLogRepo) CountForUserProcedure(ctx context.Context, tx *gorm.DB, userID, procedureID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || procedureID == uuid.Nil {
		return 0, nil
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&domain.ProcedureLog{}).
		Where("user_id = ? AND procedure_id = ?", userID, procedureID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
