package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type TeamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Team) (*domain.Team, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Team, error)
}

type teamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo {
	return &teamRepo{
		db:  db,
		log: baseLog.With("repo", "TeamRepo"),
	}
}

func (r *teamRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Team) (*domain.Team, error) {
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

func (r *teamRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Team
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
