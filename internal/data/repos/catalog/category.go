package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Category, error)
	ListForTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]domain.Category, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{
		db:  db,
		log: baseLog.With("repo", "CategoryRepo"),
	}
}

func (r *categoryRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Category) (*domain.Category, error) {
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

func (r *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row domain.Category
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

// ListForTeam returns the shared catalog categories plus the team's own.
func (r *categoryRepo) ListForTeam(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]domain.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.Category
	q := transaction.WithContext(ctx).Order("name ASC")
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
