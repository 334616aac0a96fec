package competence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

// ProcedureCompetenceRepo persists per (user, procedure) mastery records.
type ProcedureCompetenceRepo interface {
	GetForUserProcedure(ctx context.Context, tx *gorm.DB, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.ProcedureCompetence, error)
	ListForUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]domain.ProcedureCompetence, error)
	CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *domain.ProcedureCompetence) (*domain.ProcedureCompetence, bool, error)
	Save(ctx context.Context, tx *gorm.DB, row *domain.ProcedureCompetence) error
}

type procedureCompetenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcedureCompetenceRepo(db *gorm.DB, baseLog *logger.Logger) ProcedureCompetenceRepo {
	return &procedureCompetenceRepo{
		db:  db,
		log: baseLog.With("repo", "ProcedureCompetenceRepo"),
	}
}

func (r *procedureCompetenceRepo) GetForUserProcedure(ctx context.Context, tx *gorm.DB, userID, procedureID uuid.UUID) (*domain.ProcedureCompetence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if userID == uuid.Nil || procedureID == uuid.Nil {
		return nil, nil
	}
	var row domain.ProcedureCompetence
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND procedure_id = ?", userID, procedureID).
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

func (r *procedureCompetenceRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]domain.ProcedureCompetence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.ProcedureCompetence
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *procedureCompetenceRepo) ListForUsers(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]domain.ProcedureCompetence, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var out []domain.ProcedureCompetence
	if len(userIDs) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CreateIfAbsent inserts the record, treating a unique violation on
// (user_id, procedure_id) as "someone else won the race". It returns the
// row now in the table and whether this call created it. Two concurrent
// mastery detections for the same pair therefore converge on one record.
func (r *procedureCompetenceRepo) CreateIfAbsent(ctx context.Context, tx *gorm.DB, row *domain.ProcedureCompetence) (*domain.ProcedureCompetence, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil, false, nil
	}
	err := transaction.WithContext(ctx).Create(row).Error
	if err == nil {
		return row, true, nil
	}
	if !isUniqueViolation(err) {
		return nil, false, err
	}
	existing, getErr := r.GetForUserProcedure(ctx, tx, row.UserID, row.ProcedureID)
	if getErr != nil {
		return nil, false, getErr
	}
	return existing, false, nil
}

func (r *procedureCompetenceRepo) Save(ctx context.Context, tx *gorm.DB, row *domain.ProcedureCompetence) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
