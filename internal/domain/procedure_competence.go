package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProcedureCompetence is the per (user, procedure) mastery record. Created
// lazily the first time mastery is detected or manually pre-declared.
//
// Invariants: IsLocked implies IsMastered; IsPreAcquired implies IsLocked
// and IsMastered. The unique index on (user_id, procedure_id) is what makes
// concurrent first-mastery detection safe: the losing insert is a no-op.
type ProcedureCompetence struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_competence_user_procedure,unique;column:user_id" json:"user_id"`
	ProcedureID uuid.UUID `gorm:"type:uuid;not null;index:idx_competence_user_procedure,unique;column:procedure_id" json:"procedure_id"`

	IsMastered         bool       `gorm:"not null;default:false;column:is_mastered" json:"is_mastered"`
	MasteredAtLogCount *int       `gorm:"column:mastered_at_log_count" json:"mastered_at_log_count,omitempty"`
	MasteredAt         *time.Time `gorm:"column:mastered_at" json:"mastered_at,omitempty"`

	IsLocked bool       `gorm:"not null;default:false;column:is_locked" json:"is_locked"`
	LockedBy *uuid.UUID `gorm:"type:uuid;column:locked_by" json:"locked_by,omitempty"`
	LockedAt *time.Time `gorm:"column:locked_at" json:"locked_at,omitempty"`

	IsPreAcquired bool `gorm:"not null;default:false;column:is_pre_acquired" json:"is_pre_acquired"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProcedureCompetence) TableName() string { return "procedure_competence" }

// ProcedureThreshold is the expected-attempts band a senior configures per
// (team, procedure): mastery before MinProcedures attempts looks
// over-confident, no mastery after 2x MaxProcedures looks under-confident.
type ProcedureThreshold struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TeamID      uuid.UUID `gorm:"type:uuid;not null;index:idx_threshold_team_procedure,unique;column:team_id" json:"team_id"`
	ProcedureID uuid.UUID `gorm:"type:uuid;not null;index:idx_threshold_team_procedure,unique;column:procedure_id" json:"procedure_id"`

	MinProcedures int       `gorm:"not null;column:min_procedures" json:"min_procedures"`
	MaxProcedures int       `gorm:"not null;column:max_procedures" json:"max_procedures"`
	CreatedBy     uuid.UUID `gorm:"type:uuid;not null;column:created_by" json:"created_by"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProcedureThreshold) TableName() string { return "procedure_threshold" }
