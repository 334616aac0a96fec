package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProcedureLog is the core transaction: one recorded performance of a
// procedure by a resident. Success stays nil until a senior validates the
// outcome; the autonomy engine falls back to the declared level for
// unvalidated rows.
type ProcedureLog struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;not null;index:idx_log_user_procedure;column:user_id" json:"user_id"`
	ProcedureID uuid.UUID     `gorm:"type:uuid;not null;index:idx_log_user_procedure;column:procedure_id" json:"procedure_id"`
	PerformedAt time.Time     `gorm:"not null;index;column:performed_at" json:"performed_at"`
	Autonomy    AutonomyLevel `gorm:"not null;column:autonomy_level" json:"autonomy_level"`

	Success     *bool      `gorm:"column:success" json:"success,omitempty"`
	ValidatedBy *uuid.UUID `gorm:"type:uuid;column:validated_by" json:"validated_by,omitempty"`

	Notes    string         `gorm:"column:notes" json:"notes,omitempty"`
	Metadata datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProcedureLog) TableName() string { return "procedure_log" }
