package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complexity selects the default LC-CUSUM parameters for a procedure.
// Simple gestures and complex gestures have different published
// acceptable-failure rates.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityComplex Complexity = "complex"
)

func (c Complexity) Valid() bool {
	return c == ComplexitySimple || c == ComplexityComplex
}

type Category struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name   string     `gorm:"not null;column:name" json:"name"`
	TeamID *uuid.UUID `gorm:"type:uuid;index;column:team_id" json:"team_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

// Procedure is a specific medical gesture. TeamID nil means the procedure
// belongs to the shared catalog and is visible to every team.
type Procedure struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name       string     `gorm:"not null;column:name" json:"name"`
	CategoryID uuid.UUID  `gorm:"type:uuid;not null;index;column:category_id" json:"category_id"`
	Category   *Category  `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	TeamID     *uuid.UUID `gorm:"type:uuid;index;column:team_id" json:"team_id,omitempty"`
	Complexity Complexity `gorm:"not null;default:simple;column:complexity" json:"complexity"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Procedure) TableName() string { return "procedure" }
