package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleResident Role = "resident"
	RoleSenior   Role = "senior"
)

func (r Role) Valid() bool {
	return r == RoleResident || r == RoleSenior
}

type User struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email       string     `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FullName    string     `gorm:"not null;column:full_name" json:"full_name"`
	Role        Role       `gorm:"not null;column:role" json:"role"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index;column:team_id" json:"team_id,omitempty"`
	Semester    *int       `gorm:"column:semester" json:"semester,omitempty"`
	Institution string     `gorm:"column:institution" json:"institution,omitempty"`
	IsActive    bool       `gorm:"not null;default:false;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

type Team struct {
	ID   uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Team) TableName() string { return "team" }
