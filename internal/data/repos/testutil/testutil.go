package testutil

import (
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

var errMissingDSN = errors.New("missing TEST_POSTGRES_DSN")

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		dsn := os.Getenv("TEST_POSTGRES_DSN")
		if dsn == "" {
			dbErr = errMissingDSN
			return
		}

		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			DisableForeignKeyConstraintWhenMigrating: true,
			Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
		})
		if err != nil {
			dbErr = err
			return
		}

		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			dbErr = err
			return
		}

		if err := autoMigrateAll(db); err != nil {
			dbErr = err
			return
		}
	})

	if errors.Is(dbErr, errMissingDSN) {
		tb.Skip("set TEST_POSTGRES_DSN to run repo integration tests")
	}
	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

func autoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Team{},
		&domain.User{},
		&domain.Category{},
		&domain.Procedure{},
		&domain.ProcedureLog{},
		&domain.ProcedureCompetence{},
		&domain.ProcedureThreshold{},
	)
}

// Seed helpers build valid rows without each test repeating the column
// plumbing. Tests that care about a field set it after the call.

func SeedTeam(tb testing.TB, tx *gorm.DB, name string) *domain.Team {
	tb.Helper()
	team := &domain.Team{ID: uuid.New(), Name: name}
	if err := tx.Create(team).Error; err != nil {
		tb.Fatalf("seed team: %v", err)
	}
	return team
}

func SeedUser(tb testing.TB, tx *gorm.DB, email string, role domain.Role, teamID *uuid.UUID) *domain.User {
	tb.Helper()
	user := &domain.User{
		ID:       uuid.New(),
		Email:    email,
		FullName: "Test " + email,
		Role:     role,
		TeamID:   teamID,
		IsActive: true,
	}
	if err := tx.Create(user).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return user
}

func SeedCategory(tb testing.TB, tx *gorm.DB, name string, teamID *uuid.UUID) *domain.Category {
	tb.Helper()
	cat := &domain.Category{ID: uuid.New(), Name: name, TeamID: teamID}
	if err := tx.Create(cat).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return cat
}

func SeedProcedure(tb testing.TB, tx *gorm.DB, name string, categoryID uuid.UUID, teamID *uuid.UUID, complexity domain.Complexity) *domain.Procedure {
	tb.Helper()
	proc := &domain.Procedure{
		ID:         uuid.New(),
		Name:       name,
		CategoryID: categoryID,
		TeamID:     teamID,
		Complexity: complexity,
	}
	if err := tx.Create(proc).Error; err != nil {
		tb.Fatalf("seed procedure: %v", err)
	}
	return proc
}

func SeedLog(tb testing.TB, tx *gorm.DB, userID, procedureID uuid.UUID, performedAt time.Time, level domain.AutonomyLevel) *domain.ProcedureLog {
	tb.Helper()
	row := &domain.ProcedureLog{
		ID:          uuid.New(),
		UserID:      userID,
		ProcedureID: procedureID,
		PerformedAt: performedAt,
		Autonomy:    level,
	}
	if err := tx.Create(row).Error; err != nil {
		tb.Fatalf("seed procedure log: %v", err)
	}
	return row
}
