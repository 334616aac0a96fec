package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/domain"
	"github.com/aneslog/aneslog-backend/internal/platform/envutil"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type Service struct {
	db     *gorm.DB
	driver string
	log    *logger.Logger
}

// NewService opens the configured database. DB_DRIVER selects postgres
// (default) or sqlite; sqlite exists for local development and CI runs
// that have no postgres at hand.
func NewService(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := strings.ToLower(envutil.Get("DB_DRIVER", "postgres", log))

	var (
		gormDB *gorm.DB
		err    error
	)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	switch driver {
	case "postgres":
		host := envutil.Get("POSTGRES_HOST", "localhost", log)
		port := envutil.Get("POSTGRES_PORT", "5432", log)
		user := envutil.Get("POSTGRES_USER", "postgres", log)
		password := envutil.Get("POSTGRES_PASSWORD", "", log)
		name := envutil.Get("POSTGRES_NAME", "aneslog", log)
		sslMode := envutil.Get("POSTGRES_SSLMODE", "disable", log)

		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, password, host, port, name, sslMode)

		serviceLog.Info("connecting to postgres", "host", host, "db", name)
		gormDB, err = gorm.Open(postgres.Open(dsn), cfg)
		if err != nil {
			serviceLog.Error("failed to connect to postgres", "error", err)
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			serviceLog.Error("failed to enable uuid-ossp extension", "error", err)
			return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
		}
	case "sqlite":
		path := envutil.Get("SQLITE_PATH", "aneslog.db", log)
		serviceLog.Info("opening sqlite database", "path", path)
		gormDB, err = gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			serviceLog.Error("failed to open sqlite database", "error", err)
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	return &Service{db: gormDB, driver: driver, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("auto migrating tables")
	err := s.db.AutoMigrate(
		&domain.Team{},
		&domain.User{},
		&domain.Category{},
		&domain.Procedure{},
		&domain.ProcedureLog{},
		&domain.ProcedureCompetence{},
		&domain.ProcedureThreshold{},
	)
	if err != nil {
		s.log.Error("auto migration failed", "error", err)
		return err
	}
	if s.driver != "postgres" {
		return nil
	}
	s.log.Info("configuring foreign key relationships")
	constraints := []struct {
		name string
		stmt string
	}{
		{"fk_procedure_log_user_id", `
			ALTER TABLE "procedure_log"
			ADD CONSTRAINT "fk_procedure_log_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_procedure_log_procedure_id", `
			ALTER TABLE "procedure_log"
			ADD CONSTRAINT "fk_procedure_log_procedure_id"
			FOREIGN KEY ("procedure_id") REFERENCES "procedure"("id")
			ON DELETE CASCADE`},
		{"fk_procedure_competence_user_id", `
			ALTER TABLE "procedure_competence"
			ADD CONSTRAINT "fk_procedure_competence_user_id"
			FOREIGN KEY ("user_id") REFERENCES "user"("id")
			ON DELETE CASCADE`},
		{"fk_procedure_competence_procedure_id", `
			ALTER TABLE "procedure_competence"
			ADD CONSTRAINT "fk_procedure_competence_procedure_id"
			FOREIGN KEY ("procedure_id") REFERENCES "procedure"("id")
			ON DELETE CASCADE`},
		{"fk_procedure_threshold_team_id", `
			ALTER TABLE "procedure_threshold"
			ADD CONSTRAINT "fk_procedure_threshold_team_id"
			FOREIGN KEY ("team_id") REFERENCES "team"("id")
			ON DELETE CASCADE`},
		{"fk_procedure_threshold_procedure_id", `
			ALTER TABLE "procedure_threshold"
			ADD CONSTRAINT "fk_procedure_threshold_procedure_id"
			FOREIGN KEY ("procedure_id") REFERENCES "procedure"("id")
			ON DELETE CASCADE`},
		{"fk_procedure_category_id", `
			ALTER TABLE "procedure"
			ADD CONSTRAINT "fk_procedure_category_id"
			FOREIGN KEY ("category_id") REFERENCES "category"("id")
			ON DELETE CASCADE`},
	}
	for _, c := range constraints {
		var count int64
		s.db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname = ?`, c.name).Scan(&count)
		if count > 0 {
			continue
		}
		if err := s.db.Exec(c.stmt).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
