package app

import (
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/platform/logger"
	"github.com/aneslog/aneslog-backend/internal/services"
)

type Services struct {
	Autonomy   services.AutonomyService
	Logbook    services.LogbookService
	Competence services.CompetenceService
	Threshold  services.ThresholdService
	Catalog    services.CatalogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) Services {
	log.Info("Wiring services...")
	autonomySvc := services.NewAutonomyService(
		db, log,
		cfg.Policy,
		cfg.MasteryRepeatThreshold,
		repos.Log,
		repos.Competence,
		repos.Threshold,
		repos.Procedure,
		repos.User,
	)
	return Services{
		Autonomy:   autonomySvc,
		Logbook:    services.NewLogbookService(db, log, repos.Log, repos.Procedure, repos.User, autonomySvc),
		Competence: services.NewCompetenceService(db, log, repos.Competence, repos.User),
		Threshold:  services.NewThresholdService(db, log, repos.Threshold, repos.Procedure, repos.User),
		Catalog:    services.NewCatalogService(db, log, repos.Category, repos.Procedure, repos.User),
	}
}
