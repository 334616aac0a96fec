package app

import (
	"github.com/aneslog/aneslog-backend/internal/http/handlers"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Logbook    *handlers.LogbookHandler
	Autonomy   *handlers.AutonomyHandler
	Competence *handlers.CompetenceHandler
	Threshold  *handlers.ThresholdHandler
	Catalog    *handlers.CatalogHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     handlers.NewHealthHandler(),
		Logbook:    handlers.NewLogbookHandler(svcs.Logbook),
		Autonomy:   handlers.NewAutonomyHandler(svcs.Autonomy),
		Competence: handlers.NewCompetenceHandler(svcs.Competence),
		Threshold:  handlers.NewThresholdHandler(svcs.Threshold),
		Catalog:    handlers.NewCatalogHandler(svcs.Catalog),
	}
}
