package app

import (
	"gorm.io/gorm"

	"github.com/aneslog/aneslog-backend/internal/data/repos/catalog"
	"github.com/aneslog/aneslog-backend/internal/data/repos/competence"
	"github.com/aneslog/aneslog-backend/internal/data/repos/logbook"
	"github.com/aneslog/aneslog-backend/internal/data/repos/users"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

type Repos struct {
	User       users.UserRepo
	Team       users.TeamRepo
	Category   catalog.CategoryRepo
	Procedure  catalog.ProcedureRepo
	Log        logbook.ProcedureLogRepo
	Competence competence.ProcedureCompetenceRepo
	Threshold  competence.ProcedureThresholdRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       users.NewUserRepo(db, log),
		Team:       users.NewTeamRepo(db, log),
		Category:   catalog.NewCategoryRepo(db, log),
		Procedure:  catalog.NewProcedureRepo(db, log),
		Log:        logbook.NewProcedureLogRepo(db, log),
		Competence: competence.NewProcedureCompetenceRepo(db, log),
		Threshold:  competence.NewProcedureThresholdRepo(db, log),
	}
}
