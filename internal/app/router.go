package app

import (
	"github.com/gin-gonic/gin"

	"github.com/aneslog/aneslog-backend/internal/http/middleware"
	"github.com/aneslog/aneslog-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, h Handlers) *gin.Engine {
	im := middleware.NewIdentityMiddleware(log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(im.Attach())

	r.GET("/healthcheck", h.Health.HealthCheck)

	api := r.Group("/api", im.RequireAuth())

	lb := api.Group("/logbook")
	lb.GET("", h.Logbook.List)
	lb.POST("", h.Logbook.Create)
	lb.GET("/stats", h.Logbook.Stats)
	lb.PUT("/:id", h.Logbook.Update)
	lb.DELETE("/:id", h.Logbook.Delete)
	lb.POST("/:id/validate", im.RequireSenior(), h.Logbook.Validate)

	aut := api.Group("/autonomy")
	aut.GET("/curve", h.Autonomy.Curve)
	aut.GET("/matrix", im.RequireSenior(), h.Autonomy.Matrix)
	aut.GET("/comparison", im.RequireSenior(), h.Autonomy.Comparison)
	aut.GET("/alerts", im.RequireSenior(), h.Autonomy.Alerts)

	comp := api.Group("/competence", im.RequireSenior())
	comp.POST("/:userID/:procedureID/lock", h.Competence.Lock)
	comp.POST("/:userID/:procedureID/unlock", h.Competence.Unlock)
	comp.POST("/:userID/:procedureID/predeclare", h.Competence.PreDeclare)

	thr := api.Group("/thresholds", im.RequireSenior())
	thr.GET("", h.Threshold.List)
	thr.PUT("/:procedureID", h.Threshold.Upsert)
	thr.DELETE("/:procedureID", h.Threshold.Delete)

	api.GET("/catalog", h.Catalog.Get)
	cat := api.Group("/catalog", im.RequireSenior())
	cat.POST("/categories", h.Catalog.CreateCategory)
	cat.POST("/procedures", h.Catalog.CreateProcedure)
	cat.PATCH("/procedures/:procedureID/complexity", h.Catalog.SetComplexity)

	return r
}
