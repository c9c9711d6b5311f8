package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/shivamgupta1990/hostel-grievance-api/api/swagger"
	"github.com/shivamgupta1990/hostel-grievance-api/internal/middleware"
	"github.com/shivamgupta1990/hostel-grievance-api/internal/models"
	"github.com/shivamgupta1990/hostel-grievance-api/internal/service"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/config"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/logger"
	corsmiddleware "github.com/shivamgupta1990/hostel-grievance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/shivamgupta1990/hostel-grievance-api/pkg/middleware/requestid"
	"github.com/shivamgupta1990/hostel-grievance-api/pkg/storage"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Auth       *service.AuthService
	Grievances *service.GrievanceService
	Metrics    *service.MetricsService
	Uploads    *storage.LocalStorage
}

// NewRouter assembles the gin engine: middleware chain, operational
// endpoints and the grievance API route table.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if deps.Uploads != nil {
		r.Static("/uploads", deps.Uploads.Dir())
	}

	authHandler := NewAuthHandler(deps.Auth)
	grievanceHandler := NewGrievanceHandler(deps.Grievances, deps.Uploads, deps.Config.Uploads.MaxImageSizeByte)

	authRequired := middleware.JWT(deps.Auth)
	studentOnly := middleware.RequireRole(models.RoleStudent)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.POST("/register/student", authHandler.RegisterStudent)
	r.POST("/register/admin", authHandler.RegisterAdmin)
	r.POST("/login/student", authHandler.LoginStudent)
	r.POST("/login/admin", authHandler.LoginAdmin)

	r.GET("/profile/student", authRequired, studentOnly, authHandler.StudentProfile)
	r.GET("/profile/admin", authRequired, adminOnly, authHandler.AdminProfile)

	r.POST("/api/grievances", authRequired, studentOnly, grievanceHandler.Create)
	r.GET("/api/grievances/my", authRequired, studentOnly, grievanceHandler.ListMine)

	// Path spelling is kept as-is for compatibility with deployed clients.
	r.GET("/all/greivances/admin", authRequired, adminOnly, grievanceHandler.ListByHostel)
	r.GET("/all/greivances/admin/export", authRequired, adminOnly, grievanceHandler.Export)

	r.GET("/grievance/:id", authRequired, grievanceHandler.Get)
	r.POST("/grievance/:id/status", authRequired, adminOnly, grievanceHandler.UpdateStatus)

	return r
}
