package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/campusplan/advisor-backend/internal/handlers"
	"github.com/campusplan/advisor-backend/internal/middleware"
	"github.com/campusplan/advisor-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	CatalogHandler        *handlers.CatalogHandler
	StudentHandler        *handlers.StudentHandler
	EligibilityHandler    *handlers.EligibilityHandler
	AuditHandler          *handlers.AuditHandler
	ScheduleHandler       *handlers.ScheduleHandler
	RecommendationHandler *handlers.RecommendationHandler
	ServiceName           string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Catalog
	protected.GET("/courses", cfg.CatalogHandler.ListCourses)
	protected.GET("/departments", cfg.CatalogHandler.ListDepartments)
	protected.GET("/programs", cfg.CatalogHandler.ListPrograms)
	protected.GET("/programs/:code", cfg.CatalogHandler.GetProgram)
	protected.GET("/courses/:code/prerequisites", cfg.EligibilityHandler.PrerequisiteChain)
	// Student
	protected.POST("/students/profile", cfg.StudentHandler.CreateProfile)
	protected.GET("/students/profile", cfg.StudentHandler.GetProfile)
	protected.PUT("/students/profile/program", cfg.StudentHandler.ChangeProgram)
	protected.GET("/students/records", cfg.StudentHandler.ListRecords)
	protected.POST("/students/records", cfg.StudentHandler.AddRecord)
	protected.PUT("/students/records/:courseID", cfg.StudentHandler.UpdateRecord)
	protected.DELETE("/students/records/:courseID", cfg.StudentHandler.DeleteRecord)
	// Eligibility
	protected.GET("/eligibility", cfg.EligibilityHandler.CheckAll)
	protected.GET("/eligibility/:code", cfg.EligibilityHandler.CheckCourse)
	// Audit
	protected.GET("/audit", cfg.AuditHandler.RunAudit)
	protected.POST("/audit/batch", cfg.AuditHandler.BatchAudit)
	// Schedule
	protected.POST("/schedule/validate", cfg.ScheduleHandler.Validate)
	protected.POST("/schedule/can-add", cfg.ScheduleHandler.CanAdd)
	protected.GET("/offerings", cfg.ScheduleHandler.ListOfferings)
	// Recommendations
	protected.GET("/recommendations", cfg.RecommendationHandler.Recommend)

	// ===============
	// || Admin     ||
	// ===============
	admin := protected.Group("/")
	admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
	admin.POST("/courses", cfg.CatalogHandler.CreateCourse)
	admin.POST("/programs", cfg.CatalogHandler.CreateProgram)
	admin.PATCH("/courses/:code/active", cfg.CatalogHandler.SetCourseActive)

	return router
}
