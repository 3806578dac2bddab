package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/campusplan/advisor-backend/internal/clients/redis"
	"github.com/campusplan/advisor-backend/internal/db"
	"github.com/campusplan/advisor-backend/internal/handlers"
	"github.com/campusplan/advisor-backend/internal/logger"
	"github.com/campusplan/advisor-backend/internal/middleware"
	"github.com/campusplan/advisor-backend/internal/observability"
	"github.com/campusplan/advisor-backend/internal/repos"
	"github.com/campusplan/advisor-backend/internal/server"
	"github.com/campusplan/advisor-backend/internal/services"
	"github.com/campusplan/advisor-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	serviceName := utils.GetEnv("SERVICE_NAME", "advisor-backend", log)

	// Tracing
	shutdownTracing := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	departmentRepo := repos.NewDepartmentRepo(thePG, log)
	courseRepo := repos.NewCourseRepo(thePG, log)
	programRepo := repos.NewProgramRepo(thePG, log)
	offeringRepo := repos.NewOfferingRepo(thePG, log)
	profileRepo := repos.NewStudentProfileRepo(thePG, log)
	recordRepo := repos.NewStudentRecordRepo(thePG, log)
	versionRepo := repos.NewCatalogVersionRepo(thePG, log)

	// Audit cache
	auditCache, err := redis.NewAuditCache(log)
	if err != nil {
		log.Warn("Audit cache init failed, continuing without cache", "error", err)
		auditCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	catalogService := services.NewCatalogService(thePG, log, departmentRepo, courseRepo, programRepo, versionRepo)
	studentService := services.NewStudentService(thePG, log, profileRepo, recordRepo, auditCache)
	eligibilityService := services.NewEligibilityService(log, catalogService, studentService)
	auditService := services.NewAuditService(log, catalogService, studentService, auditCache)
	scheduleService := services.NewScheduleService(log, offeringRepo)
	recommendationService := services.NewRecommendationService(log, catalogService, studentService, auditService)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(log, catalogService)
	studentHandler := handlers.NewStudentHandler(log, studentService)
	eligibilityHandler := handlers.NewEligibilityHandler(log, eligibilityService)
	auditHandler := handlers.NewAuditHandler(log, auditService)
	scheduleHandler := handlers.NewScheduleHandler(log, scheduleService)
	recommendationHandler := handlers.NewRecommendationHandler(log, recommendationService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:           authHandler,
		AuthMiddleware:        authMiddleware,
		CatalogHandler:        catalogHandler,
		StudentHandler:        studentHandler,
		EligibilityHandler:    eligibilityHandler,
		AuditHandler:          auditHandler,
		ScheduleHandler:       scheduleHandler,
		RecommendationHandler: recommendationHandler,
		ServiceName:           serviceName,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
