package main

import (
	"taskhub/config"
	"taskhub/internal/api"
	"taskhub/internal/db"
	"taskhub/internal/repository"
	"taskhub/internal/service"
	"taskhub/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	// 2. Init DB and apply migrations
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.RunMigrations(cfg.DB); err != nil {
		log.Fatal("DB migration failed", zap.Error(err))
	}

	// 3. Init repositories
	userRepo := repository.NewUserRepository(dbConn, log)
	projectRepo := repository.NewProjectRepository(dbConn, log)
	taskRepo := repository.NewTaskRepository(dbConn, log)

	// 4. Init services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL(), log)
	userService := service.NewUserService(userRepo, log)
	projectService := service.NewProjectService(userRepo, projectRepo, taskRepo, log)
	taskService := service.NewTaskService(userRepo, projectRepo, taskRepo, log)

	// 5. Init handlers
	authHandler := api.NewAuthHandler(authService, log)
	userHandler := api.NewUserHandler(userService, log)
	projectHandler := api.NewProjectHandler(projectService, log)
	taskHandler := api.NewTaskHandler(taskService, log)

	// 6. Init router
	router := api.NewRouter(authHandler, userHandler, projectHandler, taskHandler, cfg.JWT.Secret, dbConn, log)
	defer router.Stop()

	// 7. Run server
	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
