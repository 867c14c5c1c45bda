// main.go - Entry point for the device-trust authentication backend

package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-devicetrust-backend/config"
	"go-devicetrust-backend/database"
	"go-devicetrust-backend/handlers"
	"go-devicetrust-backend/middleware"
	"go-devicetrust-backend/utils"
)

func main() {
	// STEP 1: Load configuration, logging and the database.
	cfg := config.Load()
	logger := utils.GetLogger()

	if err := database.Connect(cfg.DBPath); err != nil {
		logger.Fatal("DB connection error", zap.Error(err))
	}

	// STEP 2: Create the router and wire routes.
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Public routes
	r.POST("/login", handlers.Login)

	// Authenticated routes
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.POST("/logout", handlers.Logout)
		api.GET("/me", handlers.Me)
	}

	// Administrator review surface
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/requests/pending", handlers.ListPendingRequests)
		admin.GET("/requests/count", handlers.PendingRequestCount)
		admin.GET("/requests", handlers.RequestHistory)
		admin.POST("/requests/:id/approve", handlers.ApproveRequest)
		admin.POST("/requests/:id/reject", handlers.RejectRequest)
		admin.DELETE("/requests/:id", handlers.PurgeRequest)

		admin.GET("/devices", handlers.ListDevices)
		admin.POST("/devices", handlers.AddDevice)
		admin.DELETE("/devices/:id", handlers.RevokeDevice)

		admin.GET("/users", handlers.ListUsers)
		admin.POST("/users", handlers.CreateUser)
		admin.DELETE("/users/:id", handlers.DeleteUser)

		admin.GET("/dashboard", handlers.DashboardData)
	}

	// STEP 3: Start the web server.
	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
