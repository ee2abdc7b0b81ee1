package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workhive/config"
	"workhive/database"
	contractRepoPkg "workhive/database/repository/contract"
	jobRepoPkg "workhive/database/repository/job"
	messageRepoPkg "workhive/database/repository/message"
	proposalRepoPkg "workhive/database/repository/proposal"
	testimonialRepoPkg "workhive/database/repository/testimonial"
	userRepoPkg "workhive/database/repository/user"
	"workhive/handlers"
	"workhive/middleware"
	"workhive/routes"
	"workhive/services/auth"
	"workhive/services/marketplace"
	"workhive/services/storage"
	"workhive/services/user"
	"workhive/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitSessionCache()

	// Avatar uploads are optional; the handler answers 503 when unset.
	var storageService storage.StorageService
	if cloudinarySvc, err := storage.NewCloudinaryStorageService(); err != nil {
		logger.Sugar().Warnf("main: cloudinary not configured, avatar uploads disabled: %v", err)
	} else {
		storageService = cloudinarySvc
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	usrRepo := userRepoPkg.NewMongoUserRepo()
	jobRepo := jobRepoPkg.NewMongoJobRepo()
	proposalRepo := proposalRepoPkg.NewMongoProposalRepo()
	contractRepo := contractRepoPkg.NewMongoContractRepo()
	messageRepo := messageRepoPkg.NewMongoMessageRepo()
	testimonialRepo := testimonialRepoPkg.NewMongoTestimonialRepo()

	// services.
	userService := &user.DefaultUserService{
		Repo:  usrRepo,
		Cache: utils.GetCacheClient(),
	}

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	sessionService := auth.NewRedisSessionService(utils.GetSessionCacheClient(), sessionTTL, logger)

	marketplaceService := &marketplace.DefaultMarketplaceService{
		Jobs:         jobRepo,
		Proposals:    proposalRepo,
		Contracts:    contractRepo,
		Messages:     messageRepo,
		Testimonials: testimonialRepo,
	}

	// The session gate runs on every request, before any handler logic.
	router.Use(middleware.SessionGate(sessionService, userService, middleware.SessionGateConfig{
		CookieName:     config.AppConfig.SessionCookie,
		Timeout:        time.Duration(config.AppConfig.GateTimeoutMS) * time.Millisecond,
		MissingProfile: middleware.MissingProfileMode(config.AppConfig.GateMissingProfile),
		CookieSecure:   config.AppConfig.CookieSecure,
	}))

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Auth:         handlers.NewAuthHandler(userService, sessionService),
		Users:        handlers.NewUserHandler(userService, storageService),
		Dashboard:    handlers.NewDashboardHandler(userService),
		Jobs:         handlers.NewJobHandler(marketplaceService),
		Proposals:    handlers.NewProposalHandler(marketplaceService),
		Contracts:    handlers.NewContractHandler(marketplaceService),
		Messages:     handlers.NewMessageHandler(marketplaceService),
		Testimonials: handlers.NewTestimonialHandler(marketplaceService),
		Admin:        handlers.NewAdminHandler(userService, marketplaceService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
