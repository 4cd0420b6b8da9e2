package routes

import (
	"cityguard/internal/adapters/http/handlers"
	"cityguard/internal/adapters/http/middleware"
	"cityguard/internal/adapters/persistence/repositories"
	"cityguard/internal/config"
	"cityguard/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, storage services.ImageStorage, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	businessRepo := repositories.NewBusinessRepository(db)
	adRepo := repositories.NewAdRepository(db)
	donorRepo := repositories.NewBloodDonorRepository(db)
	requestRepo := repositories.NewBloodRequestRepository(db)
	jobRepo := repositories.NewJobRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, refreshTokenRepo)
	businessService := services.NewBusinessService(businessRepo, userRepo, jobRepo, adRepo, storage)
	adService := services.NewAdService(adRepo, businessRepo, storage)
	donorService := services.NewBloodDonorService(donorRepo, requestRepo)
	requestService := services.NewBloodRequestService(requestRepo, donorRepo)
	jobService := services.NewJobService(jobRepo, businessRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	adHandler := handlers.NewAdHandler(adService)
	donorHandler := handlers.NewBloodDonorHandler(donorService)
	requestHandler := handlers.NewBloodRequestHandler(requestService, cfg)
	jobHandler := handlers.NewJobHandler(jobService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Uploaded images
	app.Static(cfg.Upload.PublicURL, cfg.Upload.Dir)

	// API group
	api := app.Group("/api")

	setupUserRoutes(api.Group("/users"), authHandler, userHandler, cfg)
	setupBusinessRoutes(api.Group("/bus"), businessHandler, cfg)
	setupAdRoutes(api.Group("/ads"), adHandler, cfg)
	setupJobRoutes(api.Group("/jobs"), jobHandler, cfg)
	setupBloodDonorRoutes(api.Group("/blood-donors"), donorHandler, cfg)
	setupBloodRequestRoutes(api, requestHandler, cfg)
}

// setupUserRoutes configures auth and user management routes
func setupUserRoutes(router fiber.Router, authHandler *handlers.AuthHandler, userHandler *handlers.UserHandler, cfg *config.Config) {
	// Public auth routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	router.Post("/refresh-token", middleware.AuthRateLimiter(), authHandler.RefreshToken)
	router.Post("/logout", authHandler.Logout)

	// Authenticated self-service routes
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), authHandler.LogoutAll)
	router.Get("/me", middleware.AuthMiddleware(cfg), userHandler.Me)
	router.Put("/profile", middleware.AuthMiddleware(cfg), userHandler.UpdateProfile)
	router.Put("/change-password", middleware.AuthMiddleware(cfg), middleware.StrictRateLimiter(), userHandler.ChangePassword)

	// Admin user management
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Get("/", userHandler.ListUsers)
	adminRoutes.Post("/create", userHandler.CreateUser)
	adminRoutes.Get("/sessions", userHandler.ActiveSessions)
	adminRoutes.Get("/getUser/:id", userHandler.GetUser)
	adminRoutes.Put("/:id", userHandler.UpdateUser)
	adminRoutes.Delete("/:id", userHandler.DeleteUser)
}

// setupBusinessRoutes configures business routes (Authenticated)
func setupBusinessRoutes(router fiber.Router, handler *handlers.BusinessHandler, cfg *config.Config) {
	router.Use(middleware.AuthMiddleware(cfg))

	router.Post("/createbusinesses", handler.CreateBusiness)
	router.Get("/getbusinesses", handler.GetMyBusinesses)
	router.Get("/checkUserBusiness", handler.CheckUserBusiness)
	router.Get("/getbusinesse/:id", handler.GetBusiness)
	router.Put("/updatebusinesses/:id", handler.UpdateBusiness)
	router.Delete("/deletebusinesses/:id", handler.DeleteBusiness)
	router.Get("/getbusinessesState/:id/stats", handler.GetBusinessStats)
}

// setupAdRoutes configures ad routes
func setupAdRoutes(router fiber.Router, handler *handlers.AdHandler, cfg *config.Config) {
	// Public serving routes
	router.Get("/public", middleware.CacheControl(60), handler.GetPublicAds)
	router.Get("/type/:type", middleware.CacheControl(60), handler.GetAdsByType)
	router.Post("/:id/click", handler.IncrementClicks)

	// Management routes (Owner/Admin)
	managed := router.Group("")
	managed.Use(middleware.AuthMiddleware(cfg))
	managed.Use(middleware.OwnerOrAdmin())

	managed.Post("/", handler.CreateAd)
	managed.Get("/", handler.GetAllAds)
	managed.Get("/my", handler.GetMyAds)
	managed.Patch("/:id/status", middleware.AdminOnly(), handler.UpdateAdStatus)
	managed.Get("/:id", handler.GetAd)
	managed.Put("/:id", handler.UpdateAd)
	managed.Delete("/:id", handler.DeleteAd)
}

// setupJobRoutes configures job board routes
func setupJobRoutes(router fiber.Router, handler *handlers.JobHandler, cfg *config.Config) {
	// Public routes
	router.Get("/featured", middleware.CacheControl(60), handler.GetFeaturedJobs)
	router.Get("/search/quick", handler.QuickSearch)
	router.Get("/popular-categories", middleware.CacheControl(300), handler.GetPopularCategories)
	router.Get("/category/:category", handler.GetJobsByCategory)
	router.Get("/notifications/new", middleware.OptionalAuth(cfg), handler.GetNewJobsNotification)
	router.Get("/getall", handler.GetAllJobs)
	router.Get("/getjob/:id", handler.GetJob)

	// Authenticated routes
	router.Get("/mycity", middleware.AuthMiddleware(cfg), handler.GetJobsInMyCity)
	router.Get("/statistics", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.GetStatistics)

	// Owner/Admin management routes
	managed := router.Group("")
	managed.Use(middleware.AuthMiddleware(cfg))
	managed.Use(middleware.OwnerOrAdmin())

	managed.Post("/create", handler.CreateJob)
	managed.Get("/business/myjobs", handler.GetBusinessJobs)
	managed.Put("/update/:id", handler.UpdateJob)
	managed.Delete("/delete/:id", handler.DeleteJob)
	managed.Post("/:id/renew", handler.RenewJob)
	managed.Patch("/:id/toggle-status", handler.ToggleJobStatus)
}

// setupBloodDonorRoutes configures donor registry routes
func setupBloodDonorRoutes(router fiber.Router, handler *handlers.BloodDonorHandler, cfg *config.Config) {
	// Public routes
	router.Get("/search", handler.SearchDonors)
	router.Get("/statistics", middleware.CacheControl(60), handler.GetDonorStatistics)
	router.Get("/matching/:requestId", handler.GetMatchingDonors)

	// Authenticated self-service routes
	router.Post("/register", middleware.AuthMiddleware(cfg), handler.RegisterDonor)
	router.Get("/my-profile", middleware.AuthMiddleware(cfg), handler.GetDonorProfile)
	router.Put("/status", middleware.AuthMiddleware(cfg), handler.UpdateDonorStatus)
	router.Put("/updateprofile", middleware.AuthMiddleware(cfg), handler.UpdateDonorProfile)
	router.Put("/last-donation", middleware.AuthMiddleware(cfg), handler.UpdateLastDonation)

	// Admin routes
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AuthMiddleware(cfg))
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Get("/", handler.GetAllDonors)
}

// setupBloodRequestRoutes configures request board routes
func setupBloodRequestRoutes(api fiber.Router, handler *handlers.BloodRequestHandler, cfg *config.Config) {
	router := api.Group("/blood-requests")

	// Public routes, creation works anonymously too
	router.Post("/", middleware.OptionalAuth(cfg), handler.CreateRequest)
	router.Get("/", handler.GetAllRequests)
	router.Get("/search", handler.SearchRequests)
	router.Get("/statistics", middleware.CacheControl(60), handler.GetStatistics)
	router.Get("/:id", handler.GetRequest)
	router.Get("/:id/match-donors", handler.MatchDonors)

	// Requester/Admin routes
	router.Put("/:id", middleware.AuthMiddleware(cfg), handler.UpdateRequest)
	router.Delete("/:id", middleware.AuthMiddleware(cfg), handler.DeleteRequest)
	router.Put("/:id/status", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.UpdateStatus)

	// Own requests listing
	api.Get("/my/blood-requests", middleware.AuthMiddleware(cfg), handler.GetMyRequests)
}
