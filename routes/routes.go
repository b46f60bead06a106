package routes

import (
	"HospiCare/cache"
	"HospiCare/config"
	"HospiCare/controllers"
	"HospiCare/handlers"
	"HospiCare/middlewares"
	"HospiCare/models"
	"HospiCare/repositories"
	"HospiCare/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes initializes the routes and middleware for the server
func SetupRoutes(cache *cache.Cache, config *config.AppConfig, catalog *models.Catalog) http.Handler {
	// Set Gin to release mode
	gin.SetMode(gin.ReleaseMode)

	// Create a Gin router
	router := gin.Default()

	// Apply Bearer token validation to all routes
	router.Use(middlewares.ValidateBearerToken(config.GetBearerToken()))

	// Create and apply CORS middleware configuration
	corsConfig := &middlewares.CorsConfig{
		AllowedOrigins:   []string{"http://localhost:3000", "https://www.example.com", "https://example-dev.com"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Actor"},
		AllowCredentials: true,
	}
	router.Use(middlewares.CorsMiddleware(corsConfig))

	// Apply rate limiter middleware
	router.Use(middlewares.NewRateLimiterMiddleware(middlewares.RateLimiterConfig{
		RequestsPerSecond: 15,
		Burst:             30,
	}))

	// Apply logging middleware
	router.Use(middlewares.LoggingMiddleware())

	// Initialize repositories
	patientRepo := repositories.NewPatientRepository(cache)
	doctorRepo := repositories.NewDoctorRepository(cache)
	appointmentRepo := repositories.NewAppointmentRepository(cache, catalog, patientRepo)
	pharmacyRepo := repositories.NewPharmacyRepository(cache, patientRepo)
	hospitalizationRepo := repositories.NewHospitalizationRepository(cache, patientRepo)
	insuranceRepo := repositories.NewInsuranceRepository(cache, catalog, patientRepo)
	billRepo := repositories.NewBillRepository(cache)

	// Initialize services. Billing doubles as the completion-event consumer
	// for the appointment, pharmacy, and hospitalization flows.
	billingService := services.NewBillingService(billRepo)
	profileService := services.NewProfileService(patientRepo, doctorRepo)
	appointmentService := services.NewAppointmentService(appointmentRepo, billingService)
	pharmacyService := services.NewPharmacyService(pharmacyRepo, billingService)
	hospitalizationService := services.NewHospitalizationService(hospitalizationRepo, billingService)
	insuranceService := services.NewInsuranceService(insuranceRepo)

	// Initialize handlers and register routes
	controllers.SetupProfileRoutes(router, handlers.NewProfileHandler(profileService))
	controllers.SetupCatalogRoutes(router, handlers.NewCatalogHandler(catalog))
	controllers.SetupAppointmentRoutes(router, handlers.NewAppointmentHandler(appointmentService))
	controllers.SetupPharmacyRoutes(router, handlers.NewPharmacyHandler(pharmacyService))
	controllers.SetupHospitalizationRoutes(router, handlers.NewHospitalizationHandler(hospitalizationService))
	controllers.SetupInsuranceRoutes(router, handlers.NewInsuranceHandler(insuranceService))
	controllers.SetupBillingRoutes(router, handlers.NewBillingHandler(billingService))

	controllers.SetupRootRoute(router)

	return router
}
