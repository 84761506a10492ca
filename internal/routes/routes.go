package routes

import (
	"github.com/gin-gonic/gin"

	"clinic-booking-server/internal/config"
	"clinic-booking-server/internal/handlers"
	"clinic-booking-server/internal/middleware"
	"clinic-booking-server/internal/scheduling"
	"clinic-booking-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, st *store.Store, scheduler *scheduling.Service, cfg *config.Config) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(st.Patients, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(scheduler)

	api := router.Group("/api")
	{
		// Public auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		// Session-bound auth routes
		authRoutesPrivate := api.Group("/auth")
		authRoutesPrivate.Use(middleware.AuthMiddleware(cfg))
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/me", authHandler.Me)
		}

		// Appointment routes
		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.POST("/book", appointmentHandler.BookAppointment)
			appointmentRoutes.GET("/:patientId", appointmentHandler.GetAppointmentsByPatient)
			appointmentRoutes.PUT("/update/:appointmentId", appointmentHandler.UpdateAppointment)
			appointmentRoutes.DELETE("/:patientId", appointmentHandler.DeleteAppointmentsByPatient)
			appointmentRoutes.DELETE("/appointment/:appointmentId", appointmentHandler.DeleteAppointment)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
