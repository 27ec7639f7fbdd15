package router

import (
	"homecare_client/internal/handlers"
	"homecare_client/internal/middleware"
	"homecare_client/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the public authentication routes.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/register", authHandler.Register)
	}
}

// SetupBookingRoutes sets up the booking routes.
func SetupBookingRoutes(authenticatedGroup *gin.RouterGroup, bookingHandler *handlers.BookingHandler) {
	bookingRoutes := authenticatedGroup.Group("/bookings")
	{
		bookingRoutes.GET("", bookingHandler.GetBookings)
		bookingRoutes.GET("/export", bookingHandler.ExportBookings)
		bookingRoutes.POST("", middleware.RequireOnline(), bookingHandler.CreateBooking)
		bookingRoutes.GET("/:id/payment", bookingHandler.GetPaymentDetails)
		bookingRoutes.POST("/:id/pay", middleware.RequireOnline(), bookingHandler.PayBooking)
		bookingRoutes.PUT("/:id/cancel", middleware.RequireOnline(), bookingHandler.CancelBooking)
	}
}

// SetupWalletRoutes sets up the wallet routes.
func SetupWalletRoutes(authenticatedGroup *gin.RouterGroup, walletHandler *handlers.WalletHandler) {
	walletRoutes := authenticatedGroup.Group("/wallet")
	{
		walletRoutes.GET("", walletHandler.GetWallet)
		walletRoutes.POST("/topup/validate", walletHandler.ValidateTopUp)
	}
}

// SetupNotificationRoutes sets up the notification routes.
func SetupNotificationRoutes(authenticatedGroup *gin.RouterGroup, notificationHandler *handlers.NotificationHandler) {
	notificationRoutes := authenticatedGroup.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.GetNotifications)
		notificationRoutes.PUT("/:id/read", middleware.RequireOnline(), notificationHandler.MarkAsRead)
	}
}

// SetupNursingRoutes sets up the nurse task routes. Assigning a nurse is
// restricted to staff.
func SetupNursingRoutes(authenticatedGroup *gin.RouterGroup, nursingHandler *handlers.NursingHandler) {
	nursingRoutes := authenticatedGroup.Group("/nursing")
	nursingRoutes.Use(middleware.RoleAuthMiddleware(models.RoleNursingSpecialist, models.RoleAdmin, models.RoleManager))
	{
		nursingRoutes.GET("/tasks", nursingHandler.GetAssignedTasks)
		nursingRoutes.PUT("/tasks/:taskId/assign/:nursingId",
			middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager),
			middleware.RequireOnline(),
			nursingHandler.AssignNursing)
	}
}

// SetupCareProfileRoutes sets up the account, care profile and relative
// routes. Writes need an online session.
func SetupCareProfileRoutes(authenticatedGroup *gin.RouterGroup, careProfileHandler *handlers.CareProfileHandler) {
	authenticatedGroup.GET("/account/me", careProfileHandler.GetMe)
	authenticatedGroup.GET("/zones", careProfileHandler.GetZones)

	careProfileRoutes := authenticatedGroup.Group("/care-profiles")
	{
		careProfileRoutes.GET("", careProfileHandler.GetCareProfiles)
		careProfileRoutes.POST("", middleware.RequireOnline(), careProfileHandler.CreateCareProfile)
		careProfileRoutes.PUT("/:id", middleware.RequireOnline(), careProfileHandler.UpdateCareProfile)
		careProfileRoutes.DELETE("/:id", middleware.RequireOnline(), careProfileHandler.DeleteCareProfile)
		careProfileRoutes.POST("/:id/relatives", middleware.RequireOnline(), careProfileHandler.AddRelative)
	}

	relativeRoutes := authenticatedGroup.Group("/relatives")
	relativeRoutes.Use(middleware.RequireOnline())
	{
		relativeRoutes.PUT("/:id", careProfileHandler.UpdateRelative)
		relativeRoutes.DELETE("/:id", careProfileHandler.DeleteRelative)
	}
}
