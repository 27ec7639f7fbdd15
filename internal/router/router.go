package router

import (
	"homecare_client/internal/cache"
	"homecare_client/internal/events"
	"homecare_client/internal/handlers"
	"homecare_client/internal/middleware"
	"homecare_client/internal/repositories"
	"homecare_client/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Dependencies are the long-lived components the routes are built on.
type Dependencies struct {
	Prober          handlers.Prober
	Repos           *repositories.Registry
	Snapshots       *cache.Snapshots
	Sweeper         *services.Sweeper
	Bus             *events.Bus
	Rules           services.BookingRules
	OfflineAccounts []services.OfflineAccount
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Initialize Services
	authService := services.NewAuthService(deps.Repos.Auth, deps.OfflineAccounts)
	bookingService := services.NewBookingService(deps.Repos, deps.Snapshots, deps.Sweeper, deps.Bus, deps.Rules)
	walletService := services.NewWalletService(deps.Repos.Wallets, deps.Repos.TransactionHistories)
	notificationService := services.NewNotificationService(deps.Repos.Notifications, deps.Bus)
	nursingService := services.NewNursingService(deps.Repos.NursingSpecialists, deps.Repos.CustomizeTasks)
	careProfileService := services.NewCareProfileService(deps.Repos.CareProfiles, deps.Repos.Relatives, deps.Repos.ZoneDetails)
	accountService := services.NewAccountService(deps.Repos.Accounts, deps.Repos.Roles)

	// Initialize Handlers
	healthHandler := handlers.NewHealthHandler(deps.Prober)
	authHandler := handlers.NewAuthHandler(authService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	walletHandler := handlers.NewWalletHandler(walletService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	nursingHandler := handlers.NewNursingHandler(nursingService)
	careProfileHandler := handlers.NewCareProfileHandler(careProfileService, accountService)

	subscribeEventLog(deps.Bus)

	engine.GET("/ping", healthHandler.Ping)

	apiV1 := engine.Group("/api/v1")
	SetupAuthRoutes(apiV1, authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupBookingRoutes(authenticated, bookingHandler)
		SetupWalletRoutes(authenticated, walletHandler)
		SetupNotificationRoutes(authenticated, notificationHandler)
		SetupNursingRoutes(authenticated, nursingHandler)
		SetupCareProfileRoutes(authenticated, careProfileHandler)
	}
}

// subscribeEventLog writes every domain event to the log.
func subscribeEventLog(bus *events.Bus) {
	for _, topic := range []string{
		events.TopicNotificationUpdated,
		events.TopicBookingCancelled,
		events.TopicBookingAutoCancelled,
		events.TopicWalletChanged,
	} {
		bus.Subscribe(topic, func(ev events.Event) {
			log.Debug().Str("topic", ev.Topic).Interface("payload", ev.Payload).Msg("Event published")
		})
	}
}
