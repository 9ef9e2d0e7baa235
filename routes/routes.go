package routes

import (
	"net/http"

	"github.com/benchboss/lineup-system/handlers"
	"github.com/benchboss/lineup-system/middleware"
	"github.com/benchboss/lineup-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRoutes собирает всю HTTP-поверхность приложения на переданном роутере.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	gameHandler *handlers.GameHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	battingHandler *handlers.BattingOrderHandler,
	rotationHandler *handlers.RotationHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	adminHandler *handlers.AdminUserHandler,
	dashboardHandler *handlers.DashboardHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticator(jwtSecret)

	router.Get("/swagger/*", httpSwagger.Handler())

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Публичные маршруты
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)
	router.Get("/auth/confirm-email", authHandler.ConfirmEmail)
	router.Post("/auth/forgot-password", authHandler.ForgotPassword)
	router.Post("/auth/reset-password", authHandler.ResetPassword)

	// Маршруты тренера
	router.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.ListMyTeams)
			r.Post("/", teamHandler.CreateTeam)

			r.Route("/{teamID}", func(r chi.Router) {
				r.Get("/", teamHandler.GetTeam)
				r.Put("/", teamHandler.UpdateTeam)
				r.Delete("/", teamHandler.DeleteTeam)
				r.Post("/logo", teamHandler.UploadTeamLogo)

				r.Get("/players", playerHandler.ListTeamPlayers)
				r.Post("/players", playerHandler.CreatePlayer)

				r.Get("/games", gameHandler.ListTeamGames)
				r.Post("/games", gameHandler.CreateGame)

				r.Route("/analytics", func(r chi.Router) {
					r.Get("/", analyticsHandler.GetTeamAnalytics)
					r.Get("/batting", analyticsHandler.GetTeamBattingAnalytics)
					r.Get("/fielding", analyticsHandler.GetTeamFieldingAnalytics)
				})
			})
		})

		r.Route("/players/{playerID}", func(r chi.Router) {
			r.Get("/", playerHandler.GetPlayer)
			r.Put("/", playerHandler.UpdatePlayer)
			r.Delete("/", playerHandler.DeletePlayer)
			r.Post("/photo", playerHandler.UploadPlayerPhoto)
		})

		r.Route("/games/{gameID}", func(r chi.Router) {
			r.Get("/", gameHandler.GetGame)
			r.Put("/", gameHandler.UpdateGame)
			r.Delete("/", gameHandler.DeleteGame)

			r.Get("/availability", availabilityHandler.ListAvailability)
			r.Get("/available-players", availabilityHandler.ListAvailablePlayers)
			r.Put("/availability/{playerID}", availabilityHandler.SetAvailability)

			r.Get("/batting-order", battingHandler.GetOrder)
			r.Put("/batting-order", battingHandler.SaveOrder)

			r.Route("/rotation", func(r chi.Router) {
				r.Get("/", rotationHandler.GetRotation)
				r.Post("/assign", rotationHandler.AssignPosition)
				r.Put("/innings/{inning}", rotationHandler.ReplaceInning)
				r.Post("/generate", rotationHandler.GenerateRotation)
			})
		})

		r.Get("/ws/games/{gameID}", webSocketHandler.ServeWs)
	})

	// Админские маршруты
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.Authorize(models.RoleAdmin))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/dashboard", dashboardHandler.GetStats)
			r.Get("/users", adminHandler.ListUsers)
			r.Post("/users/{userID}/approve", adminHandler.ApproveUser)
			r.Post("/users/{userID}/ban", adminHandler.BanUser)
			r.Delete("/users/{userID}", adminHandler.DeleteUser)
		})
	})
}
