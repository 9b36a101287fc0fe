package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/rudrasish2003/Xenon-Backend/docs"
	"github.com/rudrasish2003/Xenon-Backend/handlers"
	"github.com/rudrasish2003/Xenon-Backend/middleware"
)

// Options configures the cross-cutting parts of the router.
type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	// RequestLogging turns on chi's request logger.
	RequestLogging bool
}

func SetupRoutes(
	router *chi.Mux,
	opts Options,
	matchHandler *handlers.MatchHandler,
	playerHandler *handlers.PlayerHandler,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	auditHandler *handlers.AuditHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	if opts.RequestLogging {
		router.Use(chiMiddleware.Logger)
	}
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)
	editors := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleOrganizer)

	router.Get("/", handlers.Health)
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", matchHandler.GetMatch)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, editors)
			r.Post("/", matchHandler.RecordMatch)
			r.Put("/{matchID}", matchHandler.ReplaceMatch)
			r.Delete("/{matchID}", matchHandler.RemoveMatch)
		})
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListPlayers)
		r.Get("/{playerID}", playerHandler.GetPlayer)
		r.Get("/{playerID}/photo", playerHandler.GetPhoto)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, editors)
			r.Post("/", playerHandler.CreatePlayer)
			r.Put("/{playerID}", playerHandler.UpdatePlayer)
			r.Delete("/{playerID}", playerHandler.DeletePlayer)
			r.Post("/{playerID}/photo", playerHandler.UploadPhoto)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournaments)
		r.Get("/{tournamentID}", tournamentHandler.GetTournament)
		r.Get("/{tournamentID}/standings", tournamentHandler.GetStandings)
		r.Get("/{tournamentID}/teams", teamHandler.ListTournamentTeams)
		r.Get("/{tournamentID}/matches", matchHandler.ListTournamentMatches)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, editors)
			r.Post("/", tournamentHandler.CreateTournament)
			r.Delete("/{tournamentID}", tournamentHandler.DeleteTournament)
			r.Post("/{tournamentID}/teams", teamHandler.CreateTeam)
		})
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamID}", teamHandler.GetTeam)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, editors)
			r.Post("/{teamID}/players/{playerID}", teamHandler.AddRosterPlayer)
			r.Delete("/{teamID}/players/{playerID}", teamHandler.RemoveRosterPlayer)
		})
	})

	router.Route("/admin", func(r chi.Router) {
		r.Use(authenticate, middleware.RequireRole(middleware.RoleAdmin))
		r.Get("/audit", auditHandler.RunAudit)
	})
}
