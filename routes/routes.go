package routes

import (
	"net/http"

	_ "github.com/Dosada05/pushbike-heats/docs"
	"github.com/Dosada05/pushbike-heats/handlers"
	"github.com/Dosada05/pushbike-heats/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Events    *handlers.EventHandler
	Brackets  *handlers.BracketHandler
	Finishes  *handlers.FinishHandler
	Rounds    *handlers.RoundHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router chi.Router, h Handlers, jwtSecret string) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)

	router.Route("/events/{eventID}", func(r chi.Router) {
		// Публичные маршруты: зрители и табло
		r.Get("/competitors", h.Events.ListCompetitors)
		r.Get("/batches", h.Events.GetBatches)
		r.Get("/status", h.Brackets.GetStatus)
		r.Get("/rounds/{round}", h.Brackets.GetRound)
		r.Get("/rounds/{round}/brackets/{tier}", h.Brackets.GetBracket)
		r.Get("/standings", h.Finishes.GetStandings)
		r.Get("/results", h.Rounds.GetResults)

		// Только для администраторов
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.RequireRole(middleware.RoleAdmin))

			r.Post("/batches", h.Events.AssignBatches)
			r.Post("/finishes", h.Finishes.RecordFinish)
			r.Post("/finishes/bulk", h.Finishes.RecordFinishBulk)
			r.Post("/rounds/{round}/finalize", h.Rounds.FinalizeRound)
		})
	})
}
