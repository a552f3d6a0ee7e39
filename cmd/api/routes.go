package main

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	// Router
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedRequest)

	// Middleware
	router.Use(app.metrics)
	router.Use(app.recoverPanic)
	if len(app.config.cors.trustedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   app.config.cors.trustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", scorerKeyHeader},
			ExposedHeaders:   []string{"Location"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	router.Use(app.rateLimit)

	// Healthcheck
	router.Get("/v1/healthcheck", app.HealthCheck)
	router.Method(http.MethodGet, "/v1/metrics", expvar.Handler())

	router.Get("/v1/live", app.GetLiveMatches)

	router.Route("/v1/match", func(router chi.Router) {
		router.Post("/", app.InsertMatch)
		router.Get("/", app.GetAllMatches)

		router.Route("/{pin}", func(router chi.Router) {
			router.Get("/", app.GetMatch)
			router.Get("/players/{side}", app.GetRemainingPlayers)
			router.Get("/over", app.GetCurrentOver)
			router.Get("/over/{index}", app.GetPreviousOver)
			router.Get("/awards", app.GetAwards)
			router.Get("/watch", app.WatchMatch)

			router.Group(func(router chi.Router) {
				router.Use(app.requireScorerKey)
				router.Delete("/", app.DeleteMatch)
				router.Post("/openers", app.SelectOpeners)
				router.Put("/ball", app.RecordBall)
				router.Post("/over", app.AdvanceOver)
				router.Post("/report", app.SendReport)
				router.Get("/keep", app.KeepMatch)
			})
		})
	})

	return router
}
