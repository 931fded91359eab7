package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/autofleet/garage-api/internal/api"
	apiMiddleware "github.com/autofleet/garage-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier)
	catalogHandler := api.NewCatalogHandler(app.brandStore, app.carModelStore, app.colorStore)
	carHandler := api.NewCarHandler(app.carService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)

		r.Get("/brands", catalogHandler.ListBrands)
		r.Get("/brands/{id}", catalogHandler.ShowBrand)
		r.Get("/car-models", catalogHandler.ListCarModels)
		r.Get("/car-models/{id}", catalogHandler.ShowCarModel)
		r.Get("/colors", catalogHandler.ListColors)
		r.Get("/colors/{id}", catalogHandler.ShowColor)

		// Protected endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/logout", authHandler.Logout)
			r.Get("/user", authHandler.CurrentUser)

			r.Get("/cars", carHandler.List)
			r.Post("/cars", carHandler.Store)
			r.Get("/cars/{id}", carHandler.Show)
			r.Put("/cars/{id}", carHandler.Update)
			r.Delete("/cars/{id}", carHandler.Destroy)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
