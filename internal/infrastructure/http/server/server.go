// Package server provides the JSON API HTTP server implementation
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bonpetite/planner/internal/infrastructure/config"
	"github.com/bonpetite/planner/internal/infrastructure/http/handlers"
	"github.com/bonpetite/planner/internal/infrastructure/http/middleware"
	"github.com/bonpetite/planner/internal/ports/inbound"
	"github.com/bonpetite/planner/pkg/healthcheck"
)

// Server represents the HTTP server
type Server struct {
	config          *config.Config
	logger          *zap.Logger
	router          *chi.Mux
	server          *http.Server
	health          *healthcheck.HealthCheck
	plannerService  inbound.PlannerService
	shoppingService inbound.ShoppingListService
	recipeService   inbound.RecipeService
}

// NewServer creates a new HTTP server instance
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	health *healthcheck.HealthCheck,
	plannerService inbound.PlannerService,
	shoppingService inbound.ShoppingListService,
	recipeService inbound.RecipeService,
) *Server {
	s := &Server{
		config:          cfg,
		logger:          logger,
		health:          health,
		plannerService:  plannerService,
		shoppingService: shoppingService,
		recipeService:   recipeService,
	}

	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRoutes configures the JSON API routes
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(chimiddleware.Timeout(2 * time.Minute))
	r.Use(middleware.JSONOnly())

	r.Get("/health", s.health.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser())

		planner := handlers.NewPlannerHandlers(s.plannerService, s.logger)
		shopping := handlers.NewShoppingListHandlers(s.shoppingService, s.logger)
		recipes := handlers.NewRecipeHandlers(s.recipeService, s.logger)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", recipes.ListRecipes)
			r.Route("/{recipeID}", func(r chi.Router) {
				r.Get("/", recipes.GetRecipe)
				r.Put("/save", recipes.SaveRecipe)
			})
		})

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", planner.CreatePlan)
			r.Post("/archive", planner.ArchivePlans)

			r.Route("/{planID}", func(r chi.Router) {
				r.Get("/", planner.GetPlan)
				r.Post("/generate", planner.BatchGenerate)
				r.Get("/next-category", planner.NextCategory)

				r.Route("/slots/{slotID}", func(r chi.Router) {
					r.Post("/generate", planner.GenerateSlot)
					r.Post("/regenerate", planner.RegenerateSlot)
					r.Put("/lock", planner.LockSlot)
				})

				r.Route("/shopping-list", func(r chi.Router) {
					r.Post("/", shopping.BuildList)
					r.Get("/", shopping.GetList)
					r.Put("/items", shopping.CheckItem)
				})
			})
		})
	})

	return r
}

// Start begins listening for requests
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
