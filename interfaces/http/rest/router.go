package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"factsaura-backend/application/commands/bus"
	"factsaura-backend/application/ports"
	querybus "factsaura-backend/application/queries/bus"
	"factsaura-backend/application/services"
	"factsaura-backend/interfaces/http/rest/handlers"
	"factsaura-backend/interfaces/http/rest/middleware"
	"factsaura-backend/pkg/observability"
	"factsaura-backend/pkg/utils"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus     *bus.CommandBus
	queryBus       *querybus.QueryBus
	classifier     *services.Classifier
	store          ports.GenealogyStore
	collector      *observability.Collector
	allowedOrigins []string
	logger         *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	classifier *services.Classifier,
	store ports.GenealogyStore,
	collector *observability.Collector,
	allowedOrigins []string,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:     commandBus,
		queryBus:       queryBus,
		classifier:     classifier,
		store:          store,
		collector:      collector,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.collector))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Method(http.MethodGet, "/metrics", rt.collector.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		classifyHandler := handlers.NewClassifyHandler(rt.classifier, rt.collector, rt.logger)
		r.Post("/classify", classifyHandler.Classify)

		ingestHandler := handlers.NewIngestHandler(rt.commandBus, rt.logger)
		r.Post("/ingest", ingestHandler.Ingest)

		r.Route("/families", func(r chi.Router) {
			familyHandler := handlers.NewFamilyHandler(rt.commandBus, rt.queryBus, rt.logger)
			r.Post("/", familyHandler.CreateFamily)
			r.Get("/", familyHandler.ListFamilies)
			r.Get("/{familyID}", familyHandler.GetFamily)
			r.Post("/{familyID}/mutations", familyHandler.AddMutation)
			r.Get("/{familyID}/patterns", familyHandler.AnalyzePatterns)
			r.Get("/{familyID}/visualization", familyHandler.GetVisualization)
		})

		r.Route("/nodes", func(r chi.Router) {
			nodeHandler := handlers.NewNodeHandler(rt.queryBus, rt.logger)
			r.Get("/common-ancestor", nodeHandler.FindCommonAncestor)
			r.Get("/{nodeID}/ancestry", nodeHandler.GetAncestry)
			r.Get("/{nodeID}/descendants", nodeHandler.GetDescendants)
		})

		r.Route("/admin", func(r chi.Router) {
			adminHandler := handlers.NewAdminHandler(rt.commandBus, rt.store, rt.collector, rt.logger)
			r.Post("/similarity-cache/clear", adminHandler.ClearSimilarityCache)
			r.Get("/stats", adminHandler.Stats)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests. The store is in
// memory, so the service is ready as soon as it serves traffic.
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready","time":"` + utils.NowRFC3339() + `"}`))
}
