package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"factsaura-backend/application/commands"
	"factsaura-backend/application/commands/bus"
	"factsaura-backend/application/ports"
	"factsaura-backend/application/queries"
	querybus "factsaura-backend/application/queries/bus"
	appservices "factsaura-backend/application/services"
	domaincfg "factsaura-backend/domain/config"
	"factsaura-backend/domain/events"
	domainservices "factsaura-backend/domain/services"
	"factsaura-backend/infrastructure/config"
	"factsaura-backend/infrastructure/messaging"
	"factsaura-backend/infrastructure/persistence/memory"
	"factsaura-backend/interfaces/http/rest"
	"factsaura-backend/pkg/observability"
)

// queryCacheTTLSeconds bounds how stale cached read results may get.
const queryCacheTTLSeconds = 5

// ProvideLogger creates the process logger from the logging config
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() && !cfg.Logging.Pretty {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

// ProvideDomainConfig loads the environment's domain defaults and applies
// the optional YAML overrides file
func ProvideDomainConfig(cfg *config.Config) (*domaincfg.DomainConfig, error) {
	domainCfg := domaincfg.LoadDomainConfig(cfg.Environment)
	if cfg.DomainConfigPath != "" {
		if err := config.ApplyDomainOverrides(cfg.DomainConfigPath, domainCfg); err != nil {
			return nil, err
		}
	}
	return domainCfg, nil
}

// ProvideTextAnalyzer creates the text preprocessing service
func ProvideTextAnalyzer(domainCfg *domaincfg.DomainConfig, logger *zap.Logger) domainservices.TextAnalyzer {
	return domainservices.NewTextAnalyzer(domainCfg, logger)
}

// ProvideSimilarityCalculator creates the similarity scoring engine
func ProvideSimilarityCalculator(domainCfg *domaincfg.DomainConfig, logger *zap.Logger) domainservices.SimilarityCalculator {
	return domainservices.NewSimilarityCalculator(domainCfg, logger)
}

// ProvideCollector creates the Prometheus metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector("factsaura")
}

// ProvideDispatcher creates the event dispatcher with the metric
// subscriptions wired in
func ProvideDispatcher(collector *observability.Collector, logger *zap.Logger) *messaging.Dispatcher {
	dispatcher := messaging.NewDispatcher(logger)
	dispatcher.Subscribe(events.EventFamilyCreated, func(ctx context.Context, event events.DomainEvent) {
		collector.FamiliesCreated.Inc()
	})
	dispatcher.Subscribe(events.EventMutationAttached, func(ctx context.Context, event events.DomainEvent) {
		collector.MutationsAttached.Inc()
	})
	dispatcher.Subscribe(events.EventContentClassified, func(ctx context.Context, event events.DomainEvent) {
		if classified, ok := event.(events.ContentClassified); ok {
			collector.Classifications.WithLabelValues(classified.Action).Inc()
		}
	})
	return dispatcher
}

// ProvideEventPublisher exposes the dispatcher through the outbound port
func ProvideEventPublisher(dispatcher *messaging.Dispatcher) ports.EventPublisher {
	return dispatcher
}

// ProvideConfigWatcher creates the runtime config watcher. A nil watcher
// means no runtime config file is configured and static limits apply.
func ProvideConfigWatcher(cfg *config.Config, logger *zap.Logger) (*config.ConfigWatcher, error) {
	if cfg.RuntimeConfigPath == "" {
		return nil, nil
	}
	return config.NewConfigWatcher(cfg.RuntimeConfigPath, logger)
}

// ProvideTreePolicy creates the tree growth policy backed by the watcher
func ProvideTreePolicy(domainCfg *domaincfg.DomainConfig, watcher *config.ConfigWatcher) memory.TreePolicy {
	return config.NewTreePolicy(domainCfg, watcher)
}

// ProvideGenealogyStore creates the in-memory genealogy store
func ProvideGenealogyStore(policy memory.TreePolicy, publisher ports.EventPublisher, logger *zap.Logger) ports.GenealogyStore {
	return memory.NewFamilyStore(policy, publisher, logger)
}

// ProvideClassifier creates the mutation classifier
func ProvideClassifier(
	store ports.GenealogyStore,
	analyzer domainservices.TextAnalyzer,
	calculator domainservices.SimilarityCalculator,
	publisher ports.EventPublisher,
	domainCfg *domaincfg.DomainConfig,
	logger *zap.Logger,
) *appservices.Classifier {
	return appservices.NewClassifier(store, analyzer, calculator, publisher, domainCfg, logger)
}

// ProvideCache creates the query cache
func ProvideCache() querybus.Cache {
	return NewInMemoryCache()
}

// ProvideCommandBus creates the command bus with all handlers registered
func ProvideCommandBus(
	store ports.GenealogyStore,
	analyzer domainservices.TextAnalyzer,
	calculator domainservices.SimilarityCalculator,
	classifier *appservices.Classifier,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus()
	pipeline := bus.NewPipeline(bus.LoggingMiddleware(logger))

	createFamily := commands.NewCreateFamilyHandler(store, analyzer, logger)
	if err := commandBus.Register(commands.CreateFamilyCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.CreateFamilyCommand)
			if !ok {
				return nil, fmt.Errorf("unexpected command type %T", cmd)
			}
			return createFamily.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	addMutation := commands.NewAddMutationHandler(store, analyzer, calculator, logger)
	if err := commandBus.Register(commands.AddMutationCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.AddMutationCommand)
			if !ok {
				return nil, fmt.Errorf("unexpected command type %T", cmd)
			}
			return addMutation.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	ingest := commands.NewIngestContentHandler(classifier, store, analyzer, logger)
	if err := commandBus.Register(commands.IngestContentCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.IngestContentCommand)
			if !ok {
				return nil, fmt.Errorf("unexpected command type %T", cmd)
			}
			return ingest.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	clearCache := commands.NewClearSimilarityCacheHandler(calculator, logger)
	if err := commandBus.Register(commands.ClearSimilarityCacheCommand{}, pipeline.Execute(bus.CommandHandlerFunc(
		func(ctx context.Context, cmd bus.Command) (interface{}, error) {
			c, ok := cmd.(commands.ClearSimilarityCacheCommand)
			if !ok {
				return nil, fmt.Errorf("unexpected command type %T", cmd)
			}
			return clearCache.Handle(ctx, c)
		}))); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// ProvideQueryBus creates the query bus with all handlers registered.
// List and analysis queries go through the caching middleware with a
// short TTL; tree and lineage reads always hit the store.
func ProvideQueryBus(store ports.GenealogyStore, cache querybus.Cache) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()
	caching := querybus.NewCachingMiddleware(cache, queryCacheTTLSeconds)

	getTree := queries.NewGetFamilyTreeHandler(store)
	if err := queryBus.Register(queries.GetFamilyTreeQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			tq, ok := q.(queries.GetFamilyTreeQuery)
			if !ok {
				return nil, fmt.Errorf("unexpected query type %T", q)
			}
			return getTree.Handle(ctx, tq)
		})); err != nil {
		return nil, err
	}

	listFamilies := queries.NewListFamiliesHandler(store)
	if err := queryBus.Register(queries.ListFamiliesQuery{}, caching.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			lq, ok := q.(queries.ListFamiliesQuery)
			if !ok {
				return nil, fmt.Errorf("unexpected query type %T", q)
			}
			return listFamilies.Handle(ctx, lq)
		}))); err != nil {
		return nil, err
	}

	getAncestry := queries.NewGetAncestryHandler(store)
	if err := queryBus.Register(queries.GetAncestryQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			aq, ok := q.(queries.GetAncestryQuery)
			if !ok {
				return nil, fmt.Errorf("unexpected query type %T", q)
			}
			return getAncestry.Handle(ctx, aq)
		})); err != nil {
		return nil, err
	}

	getDescendants := queries.NewGetDescendantsHandler(store)
	if err := queryBus.Register(queries.GetDescendantsQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			dq, ok := q.(queries.GetDescendantsQuery)
			if !ok {
				return nil, fmt.Errorf("unexpected query type %T", q)
			}
			return getDescendants.Handle(ctx, dq)
		})); err != nil {
		return nil, err
	}

	commonAncestor := queries.NewFindCommonAncestorHandler(store)
	if err := queryBus.Register(queries.FindCommonAncestorQuery{}, querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			cq, ok := q.(queries.FindCommonAncestorQuery)
			if !ok {
				return nil, fmt.Errorf("unexpected query type %T", q)
			}
			return commonAncestor.Handle(ctx, cq)
		})); err != nil {
		return nil, err
	}

	analyzePatterns := queries.NewAnalyzePatternsHandler(store)
	if err := queryBus.Register(queries.AnalyzePatternsQuery{}, caching.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			pq, ok := q.(queries.AnalyzePatternsQuery)
			if !ok {
				return nil, fmt.Errorf("unexpected query type %T", q)
			}
			return analyzePatterns.Handle(ctx, pq)
		}))); err != nil {
		return nil, err
	}

	visualization := queries.NewGetVisualizationHandler(store)
	if err := queryBus.Register(queries.GetVisualizationQuery{}, caching.Wrap(querybus.QueryHandlerFunc(
		func(ctx context.Context, q querybus.Query) (interface{}, error) {
			vq, ok := q.(queries.GetVisualizationQuery)
			if !ok {
				return nil, fmt.Errorf("unexpected query type %T", q)
			}
			return visualization.Handle(ctx, vq)
		}))); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	classifier *appservices.Classifier,
	store ports.GenealogyStore,
	collector *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	return rest.NewRouter(commandBus, queryBus, classifier, store, collector, cfg.CORS.AllowedOrigins, logger)
}
