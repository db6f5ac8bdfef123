package di

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"factsaura-backend/application/commands/bus"
	"factsaura-backend/application/ports"
	querybus "factsaura-backend/application/queries/bus"
	appservices "factsaura-backend/application/services"
	domaincfg "factsaura-backend/domain/config"
	"factsaura-backend/infrastructure/config"
	"factsaura-backend/infrastructure/messaging"
	"factsaura-backend/interfaces/http/rest"
	"factsaura-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domaincfg.DomainConfig
	Logger       *zap.Logger
	Store        ports.GenealogyStore
	Dispatcher   *messaging.Dispatcher
	Watcher      *config.ConfigWatcher
	Classifier   *appservices.Classifier
	CommandBus   *bus.CommandBus
	QueryBus     *querybus.QueryBus
	Cache        querybus.Cache
	Collector    *observability.Collector
	Router       *rest.Router
}

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideDomainConfig,
	ProvideTextAnalyzer,
	ProvideSimilarityCalculator,
	ProvideCollector,
	ProvideDispatcher,
	ProvideEventPublisher,
	ProvideConfigWatcher,
	ProvideTreePolicy,
	ProvideGenealogyStore,
	ProvideClassifier,
	ProvideCache,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)
