// maestro/cmd/maestrod/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"maestro/pkg/actors"
	"maestro/pkg/enrich"
	"maestro/pkg/logging"
	"maestro/pkg/report"
	"maestro/pkg/runtime"
	"maestro/pkg/specification"
	"maestro/pkg/store"
)

// Config represents the application configuration
type Config struct {
	ReportFile        string
	Rules             []string
	RuleExpression    string
	ActorName         string
	ExclusionLevel    string
	IDColumn          string
	LogLevel          string
	LogDestination    string
	RedisAddress      string
	RedisPassword     string
	RedisDB           int
	RedisTTLHours     int
	DashboardEnabled  bool
	DashboardPort     int
	DashboardInterval int
}

// Dependencies holds the wired collaborators of one run.
type Dependencies struct {
	Store    store.Store
	Executor *runtime.Executor
}

// StoreFactory is an interface for creating a record store
type StoreFactory interface {
	NewStore(ctx context.Context, config *Config) (store.Store, error)
}

// ExecutorFactory is an interface for creating an executor
type ExecutorFactory interface {
	NewExecutor(config *Config, recordStore store.Store) (*runtime.Executor, error)
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx, os.Args, &RealStoreFactory{}, &RealExecutorFactory{}); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

func run(ctx context.Context, args []string, storeFactory StoreFactory, executorFactory ExecutorFactory) error {
	config, err := parseConfig(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := logging.ConfigureLogger(config.LogLevel, config.LogDestination); err != nil {
		return fmt.Errorf("failed to configure logger: %w", err)
	}

	deps, err := setupDependencies(ctx, config, storeFactory, executorFactory)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return runExclusions(ctx, deps, config)
}

func parseConfig(args []string) (*Config, error) {
	flagSet := flag.NewFlagSet(args[0], flag.ContinueOnError)
	configFile := flagSet.String("config", "", "Path to configuration file")
	if err := flagSet.Parse(args[1:]); err != nil {
		return nil, err
	}

	viper.SetConfigType("json")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.output", "console")
	viper.SetDefault("report.id_column", "placement")
	viper.SetDefault("actor.name", "placement")
	viper.SetDefault("actor.exclusion_level", "AD_GROUP")
	viper.SetDefault("redis.address", "")
	viper.SetDefault("redis.database", 0)
	viper.SetDefault("redis.ttl_hours", 24)
	viper.SetDefault("dashboard.enabled", false)
	viper.SetDefault("dashboard.port", 8080)
	viper.SetDefault("dashboard.update_interval", 5)

	if *configFile == "" {
		viper.SetConfigName("maestro_config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.maestro")
		viper.AddConfigPath("/etc/maestro")
	} else {
		viper.SetConfigFile(*configFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || *configFile != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Info().Msg("No configuration file found, using defaults")
	}

	return &Config{
		ReportFile:        viper.GetString("report.file"),
		Rules:             viper.GetStringSlice("rules"),
		RuleExpression:    viper.GetString("rule_expression"),
		ActorName:         viper.GetString("actor.name"),
		ExclusionLevel:    viper.GetString("actor.exclusion_level"),
		IDColumn:          viper.GetString("report.id_column"),
		LogLevel:          viper.GetString("logging.level"),
		LogDestination:    viper.GetString("logging.output"),
		RedisAddress:      viper.GetString("redis.address"),
		RedisPassword:     viper.GetString("redis.password"),
		RedisDB:           viper.GetInt("redis.database"),
		RedisTTLHours:     viper.GetInt("redis.ttl_hours"),
		DashboardEnabled:  viper.GetBool("dashboard.enabled"),
		DashboardPort:     viper.GetInt("dashboard.port"),
		DashboardInterval: viper.GetInt("dashboard.update_interval"),
	}, nil
}

func setupDependencies(ctx context.Context, config *Config, storeFactory StoreFactory, executorFactory ExecutorFactory) (*Dependencies, error) {
	recordStore, err := storeFactory.NewStore(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize record store: %w", err)
	}

	executor, err := executorFactory.NewExecutor(config, recordStore)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize executor: %w", err)
	}

	return &Dependencies{
		Store:    recordStore,
		Executor: executor,
	}, nil
}

func runExclusions(ctx context.Context, deps *Dependencies, config *Config) error {
	if config.DashboardEnabled {
		dashboard := runtime.NewDashboard(
			deps.Executor,
			config.DashboardPort,
			time.Duration(config.DashboardInterval)*time.Second,
		)
		go func() {
			if err := dashboard.Start(); err != nil {
				log.Error().Err(err).Msg("Dashboard stopped")
			}
		}()
	}

	var result *runtime.Result
	var err error
	if config.RuleExpression != "" {
		result, err = deps.Executor.RunExpression(ctx, config.RuleExpression)
	} else {
		result, err = deps.Executor.Run(ctx, config.Rules)
	}
	if err != nil {
		logging.LogError(logging.Logger, err)
		return err
	}

	log.Info().
		Int("excluded_rows", result.Excluded.Len()).
		Int("operations", len(result.Operations)).
		Msg("Exclusion run finished")

	if !config.DashboardEnabled {
		return nil
	}

	// Keep serving the dashboard until interrupted.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigChan:
		log.Info().Msg("Shutting down")
		return nil
	case <-ctx.Done():
		return nil
	}
}

// fileSource reads the primary report from a JSON file produced by an
// upstream fetcher or tools/report_gen.
type fileSource struct {
	path string
}

func (s *fileSource) Fetch(context.Context) (*report.Report, error) {
	return report.LoadJSON(s.path)
}

// RealStoreFactory implements StoreFactory
type RealStoreFactory struct{}

func (f *RealStoreFactory) NewStore(ctx context.Context, config *Config) (store.Store, error) {
	if config.RedisAddress == "" {
		log.Info().Msg("No Redis configured, using in-memory record store")
		return store.NewMemoryStore(), nil
	}
	return store.NewRedisStore(
		ctx,
		config.RedisAddress,
		config.RedisPassword,
		config.RedisDB,
		time.Duration(config.RedisTTLHours)*time.Hour,
	)
}

// RealExecutorFactory implements ExecutorFactory
type RealExecutorFactory struct{}

func (f *RealExecutorFactory) NewExecutor(config *Config, recordStore store.Store) (*runtime.Executor, error) {
	actor, err := actors.LoadActor(config.ActorName, actors.ExclusionLevel(config.ExclusionLevel))
	if err != nil {
		return nil, err
	}

	// Enrichment is served from the record store; records are seeded
	// ahead of a run with tools/cache_seed.
	fetchers := enrich.NewRegistry()
	for _, sourceType := range []string{"WEBSITE_INFO", "YOUTUBE_VIDEO_INFO", "YOUTUBE_CHANNEL_INFO"} {
		fetchers.Register(sourceType, enrich.CachedFetcher(sourceType, recordStore, emptyFetcher))
	}

	executor := runtime.NewExecutor(
		&fileSource{path: config.ReportFile},
		fetchers,
		specification.DefaultRegistry(),
		actor,
		runtime.WithIDColumn(config.IDColumn),
	)
	return executor, nil
}

func emptyFetcher(context.Context, []string, map[string]string) (map[string]store.Record, error) {
	return map[string]store.Record{}, nil
}
