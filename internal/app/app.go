package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	"RoleMatcher/internal/adapter"
	"RoleMatcher/internal/config"
	"RoleMatcher/internal/infrastructure/careers"
	"RoleMatcher/internal/infrastructure/scheduler"
	"RoleMatcher/internal/infrastructure/storage"
	"RoleMatcher/internal/infrastructure/telegram"
	"RoleMatcher/internal/logging"
	"RoleMatcher/internal/ports"
	"RoleMatcher/internal/scorer"
	"RoleMatcher/internal/usecase"
)

// Application wires configuration to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	db        *sql.DB
	store     *storage.PostgresStore
	refresher *usecase.Refresher
	queries   *usecase.Queries
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := storage.NewPostgresStore(db)

	registry := adapter.NewRegistry()
	registry.Register(careers.NewSiemensAdapter(nil, baseLogger.With("component", "adapter.siemens")))
	registry.Register(careers.NewBoschAdapter(nil, baseLogger.With("component", "adapter.bosch")))
	registry.Register(careers.NewABBAdapter(nil, baseLogger.With("component", "adapter.abb")))

	extractor := scorer.NewExtractor(cfg.Scoring)
	engine := scorer.NewEngine(cfg.Scoring, extractor)

	var notifier ports.Notifier
	tg := cfg.Notifications.Telegram
	if tg.BotToken != "" && tg.ChatID != "" {
		notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID)
	}

	refresher := usecase.NewRefresher(usecase.RefreshDeps{
		Store:     store,
		Recorder:  store,
		Registry:  registry,
		Engine:    engine,
		Notifier:  notifier,
		Companies: cfg.Companies,
		Logger:    baseLogger.With("component", "refresher"),
	})

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())

	return &Application{
		cfg:       cfg,
		logger:    baseLogger,
		db:        db,
		store:     store,
		refresher: refresher,
		queries:   usecase.NewQueries(store, baseLogger.With("component", "queries")),
		scheduler: usecase.NewScheduler(driver, refresher, baseLogger.With("component", "scheduler")),
	}, nil
}

// Queries exposes the boundary read/triage operations.
func (a *Application) Queries() *usecase.Queries {
	return a.queries
}

// Run applies the schema, performs one immediate refresh, then hands the
// cycle to the scheduler until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	defer a.db.Close()

	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := a.store.InitSchema(ctx); err != nil {
		return err
	}

	summary, err := a.refresher.RefreshAll(ctx)
	if err != nil {
		return fmt.Errorf("initial refresh: %w", err)
	}
	a.logger.Info("initial refresh done",
		"companies", len(summary.Companies),
		"touched", len(summary.TouchedJobIDs),
		"duration", summary.Duration)

	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return a.scheduler.Stop(context.Background())
}
