package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"github.com/hulujobs/hulujobs-sdk/internal/server"
	"github.com/hulujobs/hulujobs-sdk/migrations"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs"
	"github.com/hulujobs/hulujobs-sdk/modules/jobs/services"
	"github.com/hulujobs/hulujobs-sdk/pkg/application"
	"github.com/hulujobs/hulujobs-sdk/pkg/composables"
	"github.com/hulujobs/hulujobs-sdk/pkg/configuration"
	"github.com/hulujobs/hulujobs-sdk/pkg/eventbus"
	"github.com/hulujobs/hulujobs-sdk/pkg/metrics"
	"github.com/hulujobs/hulujobs-sdk/pkg/sweeper"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	if err := applyMigrations(conf); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := application.Load(app, jobs.NewModule()); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}
	if conf.Sweeper.Enabled {
		startReconciler(conf, pool, app)
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.ListenAndServe(); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func applyMigrations(conf *configuration.Configuration) error {
	db, err := sql.Open("postgres", conf.Database.Opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()
	return migrations.Up(db)
}

func startReconciler(conf *configuration.Configuration, pool *pgxpool.Pool, app application.Application) {
	promotions := app.Service(services.PromotionService{}).(*services.PromotionService)
	runner := sweeper.New(
		func(ctx context.Context) (int, error) {
			return promotions.Reconcile(composables.WithPool(ctx, pool), conf.Sweeper.BatchSize)
		},
		sweeper.Options{
			PollInterval: conf.Sweeper.PollInterval,
			MaxBackoff:   conf.Sweeper.MaxBackoff,
			Logger:       app.Logger().WithField("component", "reconciler"),
		},
	)
	go func() {
		if err := runner.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			app.Logger().WithError(err).Error("reconciler stopped")
		}
	}()
}
