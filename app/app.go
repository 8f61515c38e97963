package app

import (
	"os"
	"os/signal"
	"syscall"

	"sajilokaam-api/internal/config"
	"sajilokaam-api/internal/controller"
	"sajilokaam-api/internal/gateway"
	"sajilokaam-api/internal/repo"
	"sajilokaam-api/internal/service"
	"sajilokaam-api/internal/task"
	"sajilokaam-api/pkg/http_server"
	"sajilokaam-api/pkg/logger"
	"sajilokaam-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
	"go.uber.org/zap"
)

func runMigrations(postgresDB *postgres.Postgres, log *zap.Logger) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{})
	if err != nil {
		log.Fatal("migration driver init failed", zap.Error(err))
	}

	migrations, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		log.Fatal("migration setup failed", zap.Error(err))
	}

	if err := migrations.Up(); err != nil {
		if err.Error() == "no change" {
			log.Info("no change made by migration scripts")
		} else {
			log.Fatal("migration failed", zap.Error(err))
		}
	}
}

func Run() {
	cfg := config.NewConfig()

	log, err := logger.New(os.Getenv("DEBUG") != "")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("connecting database")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer postgresDB.Close()

	log.Info("running migrations")
	runMigrations(postgresDB, log)

	repositories := repo.NewRepositories(postgresDB)

	gateways := gateway.NewRegistry(
		gateway.NewKhalti(cfg.KhaltiBaseURL, cfg.KhaltiSecretKey, cfg.SiteURL, cfg.GatewayTimeout, log),
		gateway.NewESewa(cfg.ESewaBaseURL, cfg.ESewaProductCode, cfg.ESewaSecret, cfg.GatewayTimeout, log),
	)

	services := service.NewServices(service.Deps{
		Repos:    repositories,
		Gateways: gateways,
		Events:   service.NewLogSink(log),
		Log:      log,
	})

	taskManager, err := task.NewManager(log)
	if err != nil {
		log.Fatal("scheduler init failed", zap.Error(err))
	}
	if err := taskManager.RegisterInvoiceOverdueJob(services.Invoice, cfg.OverdueScanInterval); err != nil {
		log.Fatal("overdue job registration failed", zap.Error(err))
	}
	taskManager.Start()

	handler := echo.New()

	log.Info("setup routes")
	controller.SetupRoutesHandlers(handler, services)

	log.Info("starting server", zap.String("address", cfg.ServerAddress))
	httpServer := http_server.New(handler, cfg.ServerAddress)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("got signal", zap.String("signal", s.String()))
	case err = <-httpServer.Notify():
		log.Error("server stopped", zap.Error(err))
	}

	log.Info("shutting down")
	if err := taskManager.Stop(); err != nil {
		log.Error("scheduler shutdown error", zap.Error(err))
	}
	if err := httpServer.Shutdown(); err != nil {
		log.Error("shutdown error", zap.Error(err))
	} else {
		log.Info("successful shutdown")
	}
}
