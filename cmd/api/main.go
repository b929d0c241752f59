package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/insumos-api/docs"
	"github.com/jhoicas/insumos-api/internal/application/auth"
	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/application/report"
	"github.com/jhoicas/insumos-api/internal/application/usecase"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	infrakafka "github.com/jhoicas/insumos-api/internal/infrastructure/kafka"
	"github.com/jhoicas/insumos-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/insumos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/insumos-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/insumos-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/insumos-api/internal/interfaces/http"
	"github.com/jhoicas/insumos-api/pkg/config"
	"github.com/jhoicas/insumos-api/pkg/logger"
)

// storage agrupa el backend elegido por STORAGE_DRIVER.
type storage struct {
	txRunner inventory.TxRunner
	repos    inventory.TxRepositories
	reports  repository.ReportRepository
	health   httpRouter.HealthCheck
	close    func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &storage{
			txRunner: store,
			repos:    store.Repositories(),
			reports:  store.Reports(),
			health:   func(context.Context) error { return nil },
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema de base de datos aplicado")
	}
	return &storage{
		txRunner: postgres.NewTxRunner(pool),
		repos:    postgres.NewRepositories(pool),
		reports:  postgres.NewReportRepository(pool),
		health:   pool.Ping,
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.close()

	healthChecks := map[string]httpRouter.HealthCheck{"storage": store.health}

	// Sesiones del servidor (opcional): sin Redis el token es la única credencial.
	var sessions *infraredis.SessionStore
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		sessions = infraredis.NewSessionStore(rdb, cfg.Redis.SessionTTL)
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: logout y revocación de sesiones desactivados")
	}

	// Eventos de movimiento (opcional).
	var publisher inventory.MovementPublisher
	if cfg.Kafka.Enabled() {
		kp := infrakafka.NewMovementPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar productor kafka")
			}
		}()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publicación de movimientos activa")
	}

	// Interfaces con nil tipado no son nil: se pasan solo si existen.
	var authSessions auth.SessionStore
	var revoker usecase.SessionRevoker
	if sessions != nil {
		authSessions = sessions
		revoker = sessions
	}

	repos := store.repos
	stockUC := inventory.NewStockMovementUseCase(store.txRunner, repos.Items, repos.Batches, publisher, log.Component("stock"))
	reportUC := report.NewReportUseCase(store.reports, repos.Items, infrapdf.NewConsumptionPDFGenerator(cfg.App.Name))
	authUC := auth.NewAuthUseCase(repos.Staff, authSessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Insumos API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ItemUC:       usecase.NewItemUseCase(repos.Items),
		SupplierUC:   usecase.NewSupplierUseCase(repos.Suppliers),
		StaffUC:      usecase.NewStaffUseCase(repos.Staff, revoker),
		StockUC:      stockUC,
		ReportUC:     reportUC,
		JWTSecret:    cfg.JWT.Secret,
		HealthChecks: healthChecks,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
