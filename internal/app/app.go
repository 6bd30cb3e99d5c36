package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DRSN-tech/storefront/internal/bus"
	config "github.com/DRSN-tech/storefront/internal/cfg"
	v1Http "github.com/DRSN-tech/storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/storefront/internal/infrastructure/minio"
	s3Repo "github.com/DRSN-tech/storefront/internal/repository/minio"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/repository/redis"
	redisConv "github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/closer"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/postgres"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout        = 10 * time.Second
	shutdownTimeout    = 15 * time.Second
	ensureTopicTimeout = 10 * time.Second
	forcedCloseTimeout = 3 * time.Second
)

// App собирает зависимости сервиса витрины и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	// shutdownCtx отменяется при остановке; фоновые задачи очистки MinIO завязаны на него
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewLogger создаёт логгер по настройкам LOG_FORMAT и LOG_LEVEL.
func NewLogger(c *config.LogCfg) logger.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}

	return logger.New(os.Stdout, c.Format, level)
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())
	a := &App{
		cfg:            cfg,
		logger:         log,
		closer:         closer.NewCloser(forcedCloseTimeout),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	if err := a.init(); err != nil {
		shutdownCancel()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Warnf("partial init cleanup: %v", closeErr)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
	defer cancel()

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	a.closer.Add("postgres", db.Close)

	redisClient, err := clients.NewRedisClient(ctx, a.cfg.Redis)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	// Хранилища
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverter())
	extraRepo := pgdb.NewExtraRepo(db.Pool, pgdbConv.NewExtraConverter())
	candidateCache := redis.NewCandidateCacheRepo(redisClient, redisConv.NewProductConverter(), a.cfg.Redis)
	cartRepo := redis.NewCartRepo(redisClient, redisConv.NewCartConverter(), a.cfg.Redis)
	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio.BucketName)

	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, a.shutdownCtx)
	a.closer.Add("minio cleanup", imagesInfra.WaitForCleanup)

	// События каталога
	var producer usecase.EventProducer
	if a.cfg.Kafka.Enabled() {
		p, err := initProducer(a.logger, a.cfg.Kafka)
		if err != nil {
			return err
		}
		a.closer.Add("kafka producer", p.Close)
		producer = p
	} else {
		a.logger.Infof("KAFKA_BROKERS is empty, catalog change events are not published")
	}

	appBus := bus.New()
	events := usecase.NewCatalogEvents(candidateCache, producer, a.logger)
	events.Register(appBus)
	a.closer.Add("catalog events", events.Wait)

	txRunner := tr.NewRunner(db.Pool, a.logger)
	source := usecase.NewCachedSource(productRepo, candidateCache, a.logger)

	uc := v1Http.UseCases{
		Catalog:  usecase.NewCatalogUC(source, productRepo, categoryRepo, extraRepo, a.cfg.Catalog, a.logger),
		Product:  usecase.NewProductUC(productRepo, categoryRepo, extraRepo, extraRepo, txRunner, imagesInfra, appBus, a.logger),
		Category: usecase.NewCategoryUC(categoryRepo, productRepo, txRunner, imagesInfra, appBus, a.logger),
		Extra:    usecase.NewExtraUC(extraRepo, appBus),
		Cart:     usecase.NewCartUC(cartRepo, productRepo, appBus),
		Checkout: usecase.NewCheckoutUC(cartRepo, a.cfg.Checkout),
	}

	r := chi.NewRouter()
	v1Http.NewRouter(r, a.logger).Init(uc, a.cfg.Http, a.cfg.Checkout, a.cfg.Admin)

	a.httpSrv = v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add("http server", a.httpSrv.Stop)

	return nil
}

// Run запускает HTTP-сервер и блокируется до сигнала остановки или фатальной ошибки.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Закрытие идёт в обратном порядке: сначала HTTP, затем фоновые задачи и хранилища
	closeErr := a.closer.Close(ctx)
	a.shutdownCancel()
	if closeErr != nil {
		a.logger.Errorf(closeErr, "shutdown finished with errors")
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return errors.Join(appErr, closeErr)
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		_ = db.Close(ctx)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}

func initProducer(logger logger.Logger, cfg *config.KafkaCfg) (*kafka.Producer, error) {
	producer, err := kafka.NewProducer(logger, cfg)
	if err != nil {
		logger.Errorf(err, "failed to initialize kafka producer")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := producer.EnsureTopic(ensureTopicTimeout); err != nil {
		// Топик может создать администратор кластера; писать всё равно пробуем
		logger.Warnf("kafka topic %s is not ensured: %v", cfg.Topic, err)
	}

	return producer, nil
}
