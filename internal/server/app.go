// Package server wires the files manager together: it builds the metadata,
// credential, blob and queue backends from the configuration and runs the
// HTTP API, the gRPC health service and, optionally, the thumbnail worker.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/redisx"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/config"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filesmanager/internal/server/rest"
	"github.com/dmitrijs2005/filesmanager/internal/server/services"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/dmitrijs2005/filesmanager/internal/server/thumbnails"
	goredis "github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/filesmanager/internal/server/grpc"
)

var openRepositoryManager = func(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, error) {
	switch c.MetadataBackend {
	case config.BackendMongo:
		return repomanager.NewMongoRepositoryManager(ctx, c.MongoURI, c.MongoDatabase)
	default:
		return repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	}
}

var openBlobStore = func(ctx context.Context, c *config.Config) (blobstore.Store, error) {
	switch c.BlobBackend {
	case config.BlobS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Options{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	default:
		return blobstore.NewLocalStore(c.FolderPath)
	}
}

type App struct {
	config *config.Config
	logger logging.Logger

	repos    repomanager.RepositoryManager
	redis    *goredis.Client
	sessions *sessions.RedisStore
	blobs    blobstore.Store
	queue    *queue.RedisQueue

	authService   *services.AuthService
	fileService   *services.FileService
	statusService *services.StatusService

	closeOnce sync.Once
}

// NewApp connects every backend and applies pending schema migrations.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	repos, err := openRepositoryManager(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("db migrations error: %w", err)
	}

	rdb, err := redisx.New(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB)
	if err != nil {
		_ = repos.Close(ctx)
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	blobs, err := openBlobStore(ctx, c)
	if err != nil {
		_ = repos.Close(ctx)
		_ = rdb.Close()
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	store := sessions.NewRedisStore(rdb)
	q := queue.NewRedisQueue(rdb, c.QueueName)

	return &App{
		config:        c,
		logger:        logger,
		repos:         repos,
		redis:         rdb,
		sessions:      store,
		blobs:         blobs,
		queue:         q,
		authService:   services.NewAuthService(repos, store, c, logger),
		fileService:   services.NewFileService(repos, blobs, q, logger),
		statusService: services.NewStatusService(repos, store),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewServer(app.config.HTTPAddr, app.logger, app.authService, app.fileService, app.statusService)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHealthServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.GRPCHealthAddr, app.config.HealthProbeInterval, map[string]gs.Probe{
		"redis": app.sessions,
		"db":    app.repos,
	}, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startWorker(ctx context.Context, cancelFunc context.CancelFunc) {
	w := thumbnails.NewWorker(app.repos.Files(), app.blobs, app.queue, app.config.WorkerConcurrency, app.logger)
	if err := w.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves the HTTP API and the health service, plus the thumbnail
// worker when it is embedded, until ctx is cancelled or a signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHealthServer(ctx, cancelFunc)
	}()

	if app.config.EmbeddedWorker {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startWorker(ctx, cancelFunc)
		}()
	}

	wg.Wait()
	app.Close(context.WithoutCancel(ctx))
}

// RunWorker runs only the thumbnail worker.
func (app *App) RunWorker(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting worker...")

	app.initSignalHandler(cancelFunc)
	app.startWorker(ctx, cancelFunc)
	app.Close(context.WithoutCancel(ctx))
}

// Auth exposes the auth service to administrative commands.
func (app *App) Auth() *services.AuthService {
	return app.authService
}

// Close releases backend connections. Run and RunWorker call it on exit;
// later calls do nothing.
func (app *App) Close(ctx context.Context) {
	app.closeOnce.Do(func() {
		if err := app.repos.Close(ctx); err != nil {
			app.logger.Error(ctx, "closing metadata store", "error", err)
		}
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "closing redis", "error", err)
		}
	})
}
