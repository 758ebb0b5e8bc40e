// Package server initializes and runs the spell server: configuration,
// logging, tracing, database and migrations, ledger collaborators, event
// sinks and the gRPC endpoint, with graceful shutdown on signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/spellcaster/internal/logging"
	"github.com/dmitrijs2005/spellcaster/internal/server/config"
	"github.com/dmitrijs2005/spellcaster/internal/server/events"
	"github.com/dmitrijs2005/spellcaster/internal/server/external"
	"github.com/dmitrijs2005/spellcaster/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/spellcaster/internal/server/services"
	"github.com/dmitrijs2005/spellcaster/internal/telemetry"

	gs "github.com/dmitrijs2005/spellcaster/internal/server/grpc"
)

var (
	openDB         = repomanager.OpenDB
	setupTelemetry = telemetry.Setup
	newS3Archive   = events.NewS3Archive
	runGRPC        = (*gs.GRPCServer).Run
)

// archiver drains queued events until its context is done.
type archiver interface {
	Run(ctx context.Context)
}

type ledger interface {
	external.TokenBurner
	external.Treasury
}

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	archive   archiver
	spells    *services.SpellService
	telemetry func(context.Context) error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	shutdown, err := setupTelemetry(ctx, c.ServiceName, c.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("telemetry init error: %w", err)
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = shutdown(ctx)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	sink, archive, err := buildSinks(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		_ = shutdown(ctx)
		return nil, err
	}

	l := buildLedger(c, logger)
	svc := services.NewSpellService(db, rm, l, l, sink, logger)

	app := &App{
		config:    c,
		logger:    logger,
		db:        db,
		spells:    svc,
		telemetry: shutdown,
	}
	if archive != nil {
		app.archive = archive
	}
	return app, nil
}

func buildLedger(c *config.Config, l logging.Logger) ledger {
	if c.LedgerURL == "" {
		return external.NewDev(l)
	}
	return external.NewHTTPGateway(c.LedgerURL, c.LedgerTimeout, l)
}

// buildSinks always logs events and adds the S3 archive when a bucket is set.
func buildSinks(ctx context.Context, c *config.Config, l logging.Logger) (events.Sink, *events.S3Archive, error) {
	sinks := events.Fanout{events.NewLogSink(l)}
	if c.S3Bucket == "" {
		return sinks, nil, nil
	}

	archive, err := newS3Archive(ctx, events.S3Options{
		AccessKey:     c.S3AccessKey,
		SecretKey:     c.S3SecretKey,
		Bucket:        c.S3Bucket,
		Region:        c.S3Region,
		BaseEndpoint:  c.S3BaseEndpoint,
		Prefix:        c.S3Prefix,
		BatchSize:     c.ArchiveBatchSize,
		FlushInterval: c.ArchiveFlushInterval,
	}, l)
	if err != nil {
		return nil, nil, fmt.Errorf("event archive init error: %w", err)
	}
	return append(sinks, archive), archive, nil
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

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.spells, app.config.SecretKey)

	if err := runGRPC(s, ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a signal arrives or ctx is done. The event archive keeps
// draining until the gRPC server has finished its in-flight calls, then the
// database is closed and traces are flushed.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	archiveCtx, stopArchive := context.WithCancel(context.WithoutCancel(ctx))
	defer stopArchive()

	var wg sync.WaitGroup

	if app.archive != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.archive.Run(archiveCtx)
		}()
	}

	app.startGRPCServer(ctx, cancelFunc)

	stopArchive()
	wg.Wait()

	app.shutdown()
}

func (app *App) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	if err := app.telemetry(ctx); err != nil {
		app.logger.Error(ctx, "telemetry shutdown", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
