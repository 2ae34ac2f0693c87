// Package app wires the storefront together: upstream catalog client,
// redis client state, the events pipeline and the HTTP surface.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/kiogloss/storefront/config"
	"github.com/kiogloss/storefront/internal/adapter/catalog"
	"github.com/kiogloss/storefront/internal/adapter/clientstore"
	"github.com/kiogloss/storefront/internal/adapter/httphandler"
	"github.com/kiogloss/storefront/internal/adapter/kafka"
	"github.com/kiogloss/storefront/internal/adapter/storage"
	"github.com/kiogloss/storefront/internal/core/service"
	"github.com/kiogloss/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type services struct {
	session  service.SessionService
	browse   *service.BrowseService
	wishlist service.WishlistService
	orders   service.OrdersService
	events   service.EventsService
}

type App struct {
	ctx context.Context
	cfg config.Config

	eventSerde schema.Serde

	catalog      *catalog.Client
	store        *clientstore.Store
	sqldb        storage.SQLDB
	producer     kafka.ClientEventsProducer
	consumer     kafka.ClientEventsConsumer
	trendingProc *kafka.TrendingProcessor
	trendingView *kafka.TrendingView

	services   services
	httpServer httphandler.HTTPServer

	procWG sync.WaitGroup
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initSerdes()
	app.initOutboundAdapters()
	app.initCoreServices()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srClient, err := sr.NewClient(
		sr.URLs(app.cfg.Broker.SchemaRegistryURLs...),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	subject := app.cfg.Broker.Topics.ClientEvents + "-value"
	eventSerde, err := schema.NewSerdeClientEventV1(
		app.ctx,
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.eventSerde = eventSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	catalogCfg := app.cfg.Catalog
	app.catalog = catalog.New(
		catalogCfg.BaseURL,
		catalog.TimeoutOpt(catalogCfg.Timeout),
		catalog.MaxAttemptsOpt(catalogCfg.MaxAttempts),
	)

	store, err := clientstore.New(app.ctx, app.cfg.RedisAddr)
	if err != nil {
		app.fallDown(op, err)
	}
	app.store = store

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = sqldb

	broker := app.cfg.Broker
	producer, err := kafka.NewClientEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx, broker.SeedBrokers, broker.Topics.ClientEvents,
		),
		kafka.ProducerEncoderOpt(app.eventSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.producer = producer

	trendingProc, err := kafka.NewTrendingProc(
		broker.SeedBrokers,
		broker.Topics.ClientEvents,
		broker.Consumers.TrendingGroup,
		app.eventSerde,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.trendingProc = trendingProc

	trendingView, err := kafka.NewTrendingView(
		broker.SeedBrokers, broker.Consumers.TrendingGroup,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.trendingView = trendingView
}

func (app *App) initCoreServices() {
	app.services.session = service.NewSessionService(app.store, app.store)
	app.services.browse = service.NewBrowseService(
		app.catalog, app.store, app.producer,
	)
	app.services.wishlist = service.NewWishlistService(
		app.catalog, app.store, app.producer,
	)
	app.services.orders = service.NewOrdersService(
		app.catalog, app.store, app.producer,
	)
	app.services.events = service.NewEventsService(
		storage.NewClientEventsRepository(app.sqldb),
	)

	broker := app.cfg.Broker
	app.consumer = kafka.NewClientEventsConsumer(
		kafka.ConsumerClientOpt(
			broker.SeedBrokers,
			broker.Topics.ClientEvents,
			broker.Consumers.EventsSaverGroup,
		),
		kafka.ConsumerSaverOpt(app.services.events),
		kafka.ConsumerDecoderOpt(app.eventSerde),
	)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterShop(mux, app.services.browse)
	httphandler.RegisterSession(mux, app.services.session)
	httphandler.RegisterWishlist(mux, app.services.wishlist)
	httphandler.RegisterOrders(mux, app.services.orders)
	httphandler.RegisterTrending(mux, app.trendingView)

	handler := httphandler.WithClientID(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.consumer.Run(app.ctx)
	go app.trendingView.Run(app.ctx)

	app.procWG.Add(1)
	app.trendingProc.Run(app.ctx, stopFn, &app.procWG)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.consumer.Close()
	app.producer.Close()
	app.trendingProc.Close()
	app.procWG.Wait()

	if err := app.store.Close(); err != nil {
		slog.Error("failed to close client store", "err", err)
	}
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
