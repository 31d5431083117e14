package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/niksmo/solarcomp/config"
	"github.com/niksmo/solarcomp/internal/adapter"
	"github.com/niksmo/solarcomp/internal/adapter/httphandler"
	"github.com/niksmo/solarcomp/internal/adapter/kafka"
	"github.com/niksmo/solarcomp/internal/core/catalog"
	"github.com/niksmo/solarcomp/internal/core/port"
	"github.com/niksmo/solarcomp/internal/core/service"
	"github.com/niksmo/solarcomp/pkg/schema"
)

type serdes struct {
	request schema.Serde
	report  schema.Serde
}

type broker struct {
	tls       *tls.Config
	serdes    serdes
	producer  *kafka.ReportsProducer
	processor port.EvaluationProcessor
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	catalog    port.CatalogReader
	broker     broker
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	if cfg.Broker.Enabled {
		app.initTLS()
		app.initSerdes()
		app.initOutboundAdapters()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	var (
		c   *catalog.Catalog
		err error
	)
	if app.cfg.CatalogFile == "" {
		c, err = catalog.Default()
	} else {
		c, err = catalog.LoadFile(app.cfg.CatalogFile)
	}
	if err != nil {
		app.fallDown(op, err)
	}

	slog.Info("catalog loaded", "version", c.Version(), "components", len(c.Components()))
	app.catalog = c
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	files := app.cfg.Broker.TLS
	tlsCfg, err := adapter.MakeTLSConfig(files.CA, files.Cert, files.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.broker.tls = tlsCfg
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx

	identifier, err := schema.NewRegistryIdentifier(
		app.cfg.Broker.SchemaRegistryURLs, app.broker.tls,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	requestSS := app.cfg.Broker.Topics.EvaluationRequests + "-value"
	requestSerde, err := schema.NewSerdeConfigurationRequestV1(
		ctx,
		schema.SubjectOpt(requestSS),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	reportSS := app.cfg.Broker.Topics.EvaluationReports + "-value"
	reportSerde, err := schema.NewSerdeEvaluationReportV1(
		ctx,
		schema.SubjectOpt(reportSS),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker.serdes.request = requestSerde
	app.broker.serdes.report = reportSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	reportsProducer, err := kafka.NewReportsProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.EvaluationReports,
			app.broker.tls,
		),
		kafka.ProducerEncoderOpt(app.broker.serdes.report),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.broker.producer = &reportsProducer
}

func (app *App) initCoreService() {
	var publisher port.ReportPublisher
	if app.broker.producer != nil {
		publisher = app.broker.producer
	}
	app.service = service.New(app.catalog, publisher)
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"

	mux := http.NewServeMux()
	httphandler.RegisterEvaluations(mux, app.service)
	httphandler.RegisterCatalog(mux, app.service)

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, handler)

	if !app.cfg.Broker.Enabled {
		return
	}

	processor, err := kafka.NewEvaluationProcessor(
		kafka.EvaluationProcessorConfig{
			SeedBrokers:  app.cfg.Broker.SeedBrokers,
			Group:        app.cfg.Broker.Consumers.EvaluatorGroup,
			InputStream:  app.cfg.Broker.Topics.EvaluationRequests,
			OutputStream: app.cfg.Broker.Topics.EvaluationReports,
		},
		app.broker.serdes.request,
		app.broker.serdes.report,
		app.service,
		kafka.ProcessorTLSOpts(app.broker.tls)...,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.broker.processor = processor
}

// Run starts the inbound adapters and returns once the evaluation
// processor, if any, is ready. stopFn is called when any of them stops.
func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	if app.broker.processor != nil {
		var wg sync.WaitGroup
		wg.Add(1)
		go app.broker.processor.Run(app.ctx, stopFn, &wg)
		wg.Wait()
	}

	slog.Info("application is running", "broker", app.cfg.Broker.Enabled)
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.broker.processor != nil {
		app.broker.processor.Close()
	}
	if app.broker.producer != nil {
		app.broker.producer.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
