// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"printer-service/docs"
	"printer-service/internal/config"
	"printer-service/internal/discovery"
	"printer-service/internal/resolver"
	"printer-service/internal/routes"
	"printer-service/internal/service"
	"printer-service/internal/spooler"
	"printer-service/internal/spooler/cups"
	"printer-service/internal/utils"
)

// Application represents the main application
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	router *routes.Router

	// Spooler connection and driver resolver
	client   spooler.Client
	resolver *resolver.Resolver
	scanners *discovery.ScannerManager

	// Services
	printerService   *service.PrinterService
	deviceService    *service.DeviceService
	diagnosisService *service.DiagnosisService
	driverService    *service.DriverService
}

// @title Printer Service API
// @version 1.0.0
// @description Printer metadata and driver diagnosis service for CUPS
// @BasePath /api/v1
func main() {
	configFile := flag.String("config", "", "path to config file")
	flag.Parse()

	app, err := NewApplication(*configFile)
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication(configFile string) (*Application, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, cfg.App.Name)
	serviceLogger.LogServiceStart(cfg.App.Version, cfg.App)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	app.initializeSpooler()

	if err := app.initializeResolver(); err != nil {
		return nil, fmt.Errorf("failed to initialize resolver: %w", err)
	}

	app.initializeServices()
	app.initializeServer()

	return app, nil
}

// initializeSpooler creates the CUPS client
func (app *Application) initializeSpooler() {
	app.client = cups.NewClient(&cups.Config{
		Host:           app.config.Spooler.Host,
		Port:           app.config.Spooler.Port,
		User:           app.config.Spooler.User,
		Password:       app.config.Spooler.Password,
		TLS:            app.config.Spooler.TLS,
		RequestTimeout: app.config.Spooler.RequestTimeout,
		LpadminPath:    app.config.Spooler.LpadminPath,
	}, app.logger)

	app.logger.Info("Spooler client initialized",
		zap.String("address", app.config.GetSpoolerAddr()),
		zap.Bool("tls", app.config.Spooler.TLS),
	)
}

// initializeResolver loads the search paths and package map
func (app *Application) initializeResolver() error {
	r, err := resolver.NewResolver(&resolver.Config{
		ProgramPath:    app.config.Resolver.ProgramPath,
		FilterPath:     app.config.Resolver.FilterPath,
		PackageMapFile: app.config.Resolver.PackageMapFile,
	}, app.logger)
	if err != nil {
		return err
	}
	app.resolver = r

	app.logger.Info("Driver resolver initialized",
		zap.Int("known_executables", len(r.Packages().Executables())),
	)
	return nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() {
	app.scanners = service.NewScannerManager(&app.config.Discovery, app.logger)

	app.printerService = service.NewPrinterService(app.client, app.logger)
	app.deviceService = service.NewDeviceService(app.client, app.scanners, app.config.Discovery.Timeout, app.logger)
	app.diagnosisService = service.NewDiagnosisService(app.printerService, app.resolver, app.logger)
	app.driverService = service.NewDriverService(&app.config.PPD, app.logger)

	app.logger.Info("Services initialized successfully")
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	docs.SwaggerInfo.Version = app.config.App.Version

	app.router = routes.NewRouter(
		app.config,
		app.logger,
		app.client,
		app.printerService,
		app.deviceService,
		app.diagnosisService,
		app.driverService,
	)

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      app.router.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
		zap.Bool("tls_enabled", app.config.Server.TLS.Enabled),
	)
}

// Start serves HTTP until a shutdown signal arrives
func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		var err error
		if app.config.Server.TLS.Enabled {
			err = app.server.ListenAndServeTLS(
				app.config.Server.TLS.CertFile,
				app.config.Server.TLS.KeyFile,
			)
		} else {
			err = app.server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.waitForShutdown()
	return nil
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, app.config.App.Name)
	serviceLogger.LogServiceStop("shutdown signal received")

	if ws := app.router.WebSocketHandler(); ws != nil {
		ws.Shutdown()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}
