// cmd/printerctl/root.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/resolver"
	"printer-service/internal/service"
	"printer-service/internal/spooler/cups"
	"printer-service/internal/utils"
)

// app holds the services a command works with
type app struct {
	logger    *zap.Logger
	printers  *service.PrinterService
	devices   *service.DeviceService
	diagnosis *service.DiagnosisService
	driver    *service.DriverService
}

// appFactory builds the services from a config file
type appFactory func(configFile string, verbose bool) (*app, error)

// newApp wires the services the same way the server does. Logs go to
// stderr so they never mix with command output.
func newApp(configFile string, verbose bool) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Logging.Output == "" || cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
	cfg.Logging.Format = "console"
	if verbose {
		cfg.Logging.Level = "debug"
	} else {
		cfg.Logging.Level = "warn"
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client := cups.NewClient(&cups.Config{
		Host:           cfg.Spooler.Host,
		Port:           cfg.Spooler.Port,
		User:           cfg.Spooler.User,
		Password:       cfg.Spooler.Password,
		TLS:            cfg.Spooler.TLS,
		RequestTimeout: cfg.Spooler.RequestTimeout,
		LpadminPath:    cfg.Spooler.LpadminPath,
	}, logger)

	r, err := resolver.NewResolver(&resolver.Config{
		ProgramPath:    cfg.Resolver.ProgramPath,
		FilterPath:     cfg.Resolver.FilterPath,
		PackageMapFile: cfg.Resolver.PackageMapFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resolver: %w", err)
	}

	printers := service.NewPrinterService(client, logger)
	scanners := service.NewScannerManager(&cfg.Discovery, logger)

	return &app{
		logger:    logger,
		printers:  printers,
		devices:   service.NewDeviceService(client, scanners, cfg.Discovery.Timeout, logger),
		diagnosis: service.NewDiagnosisService(printers, r, logger),
		driver:    service.NewDriverService(&cfg.PPD, logger),
	}, nil
}

// newRootCommand builds the command tree. Services are created on first
// use so that --help works without a reachable spooler.
func newRootCommand(factory appFactory) *cobra.Command {
	var (
		configFile string
		verbose    bool
		loaded     *app
	)

	load := func() (*app, error) {
		if loaded != nil {
			return loaded, nil
		}
		a, err := factory(configFile, verbose)
		if err != nil {
			return nil, err
		}
		loaded = a
		return a, nil
	}

	root := &cobra.Command{
		Use:   "printerctl",
		Short: "Inspect CUPS printers and their driver dependencies",
		Long: TitleStyle.Render("printerctl") + SubtitleStyle.Render(" - CUPS printer inspection") + `

printerctl lists print queues and devices known to a CUPS server,
reports driver packages a printer's PPD still needs, and carries
option defaults from one PPD over to another.

` + SubtitleStyle.Render("Examples:") + `
  printerctl printers                         List print queues
  printerctl devices                          List attached and network devices
  printerctl diagnose office                  Check the driver of queue 'office'
  printerctl diagnose --file driver.ppd       Check a PPD file
  printerctl sync-options --source old.ppd --target new.ppd --out merged.ppd`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default searches ., ./config and /etc/printer-service)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newPrintersCommand(load))
	root.AddCommand(newDevicesCommand(load))
	root.AddCommand(newDiagnoseCommand(load))
	root.AddCommand(newSyncOptionsCommand(load))

	return root
}
