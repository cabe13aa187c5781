// internal/service/discovery_service.go
package service

import (
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/discovery"
	"printer-service/internal/discovery/serial"
	"printer-service/internal/discovery/tcp"
	"printer-service/internal/discovery/usb"
)

// NewScannerManager registers the local scanners enabled in cfg
func NewScannerManager(cfg *config.DiscoveryConfig, logger *zap.Logger) *discovery.ScannerManager {
	manager := discovery.NewScannerManager(logger)

	if cfg.USB.Enabled {
		manager.RegisterScanner(usb.NewScanner(logger, &usb.Config{
			ScanTimeout:    cfg.Timeout,
			ControlTimeout: cfg.USB.Timeout,
		}))
	}

	if cfg.Serial.Enabled {
		manager.RegisterScanner(serial.NewScanner(logger, &serial.Config{
			ScanTimeout: cfg.Timeout,
			BaudRate:    cfg.Serial.BaudRate,
		}))
	}

	if cfg.Socket.Enabled {
		manager.RegisterScanner(tcp.NewScanner(logger, &tcp.Config{
			Hosts:          cfg.Socket.Hosts,
			Port:           cfg.Socket.Port,
			ConnectTimeout: cfg.Socket.ConnectTimeout,
		}))
	}

	logger.Info("Discovery scanners initialized",
		zap.Strings("available_scanners", manager.GetAvailableScanners()),
	)

	return manager
}
