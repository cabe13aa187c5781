// internal/service/device_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/discovery"
	"printer-service/internal/model"
	"printer-service/internal/spooler"
	"printer-service/internal/utils"
)

// DeviceService lists the devices a queue could be created on
type DeviceService struct {
	client   spooler.Client
	scanners *discovery.ScannerManager
	timeout  time.Duration
	logger   *utils.ServiceLogger
}

// NewDeviceService creates a new device service instance. scanners may be
// nil, in which case only the spooler's backends are consulted.
func NewDeviceService(client spooler.Client, scanners *discovery.ScannerManager, timeout time.Duration, logger *zap.Logger) *DeviceService {
	return &DeviceService{
		client:   client,
		scanners: scanners,
		timeout:  timeout,
		logger:   utils.NewServiceLogger(logger, "device-service"),
	}
}

// GetDevices returns the spooler's devices plus locally discovered devices
// the spooler did not report, most preferred first
func (ds *DeviceService) GetDevices(ctx context.Context) ([]*model.Device, error) {
	start := time.Now()
	raw, err := ds.client.GetDevices(ctx)
	ds.logger.LogSpoolerCall("GetDevices", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	devices := make([]*model.Device, 0, len(raw))
	for uri, attrs := range raw {
		devices = append(devices, model.NewDevice(uri, attrs))
	}

	for _, d := range ds.scanLocal(ctx) {
		if _, reported := raw[d.URI]; reported {
			continue
		}
		device := model.NewDevice(d.URI, d.Attributes())
		device.Source = d.Source
		devices = append(devices, device)
	}

	model.SortDevices(devices)
	ds.logger.Debug("Devices listed", zap.Int("count", len(devices)))
	return devices, nil
}

func (ds *DeviceService) scanLocal(ctx context.Context) []*discovery.DiscoveredDevice {
	if ds.scanners == nil {
		return nil
	}

	if ds.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ds.timeout)
		defer cancel()
	}

	found, err := ds.scanners.ScanAll(ctx)
	if err != nil {
		ds.logger.Warn("Local discovery interrupted", zap.Error(err))
	}
	return found
}
