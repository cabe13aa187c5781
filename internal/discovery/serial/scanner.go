// internal/discovery/serial/scanner.go
package serial

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"printer-service/internal/discovery"
)

// PortLister returns the serial ports present on the system
type PortLister func() ([]*enumerator.PortDetails, error)

// Scanner reports serial ports as serial backend devices
type Scanner struct {
	logger *zap.Logger
	config *Config
	list   PortLister
}

// Config for serial scanner
type Config struct {
	ScanTimeout time.Duration `json:"scan_timeout"`
	BaudRate    int           `json:"baud_rate"`
}

// NewScanner creates a new serial scanner
func NewScanner(logger *zap.Logger, config *Config) *Scanner {
	if config == nil {
		config = &Config{}
	}
	if config.BaudRate <= 0 {
		config.BaudRate = 9600
	}
	if config.ScanTimeout <= 0 {
		config.ScanTimeout = 5 * time.Second
	}

	return &Scanner{
		logger: logger.With(zap.String("scanner", "serial")),
		config: config,
		list:   listPorts,
	}
}

// WithPortLister replaces the system port enumeration
func (s *Scanner) WithPortLister(list PortLister) *Scanner {
	s.list = list
	return s
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "serial"
}

// IsAvailable checks if serial scanning is available
func (s *Scanner) IsAvailable() bool {
	return true
}

// Scan lists serial ports
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredDevice, error) {
	s.logger.Info("Starting serial port scan")

	ports, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("failed to get serial ports: %w", err)
	}

	discovered := []*discovery.DiscoveredDevice{}
	for i, port := range ports {
		if err := ctx.Err(); err != nil {
			return discovered, err
		}
		discovered = append(discovered, s.describePort(i+1, port))
	}

	s.logger.Info("Serial scan completed", zap.Int("devices_found", len(discovered)))
	return discovered, nil
}

func (s *Scanner) describePort(index int, port *enumerator.PortDetails) *discovery.DiscoveredDevice {
	d := &discovery.DiscoveredDevice{
		URI:   BuildURI(port.Name, s.config.BaudRate),
		Class: "direct",
		Info:  fmt.Sprintf("Serial Port #%d", index),
	}

	if port.IsUSB {
		d.Info = fmt.Sprintf("Serial Port #%d (%s)", index, filepath.Base(port.Name))
		if port.Product != "" {
			d.MakeAndModel = port.Product
		}
		s.logger.Debug("USB serial adapter",
			zap.String("port", port.Name),
			zap.String("vid", port.VID),
			zap.String("pid", port.PID),
		)
	}
	return d
}

// BuildURI renders the serial backend URI for a port
func BuildURI(port string, baud int) string {
	query := url.Values{}
	query.Set("baud", strconv.Itoa(baud))
	return "serial:" + port + "?" + query.Encode()
}

// listPorts prefers the detailed enumeration and falls back to plain
// port names where it is unsupported
func listPorts() ([]*enumerator.PortDetails, error) {
	detailed, err := enumerator.GetDetailedPortsList()
	if err == nil {
		return detailed, nil
	}

	names, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}
	ports := make([]*enumerator.PortDetails, 0, len(names))
	for _, name := range names {
		ports = append(ports, &enumerator.PortDetails{Name: name})
	}
	return ports, nil
}
