// internal/discovery/tcp/scanner.go
package tcp

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/discovery"
)

// DefaultPort is the raw AppSocket/JetDirect port
const DefaultPort = 9100

// Scanner probes configured hosts for a raw socket printer
type Scanner struct {
	logger *zap.Logger
	config *Config
}

// Config for TCP scanner
type Config struct {
	Hosts          []string      `json:"hosts"`
	Port           int           `json:"port"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	MaxConcurrent  int           `json:"max_concurrent"`
}

// NewScanner creates a new TCP scanner
func NewScanner(logger *zap.Logger, config *Config) *Scanner {
	if config == nil {
		config = &Config{}
	}
	if config.Port <= 0 {
		config.Port = DefaultPort
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 500 * time.Millisecond
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 8
	}

	return &Scanner{
		logger: logger.With(zap.String("scanner", "socket")),
		config: config,
	}
}

// GetScannerType returns scanner type
func (s *Scanner) GetScannerType() string {
	return "socket"
}

// IsAvailable reports whether any host is configured
func (s *Scanner) IsAvailable() bool {
	return len(s.config.Hosts) > 0
}

// Scan dials every configured host and reports those that accept
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredDevice, error) {
	s.logger.Info("Starting socket probe", zap.Int("hosts", len(s.config.Hosts)))

	found := make([]bool, len(s.config.Hosts))
	sem := make(chan struct{}, s.config.MaxConcurrent)
	var wg sync.WaitGroup

	for i, host := range s.config.Hosts {
		wg.Add(1)
		go func(i int, host string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()
			found[i] = s.probe(ctx, host)
		}(i, host)
	}
	wg.Wait()

	discovered := []*discovery.DiscoveredDevice{}
	for i, host := range s.config.Hosts {
		if !found[i] {
			continue
		}
		discovered = append(discovered, &discovery.DiscoveredDevice{
			URI:   BuildURI(host, s.config.Port),
			Class: "network",
			Info:  "AppSocket/HP JetDirect (" + host + ")",
		})
	}

	s.logger.Info("Socket probe completed", zap.Int("devices_found", len(discovered)))
	return discovered, ctx.Err()
}

func (s *Scanner) probe(ctx context.Context, host string) bool {
	dialer := net.Dialer{Timeout: s.config.ConnectTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(s.config.Port)))
	if err != nil {
		s.logger.Debug("Host not answering", zap.String("host", host), zap.Error(err))
		return false
	}
	conn.Close()
	return true
}

// BuildURI renders the socket backend URI for a host
func BuildURI(host string, port int) string {
	return "socket://" + net.JoinHostPort(host, strconv.Itoa(port))
}
