// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Spooler   SpoolerConfig   `mapstructure:"spooler"`
	Resolver  ResolverConfig  `mapstructure:"resolver"`
	PPD       PPDConfig       `mapstructure:"ppd"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Security  SecurityConfig  `mapstructure:"security"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	TLS          TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SpoolerConfig is the CUPS server connection
type SpoolerConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           int           `mapstructure:"port" validate:"required"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	TLS            bool          `mapstructure:"tls"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	LpadminPath    string        `mapstructure:"lpadmin_path"`
}

// ResolverConfig holds the driver dependency search paths
type ResolverConfig struct {
	ProgramPath    string `mapstructure:"program_path"`
	FilterPath     string `mapstructure:"filter_path"`
	PackageMapFile string `mapstructure:"package_map_file"`
}

// PPDConfig controls option synchronization. An empty locale is taken
// from LANG.
type PPDConfig struct {
	Locale string `mapstructure:"locale"`
}

// DiscoveryConfig enables the local device scanners
type DiscoveryConfig struct {
	Timeout time.Duration         `mapstructure:"timeout"`
	USB     USBDiscoveryConfig    `mapstructure:"usb"`
	Serial  SerialDiscoveryConfig `mapstructure:"serial"`
	Socket  SocketDiscoveryConfig `mapstructure:"socket"`
}

// USBDiscoveryConfig represents USB scanner configuration
type USBDiscoveryConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SerialDiscoveryConfig represents serial scanner configuration
type SerialDiscoveryConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	BaudRate int  `mapstructure:"baud_rate"`
}

// SocketDiscoveryConfig lists hosts probed for a raw socket printer
type SocketDiscoveryConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Hosts          []string      `mapstructure:"hosts"`
	Port           int           `mapstructure:"port"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables. configFile
// overrides the search paths; a missing config file leaves the defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/printer-service")
	}

	// Environment variable support
	v.SetEnvPrefix("PRINTER_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8631")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.tls.enabled", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Spooler defaults
	v.SetDefault("spooler.host", "localhost")
	v.SetDefault("spooler.port", 631)
	v.SetDefault("spooler.tls", false)
	v.SetDefault("spooler.request_timeout", "30s")
	v.SetDefault("spooler.lpadmin_path", "lpadmin")

	// Resolver defaults
	v.SetDefault("resolver.program_path", "/usr/bin:/bin")
	v.SetDefault("resolver.filter_path", "/usr/lib/cups/filter:/usr/lib64/cups/filter")

	// Discovery defaults
	v.SetDefault("discovery.timeout", "10s")
	v.SetDefault("discovery.usb.enabled", true)
	v.SetDefault("discovery.usb.timeout", "2s")
	v.SetDefault("discovery.serial.enabled", false)
	v.SetDefault("discovery.serial.baud_rate", 9600)
	v.SetDefault("discovery.socket.enabled", false)
	v.SetDefault("discovery.socket.port", 9100)
	v.SetDefault("discovery.socket.connect_timeout", "500ms")

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{"*"})

	// App defaults
	v.SetDefault("app.name", "printer-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Spooler.Host == "" {
		return fmt.Errorf("spooler.host is required")
	}
	if config.Spooler.Port <= 0 || config.Spooler.Port > 65535 {
		return fmt.Errorf("spooler.port must be between 1 and 65535")
	}

	validEnvs := []string{"development", "staging", "production", "test"}
	if !slices.Contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !slices.Contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	validFormats := []string{"json", "console"}
	if config.Logging.Format != "" && !slices.Contains(validFormats, config.Logging.Format) {
		return fmt.Errorf("logging.format must be one of: %v", validFormats)
	}

	if config.Discovery.Socket.Enabled && config.Discovery.Socket.Port <= 0 {
		return fmt.Errorf("discovery.socket.port is required when socket discovery is enabled")
	}

	return nil
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// GetSpoolerAddr returns the CUPS server address
func (c *Config) GetSpoolerAddr() string {
	return fmt.Sprintf("%s:%d", c.Spooler.Host, c.Spooler.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
