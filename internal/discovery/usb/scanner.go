// internal/discovery/usb/scanner.go
package usb

import (
	"context"
	"encoding/binary"
	"fmt"
	"net/url"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"printer-service/internal/discovery"
	"printer-service/internal/model"
)

const (
	// IEEE 1284 GET_DEVICE_ID class request
	requestTypeDeviceID = 0xA1
	requestDeviceID     = 0x00
	maxDeviceIDLength   = 1024
)

// Scanner finds USB printer-class interfaces and reads their IEEE 1284
// device id
type Scanner struct {
	logger  *zap.Logger
	vendors *VendorDatabase
	config  *Config
}

// Config for USB scanner
type Config struct {
	ScanTimeout    time.Duration `json:"scan_timeout"`
	ControlTimeout time.Duration `json:"control_timeout"`
	EnableDebug    bool          `json:"enable_debug"`
}

// printerInterface locates the printer-class alternate setting of a device
type printerInterface struct {
	config    int
	number    int
	alternate int
}

// NewScanner creates a new USB scanner
func NewScanner(logger *zap.Logger, config *Config) *Scanner {
	if config == nil {
		config = &Config{}
	}
	if config.ScanTimeout <= 0 {
		config.ScanTimeout = 10 * time.Second
	}
	if config.ControlTimeout <= 0 {
		config.ControlTimeout = 2 * time.Second
	}

	return &Scanner{
		logger:  logger.With(zap.String("scanner", "usb")),
		vendors: NewVendorDatabase(),
		config:  config,
	}
}

// GetScannerType returns scanner type identifier
func (s *Scanner) GetScannerType() string {
	return "usb"
}

// IsAvailable checks if USB scanning is available on this system
func (s *Scanner) IsAvailable() bool {
	switch runtime.GOOS {
	case "linux", "darwin", "freebsd":
		return true
	default:
		s.logger.Warn("USB scanning support unknown for OS", zap.String("os", runtime.GOOS))
		return false
	}
}

// Scan performs USB device discovery
func (s *Scanner) Scan(ctx context.Context) ([]*discovery.DiscoveredDevice, error) {
	startTime := time.Now()
	s.logger.Info("Starting USB device scan")

	scanCtx, cancel := context.WithTimeout(ctx, s.config.ScanTimeout)
	defer cancel()

	usbCtx := gousb.NewContext()
	defer func() {
		if err := usbCtx.Close(); err != nil {
			s.logger.Warn("Failed to close USB context", zap.Error(err))
		}
	}()
	if s.config.EnableDebug {
		usbCtx.Debug(3)
	}

	devices, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		_, ok := findPrinterInterface(desc)
		return ok
	})
	// OpenDevices reports per-device open failures but still returns the
	// devices it could open
	if err != nil && len(devices) == 0 {
		return nil, fmt.Errorf("failed to enumerate USB devices: %w", err)
	}
	defer s.closeAllDevices(devices)

	discovered := []*discovery.DiscoveredDevice{}
	seen := make(map[string]bool)
	for _, device := range devices {
		if err := scanCtx.Err(); err != nil {
			return discovered, err
		}

		d := s.processDevice(device)
		if d == nil || seen[d.URI] {
			continue
		}
		seen[d.URI] = true
		discovered = append(discovered, d)
	}

	s.logger.Info("USB scan completed",
		zap.Int("devices_found", len(discovered)),
		zap.Duration("scan_duration", time.Since(startTime)),
	)
	return discovered, nil
}

// processDevice builds a DiscoveredDevice from one opened printer
func (s *Scanner) processDevice(device *gousb.Device) *discovery.DiscoveredDevice {
	desc := device.Desc
	intf, ok := findPrinterInterface(desc)
	if !ok {
		return nil
	}

	device.ControlTimeout = s.config.ControlTimeout
	rawID, err := s.readDeviceID(device, intf)
	if err != nil {
		s.logger.Debug("Device id request failed",
			zap.String("vendor_id", desc.Vendor.String()),
			zap.String("product_id", desc.Product.String()),
			zap.Error(err),
		)
		rawID = s.synthesizeDeviceID(device)
	}

	id := model.ParseDeviceID(rawID)
	serial := id.SerialNumber()
	if serial == "" {
		serial, _ = device.SerialNumber()
	}

	makeAndModel := strings.TrimSpace(id.Manufacturer() + " " + id.Model())
	return &discovery.DiscoveredDevice{
		URI:          BuildURI(id, serial),
		Class:        "direct",
		Info:         makeAndModel + " USB",
		MakeAndModel: makeAndModel,
		DeviceID:     rawID,
	}
}

// readDeviceID issues GET_DEVICE_ID on the printer interface
func (s *Scanner) readDeviceID(device *gousb.Device, intf printerInterface) (string, error) {
	buf := make([]byte, maxDeviceIDLength)
	index := uint16(intf.number<<8 | intf.alternate)
	n, err := device.Control(requestTypeDeviceID, requestDeviceID, uint16(intf.config), index, buf)
	if err != nil {
		return "", err
	}
	return DecodeDeviceID(buf[:n])
}

// synthesizeDeviceID builds an id from the string descriptors and the
// vendor table for devices that do not answer GET_DEVICE_ID
func (s *Scanner) synthesizeDeviceID(device *gousb.Device) string {
	manufacturer, _ := device.Manufacturer()
	if info := s.vendors.GetVendorInfo(device.Desc.Vendor); info != nil {
		manufacturer = info.Manufacturer
	}
	if manufacturer == "" {
		manufacturer = "Unknown"
	}

	product, _ := device.Product()
	if product == "" {
		product = fmt.Sprintf("%s:%s", device.Desc.Vendor, device.Desc.Product)
	}

	return fmt.Sprintf("MFG:%s;MDL:%s;CLS:PRINTER;", manufacturer, product)
}

// DecodeDeviceID strips the two byte big-endian length prefix of a
// GET_DEVICE_ID reply
func DecodeDeviceID(reply []byte) (string, error) {
	if len(reply) < 2 {
		return "", fmt.Errorf("device id reply too short: %d bytes", len(reply))
	}

	length := int(binary.BigEndian.Uint16(reply[:2]))
	if length < 2 || length > len(reply) {
		// some printers send the length little-endian
		length = int(binary.LittleEndian.Uint16(reply[:2]))
	}
	if length < 2 || length > len(reply) {
		length = len(reply)
	}

	return strings.TrimRight(string(reply[2:length]), "\x00"), nil
}

// BuildURI renders the usb backend URI for a device id
func BuildURI(id model.DeviceID, serial string) string {
	manufacturer := id.Manufacturer()
	if manufacturer == "" {
		manufacturer = "Unknown"
	}
	modelName := id.Model()
	if modelName == "" {
		modelName = "Printer"
	}

	uri := "usb://" + url.PathEscape(manufacturer) + "/" + url.PathEscape(modelName)
	if serial != "" {
		uri += "?serial=" + url.QueryEscape(serial)
	}
	return uri
}

// findPrinterInterface returns the first printer-class alternate setting
func findPrinterInterface(desc *gousb.DeviceDesc) (printerInterface, bool) {
	configs := make([]int, 0, len(desc.Configs))
	for num := range desc.Configs {
		configs = append(configs, num)
	}
	sort.Ints(configs)

	for index, num := range configs {
		for _, intf := range desc.Configs[num].Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class == gousb.ClassPrinter {
					return printerInterface{config: index, number: alt.Number, alternate: alt.Alternate}, true
				}
			}
		}
	}
	return printerInterface{}, false
}

// closeAllDevices safely closes all opened USB devices
func (s *Scanner) closeAllDevices(devices []*gousb.Device) {
	for i, device := range devices {
		if device == nil {
			continue
		}
		if err := device.Close(); err != nil {
			s.logger.Warn("Failed to close USB device",
				zap.Int("device_index", i),
				zap.Error(err),
			)
		}
	}
}
