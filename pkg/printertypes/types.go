// pkg/printertypes/types.go
package printertypes

// Common printer type definitions that can be used across the application

// Page sizes chosen by locale
const (
	PageSizeLetter = "Letter"
	PageSizeA4     = "A4"
)

// LetterLocales are the locale tags that default to Letter paper
var LetterLocales = []string{"C", "POSIX", "en", "en_US", "en_CA", "fr_CA"}

// Device URI schemes with a fixed install preference
const (
	SchemeHP       = "hp"
	SchemeHPFax    = "hpfax"
	SchemeUSB      = "usb"
	SchemeParallel = "parallel"
	SchemeSerial   = "serial"
	SchemeSocket   = "socket"
	SchemeIPP      = "ipp"
	SchemeSMB      = "smb"
)

// Spooler resources fetched over HTTP
const (
	PrintersConfResource = "/admin/conf/printers.conf"
	TestPageJobName      = "Test Page"
)

// CanonicalDeviceIDKeys are always present in a parsed IEEE 1284 device id
var CanonicalDeviceIDKeys = []string{"MFG", "MDL", "CMD", "CLS", "DES", "SN", "S", "P", "J"}

// DeviceIDAliases maps long device id keys onto their canonical short form
var DeviceIDAliases = map[string]string{
	"MANUFACTURER": "MFG",
	"MODEL":        "MDL",
	"COMMAND SET":  "CMD",
}

// StaticSupported lists supported values for defaults that the spooler
// does not advertise with a -supported attribute.
var StaticSupported = map[string]StaticAttribute{
	"landscape": {
		Default:   "False",
		Supported: []string{"True", "False"},
	},
	"page-border": {
		Default:   "none",
		Supported: []string{"none", "single", "single-thick", "double", "double-thick"},
	},
}

// StaticAttribute is a default value with its supported set
type StaticAttribute struct {
	Default   string
	Supported []string
}
