// internal/model/device.go
package model

import (
	"cmp"
	"slices"
	"strings"

	"printer-service/internal/spooler"
	"printer-service/pkg/printertypes"
)

const unknown = "Unknown"

// Device is one connection to a physical device as reported by the
// spooler's backends or a local scanner
type Device struct {
	URI          string   `json:"uri"`
	Type         string   `json:"type"`
	IsClass      bool     `json:"is_class"`
	Class        string   `json:"device_class"`
	Info         string   `json:"info"`
	MakeAndModel string   `json:"make_and_model"`
	ID           string   `json:"device_id"`
	IDFields     DeviceID `json:"device_id_fields"`
	Source       string   `json:"source,omitempty"`
}

// NewDevice builds a Device from a device-uri and its attribute bag
func NewDevice(uri string, attrs spooler.Attributes) *Device {
	d := &Device{
		URI:          uri,
		Class:        attrs.StringOr("device-class", unknown),
		Info:         attrs.StringOr("device-info", ""),
		MakeAndModel: attrs.StringOr("device-make-and-model", unknown),
		ID:           attrs.StringOr("device-id", ""),
	}

	scheme, _, found := strings.Cut(uri, ":")
	d.Type = scheme
	d.IsClass = !found

	if d.Info != unknown && d.MakeAndModel == unknown {
		d.MakeAndModel = d.Info
	}

	d.IDFields = ParseDeviceID(d.ID)
	return d
}

// typeRank orders connection types, lower is preferred. Types not listed
// rank between hp/hpfax and usb.
var typeRank = map[string]int{
	printertypes.SchemeHP:       0,
	printertypes.SchemeHPFax:    0,
	printertypes.SchemeUSB:      2,
	printertypes.SchemeParallel: 3,
	printertypes.SchemeSerial:   4,
}

const otherTypeRank = 1

func rankOf(deviceType string) int {
	if r, ok := typeRank[deviceType]; ok {
		return r
	}
	return otherTypeRank
}

// CompareDevices orders a before b when a is the better connection.
// Criteria in order: non-class before class, connection type rank, a
// device id before none, info text.
func CompareDevices(a, b *Device) int {
	if a.IsClass != b.IsClass {
		if b.IsClass {
			return -1
		}
		return 1
	}

	if !a.IsClass && a.Type != b.Type {
		if c := cmp.Compare(rankOf(a.Type), rankOf(b.Type)); c != 0 {
			return c
		}
	}

	aID, bID := a.ID != "", b.ID != ""
	if aID != bID {
		if aID {
			return -1
		}
		return 1
	}

	return strings.Compare(a.Info, b.Info)
}

// SortDevices sorts most preferred first
func SortDevices(devices []*Device) {
	slices.SortStableFunc(devices, CompareDevices)
}
