// internal/model/device_id.go
package model

import (
	"encoding/json"
	"strings"

	"printer-service/pkg/printertypes"
)

// DeviceID is a parsed IEEE 1284 device identity string. Fields holds
// every key except CMD, which is kept as a list in CommandSet.
type DeviceID struct {
	Fields     map[string]string
	CommandSet []string
}

// Get returns a field value, "" when absent
func (id DeviceID) Get(key string) string {
	return id.Fields[key]
}

// Manufacturer is the MFG field
func (id DeviceID) Manufacturer() string { return id.Fields["MFG"] }

// Model is the MDL field
func (id DeviceID) Model() string { return id.Fields["MDL"] }

// SerialNumber is the SN field
func (id DeviceID) SerialNumber() string { return id.Fields["SN"] }

// MarshalJSON renders the identity as one object with CMD as a list
func (id DeviceID) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(id.Fields)+1)
	for k, v := range id.Fields {
		out[k] = v
	}
	cmd := id.CommandSet
	if cmd == nil {
		cmd = []string{}
	}
	out["CMD"] = cmd
	return json.Marshal(out)
}

// ParseDeviceID parses "KEY:VALUE;KEY:VALUE;" text. Segments without a
// colon are skipped. The canonical keys are always present and long key
// names fill in their short form only when it is missing.
func ParseDeviceID(s string) DeviceID {
	fields := make(map[string]string)
	for _, piece := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(piece, ":")
		if !ok {
			continue
		}
		fields[name] = value
	}

	for long, short := range printertypes.DeviceIDAliases {
		value, ok := fields[long]
		if !ok {
			continue
		}
		if _, exists := fields[short]; !exists {
			fields[short] = value
		}
	}

	for _, key := range printertypes.CanonicalDeviceIDKeys {
		if _, ok := fields[key]; !ok {
			fields[key] = ""
		}
	}

	cmd := []string{}
	if raw := fields["CMD"]; raw != "" {
		cmd = strings.Split(raw, ",")
	}
	delete(fields, "CMD")

	return DeviceID{Fields: fields, CommandSet: cmd}
}
