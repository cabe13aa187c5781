package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-service/internal/spooler"
	"printer-service/pkg/printertypes"
)

func TestParseDeviceID(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantFields map[string]string
		wantCMD    []string
	}{
		{
			name:  "full id",
			input: "MFG:HEWLETT-PACKARD;MDL:DESKJET 990C;CMD:MLC,PCL,PML;CLS:PRINTER;DES:Hewlett-Packard DeskJet 990C;SN:US05N1J00XLG;",
			wantFields: map[string]string{
				"MFG": "HEWLETT-PACKARD", "MDL": "DESKJET 990C", "CLS": "PRINTER",
				"DES": "Hewlett-Packard DeskJet 990C", "SN": "US05N1J00XLG",
				"S": "", "P": "", "J": "",
			},
			wantCMD: []string{"MLC", "PCL", "PML"},
		},
		{
			name:  "long names alias",
			input: "MANUFACTURER:Epson;MODEL:Stylus;COMMAND SET:ESCPL2",
			wantFields: map[string]string{
				"MANUFACTURER": "Epson", "MODEL": "Stylus", "COMMAND SET": "ESCPL2",
				"MFG": "Epson", "MDL": "Stylus",
				"CLS": "", "DES": "", "SN": "", "S": "", "P": "", "J": "",
			},
			wantCMD: []string{"ESCPL2"},
		},
		{
			name:  "explicit key wins over alias",
			input: "MFG:HP;MANUFACTURER:Hewlett-Packard;MDL:LaserJet",
			wantFields: map[string]string{
				"MFG": "HP", "MANUFACTURER": "Hewlett-Packard", "MDL": "LaserJet",
				"CLS": "", "DES": "", "SN": "", "S": "", "P": "", "J": "",
			},
			wantCMD: []string{},
		},
		{
			name:  "malformed segments skipped",
			input: "garbage;MFG:Brother;;no colon here;MDL:HL:2140",
			wantFields: map[string]string{
				"MFG": "Brother", "MDL": "HL:2140",
				"CLS": "", "DES": "", "SN": "", "S": "", "P": "", "J": "",
			},
			wantCMD: []string{},
		},
		{
			name:  "empty",
			input: "",
			wantFields: map[string]string{
				"MFG": "", "MDL": "", "CLS": "", "DES": "", "SN": "", "S": "", "P": "", "J": "",
			},
			wantCMD: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDeviceID(tt.input)
			if diff := cmp.Diff(tt.wantFields, got.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantCMD, got.CommandSet)
		})
	}
}

func TestParseDeviceIDAlwaysHasCanonicalKeys(t *testing.T) {
	inputs := []string{"", ";", ":", "CMD:", "X:Y", "MFG:A;MFG:B", "COMMAND SET:A,B,C;"}
	for _, input := range inputs {
		id := ParseDeviceID(input)

		data, err := json.Marshal(id)
		require.NoError(t, err)
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))

		for _, key := range printertypes.CanonicalDeviceIDKeys {
			assert.Contains(t, decoded, key, "input %q", input)
		}
		assert.IsType(t, []any{}, decoded["CMD"], "input %q", input)
		assert.NotNil(t, id.CommandSet)
	}
}

func TestNewDevice(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		d := NewDevice("usb://HP/DeskJet", spooler.Attributes{})
		assert.Equal(t, "usb", d.Type)
		assert.False(t, d.IsClass)
		assert.Equal(t, "Unknown", d.Class)
		assert.Equal(t, "", d.Info)
		assert.Equal(t, "", d.MakeAndModel)
	})

	t.Run("make and model backfilled from info", func(t *testing.T) {
		d := NewDevice("parallel:/dev/lp0", spooler.Attributes{
			"device-class": "direct",
			"device-info":  "LPT #1",
		})
		assert.Equal(t, "LPT #1", d.MakeAndModel)
		assert.Equal(t, "direct", d.Class)
	})

	t.Run("unknown info keeps make and model", func(t *testing.T) {
		d := NewDevice("serial:/dev/ttyS0", spooler.Attributes{"device-info": "Unknown"})
		assert.Equal(t, "Unknown", d.MakeAndModel)
	})

	t.Run("reported make and model kept", func(t *testing.T) {
		d := NewDevice("hp:/usb/DeskJet_990C", spooler.Attributes{
			"device-info":           "HP DeskJet 990C USB",
			"device-make-and-model": "HP DeskJet 990C",
			"device-id":             "MFG:HP;MDL:DeskJet 990C;CMD:PCL;",
		})
		assert.Equal(t, "HP DeskJet 990C", d.MakeAndModel)
		assert.Equal(t, "HP", d.IDFields.Manufacturer())
		assert.Equal(t, []string{"PCL"}, d.IDFields.CommandSet)
	})

	t.Run("class has no colon", func(t *testing.T) {
		d := NewDevice("network", spooler.Attributes{})
		assert.True(t, d.IsClass)
		assert.Equal(t, "network", d.Type)
	})
}

func dev(uri, id, info string) *Device {
	return NewDevice(uri, spooler.Attributes{"device-id": id, "device-info": info})
}

func TestCompareDevicesExample(t *testing.T) {
	a := dev("usb://HP/DeskJet", "MFG:HP;MDL:DeskJet;", "A")
	b := dev("serial:/dev/ttyS0", "", "B")
	c := dev("network", "", "C")

	assert.Equal(t, -1, CompareDevices(a, b))
	assert.Equal(t, -1, CompareDevices(a, c))
	assert.Equal(t, -1, CompareDevices(b, c))
	assert.Equal(t, 1, CompareDevices(c, a))
}

func TestCompareDevicesLadder(t *testing.T) {
	ordered := []string{
		"hp:/usb/x",
		"socket://10.0.0.5",
		"usb://x",
		"parallel:/dev/lp0",
		"serial:/dev/ttyS0",
	}
	for i := 0; i < len(ordered); i++ {
		for j := i + 1; j < len(ordered); j++ {
			a, b := dev(ordered[i], "", "z"), dev(ordered[j], "", "a")
			assert.Equal(t, -1, CompareDevices(a, b), "%s before %s", ordered[i], ordered[j])
			assert.Equal(t, 1, CompareDevices(b, a), "%s after %s", ordered[j], ordered[i])
		}
	}

	hp, hpfax := dev("hp:/usb/x", "", "b"), dev("hpfax:/usb/x", "", "a")
	assert.Equal(t, 1, CompareDevices(hp, hpfax), "hp and hpfax tie on rank, info decides")

	ipp, smb := dev("ipp://host/p", "", "a"), dev("smb://host/p", "", "b")
	assert.Equal(t, -1, CompareDevices(ipp, smb), "other types tie on rank, info decides")
}

func TestCompareDevicesIsTotalOrder(t *testing.T) {
	devices := []*Device{
		dev("hp:/usb/a", "MFG:HP;", "a"),
		dev("hp:/usb/a", "", "a"),
		dev("hpfax:/usb/a", "", "b"),
		dev("usb://a", "MFG:A;", "x"),
		dev("usb://b", "", "x"),
		dev("parallel:/dev/lp0", "", ""),
		dev("serial:/dev/ttyS0", "MFG:S;", "s"),
		dev("socket://h", "", "h"),
		dev("ipp://h/p", "MFG:I;", "h"),
		dev("network", "", "n"),
		dev("direct", "MFG:D;", "d"),
	}

	for _, a := range devices {
		assert.Equal(t, 0, CompareDevices(a, a))
		for _, b := range devices {
			assert.Equal(t, -CompareDevices(b, a), CompareDevices(a, b), "antisymmetry %s %s", a.URI, b.URI)
			for _, c := range devices {
				if CompareDevices(a, b) <= 0 && CompareDevices(b, c) <= 0 {
					assert.LessOrEqual(t, CompareDevices(a, c), 0, "transitivity %s %s %s", a.URI, b.URI, c.URI)
				}
			}
		}
	}
}

func TestSortDevices(t *testing.T) {
	devices := []*Device{
		dev("network", "", "Network"),
		dev("serial:/dev/ttyS0", "", "Serial Port #1"),
		dev("usb://HP/DeskJet", "MFG:HP;", "HP DeskJet"),
		dev("usb://HP/LaserJet", "", "HP LaserJet"),
		dev("hp:/usb/DeskJet", "MFG:HP;", "HP DeskJet"),
	}

	SortDevices(devices)

	got := make([]string, 0, len(devices))
	for _, d := range devices {
		got = append(got, d.URI)
	}
	want := []string{
		"hp:/usb/DeskJet",
		"usb://HP/DeskJet",
		"usb://HP/LaserJet",
		"serial:/dev/ttyS0",
		"network",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}
