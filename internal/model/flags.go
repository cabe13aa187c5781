// internal/model/flags.go
package model

// Flag is a named printer-type bit
type Flag struct {
	Name string
	Bit  int
}

// printerTypeFlags mirrors the CUPS_PRINTER_* constants. Built once and
// shared read-only.
var printerTypeFlags = []Flag{
	{"local", 0x0},
	{"class", 0x1},
	{"remote", 0x2},
	{"bw", 0x4},
	{"color", 0x8},
	{"duplex", 0x10},
	{"staple", 0x20},
	{"copies", 0x40},
	{"collate", 0x80},
	{"punch", 0x100},
	{"cover", 0x200},
	{"bind", 0x400},
	{"sort", 0x800},
	{"small", 0x1000},
	{"medium", 0x2000},
	{"large", 0x4000},
	{"variable", 0x8000},
	{"implicit", 0x10000},
	{"default", 0x20000},
	{"fax", 0x40000},
	{"rejecting", 0x80000},
	{"delete", 0x100000},
	{"not_shared", 0x200000},
	{"authenticated", 0x400000},
	{"commands", 0x800000},
	{"discovered", 0x1000000},
	{"scanner", 0x2000000},
	{"mfp", 0x4000000},
	{"options", 0x6fffc},
}

// flags reserved for other purposes, never exposed
var flagBlacklist = map[string]bool{
	"options": true,
	"local":   true,
}

const (
	FlagIsClass    = "is_class"
	FlagNotShared  = "not_shared"
	FlagDiscovered = "discovered"
	FlagRemote     = "remote"
	FlagDefault    = "default"
	FlagRejecting  = "rejecting"
)

// decodedFlags is the exposed subset of printerTypeFlags
var decodedFlags = buildDecodedFlags()

func buildDecodedFlags() []Flag {
	out := make([]Flag, 0, len(printerTypeFlags))
	for _, f := range printerTypeFlags {
		if flagBlacklist[f.Name] {
			continue
		}
		if f.Name == "class" {
			f.Name = FlagIsClass
		}
		out = append(out, f)
	}
	return out
}

// FlagNames lists the attribute names DecodeFlags produces
func FlagNames() []string {
	names := make([]string, 0, len(decodedFlags))
	for _, f := range decodedFlags {
		names = append(names, f.Name)
	}
	return names
}

// DecodeFlags expands a printer-type bitmask into one boolean per flag
func DecodeFlags(mask int) map[string]bool {
	out := make(map[string]bool, len(decodedFlags))
	for _, f := range decodedFlags {
		out[f.Name] = mask&f.Bit != 0
	}
	return out
}
