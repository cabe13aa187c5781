// internal/resolver/packages.go
package resolver

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// PackageTable maps executable names to the distribution package that
// installs them. An empty package name means the executable is known but no
// package provides it.
type PackageTable struct {
	packages map[string]string
}

// packageMapFile is the on-disk TOML layout:
//
//	[packages]
//	rastertofoo = "foo-filters"
type packageMapFile struct {
	Packages map[string]string `toml:"packages"`
}

// NewPackageTable creates the table with the built-in entries
func NewPackageTable() *PackageTable {
	t := &PackageTable{
		packages: make(map[string]string),
	}
	t.initializeTable()
	return t
}

// initializeTable populates the known executables
func (t *PackageTable) initializeTable() {
	// Foomatic command line executables
	t.packages["gs"] = "ghostscript"
	t.packages["perl"] = "perl"
	t.packages["foo2oak-wrapper"] = ""
	t.packages["pnm2ppa"] = "pnm2ppa"
	t.packages["c2050"] = "c2050"
	t.packages["c2070"] = "c2070"
	t.packages["cjet"] = "cjet"
	t.packages["lm1100"] = "lx"
	t.packages["esc-m"] = "min12xxw"
	t.packages["min12xxw"] = "min12xxw"
	t.packages["pbm2l2030"] = "pbm2l2030"
	t.packages["pbm2l7k"] = "pbm2l7k"
	t.packages["pbm2lex"] = "pbm2l7k"

	// IJS servers
	t.packages["hpijs"] = "hpijs"
	t.packages["ijsgutenprint.5.0"] = "gutenprint"

	// CUPS filters
	t.packages["rastertogutenprint.5.0"] = "gutenprint-cups"
	t.packages["commandtoepson"] = "gutenprint-cups"
	t.packages["commandtocanon"] = "gutenprint-cups"
}

// Lookup returns the package providing exe. The boolean is false when no
// package is known.
func (t *PackageTable) Lookup(exe string) (string, bool) {
	pkg, ok := t.packages[exe]
	if !ok || pkg == "" {
		return "", false
	}
	return pkg, true
}

// Add registers or replaces an entry
func (t *PackageTable) Add(exe, pkg string) {
	t.packages[exe] = pkg
}

// Executables returns every executable name in the table, sorted
func (t *PackageTable) Executables() []string {
	names := make([]string, 0, len(t.packages))
	for name := range t.packages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFile merges entries from a TOML package map, overriding built-ins
func (t *PackageTable) LoadFile(path string) error {
	var file packageMapFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return fmt.Errorf("failed to decode package map %s: %w", path, err)
	}

	for exe, pkg := range file.Packages {
		t.Add(exe, pkg)
	}
	return nil
}
