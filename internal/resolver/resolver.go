// internal/resolver/resolver.go
package resolver

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"printer-service/internal/ppd"
)

const (
	ripCommandLineAttr = "FoomaticRIPCommandLine"
	cupsFilterPrefix   = "*cupsFilter:"
	ijsServerPrefix    = "-sIjsServer="
)

// Config for the dependency resolver
type Config struct {
	ProgramPath    string `json:"program_path"`
	FilterPath     string `json:"filter_path"`
	PackageMapFile string `json:"package_map_file"`
}

// Report lists what must be installed before a descriptor is usable
type Report struct {
	Packages    []string `json:"packages"`
	Executables []string `json:"executables"`
}

// OK reports whether nothing is missing
func (r Report) OK() bool {
	return len(r.Packages) == 0 && len(r.Executables) == 0
}

// Resolver finds executables a PPD filter pipeline needs but the local
// system lacks.
type Resolver struct {
	programPath string
	filterPath  string
	packages    *PackageTable
	logger      *zap.Logger
}

// NewResolver creates a resolver. A nil config uses the default search paths
// and the built-in package table.
func NewResolver(config *Config, logger *zap.Logger) (*Resolver, error) {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Resolver{
		programPath: config.ProgramPath,
		filterPath:  config.FilterPath,
		packages:    NewPackageTable(),
		logger:      logger.With(zap.String("component", "resolver")),
	}
	if r.programPath == "" {
		r.programPath = DefaultProgramPath
	}
	if r.filterPath == "" {
		r.filterPath = DefaultFilterPath
	}

	if config.PackageMapFile != "" {
		if err := r.packages.LoadFile(config.PackageMapFile); err != nil {
			return nil, fmt.Errorf("failed to load package map: %w", err)
		}
	}

	return r, nil
}

// Packages exposes the package table
func (r *Resolver) Packages() *PackageTable {
	return r.packages
}

// Missing checks the RIP command line and the *cupsFilter lines of d and
// reports the first executable that could not be resolved.
func (r *Resolver) Missing(d *ppd.Descriptor) Report {
	report := Report{
		Packages:    []string{},
		Executables: []string{},
	}

	exe := r.checkCommandLine(d)
	if exe == "" {
		exe = r.checkFilters(d)
	}
	if exe == "" {
		return report
	}

	exe = StripPlaceholder(exe)
	if pkg, ok := r.packages.Lookup(exe); ok {
		r.logger.Debug("Executable included in package",
			zap.String("executable", exe),
			zap.String("package", pkg),
		)
		report.Packages = append(report.Packages, pkg)
	} else {
		report.Executables = append(report.Executables, exe)
	}
	return report
}

// CleanCommandLine joins continuation lines and unescapes the entities a
// PPD may carry. It returns "" for command lines using sub-shells or
// leftover entities, which are not analysed.
func CleanCommandLine(value string) string {
	cmdline := strings.ReplaceAll(value, "&&\n", "")
	cmdline = strings.ReplaceAll(cmdline, "&quot;", `"`)
	cmdline = strings.ReplaceAll(cmdline, "&lt;", "<")
	cmdline = strings.ReplaceAll(cmdline, "&gt;", ">")
	if strings.ContainsAny(cmdline, "(&") {
		return ""
	}
	return cmdline
}

// checkCommandLine returns the first unresolved executable of the RIP
// command line, or "" when every command resolves.
func (r *Resolver) checkCommandLine(d *ppd.Descriptor) string {
	attr := d.FindAttr(ripCommandLineAttr)
	if attr == nil {
		return ""
	}

	cmdline := CleanCommandLine(attr.Value)
	for _, stage := range strings.Split(cmdline, ";") {
		for _, cmd := range strings.Split(strings.TrimSpace(stage), "|") {
			args := strings.Fields(cmd)
			if len(args) == 0 {
				continue
			}

			exe := args[0]
			path, ok := r.pathCheck(exe, r.programPath)
			if !ok {
				return exe
			}

			if filepath.Base(path) != "gs" {
				continue
			}
			for _, arg := range args[1:] {
				if !strings.HasPrefix(arg, ijsServerPrefix) {
					continue
				}
				ijs := strings.TrimPrefix(arg, ijsServerPrefix)
				if _, ok := r.pathCheck(ijs, r.programPath); !ok {
					return ijs
				}
				break
			}
		}
	}
	return ""
}

// checkFilters resolves the executable of every well formed *cupsFilter
// line against the filter path and returns the first one missing.
func (r *Resolver) checkFilters(d *ppd.Descriptor) string {
	scanner := bufio.NewScanner(bytes.NewReader(d.Bytes()))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, cupsFilterPrefix) {
			continue
		}

		line = strings.Trim(strings.TrimSpace(line[len(cupsFilterPrefix):]), `"`)
		fields := strings.Fields(line)
		if len(fields) != 3 {
			r.logger.Debug("Skipping malformed cupsFilter line", zap.String("line", line))
			continue
		}

		exe := fields[2]
		if _, ok := r.pathCheck(exe, r.filterPath); !ok {
			return exe
		}
	}
	return ""
}

func (r *Resolver) pathCheck(name, searchPath string) (string, bool) {
	path, ok := PathCheck(name, searchPath)
	if ok {
		r.logger.Debug("Executable found", zap.String("name", name), zap.String("path", path))
	} else {
		r.logger.Debug("Executable NOT found", zap.String("name", name), zap.String("search_path", searchPath))
	}
	return path, ok
}
