package resolver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/ppd"
)

type testEnv struct {
	bin    string
	filter string
}

func newTestEnv(t *testing.T, programs, filters []string) testEnv {
	t.Helper()
	root := t.TempDir()
	env := testEnv{
		bin:    filepath.Join(root, "bin"),
		filter: filepath.Join(root, "filter"),
	}
	require.NoError(t, os.MkdirAll(env.bin, 0o755))
	require.NoError(t, os.MkdirAll(env.filter, 0o755))

	for _, name := range programs {
		writeExecutable(t, filepath.Join(env.bin, name))
	}
	for _, name := range filters {
		writeExecutable(t, filepath.Join(env.filter, name))
	}
	return env
}

func writeExecutable(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))
}

func (e testEnv) resolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(&Config{ProgramPath: e.bin, FilterPath: e.filter}, zap.NewNop())
	require.NoError(t, err)
	return r
}

func parsePPD(t *testing.T, lines ...string) *ppd.Descriptor {
	t.Helper()
	d, err := ppd.Parse(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return d
}

func ripLine(cmdline string) string {
	return `*FoomaticRIPCommandLine: "` + cmdline + `"`
}

func TestMissingIJSServerFromPackageTable(t *testing.T) {
	env := newTestEnv(t, []string{"gs"}, nil)
	d := parsePPD(t, ripLine("gs -sIjsServer=hpijs -q -dBATCH"))

	report := env.resolver(t).Missing(d)
	assert.Equal(t, []string{"hpijs"}, report.Packages)
	assert.Empty(t, report.Executables)
	assert.False(t, report.OK())
}

func TestMissingFilterWithoutPackage(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	d := parsePPD(t, `*cupsFilter: "application/vnd.cups-raster 0 rastertofoo"`)

	report := env.resolver(t).Missing(d)
	assert.Empty(t, report.Packages)
	assert.Equal(t, []string{"rastertofoo"}, report.Executables)
}

func TestMissingScenarios(t *testing.T) {
	tests := []struct {
		name         string
		programs     []string
		filters      []string
		lines        []string
		wantPackages []string
		wantExes     []string
	}{
		{
			name:     "everything installed",
			programs: []string{"gs", "hpijs"},
			filters:  []string{"foomatic-rip"},
			lines: []string{
				ripLine("gs -q -sIjsServer=hpijs%A -sOutputFile=- -"),
				`*cupsFilter: "application/vnd.cups-postscript 0 foomatic-rip"`,
			},
		},
		{
			name:         "ghostscript missing",
			lines:        []string{ripLine("gs -q -dBATCH")},
			wantPackages: []string{"ghostscript"},
		},
		{
			name:     "first unresolved command wins",
			lines:    []string{ripLine("foo2oak-wrapper%Z | pnm2ppa -v 720")},
			wantExes: []string{"foo2oak-wrapper"},
		},
		{
			name:         "later stage checked after earlier stage resolves",
			programs:     []string{"gs"},
			lines:        []string{ripLine("gs -q; pbm2lex -x | c2050")},
			wantPackages: []string{"pbm2l7k"},
		},
		{
			name:     "empty stages are satisfied",
			programs: []string{"gs"},
			lines:    []string{ripLine("gs -q ;; | ")},
		},
		{
			name:     "builtins and assignments resolve",
			lines:    []string{ripLine("echo start | PATH=/x export | test -f x")},
			wantExes: nil,
		},
		{
			name:     "continuation and entities",
			programs: []string{"gs"},
			lines: []string{
				`*FoomaticRIPCommandLine: "gs -q -sIjsServer=hpijs &&`,
				`-sDeviceModel=&quot;HP&quot; | cjet"`,
				`*End`,
			},
			wantPackages: []string{"hpijs"},
		},
		{
			name:     "subshell falls back to filters",
			programs: nil,
			lines: []string{
				ripLine("(gs -q) | missing-rip"),
				`*cupsFilter: "application/vnd.cups-raster 0 commandtoepson"`,
			},
			wantPackages: []string{"gutenprint-cups"},
		},
		{
			name: "unreplaced entity falls back to filters",
			lines: []string{
				ripLine("gs -q &amp; hpijs"),
			},
		},
		{
			name:     "filters not checked after command line failure",
			programs: nil,
			lines: []string{
				ripLine("lm1100"),
				`*cupsFilter: "application/vnd.cups-raster 0 rastertofoo"`,
			},
			wantPackages: []string{"lx"},
		},
		{
			name:    "malformed filter lines are skipped",
			filters: []string{"rastertohp"},
			lines: []string{
				`*cupsFilter: "application/vnd.cups-raster rastertobroken"`,
				`*cupsFilter: "application/vnd.cups-raster 0 rastertohp"`,
			},
		},
		{
			name:    "first missing filter is reported",
			filters: []string{"rastertohp"},
			lines: []string{
				`*cupsFilter: "application/vnd.cups-raster 0 rastertohp"`,
				`*cupsFilter: "application/vnd.cups-command 0 commandtocanon"`,
				`*cupsFilter: "application/vnd.cups-pdf 0 pdftoother"`,
			},
			wantPackages: []string{"gutenprint-cups"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.programs, tt.filters)
			report := env.resolver(t).Missing(parsePPD(t, tt.lines...))

			wantPackages := tt.wantPackages
			if wantPackages == nil {
				wantPackages = []string{}
			}
			wantExes := tt.wantExes
			if wantExes == nil {
				wantExes = []string{}
			}
			assert.Equal(t, wantPackages, report.Packages)
			assert.Equal(t, wantExes, report.Executables)
		})
	}
}

func TestMissingIsRepeatable(t *testing.T) {
	env := newTestEnv(t, []string{"gs"}, nil)
	r := env.resolver(t)
	d := parsePPD(t, ripLine("gs -sIjsServer=ijsgutenprint.5.0 | perl -w"))

	first := r.Missing(d)
	second := r.Missing(d)
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"gutenprint"}, first.Packages)
}

func TestPathCheck(t *testing.T) {
	env := newTestEnv(t, []string{"foomatic-rip"}, nil)
	notExecutable := filepath.Join(env.bin, "data")
	require.NoError(t, os.WriteFile(notExecutable, []byte("x"), 0o644))

	t.Run("empty name", func(t *testing.T) {
		path, ok := PathCheck("%A", env.bin)
		assert.True(t, ok)
		assert.Equal(t, "true", path)
	})

	t.Run("builtins ignore search path", func(t *testing.T) {
		for _, name := range []string{":", ".", "[", "echo", "export", "ulimit", "wait"} {
			path, ok := PathCheck(name, "/nonexistent")
			assert.True(t, ok, name)
			assert.Equal(t, "builtin", path, name)
		}
	})

	t.Run("assignment", func(t *testing.T) {
		path, ok := PathCheck("GS_LIB=/usr/share", "/nonexistent")
		assert.True(t, ok)
		assert.Equal(t, "builtin", path)
	})

	t.Run("search path with trailing slash", func(t *testing.T) {
		path, ok := PathCheck("foomatic-rip%Z", "/nonexistent:"+env.bin+"/")
		assert.True(t, ok)
		assert.Equal(t, filepath.Join(env.bin, "foomatic-rip"), path)
	})

	t.Run("absolute paths", func(t *testing.T) {
		_, ok := PathCheck(filepath.Join(env.bin, "foomatic-rip"), "")
		assert.True(t, ok)
		_, ok = PathCheck(notExecutable, "")
		assert.False(t, ok)
		_, ok = PathCheck(env.bin, "")
		assert.False(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		_, ok := PathCheck("data", env.bin)
		assert.False(t, ok)
	})
}

func TestCleanCommandLine(t *testing.T) {
	assert.Equal(t, `gs -sX="a" <in >out`, CleanCommandLine("gs &&\n-sX=&quot;a&quot; &lt;in &gt;out"))
	assert.Equal(t, "", CleanCommandLine("(gs -q)"))
	assert.Equal(t, "", CleanCommandLine("gs & wait"))
}

func TestPackageMapFile(t *testing.T) {
	dir := t.TempDir()
	mapFile := filepath.Join(dir, "packages.toml")
	require.NoError(t, os.WriteFile(mapFile, []byte(`
[packages]
rastertofoo = "foo-filters"
gs = "ghostscript-x11"
`), 0o644))

	r, err := NewResolver(&Config{
		ProgramPath:    filepath.Join(dir, "bin"),
		FilterPath:     filepath.Join(dir, "filter"),
		PackageMapFile: mapFile,
	}, nil)
	require.NoError(t, err)

	report := r.Missing(parsePPD(t, `*cupsFilter: "application/vnd.cups-raster 0 rastertofoo"`))
	assert.Equal(t, []string{"foo-filters"}, report.Packages)

	pkg, ok := r.Packages().Lookup("gs")
	assert.True(t, ok)
	assert.Equal(t, "ghostscript-x11", pkg)
}

func TestPackageMapFileInvalid(t *testing.T) {
	mapFile := filepath.Join(t.TempDir(), "packages.toml")
	require.NoError(t, os.WriteFile(mapFile, []byte("[packages\n"), 0o644))

	_, err := NewResolver(&Config{PackageMapFile: mapFile}, nil)
	assert.Error(t, err)
}

func TestPackageTableLookup(t *testing.T) {
	table := NewPackageTable()

	pkg, ok := table.Lookup("pbm2lex")
	assert.True(t, ok)
	assert.Equal(t, "pbm2l7k", pkg)

	_, ok = table.Lookup("foo2oak-wrapper")
	assert.False(t, ok)

	_, ok = table.Lookup("unknown")
	assert.False(t, ok)

	assert.Contains(t, table.Executables(), "hpijs")
}
