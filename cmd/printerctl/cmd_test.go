package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/resolver"
	"printer-service/internal/service"
	"printer-service/internal/spooler"
	"printer-service/internal/spooler/spoolertest"
)

const ripPPD = `*PPD-Adobe: "4.3"
*FoomaticRIPCommandLine: "gs -sIjsServer=hpijs -q -dBATCH"
*OpenUI *PageSize/Media Size: PickOne
*DefaultPageSize: A4
*PageSize A4/A4: ""
*PageSize Letter/US Letter: ""
*CloseUI: *PageSize
`

func newTestFactory(t *testing.T, client *spoolertest.Client) (appFactory, *int) {
	t.Helper()
	calls := 0

	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, "gs"), []byte("#!/bin/sh\n"), 0o755))

	return func(configFile string, verbose bool) (*app, error) {
		calls++
		logger := zap.NewNop()

		r, err := resolver.NewResolver(&resolver.Config{ProgramPath: bin, FilterPath: t.TempDir()}, logger)
		if err != nil {
			return nil, err
		}

		printers := service.NewPrinterService(client, logger)
		return &app{
			logger:    logger,
			printers:  printers,
			devices:   service.NewDeviceService(client, nil, 0, logger),
			diagnosis: service.NewDiagnosisService(printers, r, logger),
			driver:    service.NewDriverService(&config.PPDConfig{Locale: "de_DE"}, logger),
		}, nil
	}, &calls
}

func newTestClient() *spoolertest.Client {
	client := spoolertest.New()
	client.Printers = map[string]spooler.Attributes{
		"office": {"device-uri": "socket://10.0.0.5", "printer-state": int32(3), "printer-make-and-model": "HP LaserJet 4"},
		"lab":    {"device-uri": "usb://HP/DeskJet", "printer-state": int32(5)},
	}
	client.Devices = map[string]spooler.Attributes{
		"usb://HP/DeskJet": {"device-class": "direct", "device-info": "HP DeskJet"},
		"socket":           {"device-class": "network", "device-info": "AppSocket/HP JetDirect"},
	}
	client.PPDs["office"] = ripPPD
	return client
}

func run(t *testing.T, factory appFactory, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := newRootCommand(factory)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCommandTree(t *testing.T) {
	cmd := newRootCommand(func(string, bool) (*app, error) {
		return nil, errors.New("not used")
	})

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	want := []string{"devices", "diagnose", "printers", "sync-options"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestHelpDoesNotLoadServices(t *testing.T) {
	factory, calls := newTestFactory(t, newTestClient())

	out, _, err := run(t, factory, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "sync-options")
	assert.Equal(t, 0, *calls)
}

func TestPrintersCommand(t *testing.T) {
	factory, calls := newTestFactory(t, newTestClient())

	out, _, err := run(t, factory, "printers")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
	assert.Contains(t, out, "Printers (2)")
	assert.Contains(t, out, "socket://10.0.0.5")
	assert.Contains(t, out, "HP LaserJet 4")
	assert.Contains(t, out, "Stopped")
	assert.Less(t, bytes.Index([]byte(out), []byte("lab")), bytes.Index([]byte(out), []byte("office")))
}

func TestPrintersCommandJSON(t *testing.T) {
	factory, _ := newTestFactory(t, newTestClient())

	out, _, err := run(t, factory, "printers", "--json")
	require.NoError(t, err)

	var printers []struct {
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &printers))
	want := []struct {
		Name    string `json:"name"`
		Enabled bool   `json:"enabled"`
	}{{"lab", false}, {"office", true}}
	if diff := cmp.Diff(want, printers); diff != "" {
		t.Errorf("printers mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintersCommandEmpty(t *testing.T) {
	factory, _ := newTestFactory(t, spoolertest.New())

	out, _, err := run(t, factory, "printers")
	require.NoError(t, err)
	assert.Contains(t, out, "No printers")
}

func TestPrintersCommandSpoolerError(t *testing.T) {
	client := newTestClient()
	client.Errors["GetPrinters"] = errors.New("connection refused")
	factory, _ := newTestFactory(t, client)

	_, _, err := run(t, factory, "printers")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDevicesCommand(t *testing.T) {
	factory, _ := newTestFactory(t, newTestClient())

	out, _, err := run(t, factory, "devices")
	require.NoError(t, err)
	assert.Contains(t, out, "Devices (2)")

	usb := bytes.Index([]byte(out), []byte("usb://HP/DeskJet"))
	socket := bytes.Index([]byte(out), []byte("AppSocket/HP JetDirect"))
	require.NotEqual(t, -1, usb)
	require.NotEqual(t, -1, socket)
	assert.Less(t, usb, socket)
}

func TestDiagnoseCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  []string
	}{
		{
			name:     "missing packages",
			args:     []string{"diagnose", "office"},
			wantCode: exitMissingDependencies,
			wantOut:  []string{"Driver check: office", "Missing packages:", "hpijs"},
		},
		{
			name:    "raw queue",
			args:    []string{"diagnose", "lab"},
			wantOut: []string{"raw queue"},
		},
		{
			name:     "ppd file",
			args:     []string{"diagnose", "--file", filepath.Join("..", "..", "internal", "ppd", "testdata", "target.ppd")},
			wantCode: exitMissingDependencies,
			wantOut:  []string{"target.ppd", "rastertohp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, _ := newTestFactory(t, newTestClient())

			out, _, err := run(t, factory, tt.args...)
			if tt.wantCode == 0 {
				require.NoError(t, err)
			} else {
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, tt.wantCode, exitErr.Code)
			}
			for _, s := range tt.wantOut {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestDiagnoseCommandArgs(t *testing.T) {
	factory, calls := newTestFactory(t, newTestClient())

	_, _, err := run(t, factory, "diagnose")
	assert.Error(t, err)

	_, _, err = run(t, factory, "diagnose", "office", "--file", "x.ppd")
	assert.Error(t, err)

	_, _, err = run(t, factory, "diagnose", "nosuch")
	assert.ErrorIs(t, err, spooler.ErrNotFound)
	assert.Equal(t, 1, *calls)
}

func TestSyncOptionsCommand(t *testing.T) {
	testdata := filepath.Join("..", "..", "internal", "ppd", "testdata")
	source := filepath.Join(testdata, "source.ppd")
	target := filepath.Join(testdata, "target.ppd")

	t.Run("stdout", func(t *testing.T) {
		factory, _ := newTestFactory(t, newTestClient())

		out, summary, err := run(t, factory, "sync-options", "--source", source, "--target", target)
		require.NoError(t, err)
		assert.Contains(t, out, "*DefaultPageSize: A4")
		assert.Contains(t, out, "*DefaultDuplex: DuplexNoTumble")
		assert.Contains(t, summary, "Options synchronized")
	})

	t.Run("out file", func(t *testing.T) {
		factory, _ := newTestFactory(t, newTestClient())
		dest := filepath.Join(t.TempDir(), "merged.ppd")

		out, _, err := run(t, factory, "sync-options", "--source", source, "--target", target, "--locale", "en_US", "--out", dest)
		require.NoError(t, err)
		assert.Regexp(t, `page size:\s+Letter`, out)
		assert.Regexp(t, `copied:\s+3`, out)
		assert.Contains(t, out, dest)

		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(data), "*DefaultDuplex: DuplexNoTumble")
		assert.Contains(t, string(data), "*DefaultEconomode: True")

		original, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Contains(t, string(original), "*DefaultDuplex: None")
	})

	t.Run("required flags", func(t *testing.T) {
		factory, calls := newTestFactory(t, newTestClient())

		_, _, err := run(t, factory, "sync-options", "--source", source)
		assert.Error(t, err)
		assert.Equal(t, 0, *calls)
	})
}
