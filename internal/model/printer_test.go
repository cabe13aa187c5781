package model

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/spooler"
	"printer-service/internal/spooler/spoolertest"
)

const simplePPD = `*PPD-Adobe: "4.3"
*OpenUI *PageSize/Media Size: PickOne
*DefaultPageSize: A4
*PageSize A4/A4: ""
*PageSize Letter/US Letter: ""
*CloseUI: *PageSize
`

func TestNewPrinter(t *testing.T) {
	client := spoolertest.New()

	p := NewPrinter("office", client, spooler.Attributes{
		"device-uri":            "socket://10.0.0.5:9100",
		"printer-info":          "Office laser",
		"printer-location":      "Floor 2",
		"printer-state":         int32(5),
		"printer-type":          int32(0x10 | 0x200000),
		"printer-uri-supported": []string{"ipp://localhost.localdomain:631/printers/office", "ipps://x/printers/office"},
	}, zap.NewNop())

	assert.Equal(t, PrinterStateStopped, p.State)
	assert.Equal(t, "Stopped", p.StateDescription)
	assert.False(t, p.Enabled)
	assert.True(t, p.Flags["duplex"])
	assert.False(t, p.IsShared, "not_shared flag decides when printer-is-shared is absent")
	assert.False(t, p.IsClass)
	assert.Equal(t, DescriptorUnfetched, p.DescriptorState())
	assert.Equal(t, "ipp://localhost.localdomain:631/printers/office", p.URISupported)
	assert.Equal(t, "localhost", p.Server())
}

func TestNewPrinterSharedAttributeWins(t *testing.T) {
	p := NewPrinter("a", spoolertest.New(), spooler.Attributes{
		"printer-is-shared": false,
		"printer-state":     int32(3),
	}, nil)
	assert.False(t, p.IsShared)
	assert.True(t, p.Enabled)
	assert.Equal(t, "Idle", p.StateDescription)

	unknownState := NewPrinter("b", spoolertest.New(), spooler.Attributes{"printer-state": int32(9)}, nil)
	assert.Equal(t, "Unknown", unknownState.StateDescription)
	assert.True(t, unknownState.IsShared)
}

func TestPrinterServer(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"ipp://print.example.com:631/printers/a", "print.example.com"},
		{"ipp://print.example.com/printers/a", "print.example.com"},
		{"ipp://localhost.localdomain/printers/a", "localhost"},
		{"ipps://print.example.com/printers/a", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			p := &Printer{URISupported: tt.uri}
			assert.Equal(t, tt.want, p.Server())
		})
	}
}

func TestPrinterPPD(t *testing.T) {
	ctx := context.Background()

	t.Run("fetched once and temp file removed", func(t *testing.T) {
		client := spoolertest.New()
		client.PPDs["office"] = simplePPD
		p := NewPrinter("office", client, spooler.Attributes{}, nil)

		d, err := p.PPD(ctx)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, DescriptorLoaded, p.DescriptorState())
		assert.Equal(t, "A4", d.FindOption("PageSize").DefChoice)

		again, err := p.PPD(ctx)
		require.NoError(t, err)
		assert.Same(t, d, again)
		assert.Equal(t, 1, client.PPDFetches)

		require.Len(t, client.TempFiles, 1)
		_, statErr := os.Stat(client.TempFiles[0])
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("raw queue", func(t *testing.T) {
		client := spoolertest.New()
		p := NewPrinter("raw", client, spooler.Attributes{}, nil)

		d, err := p.PPD(ctx)
		require.NoError(t, err)
		assert.Nil(t, d)
		assert.Equal(t, DescriptorRaw, p.DescriptorState())

		_, err = p.PPD(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, client.PPDFetches)
	})

	t.Run("class never fetches", func(t *testing.T) {
		client := spoolertest.New()
		p := NewPrinter("group", client, spooler.Attributes{"printer-type": int32(0x1)}, nil)

		assert.Equal(t, DescriptorRaw, p.DescriptorState())
		d, err := p.PPD(ctx)
		require.NoError(t, err)
		assert.Nil(t, d)
		assert.Zero(t, client.PPDFetches)
	})

	t.Run("transport error propagates", func(t *testing.T) {
		client := spoolertest.New()
		refused := errors.New("connection refused")
		client.Errors["GetPPD"] = refused
		p := NewPrinter("office", client, spooler.Attributes{}, nil)

		_, err := p.PPD(ctx)
		assert.ErrorIs(t, err, refused)
		assert.Equal(t, DescriptorUnfetched, p.DescriptorState())
	})
}

func TestPrinterGetAttributes(t *testing.T) {
	ctx := context.Background()
	client := spoolertest.New()
	client.Attributes["office"] = spooler.Attributes{"sides-default": "two-sided-long-edge"}
	p := NewPrinter("office", client, spooler.Attributes{}, nil)

	set, err := p.GetAttributes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two-sided-long-edge", set.Defaults["sides"])
	assert.Same(t, set, p.Attributes)

	missing := NewPrinter("gone", client, spooler.Attributes{}, nil)
	_, err = missing.GetAttributes(ctx)
	assert.ErrorIs(t, err, spooler.ErrNotFound)
	assert.Nil(t, missing.Attributes)
}

func TestPrinterSetters(t *testing.T) {
	ctx := context.Background()
	client := spoolertest.New()
	p := NewPrinter("office", client, spooler.Attributes{}, nil)

	require.NoError(t, p.SetOption(ctx, "cupsGamma", 1.5))
	require.NoError(t, p.SetOption(ctx, "sides", "one-sided"))
	require.NoError(t, p.UnsetOption(ctx, "sides"))
	require.NoError(t, p.SetEnabled(ctx, false, "maintenance"))
	require.NoError(t, p.SetEnabled(ctx, true, ""))
	require.NoError(t, p.SetAccepting(ctx, false, ""))
	require.NoError(t, p.SetAccepting(ctx, true, ""))
	require.NoError(t, p.SetShared(ctx, true))
	require.NoError(t, p.SetErrorPolicy(ctx, "abort-job"))
	require.NoError(t, p.SetOperationPolicy(ctx, "kiosk"))
	require.NoError(t, p.SetJobSheets(ctx, "standard", "none"))
	require.NoError(t, p.SetAccessString(ctx, true, " alice, bob  carol,,"))
	require.NoError(t, p.SetAccess(ctx, false, []string{"dave"}))

	assert.Equal(t, []string{
		"AddPrinterOptionDefault(office, cupsGamma, 1.5)",
		"AddPrinterOptionDefault(office, sides, one-sided)",
		"DeletePrinterOptionDefault(office, sides)",
		"DisablePrinter(office, maintenance)",
		"EnablePrinter(office)",
		"RejectJobs(office, )",
		"AcceptJobs(office)",
		"SetPrinterShared(office, true)",
		"SetPrinterErrorPolicy(office, abort-job)",
		"SetPrinterOpPolicy(office, kiosk)",
		"SetPrinterJobSheets(office, standard, none)",
		"SetPrinterUsersDenied(office, alice, bob, carol)",
		"SetPrinterUsersAllowed(office, dave)",
	}, client.CallNames())
}

func TestFormatOptionValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"float", 0.25, "0.25"},
		{"float32", float32(2.5), "2.5"},
		{"whole float", 3.0, "3"},
		{"decimal", decimal.RequireFromString("1.10"), "1.1"},
		{"int", 4, "4"},
		{"bool", false, "False"},
		{"list", []string{"a", "b"}, "a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOptionValue(tt.value))
		})
	}
}

func TestSplitUsers(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitUsers("a, b\tc"))
	assert.Equal(t, []string{}, SplitUsers(" , ,"))
}

func TestTestsQueued(t *testing.T) {
	ctx := context.Background()
	client := spoolertest.New()
	client.Jobs = map[int]spooler.Attributes{
		12: {"job-printer-uri": "ipp://localhost/printers/office", "job-name": "Test Page"},
		7:  {"job-printer-uri": "ipp://localhost/printers/office", "job-name": "Test Page"},
		8:  {"job-printer-uri": "ipp://localhost/printers/office", "job-name": "report.pdf"},
		9:  {"job-printer-uri": "ipp://localhost/printers/office2", "job-name": "Test Page"},
		10: {"job-name": "Test Page"},
		11: {"job-printer-uri": "office", "job-name": "Test Page"},
	}
	p := NewPrinter("office", client, spooler.Attributes{}, nil)

	assert.Equal(t, []int{7, 12}, p.TestsQueued(ctx))

	client.Errors["GetJobs"] = errors.New("server-error-internal-error")
	assert.Equal(t, []int{}, p.TestsQueued(ctx))
}
