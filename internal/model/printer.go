// internal/model/printer.go
package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"printer-service/internal/ppd"
	"printer-service/internal/spooler"
	"printer-service/pkg/printertypes"
)

// PrinterState is the IPP printer-state value
type PrinterState int

const (
	PrinterStateIdle       PrinterState = 3
	PrinterStateProcessing PrinterState = 4
	PrinterStateStopped    PrinterState = 5
)

// PrinterStateBusy is reported by CUPS as processing
const PrinterStateBusy = PrinterStateProcessing

func (s PrinterState) String() string {
	switch s {
	case PrinterStateIdle:
		return "Idle"
	case PrinterStateProcessing:
		return "Processing"
	case PrinterStateStopped:
		return "Stopped"
	default:
		return unknown
	}
}

// DescriptorState tracks whether the printer's PPD has been fetched
type DescriptorState int

const (
	DescriptorUnfetched DescriptorState = iota
	DescriptorLoaded
	DescriptorRaw
)

func (s DescriptorState) String() string {
	switch s {
	case DescriptorLoaded:
		return "loaded"
	case DescriptorRaw:
		return "raw"
	default:
		return "unfetched"
	}
}

// Printer is a spooler queue or class. A Printer is not safe for
// concurrent use.
type Printer struct {
	Name             string          `json:"name"`
	DeviceURI        string          `json:"device_uri"`
	Info             string          `json:"info"`
	Location         string          `json:"location"`
	MakeAndModel     string          `json:"make_and_model"`
	URISupported     string          `json:"uri_supported"`
	State            PrinterState    `json:"state"`
	StateDescription string          `json:"state_description"`
	Enabled          bool            `json:"enabled"`
	Type             int             `json:"type"`
	Flags            map[string]bool `json:"flags"`
	IsClass          bool            `json:"is_class"`
	IsShared         bool            `json:"is_shared"`
	Discovered       bool            `json:"discovered"`
	ClassMembers     []string        `json:"class_members"`
	Attributes       *AttributeSet   `json:"attributes,omitempty"`

	client          spooler.Client
	logger          *zap.Logger
	descriptorState DescriptorState
	descriptor      *ppd.Descriptor
}

// NewPrinter builds a Printer from one enumeration attribute bag
func NewPrinter(name string, client spooler.Client, attrs spooler.Attributes, logger *zap.Logger) *Printer {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Printer{
		Name:         name,
		DeviceURI:    attrs.StringOr("device-uri", ""),
		Info:         attrs.StringOr("printer-info", ""),
		Location:     attrs.StringOr("printer-location", ""),
		MakeAndModel: attrs.StringOr("printer-make-and-model", ""),
		URISupported: attrs.StringOr("printer-uri-supported", ""),
		ClassMembers: []string{},
		client:       client,
		logger:       logger.With(zap.String("printer", name)),
	}

	state, _ := attrs.Int("printer-state")
	p.State = PrinterState(state)
	p.StateDescription = p.State.String()
	p.Enabled = p.State != PrinterStateStopped

	p.Type, _ = attrs.Int("printer-type")
	p.Flags = DecodeFlags(p.Type)
	p.IsClass = p.Flags[FlagIsClass]
	p.Discovered = p.Flags[FlagDiscovered]

	if shared, ok := attrs.Bool("printer-is-shared"); ok {
		p.IsShared = shared
	} else {
		p.IsShared = !p.Flags[FlagNotShared]
	}

	if p.IsClass {
		p.descriptorState = DescriptorRaw
	}

	return p
}

// SetClassMembers records the member names of a class, sorted
func (p *Printer) SetClassMembers(members []string) {
	p.ClassMembers = append([]string(nil), members...)
	sort.Strings(p.ClassMembers)
}

// DescriptorState reports the PPD slot state
func (p *Printer) DescriptorState() DescriptorState {
	return p.descriptorState
}

// GetAttributes fetches the full attribute set and classifies it
func (p *Printer) GetAttributes(ctx context.Context) (*AttributeSet, error) {
	attrs, err := p.client.GetPrinterAttributes(ctx, p.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to get attributes for %s: %w", p.Name, err)
	}

	p.Attributes = NormalizeAttributes(attrs)
	return p.Attributes, nil
}

// Server returns the host of an ipp:// printer-uri-supported, or "" for
// any other scheme
func (p *Printer) Server() string {
	rest, ok := strings.CutPrefix(p.URISupported, "ipp://")
	if !ok {
		return ""
	}
	host, _, _ := strings.Cut(rest, "/")
	host, _, _ = strings.Cut(host, ":")
	if host == "localhost.localdomain" {
		host = "localhost"
	}
	return host
}

// PPD returns the printer's descriptor, fetching it on first use. Raw
// queues and classes return nil with no error.
func (p *Printer) PPD(ctx context.Context) (*ppd.Descriptor, error) {
	switch p.descriptorState {
	case DescriptorLoaded:
		return p.descriptor, nil
	case DescriptorRaw:
		return nil, nil
	}

	path, err := p.client.GetPPD(ctx, p.Name)
	if err != nil {
		if errors.Is(err, spooler.ErrNotFound) {
			p.logger.Debug("No PPD, raw queue")
			p.descriptorState = DescriptorRaw
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get PPD for %s: %w", p.Name, err)
	}
	defer os.Remove(path)

	d, err := ppd.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PPD for %s: %w", p.Name, err)
	}

	p.descriptor = d
	p.descriptorState = DescriptorLoaded
	return d, nil
}

// SetOption sets a server-side option default
func (p *Printer) SetOption(ctx context.Context, name string, value any) error {
	return p.client.AddPrinterOptionDefault(ctx, p.Name, name, FormatOptionValue(value))
}

// UnsetOption removes a server-side option default
func (p *Printer) UnsetOption(ctx context.Context, name string) error {
	return p.client.DeletePrinterOptionDefault(ctx, p.Name, name)
}

// FormatOptionValue renders an option value. Floats always use '.' as the
// radix character.
func FormatOptionValue(value any) string {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v).String()
	case float32:
		return decimal.NewFromFloat32(v).String()
	case decimal.Decimal:
		return v.String()
	case []string:
		return strings.Join(v, ",")
	default:
		return spooler.ToString(v)
	}
}

func (p *Printer) SetEnabled(ctx context.Context, on bool, reason string) error {
	if on {
		return p.client.EnablePrinter(ctx, p.Name)
	}
	return p.client.DisablePrinter(ctx, p.Name, reason)
}

func (p *Printer) SetAccepting(ctx context.Context, on bool, reason string) error {
	if on {
		return p.client.AcceptJobs(ctx, p.Name)
	}
	return p.client.RejectJobs(ctx, p.Name, reason)
}

func (p *Printer) SetShared(ctx context.Context, on bool) error {
	return p.client.SetPrinterShared(ctx, p.Name, on)
}

func (p *Printer) SetErrorPolicy(ctx context.Context, policy string) error {
	return p.client.SetPrinterErrorPolicy(ctx, p.Name, policy)
}

func (p *Printer) SetOperationPolicy(ctx context.Context, policy string) error {
	return p.client.SetPrinterOpPolicy(ctx, p.Name, policy)
}

func (p *Printer) SetJobSheets(ctx context.Context, start, end string) error {
	return p.client.SetPrinterJobSheets(ctx, p.Name, start, end)
}

// SetAccess allows everyone except users (allow) or nobody except users
func (p *Printer) SetAccess(ctx context.Context, allow bool, users []string) error {
	if allow {
		return p.client.SetPrinterUsersDenied(ctx, p.Name, users)
	}
	return p.client.SetPrinterUsersAllowed(ctx, p.Name, users)
}

// SetAccessString is SetAccess with users given as "a, b c"
func (p *Printer) SetAccessString(ctx context.Context, allow bool, users string) error {
	return p.SetAccess(ctx, allow, SplitUsers(users))
}

// SplitUsers splits a user list on whitespace and commas
func SplitUsers(s string) []string {
	users := []string{}
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	}) {
		if u := strings.TrimSpace(field); u != "" {
			users = append(users, u)
		}
	}
	return users
}

// TestsQueued returns the ids of test page jobs queued on this printer. A
// spooler failure yields no ids.
func (p *Printer) TestsQueued(ctx context.Context) []int {
	ids := []int{}
	jobs, err := p.client.GetJobs(ctx)
	if err != nil {
		p.logger.Debug("Failed to list jobs", zap.Error(err))
		return ids
	}

	for id, attrs := range jobs {
		uri, ok := attrs.String("job-printer-uri")
		if !ok {
			continue
		}
		idx := strings.LastIndex(uri, "/")
		if idx < 0 || uri[idx+1:] != p.Name {
			continue
		}
		if name, ok := attrs.String("job-name"); ok && name == printertypes.TestPageJobName {
			ids = append(ids, id)
		}
	}

	sort.Ints(ids)
	return ids
}
