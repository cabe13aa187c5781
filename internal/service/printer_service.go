// internal/service/printer_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
	"printer-service/internal/spooler"
	"printer-service/internal/utils"
	"printer-service/pkg/printertypes"
)

// PrinterService enumerates spooler queues and applies administrative
// changes to them
type PrinterService struct {
	client      spooler.Client
	baseLogger  *zap.Logger
	logger      *utils.ServiceLogger
	auditLogger *utils.AuditLogger
}

// NewPrinterService creates a new printer service instance
func NewPrinterService(client spooler.Client, logger *zap.Logger) *PrinterService {
	return &PrinterService{
		client:      client,
		baseLogger:  logger,
		logger:      utils.NewServiceLogger(logger, "printer-service"),
		auditLogger: utils.NewAuditLogger(logger),
	}
}

// GetPrinters enumerates printers and classes keyed by name. Device URIs
// the spooler redacted are restored from printers.conf, and ipp: queues
// missing from printers.conf are marked discovered.
func (ps *PrinterService) GetPrinters(ctx context.Context) (map[string]*model.Printer, error) {
	start := time.Now()
	raw, err := ps.client.GetPrinters(ctx)
	ps.logger.LogSpoolerCall("GetPrinters", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get printers: %w", err)
	}

	classes, err := ps.client.GetClasses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get classes: %w", err)
	}

	var conf *spooler.PrintersConf
	printersConf := func() (*spooler.PrintersConf, error) {
		if conf == nil {
			c, err := spooler.FetchPrintersConf(ctx, ps.client)
			if err != nil {
				return nil, err
			}
			conf = c
		}
		return conf, nil
	}

	printers := make(map[string]*model.Printer, len(raw))
	for name, attrs := range raw {
		p := model.NewPrinter(name, ps.client, attrs, ps.baseLogger)
		if members, ok := classes[name]; ok {
			p.SetClassMembers(members)
		}

		if strings.HasPrefix(p.DeviceURI, printertypes.SchemeSMB+":") {
			pc, err := printersConf()
			if err != nil {
				return nil, err
			}
			if uri, ok := pc.DeviceURIs[name]; ok {
				p.DeviceURI = uri
			}
		}

		if !p.Discovered && strings.HasPrefix(p.DeviceURI, printertypes.SchemeIPP+":") {
			pc, err := printersConf()
			if err != nil {
				return nil, err
			}
			if !pc.Has(name) {
				p.Discovered = true
			}
		}

		printers[name] = p
	}

	ps.logger.Debug("Printers enumerated", zap.Int("count", len(printers)))
	return printers, nil
}

// ListPrinters returns GetPrinters sorted by name
func (ps *PrinterService) ListPrinters(ctx context.Context) ([]*model.Printer, error) {
	printers, err := ps.GetPrinters(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]*model.Printer, 0, len(printers))
	for _, p := range printers {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Lookup returns one enumerated printer without its full attribute set
func (ps *PrinterService) Lookup(ctx context.Context, name string) (*model.Printer, error) {
	printers, err := ps.GetPrinters(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := printers[name]
	if !ok {
		return nil, fmt.Errorf("printer %s: %w", name, spooler.ErrNotFound)
	}
	return p, nil
}

// GetPrinter returns one printer with its normalized attributes
func (ps *PrinterService) GetPrinter(ctx context.Context, name string) (*model.Printer, error) {
	p, err := ps.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if _, err := p.GetAttributes(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// ActivateNewPrinter enables a queue, lets it accept jobs and makes it the
// default when no default is set
func (ps *PrinterService) ActivateNewPrinter(ctx context.Context, name string) error {
	err := ps.activate(ctx, name)
	ps.auditLogger.LogPrinterChange(name, "activate", utils.RequestIDFromContext(ctx), nil, err)
	return err
}

func (ps *PrinterService) activate(ctx context.Context, name string) error {
	if err := ps.client.EnablePrinter(ctx, name); err != nil {
		return fmt.Errorf("failed to enable %s: %w", name, err)
	}
	if err := ps.client.AcceptJobs(ctx, name); err != nil {
		return fmt.Errorf("failed to accept jobs on %s: %w", name, err)
	}

	current, err := ps.client.GetDefault(ctx)
	if err != nil {
		return fmt.Errorf("failed to get default printer: %w", err)
	}
	if current != "" {
		return nil
	}
	if err := ps.client.SetDefault(ctx, name); err != nil {
		return fmt.Errorf("failed to set default printer: %w", err)
	}
	return nil
}

// SetEnabled starts or stops a queue
func (ps *PrinterService) SetEnabled(ctx context.Context, name string, on bool, reason string) error {
	return ps.change(ctx, name, "set_enabled", on, func(p *model.Printer) error {
		return p.SetEnabled(ctx, on, reason)
	})
}

// SetAccepting makes a queue accept or reject new jobs
func (ps *PrinterService) SetAccepting(ctx context.Context, name string, on bool, reason string) error {
	return ps.change(ctx, name, "set_accepting", on, func(p *model.Printer) error {
		return p.SetAccepting(ctx, on, reason)
	})
}

// SetShared publishes or hides a queue
func (ps *PrinterService) SetShared(ctx context.Context, name string, on bool) error {
	return ps.change(ctx, name, "set_shared", on, func(p *model.Printer) error {
		return p.SetShared(ctx, on)
	})
}

// SetPolicies updates the error and operation policies. Empty values are
// left unchanged.
func (ps *PrinterService) SetPolicies(ctx context.Context, name, errorPolicy, opPolicy string) error {
	value := map[string]string{"error_policy": errorPolicy, "op_policy": opPolicy}
	return ps.change(ctx, name, "set_policies", value, func(p *model.Printer) error {
		if errorPolicy != "" {
			if err := p.SetErrorPolicy(ctx, errorPolicy); err != nil {
				return err
			}
		}
		if opPolicy != "" {
			if err := p.SetOperationPolicy(ctx, opPolicy); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetJobSheets sets the banner pages printed around each job
func (ps *PrinterService) SetJobSheets(ctx context.Context, name, start, end string) error {
	return ps.change(ctx, name, "set_job_sheets", []string{start, end}, func(p *model.Printer) error {
		return p.SetJobSheets(ctx, start, end)
	})
}

// SetAccess allows everyone except users, or nobody except users
func (ps *PrinterService) SetAccess(ctx context.Context, name string, allow bool, users string) error {
	value := map[string]any{"allow": allow, "users": users}
	return ps.change(ctx, name, "set_access", value, func(p *model.Printer) error {
		return p.SetAccessString(ctx, allow, users)
	})
}

// SetOption sets a server-side option default
func (ps *PrinterService) SetOption(ctx context.Context, name, option string, value any) error {
	return ps.change(ctx, name, "set_option:"+option, value, func(p *model.Printer) error {
		return p.SetOption(ctx, option, value)
	})
}

// UnsetOption removes a server-side option default
func (ps *PrinterService) UnsetOption(ctx context.Context, name, option string) error {
	return ps.change(ctx, name, "unset_option:"+option, nil, func(p *model.Printer) error {
		return p.UnsetOption(ctx, option)
	})
}

// TestsQueued lists the test page jobs waiting on a printer
func (ps *PrinterService) TestsQueued(ctx context.Context, name string) ([]int, error) {
	p, err := ps.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return p.TestsQueued(ctx), nil
}

// change looks the printer up, applies fn and audits the outcome
func (ps *PrinterService) change(ctx context.Context, name, action string, value any, fn func(*model.Printer) error) error {
	p, err := ps.Lookup(ctx, name)
	if err != nil {
		return err
	}

	printerLogger := utils.NewPrinterLogger(ps.baseLogger, name)
	start := time.Now()
	err = fn(p)
	printerLogger.LogOperation(action, time.Since(start), err)
	ps.auditLogger.LogPrinterChange(name, action, utils.RequestIDFromContext(ctx), value, err)

	if err != nil {
		return fmt.Errorf("failed to %s on %s: %w", strings.ReplaceAll(action, "_", " "), name, err)
	}
	return nil
}
