// internal/service/diagnosis_service.go
package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"printer-service/internal/ppd"
	"printer-service/internal/resolver"
	"printer-service/internal/utils"
)

// Diagnosis reports the driver dependencies a printer or PPD lacks
type Diagnosis struct {
	Printer     string   `json:"printer,omitempty"`
	Raw         bool     `json:"raw"`
	OK          bool     `json:"ok"`
	Packages    []string `json:"packages"`
	Executables []string `json:"executables"`
}

// DiagnosisService checks PPD filter pipelines against the local system
type DiagnosisService struct {
	printers   *PrinterService
	resolver   *resolver.Resolver
	baseLogger *zap.Logger
	logger     *utils.ServiceLogger
}

// NewDiagnosisService creates a new diagnosis service instance
func NewDiagnosisService(printers *PrinterService, r *resolver.Resolver, logger *zap.Logger) *DiagnosisService {
	return &DiagnosisService{
		printers:   printers,
		resolver:   r,
		baseLogger: logger,
		logger:     utils.NewServiceLogger(logger, "diagnosis-service"),
	}
}

// DiagnosePrinter fetches the printer's PPD and reports what it is
// missing. Raw queues and classes have nothing to check.
func (ds *DiagnosisService) DiagnosePrinter(ctx context.Context, name string) (*Diagnosis, error) {
	p, err := ds.printers.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	d, err := p.PPD(ctx)
	if err != nil {
		return nil, err
	}

	result := &Diagnosis{Printer: name, Packages: []string{}, Executables: []string{}}
	if d == nil {
		result.Raw = true
		result.OK = true
		return result, nil
	}

	ds.fill(result, d)
	utils.NewPrinterLogger(ds.baseLogger, name).LogDiagnosis(result.Packages, result.Executables)
	return result, nil
}

// DiagnoseDescriptor reports what a PPD read from r is missing
func (ds *DiagnosisService) DiagnoseDescriptor(ctx context.Context, r io.Reader) (*Diagnosis, error) {
	d, err := ppd.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PPD: %w", err)
	}

	result := &Diagnosis{}
	ds.fill(result, d)
	ds.logger.Debug("Descriptor diagnosed",
		zap.Strings("packages", result.Packages),
		zap.Strings("executables", result.Executables),
	)
	return result, nil
}

func (ds *DiagnosisService) fill(result *Diagnosis, d *ppd.Descriptor) {
	report := ds.resolver.Missing(d)
	result.Packages = report.Packages
	result.Executables = report.Executables
	result.OK = report.OK()
}
