// internal/service/driver_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/ppd"
	"printer-service/internal/utils"
)

// SyncResult is the outcome of copying options between two PPDs
type SyncResult struct {
	PageSize string `json:"page_size"`
	Copied   int    `json:"copied"`
	Target   string `json:"target"`
}

// DriverService carries option settings over when a queue changes driver
type DriverService struct {
	config     *config.PPDConfig
	baseLogger *zap.Logger
	logger     *utils.ServiceLogger
}

// NewDriverService creates a new driver service instance
func NewDriverService(cfg *config.PPDConfig, logger *zap.Logger) *DriverService {
	if cfg == nil {
		cfg = &config.PPDConfig{}
	}
	return &DriverService{
		config:     cfg,
		baseLogger: logger,
		logger:     utils.NewServiceLogger(logger, "driver-service"),
	}
}

// SyncOptions sets the locale page size on target, then copies every
// compatible option default from source. An empty locale falls back to
// the configured locale and then to LANG.
func (ds *DriverService) SyncOptions(ctx context.Context, source, target io.Reader, locale string) (*SyncResult, error) {
	opLogger := utils.NewOperationLogger(ds.baseLogger, "sync_options", uuid.NewString())
	opLogger.Start(zap.String("locale", locale))

	result, err := ds.syncOptions(ctx, source, target, ds.resolveLocale(locale))
	if err != nil {
		opLogger.Error(err)
		return nil, err
	}

	opLogger.Success(
		zap.String("page_size", result.PageSize),
		zap.Int("copied", result.Copied),
	)
	return result, nil
}

func (ds *DriverService) syncOptions(ctx context.Context, source, target io.Reader, locale string) (*SyncResult, error) {
	src, err := ppd.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source PPD: %w", err)
	}
	dst, err := ppd.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("failed to parse target PPD: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &SyncResult{}
	result.PageSize = ppd.SetPageSize(dst, locale, ds.logger.Logger)
	result.Copied = ppd.CopyOptions(src, dst, ds.logger.Logger)
	result.Target = string(dst.Bytes())
	return result, nil
}

func (ds *DriverService) resolveLocale(locale string) string {
	if locale != "" {
		return locale
	}
	if ds.config.Locale != "" {
		return ds.config.Locale
	}
	return ppd.LocaleFromEnv(os.Getenv("LANG"))
}
