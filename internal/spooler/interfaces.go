// internal/spooler/interfaces.go
package spooler

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when the spooler has no such printer or file
	ErrNotFound = errors.New("spooler: not found")
	// ErrUnauthorized is returned when the spooler refuses the request
	ErrUnauthorized = errors.New("spooler: not authorized")
)

// Client is the spooler connection every printer and device entity is
// built from.
type Client interface {
	// Enumeration
	GetPrinters(ctx context.Context) (map[string]Attributes, error)
	GetClasses(ctx context.Context) (map[string][]string, error)
	GetDevices(ctx context.Context) (map[string]Attributes, error)
	GetPrinterAttributes(ctx context.Context, name string) (Attributes, error)
	GetJobs(ctx context.Context) (map[int]Attributes, error)
	GetDefault(ctx context.Context) (string, error)

	// Files. GetPPD returns the path of a local copy the caller must remove.
	GetPPD(ctx context.Context, name string) (string, error)
	GetFile(ctx context.Context, resource string, w io.Writer) error

	// Printer settings
	AddPrinterOptionDefault(ctx context.Context, name, option, value string) error
	DeletePrinterOptionDefault(ctx context.Context, name, option string) error
	EnablePrinter(ctx context.Context, name string) error
	DisablePrinter(ctx context.Context, name, reason string) error
	AcceptJobs(ctx context.Context, name string) error
	RejectJobs(ctx context.Context, name, reason string) error
	SetPrinterShared(ctx context.Context, name string, shared bool) error
	SetPrinterErrorPolicy(ctx context.Context, name, policy string) error
	SetPrinterOpPolicy(ctx context.Context, name, policy string) error
	SetPrinterJobSheets(ctx context.Context, name, start, end string) error
	SetPrinterUsersAllowed(ctx context.Context, name string, users []string) error
	SetPrinterUsersDenied(ctx context.Context, name string, users []string) error
	SetDefault(ctx context.Context, name string) error
}
