// internal/spooler/cups/client.go
package cups

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/phin1x/go-ipp"
	"go.uber.org/zap"

	"printer-service/internal/spooler"
)

const (
	// IPP status codes mapped onto spooler sentinels
	statusForbidden        int16 = 0x0401
	statusNotAuthenticated int16 = 0x0402
	statusNotAuthorized    int16 = 0x0403
	statusNotFound         int16 = 0x0406

	printerTypeDefault = 0x20000
)

// Config for the CUPS connection
type Config struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	TLS            bool          `json:"tls"`
	RequestTimeout time.Duration `json:"request_timeout"`
	LpadminPath    string        `json:"lpadmin_path"`
}

// Client talks to a CUPS server over IPP, fetches files over HTTP and
// edits option defaults through lpadmin.
type Client struct {
	ipp       *ipp.CUPSClient
	http      *http.Client
	config    *Config
	logger    *zap.Logger
	requestID atomic.Int32
}

var _ spooler.Client = (*Client)(nil)

// NewClient creates a CUPS client
func NewClient(config *Config, logger *zap.Logger) *Client {
	if config == nil {
		config = &Config{Host: "localhost", Port: 631}
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.LpadminPath == "" {
		config.LpadminPath = "lpadmin"
	}

	return &Client{
		ipp:    ipp.NewCUPSClient(config.Host, config.Port, config.User, config.Password, config.TLS),
		http:   &http.Client{Timeout: config.RequestTimeout},
		config: config,
		logger: logger.With(zap.String("component", "cups-client"), zap.String("host", config.Host)),
	}
}

// GetPrinters enumerates printer queues with all their attributes
func (c *Client) GetPrinters(ctx context.Context) (map[string]spooler.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	printers, err := c.ipp.GetPrinters([]string{"all"})
	if err != nil {
		return nil, c.mapError("get printers", err)
	}

	out := make(map[string]spooler.Attributes, len(printers))
	for name, attrs := range printers {
		out[name] = convertAttributes(attrs)
	}
	return out, nil
}

// GetClasses returns each class with its member names
func (c *Client) GetClasses(ctx context.Context) (map[string][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classes, err := c.ipp.GetClasses([]string{"printer-name", "member-names"})
	if err != nil {
		return nil, c.mapError("get classes", err)
	}

	out := make(map[string][]string, len(classes))
	for name, attrs := range classes {
		members := []string{}
		for _, member := range attrs["member-names"] {
			members = append(members, spooler.ToString(member.Value))
		}
		out[name] = members
	}
	return out, nil
}

// GetDevices asks the server's backends for attached devices
func (c *Client) GetDevices(ctx context.Context) (map[string]spooler.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	devices, err := c.ipp.GetDevices()
	if err != nil {
		return nil, c.mapError("get devices", err)
	}

	out := make(map[string]spooler.Attributes, len(devices))
	for uri, attrs := range devices {
		out[uri] = convertAttributes(attrs)
	}
	return out, nil
}

// GetPrinterAttributes fetches the full attribute set of one queue
func (c *Client) GetPrinterAttributes(ctx context.Context, name string) (spooler.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attrs, err := c.ipp.GetPrinterAttributes(name, []string{"all"})
	if err != nil {
		return nil, c.mapError("get printer attributes "+name, err)
	}
	return convertAttributes(attrs), nil
}

// GetJobs lists jobs that have not completed yet
func (c *Client) GetJobs(ctx context.Context) (map[int]spooler.Attributes, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jobs, err := c.ipp.GetJobs("", "", "not-completed", false, 0, 0,
		[]string{"job-id", "job-name", "job-printer-uri", "job-state"})
	if err != nil {
		return nil, c.mapError("get jobs", err)
	}

	out := make(map[int]spooler.Attributes, len(jobs))
	for id, attrs := range jobs {
		out[id] = convertAttributes(attrs)
	}
	return out, nil
}

// GetDefault returns the server default destination, or "" when none is set
func (c *Client) GetDefault(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	printers, err := c.ipp.GetPrinters([]string{"printer-name", "printer-type"})
	if err != nil {
		return "", c.mapError("get default", err)
	}

	for name, attrs := range printers {
		bag := convertAttributes(attrs)
		if t, ok := bag.Int("printer-type"); ok && t&printerTypeDefault != 0 {
			return name, nil
		}
	}
	return "", nil
}

// GetPPD downloads the queue's PPD into a temporary file. The caller
// removes the file.
func (c *Client) GetPPD(ctx context.Context, name string) (string, error) {
	f, err := os.CreateTemp("", "printer-*.ppd")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	resource := "/printers/" + url.PathEscape(name) + ".ppd"
	if err := c.GetFile(ctx, resource, f); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write ppd: %w", err)
	}

	return f.Name(), nil
}

// GetFile copies a server resource into w
func (c *Client) GetFile(ctx context.Context, resource string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.httpURL(resource), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if c.config.User != "" {
		req.SetBasicAuth(c.config.User, c.config.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", resource, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("get %s: %w", resource, spooler.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("get %s: %w", resource, spooler.ErrUnauthorized)
	default:
		return fmt.Errorf("get %s: unexpected status %d", resource, resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to copy %s: %w", resource, err)
	}
	return nil
}

// AddPrinterOptionDefault sets a server-side option default
func (c *Client) AddPrinterOptionDefault(ctx context.Context, name, option, value string) error {
	return c.lpadmin(ctx, "-p", name, "-o", option+"-default="+value)
}

// DeletePrinterOptionDefault removes a server-side option default
func (c *Client) DeletePrinterOptionDefault(ctx context.Context, name, option string) error {
	return c.lpadmin(ctx, "-p", name, "-R", option+"-default")
}

func (c *Client) EnablePrinter(ctx context.Context, name string) error {
	return c.send(ctx, c.printerRequest(ipp.OperationResumePrinter, name))
}

func (c *Client) DisablePrinter(ctx context.Context, name, reason string) error {
	req := c.printerRequest(ipp.OperationPausePrinter, name)
	if reason != "" {
		req.PrinterAttributes["printer-state-message"] = reason
	}
	return c.send(ctx, req)
}

func (c *Client) AcceptJobs(ctx context.Context, name string) error {
	return c.send(ctx, c.printerRequest(ipp.OperationCupsAcceptJobs, name))
}

func (c *Client) RejectJobs(ctx context.Context, name, reason string) error {
	req := c.printerRequest(ipp.OperationCupsRejectJobs, name)
	if reason != "" {
		req.PrinterAttributes["printer-state-message"] = reason
	}
	return c.send(ctx, req)
}

func (c *Client) SetPrinterShared(ctx context.Context, name string, shared bool) error {
	return c.modifyPrinter(ctx, name, "printer-is-shared", shared)
}

func (c *Client) SetPrinterErrorPolicy(ctx context.Context, name, policy string) error {
	return c.modifyPrinter(ctx, name, "printer-error-policy", policy)
}

func (c *Client) SetPrinterOpPolicy(ctx context.Context, name, policy string) error {
	return c.modifyPrinter(ctx, name, "printer-op-policy", policy)
}

func (c *Client) SetPrinterJobSheets(ctx context.Context, name, start, end string) error {
	return c.modifyPrinter(ctx, name, "job-sheets-default", []string{start, end})
}

func (c *Client) SetPrinterUsersAllowed(ctx context.Context, name string, users []string) error {
	return c.modifyPrinter(ctx, name, "requesting-user-name-allowed", usersOrAll(users))
}

func (c *Client) SetPrinterUsersDenied(ctx context.Context, name string, users []string) error {
	return c.modifyPrinter(ctx, name, "requesting-user-name-denied", usersOrNone(users))
}

func (c *Client) SetDefault(ctx context.Context, name string) error {
	return c.send(ctx, c.printerRequest(ipp.OperationCupsSetDefault, name))
}

func (c *Client) modifyPrinter(ctx context.Context, name, attribute string, value interface{}) error {
	req := c.printerRequest(ipp.OperationCupsAddModifyPrinter, name)
	req.PrinterAttributes[attribute] = value
	return c.send(ctx, req)
}

func (c *Client) printerRequest(op int16, name string) *ipp.Request {
	req := ipp.NewRequest(op, c.requestID.Add(1))
	req.OperationAttributes["printer-uri"] = c.printerURI(name)
	return req
}

func (c *Client) send(ctx context.Context, req *ipp.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	_, err := c.ipp.SendRequest(c.httpURL("/admin/"), req, nil)
	c.logger.Debug("IPP request",
		zap.Int16("operation", req.Operation),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	if err != nil {
		return c.mapError("ipp request", err)
	}
	return nil
}

func (c *Client) lpadmin(ctx context.Context, args ...string) error {
	full := []string{"-h", c.config.Host + ":" + strconv.Itoa(c.config.Port)}
	if c.config.User != "" {
		full = append(full, "-U", c.config.User)
	}
	full = append(full, args...)

	out, err := exec.CommandContext(ctx, c.config.LpadminPath, full...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("lpadmin %v: %w: %s", args, err, out)
	}
	return nil
}

func (c *Client) printerURI(name string) string {
	return fmt.Sprintf("ipp://%s:%d/printers/%s", c.config.Host, c.config.Port, url.PathEscape(name))
}

func (c *Client) httpURL(resource string) string {
	scheme := "http"
	if c.config.TLS {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, c.config.Host, c.config.Port, resource)
}

// mapError converts go-ipp errors to the spooler sentinels
func (c *Client) mapError(op string, err error) error {
	var ippErr ipp.IPPError
	if errors.As(err, &ippErr) {
		switch ippErr.Status {
		case statusNotFound:
			return fmt.Errorf("%s: %w: %s", op, spooler.ErrNotFound, ippErr.Message)
		case statusForbidden, statusNotAuthenticated, statusNotAuthorized:
			return fmt.Errorf("%s: %w: %s", op, spooler.ErrUnauthorized, ippErr.Message)
		}
	}

	var httpErr ipp.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, spooler.ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w", op, spooler.ErrUnauthorized)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func convertAttributes(attrs ipp.Attributes) spooler.Attributes {
	out := make(spooler.Attributes, len(attrs))
	for name, values := range attrs {
		if len(values) == 1 {
			out[name] = values[0].Value
			continue
		}
		list := make([]any, 0, len(values))
		for _, v := range values {
			list = append(list, v.Value)
		}
		out[name] = list
	}
	return out
}

func usersOrAll(users []string) []string {
	if len(users) == 0 {
		return []string{"all"}
	}
	return users
}

func usersOrNone(users []string) []string {
	if len(users) == 0 {
		return []string{"none"}
	}
	return users
}
