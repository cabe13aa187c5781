// internal/spooler/spoolertest/fake.go
package spoolertest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"printer-service/internal/spooler"
)

// Call records one mutating request made against the fake
type Call struct {
	Method string
	Args   []string
}

func (c Call) String() string {
	return c.Method + "(" + strings.Join(c.Args, ", ") + ")"
}

// Client is an in-memory spooler.Client for tests. Errors keyed by method
// name are returned instead of performing the call.
type Client struct {
	mu sync.Mutex

	Printers   map[string]spooler.Attributes
	Classes    map[string][]string
	Devices    map[string]spooler.Attributes
	Attributes map[string]spooler.Attributes
	PPDs       map[string]string
	Files      map[string]string
	Jobs       map[int]spooler.Attributes
	Default    string

	Errors map[string]error
	Calls  []Call

	PPDFetches  int
	FileFetches int
	TempFiles   []string
}

// New creates an empty fake
func New() *Client {
	return &Client{
		Printers:   make(map[string]spooler.Attributes),
		Classes:    make(map[string][]string),
		Devices:    make(map[string]spooler.Attributes),
		Attributes: make(map[string]spooler.Attributes),
		PPDs:       make(map[string]string),
		Files:      make(map[string]string),
		Jobs:       make(map[int]spooler.Attributes),
		Errors:     make(map[string]error),
	}
}

var _ spooler.Client = (*Client)(nil)

func (c *Client) fail(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Errors[method]
}

func (c *Client) record(method string, args ...string) error {
	if err := c.fail(method); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, Call{Method: method, Args: args})
	return nil
}

// CallNames lists the recorded calls in order
func (c *Client) CallNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.Calls))
	for _, call := range c.Calls {
		names = append(names, call.String())
	}
	return names
}

func (c *Client) GetPrinters(ctx context.Context) (map[string]spooler.Attributes, error) {
	if err := c.fail("GetPrinters"); err != nil {
		return nil, err
	}
	out := make(map[string]spooler.Attributes, len(c.Printers))
	for name, attrs := range c.Printers {
		out[name] = attrs
	}
	return out, nil
}

func (c *Client) GetClasses(ctx context.Context) (map[string][]string, error) {
	if err := c.fail("GetClasses"); err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(c.Classes))
	for name, members := range c.Classes {
		out[name] = append([]string(nil), members...)
	}
	return out, nil
}

func (c *Client) GetDevices(ctx context.Context) (map[string]spooler.Attributes, error) {
	if err := c.fail("GetDevices"); err != nil {
		return nil, err
	}
	out := make(map[string]spooler.Attributes, len(c.Devices))
	for uri, attrs := range c.Devices {
		out[uri] = attrs
	}
	return out, nil
}

func (c *Client) GetPrinterAttributes(ctx context.Context, name string) (spooler.Attributes, error) {
	if err := c.fail("GetPrinterAttributes"); err != nil {
		return nil, err
	}
	attrs, ok := c.Attributes[name]
	if !ok {
		return nil, fmt.Errorf("printer %s: %w", name, spooler.ErrNotFound)
	}
	return attrs, nil
}

func (c *Client) GetJobs(ctx context.Context) (map[int]spooler.Attributes, error) {
	if err := c.fail("GetJobs"); err != nil {
		return nil, err
	}
	return c.Jobs, nil
}

func (c *Client) GetDefault(ctx context.Context) (string, error) {
	if err := c.fail("GetDefault"); err != nil {
		return "", err
	}
	return c.Default, nil
}

// GetPPD writes the stored PPD text to a temporary file
func (c *Client) GetPPD(ctx context.Context, name string) (string, error) {
	c.mu.Lock()
	c.PPDFetches++
	c.mu.Unlock()

	if err := c.fail("GetPPD"); err != nil {
		return "", err
	}
	text, ok := c.PPDs[name]
	if !ok {
		return "", fmt.Errorf("ppd for %s: %w", name, spooler.ErrNotFound)
	}

	f, err := os.CreateTemp("", "fake-*.ppd")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		return "", err
	}

	c.mu.Lock()
	c.TempFiles = append(c.TempFiles, f.Name())
	c.mu.Unlock()
	return f.Name(), nil
}

func (c *Client) GetFile(ctx context.Context, resource string, w io.Writer) error {
	c.mu.Lock()
	c.FileFetches++
	c.mu.Unlock()

	if err := c.fail("GetFile"); err != nil {
		return err
	}
	text, ok := c.Files[resource]
	if !ok {
		return fmt.Errorf("%s: %w", resource, spooler.ErrNotFound)
	}
	_, err := io.WriteString(w, text)
	return err
}

func (c *Client) AddPrinterOptionDefault(ctx context.Context, name, option, value string) error {
	return c.record("AddPrinterOptionDefault", name, option, value)
}

func (c *Client) DeletePrinterOptionDefault(ctx context.Context, name, option string) error {
	return c.record("DeletePrinterOptionDefault", name, option)
}

func (c *Client) EnablePrinter(ctx context.Context, name string) error {
	return c.record("EnablePrinter", name)
}

func (c *Client) DisablePrinter(ctx context.Context, name, reason string) error {
	return c.record("DisablePrinter", name, reason)
}

func (c *Client) AcceptJobs(ctx context.Context, name string) error {
	return c.record("AcceptJobs", name)
}

func (c *Client) RejectJobs(ctx context.Context, name, reason string) error {
	return c.record("RejectJobs", name, reason)
}

func (c *Client) SetPrinterShared(ctx context.Context, name string, shared bool) error {
	return c.record("SetPrinterShared", name, fmt.Sprint(shared))
}

func (c *Client) SetPrinterErrorPolicy(ctx context.Context, name, policy string) error {
	return c.record("SetPrinterErrorPolicy", name, policy)
}

func (c *Client) SetPrinterOpPolicy(ctx context.Context, name, policy string) error {
	return c.record("SetPrinterOpPolicy", name, policy)
}

func (c *Client) SetPrinterJobSheets(ctx context.Context, name, start, end string) error {
	return c.record("SetPrinterJobSheets", name, start, end)
}

func (c *Client) SetPrinterUsersAllowed(ctx context.Context, name string, users []string) error {
	return c.record("SetPrinterUsersAllowed", append([]string{name}, users...)...)
}

func (c *Client) SetPrinterUsersDenied(ctx context.Context, name string, users []string) error {
	return c.record("SetPrinterUsersDenied", append([]string{name}, users...)...)
}

func (c *Client) SetDefault(ctx context.Context, name string) error {
	if err := c.record("SetDefault", name); err != nil {
		return err
	}
	c.mu.Lock()
	c.Default = name
	c.mu.Unlock()
	return nil
}
