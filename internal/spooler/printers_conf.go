// internal/spooler/printers_conf.go
package spooler

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"printer-service/pkg/printertypes"
)

var printerSectionRe = regexp.MustCompile(`^<(Default)?Printer ([^>]+)>\s*$`)

// PrintersConf holds the device URIs recorded in the spooler's
// printers.conf. The spooler redacts credentials from the device-uri
// attribute; this file still has them.
type PrintersConf struct {
	DeviceURIs map[string]string
}

// NewPrintersConf returns an empty configuration
func NewPrintersConf() *PrintersConf {
	return &PrintersConf{DeviceURIs: make(map[string]string)}
}

// Has reports whether name has a section in the file
func (pc *PrintersConf) Has(name string) bool {
	_, ok := pc.DeviceURIs[name]
	return ok
}

// ParsePrintersConf reads printers.conf text. DeviceURI lines outside a
// printer section are ignored.
func ParsePrintersConf(r io.Reader) (*PrintersConf, error) {
	pc := NewPrintersConf()
	current := ""
	inSection := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		if words[0] == "DeviceURI" {
			if !inSection {
				continue
			}
			uri := ""
			if len(words) >= 2 {
				uri = words[1]
			}
			pc.DeviceURIs[current] = uri
			continue
		}

		if match := printerSectionRe.FindStringSubmatch(line); match != nil {
			current = match[2]
			inSection = true
		}
		if strings.Contains(line, "</Printer>") {
			current = ""
			inSection = false
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read printers.conf: %w", err)
	}

	return pc, nil
}

// FetchPrintersConf downloads printers.conf from the spooler into a
// temporary file and parses it. A missing file or a refused request yields
// an empty configuration.
func FetchPrintersConf(ctx context.Context, client Client) (*PrintersConf, error) {
	f, err := os.CreateTemp("", "printers-*.conf")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	if err := client.GetFile(ctx, printertypes.PrintersConfResource, f); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
			return NewPrintersConf(), nil
		}
		return nil, fmt.Errorf("failed to fetch printers.conf: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind printers.conf: %w", err)
	}

	return ParsePrintersConf(f)
}
