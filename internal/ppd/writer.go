// internal/ppd/writer.go
package ppd

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// WriteTo emits the original PPD text with every *Default line of a known
// option rewritten to its current default choice.
func (d *Descriptor) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64

	for _, line := range d.lines {
		n, err := bw.WriteString(d.rewriteDefault(line) + "\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, bw.Flush()
}

// Bytes returns the rewritten PPD text
func (d *Descriptor) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = d.WriteTo(&buf)
	return buf.Bytes()
}

func (d *Descriptor) rewriteDefault(line string) string {
	if !strings.HasPrefix(line, "*Default") {
		return line
	}
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return line
	}

	keyword := strings.TrimSpace(line[len("*Default"):colon])
	option := d.options[keyword]
	if option == nil || option.DefChoice == "" {
		return line
	}
	return "*Default" + keyword + ": " + option.DefChoice
}
