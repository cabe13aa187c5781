// cmd/printerctl/render.go
package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"printer-service/internal/model"
	"printer-service/internal/service"
)

// writeJSON prints v indented, for scripts
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// column pads every cell of a column to the widest one
func column(cells []string) lipgloss.Style {
	width := 0
	for _, c := range cells {
		width = max(width, lipgloss.Width(c))
	}
	return lipgloss.NewStyle().Width(width + 2)
}

func stateStyle(state model.PrinterState) lipgloss.Style {
	switch state {
	case model.PrinterStateIdle:
		return SuccessStyle
	case model.PrinterStateStopped:
		return WarningStyle
	default:
		return CmdStyle
	}
}

func renderPrinters(w io.Writer, printers []*model.Printer) {
	if len(printers) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No printers"))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Printers (%d)", len(printers))))

	names := make([]string, len(printers))
	states := make([]string, len(printers))
	uris := make([]string, len(printers))
	for i, p := range printers {
		names[i] = p.Name
		if p.IsClass {
			names[i] += " (class)"
		}
		states[i] = p.State.String()
		uris[i] = p.DeviceURI
	}

	nameCol, stateCol, uriCol := column(names), column(states), column(uris)
	for i, p := range printers {
		fmt.Fprintln(w, "  "+
			nameCol.Render(names[i])+
			stateStyle(p.State).Inherit(stateCol).Render(states[i])+
			CmdStyle.Inherit(uriCol).Render(uris[i])+
			SubtitleStyle.Render(p.MakeAndModel))
	}
}

func renderDevices(w io.Writer, devices []*model.Device) {
	if len(devices) == 0 {
		fmt.Fprintln(w, SubtitleStyle.Render("No devices"))
		return
	}

	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Devices (%d)", len(devices))))

	classes := make([]string, len(devices))
	uris := make([]string, len(devices))
	for i, d := range devices {
		classes[i] = d.Class
		if d.Source != "" {
			classes[i] += "/" + d.Source
		}
		uris[i] = d.URI
	}

	classCol, uriCol := column(classes), column(uris)
	for i, d := range devices {
		info := d.Info
		if info == "" {
			info = d.MakeAndModel
		}
		fmt.Fprintln(w, "  "+
			SubtitleStyle.Inherit(classCol).Render(classes[i])+
			CmdStyle.Inherit(uriCol).Render(uris[i])+
			info)
	}
}

func renderDiagnosis(w io.Writer, label string, d *service.Diagnosis) {
	fmt.Fprintln(w, TitleStyle.Render("Driver check: ")+label)

	switch {
	case d.Raw:
		fmt.Fprintln(w, SuccessStyle.Render("  raw queue, no driver needed"))
	case d.OK:
		fmt.Fprintln(w, SuccessStyle.Render("  all driver dependencies installed"))
	default:
		if len(d.Packages) > 0 {
			fmt.Fprintln(w, ErrorStyle.Render("  Missing packages:"))
			for _, pkg := range d.Packages {
				fmt.Fprintln(w, "    "+CmdStyle.Render(pkg))
			}
		}
		if len(d.Executables) > 0 {
			fmt.Fprintln(w, ErrorStyle.Render("  Missing executables:"))
			for _, exe := range d.Executables {
				fmt.Fprintln(w, "    "+CmdStyle.Render(exe))
			}
		}
	}
}

func renderSync(w io.Writer, result *service.SyncResult, out string) {
	fmt.Fprintln(w, SuccessStyle.Render("Options synchronized"))
	fmt.Fprintln(w, SubtitleStyle.Render("  page size: ")+result.PageSize)
	fmt.Fprintln(w, SubtitleStyle.Render("  copied:    ")+fmt.Sprint(result.Copied))
	if out != "" {
		fmt.Fprintln(w, SubtitleStyle.Render("  written:   ")+CmdStyle.Render(out))
	}
}
