// cmd/printerctl/printers.go
package main

import (
	"github.com/spf13/cobra"
)

func newPrintersCommand(load func() (*app, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "printers",
		Short: "List print queues and classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}

			printers, err := a.printers.ListPrinters(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), printers)
			}
			renderPrinters(cmd.OutOrStdout(), printers)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newDevicesCommand(load func() (*app, error)) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List devices reported by the spooler and local scanners",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}

			devices, err := a.devices.GetDevices(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), devices)
			}
			renderDevices(cmd.OutOrStdout(), devices)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
