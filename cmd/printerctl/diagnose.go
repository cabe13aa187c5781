// cmd/printerctl/diagnose.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"printer-service/internal/service"
)

// exitMissingDependencies is returned when a driver needs packages or
// executables that are not installed
const exitMissingDependencies = 2

func newDiagnoseCommand(load func() (*app, error)) *cobra.Command {
	var (
		file   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "diagnose [printer]",
		Short: "Report driver packages and executables a PPD still needs",
		Long: `Report driver packages and executables a PPD still needs.

Pass a queue name to check the PPD the spooler holds for it, or --file
to check a PPD on disk. The command exits with status 2 when something
is missing.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}

			var (
				result *service.Diagnosis
				label  string
			)
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()

				label = file
				result, err = a.diagnosis.DiagnoseDescriptor(cmd.Context(), f)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
			} else {
				label = args[0]
				result, err = a.diagnosis.DiagnosePrinter(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			}

			if asJSON {
				if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
			} else {
				renderDiagnosis(cmd.OutOrStdout(), label, result)
			}

			if !result.OK {
				return &ExitError{Code: exitMissingDependencies}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "PPD file to check instead of a queue")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a report")
	return cmd
}
