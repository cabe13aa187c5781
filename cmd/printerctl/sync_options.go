// cmd/printerctl/sync_options.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newSyncOptionsCommand(load func() (*app, error)) *cobra.Command {
	var (
		source string
		target string
		locale string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "sync-options",
		Short: "Carry option defaults from one PPD to another",
		Long: `Carry option defaults from one PPD to another.

The target's page size is first set for the locale (Letter for C,
POSIX, en, en_US, en_CA and fr_CA, A4 elsewhere), then every default the source shares
with the target is copied when the target offers that choice. The
result goes to --out, or to stdout when --out is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}

			src, err := os.Open(source)
			if err != nil {
				return err
			}
			defer src.Close()

			dst, err := os.Open(target)
			if err != nil {
				return err
			}
			defer dst.Close()

			result, err := a.driver.SyncOptions(cmd.Context(), src, dst, locale)
			if err != nil {
				return err
			}

			summary := cmd.ErrOrStderr()
			if out == "" {
				if _, err := io.WriteString(cmd.OutOrStdout(), result.Target); err != nil {
					return err
				}
			} else {
				if err := os.WriteFile(out, []byte(result.Target), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", out, err)
				}
				summary = cmd.OutOrStdout()
			}

			renderSync(summary, result, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "PPD to copy option defaults from")
	cmd.Flags().StringVar(&target, "target", "", "PPD to copy option defaults into")
	cmd.Flags().StringVar(&locale, "locale", "", "locale for the default page size (default from config or LANG)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "file to write the updated target to")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
