package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/evalrecon/internal/adapters/export"
	app "github.com/okian/evalrecon/internal/app"
	"github.com/okian/evalrecon/pkg/logger"
)

type exportOptions struct {
	department string
	format     string
	out        string
}

func newExportCmd(c *cli) *cobra.Command {
	var opts exportOptions

	kinds := make([]string, len(app.Kinds))
	for i, k := range app.Kinds {
		kinds[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:       "export <kind>",
		Short:     "Run the pipeline once and write a report file",
		Long:      "Kinds: " + strings.Join(kinds, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.export(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.department, "department", "", "Department to export (default: all)")
	cmd.Flags().StringVar(&opts.format, "format", string(app.FormatCSV), "Output format: csv or xlsx")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output directory (default: config export_dir)")
	return cmd
}

func (c *cli) export(cmd *cobra.Command, kindName string, opts exportOptions) error {
	ctx := cmd.Context()

	kind, err := app.ParseKind(kindName)
	if err != nil {
		return err
	}
	format, err := app.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	svc, err := c.service()
	if err != nil {
		return err
	}

	file, err := svc.Export(ctx, kind, opts.department, format)
	if errors.Is(err, export.ErrNothingToExport) {
		// Empty selections are a warning, not a failure.
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "nothing to export for %s\n", kind)
		return nil
	}
	if err != nil {
		return err
	}

	dir := opts.out
	if dir == "" {
		dir = c.cfg.ExportDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil { //nolint:gosec // report files are meant to be shared
		return fmt.Errorf("write export: %w", err)
	}

	c.log.Info(ctx, "export written", logger.String("path", path))
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
