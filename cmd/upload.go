package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"leltar/internal/ingest"

	"github.com/spf13/cobra"
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Replace a month's stock with CSV exports",
		Example: `  leltar upload --month 2024-05 --unified osszesito.csv
  leltar upload --month 2024-05 --file "Központi raktár=kozponti.csv" --file "Ital raktár=ital.csv" ...`,
		RunE: runUpload,
	}
	cmd.Flags().String("month", "", "Month to replace (YYYY-MM)")
	cmd.Flags().String("unified", "", "Combined export holding every warehouse")
	cmd.Flags().StringArray("file", nil, "Per-warehouse export as WAREHOUSE=PATH, once per warehouse")
	_ = cmd.MarkFlagRequired("month")
	cmd.MarkFlagsMutuallyExclusive("unified", "file")
	cmd.MarkFlagsOneRequired("unified", "file")
	return cmd
}

func runUpload(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	monthValue, _ := cmd.Flags().GetString("month")
	month, err := monthArg(monthValue)
	if err != nil {
		return err
	}
	unified, _ := cmd.Flags().GetString("unified")
	files, _ := cmd.Flags().GetStringArray("file")

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var result *ingest.Result
	if unified != "" {
		f, err := os.Open(unified)
		if err != nil {
			return err
		}
		defer f.Close()
		result, err = a.container.Ingest.UploadUnified(ctx, month, ingest.Source{Name: filepath.Base(unified), Reader: f})
		if err != nil {
			return err
		}
	} else {
		sources := make([]ingest.Source, 0, len(files))
		for _, arg := range files {
			warehouse, path, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("invalid --file %q, want WAREHOUSE=PATH", arg)
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			sources = append(sources, ingest.Source{Name: filepath.Base(path), Reader: f, Warehouse: warehouse})
		}
		result, err = a.container.Ingest.UploadPerWarehouse(ctx, month, sources)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Upload %s: %d rows written for %s (%s)\n",
		result.Upload.UploadID, result.Upload.Rows, result.Upload.Month, result.Upload.Format)
	for _, w := range result.Report.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", w)
	}
	return nil
}
