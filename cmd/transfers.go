package cmd

import (
	"fmt"
	"os"

	"leltar/pkg/metadata"

	"github.com/spf13/cobra"
)

func newExportTransfersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-transfers",
		Short: "Write the transfer log to a CSV file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			monthValue, _ := cmd.Flags().GetString("month")
			path, _ := cmd.Flags().GetString("out")

			var month *metadata.Month
			if monthValue != "" {
				m, err := monthArg(monthValue)
				if err != nil {
					return err
				}
				month = &m
			}

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Create(path)
			if err != nil {
				return err
			}
			n, err := a.container.Transfers.Export(ctx, f, month)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transfers to %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().String("month", "", "Only export this month (YYYY-MM); default is the whole log")
	cmd.Flags().StringP("out", "o", "transfer_log_export.csv", "Output file")
	return cmd
}

func newImportTransfersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-transfers FILE",
		Short: "Append transfers from an exported CSV without changing stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := a.container.Transfers.Import(ctx, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transfers\n", n)
			return nil
		},
	}
}
