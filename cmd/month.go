package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Audit a month for traces of interrupted writes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			monthValue, _ := cmd.Flags().GetString("month")
			month, err := monthArg(monthValue)
			if err != nil {
				return err
			}
			strict, _ := cmd.Flags().GetBool("strict")

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.container.Auditor.Audit(ctx, month)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if strict && !report.Clean() {
				return errors.New("month has findings")
			}
			return nil
		},
	}
	cmd.Flags().String("month", "", "Month to audit (YYYY-MM)")
	cmd.Flags().Bool("strict", false, "Exit with an error when anything above info level is found")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newPurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete every stock snapshot of a month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			monthValue, _ := cmd.Flags().GetString("month")
			month, err := monthArg(monthValue)
			if err != nil {
				return err
			}
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return fmt.Errorf("refusing to delete %s without --yes", month)
			}

			a, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			deleted, err := a.container.Store.PurgeMonth(ctx, month)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d snapshot rows of %s\n", deleted, month)
			return nil
		},
	}
	cmd.Flags().String("month", "", "Month to delete (YYYY-MM)")
	cmd.Flags().Bool("yes", false, "Confirm the deletion")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a month's discrepancy workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			monthValue, _ := cmd.Flags().GetString("month")
			month, err := monthArg(monthValue)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("out")
			if path == "" {
				path = fmt.Sprintf("keszlet_%s.xlsx", month)
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
			err = a.container.Reports.MonthReport(ctx, f, month)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("month", "", "Month to report (YYYY-MM)")
	cmd.Flags().StringP("out", "o", "", "Output file (default keszlet_YYYY-MM.xlsx)")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}
