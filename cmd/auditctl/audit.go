// cmd/auditctl/audit.go
package main

import (
	"github.com/spf13/cobra"

	"github.com/javajoker/asset-audit/internal/forms"
	"github.com/javajoker/asset-audit/internal/models"
)

func newAuditCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect and drive franchise audits",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newAuditShowCommand(opts))
	cmd.AddCommand(newAuditStartCommand(opts))
	cmd.AddCommand(newAuditCountsCommand(opts))
	cmd.AddCommand(newAuditStatusCommand(opts, "complete", "Mark an audit completed", models.AuditStatusCompleted))
	cmd.AddCommand(newAuditStatusCommand(opts, "sign-off", "Sign off a completed audit", models.AuditStatusSignedOff))
	return cmd
}

func newAuditShowCommand(opts *globalOptions) *cobra.Command {
	var franchiseID uint

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a franchise's current audit and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := opts.client().CurrentAudit(commandContext(cmd), franchiseID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().UintVar(&franchiseID, "franchise", 0, "Franchise id")
	_ = cmd.MarkFlagRequired("franchise")
	return cmd
}

func newAuditStartCommand(opts *globalOptions) *cobra.Command {
	var franchiseID, kaeID uint

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new audit for a franchise",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.client().StartAudit(commandContext(cmd), franchiseID, kaeID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}

	cmd.Flags().UintVar(&franchiseID, "franchise", 0, "Franchise id")
	cmd.Flags().UintVar(&kaeID, "kae", 0, "Id of the auditing key account executive")
	_ = cmd.MarkFlagRequired("franchise")
	_ = cmd.MarkFlagRequired("kae")
	return cmd
}

func newAuditCountsCommand(opts *globalOptions) *cobra.Command {
	var form forms.QuantityForm

	cmd := &cobra.Command{
		Use:   "counts <audit-id>",
		Short: "Record counted SOC meters and harnesses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auditID, err := parseID(args[0], "audit")
			if err != nil {
				return err
			}
			a, err := opts.client().UpdateQuantities(commandContext(cmd), auditID, &form)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}

	cmd.Flags().IntVar(&form.SOCMeterCount, "soc", 0, "SOC meter count")
	cmd.Flags().IntVar(&form.HarnessCount, "harness", 0, "Harness count")
	return cmd
}

func newAuditStatusCommand(opts *globalOptions, use, short string, status models.AuditStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <audit-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			auditID, err := parseID(args[0], "audit")
			if err != nil {
				return err
			}
			a, err := opts.client().SetAuditStatus(commandContext(cmd), auditID, status)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), a)
		},
	}
}
