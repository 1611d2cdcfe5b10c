// cmd/auditctl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/javajoker/asset-audit/internal/client"
)

type globalOptions struct {
	apiBaseURL string
	lang       string
	timeout    time.Duration
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "auditctl",
		Short:         "Field client for franchise asset audits",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiBaseURL, "api", envOr("AUDIT_API_URL", "http://localhost:8080"), "Base URL of the audit API")
	cmd.PersistentFlags().StringVar(&opts.lang, "lang", envOr("AUDIT_LANG", "en"), "Response language (en, hi)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP request timeout")

	cmd.AddCommand(newFranchiseCommand(opts))
	cmd.AddCommand(newAssetsCommand(opts))
	cmd.AddCommand(newVerifyCommand(opts))
	cmd.AddCommand(newAuditCommand(opts))
	cmd.AddCommand(newReportCommand(opts))
	cmd.AddCommand(newLabelsCommand(opts))
	return cmd
}

func (o *globalOptions) client() *client.Client {
	return client.New(o.apiBaseURL, o.timeout, client.WithLanguage(o.lang))
}

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctx
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseID(arg, what string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return uint(id), nil
}

// optionalID turns a zero flag value into "not set".
func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFranchiseCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "franchise <id>",
		Short: "Show a franchise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "franchise")
			if err != nil {
				return err
			}
			f, err := opts.client().GetFranchise(commandContext(cmd), id)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), f)
		},
	}
}
