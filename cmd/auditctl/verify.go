// cmd/auditctl/verify.go
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javajoker/asset-audit/internal/capture"
	"github.com/javajoker/asset-audit/internal/forms"
	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/qr"
	"github.com/javajoker/asset-audit/internal/services"
)

func newVerifyCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Submit asset verifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newVerifyQRCommand(opts))
	cmd.AddCommand(newVerifyManualCommand(opts))
	cmd.AddCommand(newVerifyStatusCommand(opts))
	return cmd
}

func newVerifyQRCommand(opts *globalOptions) *cobra.Command {
	var (
		code      string
		imageFile string
		auditID   uint
	)

	cmd := &cobra.Command{
		Use:   "qr <asset-id>",
		Short: "Verify an asset by its QR code",
		Long:  "Verify an asset by its QR code. Pass the scanned text with --code or a photo of the label with --image.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := parseID(args[0], "asset")
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			c := opts.client()

			var result *services.SubmissionResult
			switch {
			case code != "":
				result, err = c.VerifyQR(ctx, assetID, code, optionalID(auditID))
			case imageFile != "":
				result, err = c.ScanAndVerify(ctx, assetID, capture.NewFileCamera(imageFile), qr.NewImageDecoder(), optionalID(auditID))
			default:
				return fmt.Errorf("one of --code or --image is required")
			}
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Scanned QR text")
	cmd.Flags().StringVar(&imageFile, "image", "", "Image containing the QR label")
	cmd.Flags().UintVar(&auditID, "audit", 0, "Audit id (defaults to the franchise's current audit)")
	return cmd
}

func newVerifyManualCommand(opts *globalOptions) *cobra.Command {
	var (
		form        forms.ManualEntryForm
		qrAvailable string
		photoFile   string
		auditID     uint
	)

	cmd := &cobra.Command{
		Use:   "manual <asset-id>",
		Short: "Submit a manual entry for an asset whose QR cannot be scanned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := parseID(args[0], "asset")
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			c := opts.client()

			switch qrAvailable {
			case "yes":
				form.QRAvailable = boolPtr(true)
			case "no":
				form.QRAvailable = boolPtr(false)
			}

			// A failed capture leaves the form without a photo
			url, err := c.CapturePhoto(ctx, capture.NewFileCamera(photoFile))
			if err != nil {
				return err
			}
			form.PhotoURL = url

			result, err := c.SubmitManualEntry(ctx, assetID, &form, optionalID(auditID))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&form.SerialNumber, "serial", "", "Serial number read from the asset")
	cmd.Flags().StringVar(&qrAvailable, "qr-available", "", "Whether a QR label is present (yes or no)")
	cmd.Flags().StringVar(&photoFile, "photo", "", "Photo of the asset")
	cmd.Flags().StringVar(&form.Notes, "notes", "", "Notes for the approver")
	cmd.Flags().UintVar(&auditID, "audit", 0, "Audit id (defaults to the franchise's current audit)")
	_ = cmd.MarkFlagRequired("photo")
	return cmd
}

func newVerifyStatusCommand(opts *globalOptions) *cobra.Command {
	var (
		status  string
		auditID uint
	)

	cmd := &cobra.Command{
		Use:   "status <asset-id>",
		Short: "Record an asset's physical status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assetID, err := parseID(args[0], "asset")
			if err != nil {
				return err
			}
			result, err := opts.client().SubmitStatus(commandContext(cmd), assetID, models.AssetStatus(status), optionalID(auditID))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Asset status (e.g. rtb-franchise, deployed-driver, theft)")
	cmd.Flags().UintVar(&auditID, "audit", 0, "Audit id (defaults to the franchise's current audit)")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func printResult(w io.Writer, result *services.SubmissionResult) error {
	if result.Notice != "" {
		fmt.Fprintln(w, result.Notice)
	}
	return printJSON(w, result)
}

func boolPtr(b bool) *bool {
	return &b
}
