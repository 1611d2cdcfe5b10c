// Package client talks to the asset audit API on behalf of the field CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/javajoker/asset-audit/internal/capture"
	"github.com/javajoker/asset-audit/internal/forms"
	"github.com/javajoker/asset-audit/internal/models"
	"github.com/javajoker/asset-audit/internal/qr"
	"github.com/javajoker/asset-audit/internal/services"
	"github.com/javajoker/asset-audit/internal/utils"
)

var (
	ErrNoQRCode         = errors.New("no qr code found in frame")
	ErrChecksumMismatch = errors.New("uploaded photo checksum mismatch")
)

// APIError is a non-success response from the server.
type APIError struct {
	StatusCode int
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Details    json.RawMessage `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

type Client struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLanguage sets Accept-Language on every request.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) GetFranchise(ctx context.Context, id uint) (*models.Franchise, error) {
	var f models.Franchise
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/franchise/%d", id), nil, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) ListAssets(ctx context.Context, franchiseID uint, status string) ([]models.Asset, error) {
	path := fmt.Sprintf("/api/assets/franchise/%d", franchiseID)
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var assets []models.Asset
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (c *Client) GetAsset(ctx context.Context, id uint) (*models.Asset, error) {
	var a models.Asset
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/assets/%d", id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAsset submits a new asset form. Invalid forms are rejected locally.
func (c *Client) CreateAsset(ctx context.Context, franchiseID uint, form *forms.NewAssetForm) (*models.Asset, error) {
	req, err := form.Request(franchiseID)
	if err != nil {
		return nil, err
	}
	headers := map[string]string{"X-Franchise-ID": strconv.FormatUint(uint64(franchiseID), 10)}

	var a models.Asset
	if err := c.doJSON(ctx, http.MethodPost, "/api/assets", headers, req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) VerifyQR(ctx context.Context, assetID uint, scanned string, auditID *uint) (*services.SubmissionResult, error) {
	body := &services.QRScanRequest{AuditID: auditID, ScannedCode: scanned}
	return c.submit(ctx, fmt.Sprintf("/api/assets/%d/verify/qr", assetID), body)
}

// ScanAndVerify reads a frame from the camera, decodes its QR code and
// submits the result.
func (c *Client) ScanAndVerify(ctx context.Context, assetID uint, cam capture.Camera, dec qr.Decoder, auditID *uint) (*services.SubmissionResult, error) {
	frame, err := cam.Capture(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture frame: %w", err)
	}
	text, ok, err := dec.Decode(ctx, frame)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoQRCode
	}
	return c.VerifyQR(ctx, assetID, text, auditID)
}

// SubmitManualEntry submits a manual entry form. Invalid forms are
// rejected locally and never reach the server.
func (c *Client) SubmitManualEntry(ctx context.Context, assetID uint, form *forms.ManualEntryForm, auditID *uint) (*services.SubmissionResult, error) {
	req, err := form.Request(auditID)
	if err != nil {
		return nil, err
	}
	return c.submit(ctx, fmt.Sprintf("/api/assets/%d/verify/manual", assetID), req)
}

func (c *Client) SubmitStatus(ctx context.Context, assetID uint, status models.AssetStatus, auditID *uint) (*services.SubmissionResult, error) {
	body := &services.StatusSubmissionRequest{AuditID: auditID, AssetStatus: status}
	return c.submit(ctx, fmt.Sprintf("/api/assets/%d/verify/status", assetID), body)
}

func (c *Client) submit(ctx context.Context, path string, body interface{}) (*services.SubmissionResult, error) {
	var result services.SubmissionResult
	if err := c.doJSON(ctx, http.MethodPost, path, nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) CurrentAudit(ctx context.Context, franchiseID uint) (*services.AuditSummary, error) {
	var summary services.AuditSummary
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/audit/franchise/%d", franchiseID), nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Client) StartAudit(ctx context.Context, franchiseID, kaeID uint) (*models.Audit, error) {
	var a models.Audit
	body := &services.StartAuditRequest{FranchiseID: franchiseID, KAEID: kaeID}
	if err := c.doJSON(ctx, http.MethodPost, "/api/audits", nil, body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) UpdateQuantities(ctx context.Context, auditID uint, form *forms.QuantityForm) (*models.Audit, error) {
	req, err := form.Request()
	if err != nil {
		return nil, err
	}
	return c.patchAudit(ctx, auditID, req)
}

func (c *Client) SetAuditStatus(ctx context.Context, auditID uint, status models.AuditStatus) (*models.Audit, error) {
	return c.patchAudit(ctx, auditID, &services.UpdateAuditRequest{Status: &status})
}

func (c *Client) patchAudit(ctx context.Context, auditID uint, req *services.UpdateAuditRequest) (*models.Audit, error) {
	var a models.Audit
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/api/audits/%d", auditID), nil, req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UploadPhoto stores a photo and checks the server's checksum against
// the bytes that were sent.
func (c *Client) UploadPhoto(ctx context.Context, filename string, data []byte) (*services.UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result services.UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	if !utils.ValidateFileHash(data, result.Checksum) {
		return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, result.Key)
	}
	return &result, nil
}

// CapturePhoto captures and uploads a photo. An empty URL with a nil
// error means the camera produced nothing and the form stays incomplete.
func (c *Client) CapturePhoto(ctx context.Context, cam capture.Camera) (string, error) {
	photo := capture.TryCapture(ctx, cam)
	if photo == nil {
		return "", nil
	}
	result, err := c.UploadPhoto(ctx, "capture.jpg", photo)
	if err != nil {
		return "", err
	}
	return result.URL, nil
}

func (c *Client) AuditReport(ctx context.Context, auditID uint) ([]byte, error) {
	return c.download(ctx, fmt.Sprintf("/api/audits/%d/report", auditID))
}

func (c *Client) LabelSheet(ctx context.Context, franchiseID uint) ([]byte, error) {
	return c.download(ctx, fmt.Sprintf("/api/franchise/%d/labels", franchiseID))
}

func (c *Client) download(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, headers map[string]string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func decodeError(resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Error == nil {
		return &APIError{StatusCode: resp.StatusCode, Code: "HTTP_ERROR", Message: resp.Status}
	}
	env.Error.StatusCode = resp.StatusCode
	return env.Error
}
