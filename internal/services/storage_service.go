// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/asset-audit/internal/config"
	"github.com/javajoker/asset-audit/internal/metrics"
	"github.com/javajoker/asset-audit/internal/utils"
)

var (
	ErrUploadEmpty    = errors.New("upload is empty")
	ErrUploadTooLarge = errors.New("upload exceeds maximum size")
	ErrUploadType     = errors.New("upload type is not allowed")
)

// PhotoStorage persists an asset photo and returns where it can be fetched.
type PhotoStorage interface {
	Store(ctx context.Context, upload *PhotoUpload) (*UploadResult, error)
}

type PhotoUpload struct {
	Filename string
	Data     []byte
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	Checksum string `json:"checksum"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

type objectWriter interface {
	name() string
	put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// StorageService checks photo uploads and writes them to S3 when AWS
// credentials are configured, otherwise to a local directory.
type StorageService struct {
	writer  objectWriter
	options UploadOptions
	now     func() time.Time
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	options := UploadOptions{
		Folder:       "photos",
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}

	if cfg.AWS.AccessKeyID == "" {
		return newStorageService(&localWriter{dir: cfg.Upload.Dir, publicURL: cfg.Upload.PublicURL}, options), nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return newStorageService(&s3Writer{
		client:        s3.New(sess),
		bucket:        cfg.AWS.S3Bucket,
		region:        cfg.AWS.Region,
		cloudFrontURL: cfg.AWS.CloudFrontURL,
	}, options), nil
}

func newStorageService(w objectWriter, options UploadOptions) *StorageService {
	return &StorageService{writer: w, options: options, now: time.Now}
}

func (s *StorageService) Store(ctx context.Context, upload *PhotoUpload) (*UploadResult, error) {
	result, err := s.store(ctx, upload)
	outcome := "stored"
	if err != nil {
		outcome = "rejected"
	}
	metrics.PhotoUploads.WithLabelValues(s.writer.name(), outcome).Inc()
	return result, err
}

func (s *StorageService) store(ctx context.Context, upload *PhotoUpload) (*UploadResult, error) {
	size := int64(len(upload.Data))
	if size == 0 {
		return nil, ErrUploadEmpty
	}
	if s.options.MaxSize > 0 && size > s.options.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrUploadTooLarge, size, s.options.MaxSize)
	}

	mt := mimetype.Detect(upload.Data)
	if len(s.options.AllowedTypes) > 0 && !mimetype.EqualsAny(mt.String(), s.options.AllowedTypes...) {
		return nil, fmt.Errorf("%w: %s", ErrUploadType, mt.String())
	}

	key := s.generateKey(mt.Extension())
	url, err := s.writer.put(ctx, key, mt.String(), upload.Data)
	if err != nil {
		return nil, err
	}

	metrics.PhotoUploadBytes.Observe(float64(size))
	logrus.WithFields(logrus.Fields{
		"key":       key,
		"size":      size,
		"mime_type": mt.String(),
		"backend":   s.writer.name(),
		"filename":  upload.Filename,
	}).Info("Photo stored")

	return &UploadResult{
		URL:      url,
		Key:      key,
		Size:     size,
		MimeType: mt.String(),
		Checksum: utils.HashBytes(upload.Data),
	}, nil
}

func (s *StorageService) generateKey(ext string) string {
	id := uuid.New()
	timestamp := s.now().Format("20060102")
	filename := fmt.Sprintf("%s_%s%s", timestamp, id.String()[:8], ext)

	if s.options.Folder != "" {
		return fmt.Sprintf("%s/%s", s.options.Folder, filename)
	}
	return filename
}

type s3Writer struct {
	client        *s3.S3
	bucket        string
	region        string
	cloudFrontURL string
}

func (w *s3Writer) name() string { return "s3" }

func (w *s3Writer) put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := w.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(w.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	if w.cloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(w.cloudFrontURL, "/"), key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", w.bucket, w.region, key), nil
}

type localWriter struct {
	dir       string
	publicURL string
}

func (w *localWriter) name() string { return "local" }

func (w *localWriter) put(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(w.publicURL, "/"), key), nil
}

// MemoryPhotoStorage keeps photos in memory. It accepts any non-empty
// upload and is meant for tests and demos.
type MemoryPhotoStorage struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
	seq     int
}

func NewMemoryPhotoStorage(baseURL string) *MemoryPhotoStorage {
	return &MemoryPhotoStorage{BaseURL: baseURL, Objects: make(map[string][]byte)}
}

func (m *MemoryPhotoStorage) Store(ctx context.Context, upload *PhotoUpload) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(upload.Data) == 0 {
		return nil, ErrUploadEmpty
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	mt := mimetype.Detect(upload.Data)
	key := fmt.Sprintf("photos/%06d%s", m.seq, mt.Extension())
	m.Objects[key] = append([]byte(nil), upload.Data...)

	return &UploadResult{
		URL:      fmt.Sprintf("%s/%s", m.BaseURL, key),
		Key:      key,
		Size:     int64(len(upload.Data)),
		MimeType: mt.String(),
		Checksum: utils.HashBytes(upload.Data),
	}, nil
}

var (
	_ PhotoStorage = (*StorageService)(nil)
	_ PhotoStorage = (*MemoryPhotoStorage)(nil)
)
