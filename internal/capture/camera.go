// Package capture obtains still photos of assets for audit evidence.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var ErrNoFrame = errors.New("camera returned no frame")

type Camera interface {
	Capture(ctx context.Context) ([]byte, error)
}

// FileCamera serves a still image from disk, as used by the field CLI
// where the photo was taken by another app.
type FileCamera struct {
	Path string
}

func NewFileCamera(path string) *FileCamera {
	return &FileCamera{Path: path}
}

func (c *FileCamera) Capture(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read photo %s: %w", c.Path, err)
	}
	if len(data) == 0 {
		return nil, ErrNoFrame
	}
	return data, nil
}

// TryCapture returns the captured photo, or nil when the camera fails.
// A nil result means the submission carries no photo.
func TryCapture(ctx context.Context, cam Camera) []byte {
	if cam == nil {
		return nil
	}
	photo, err := cam.Capture(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Photo capture failed, continuing without photo")
		return nil
	}
	return photo
}
