// Package qr renders asset QR labels and reads serial numbers back out of
// camera frames.
package qr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// Encode renders content as a PNG QR code of size x size pixels.
func Encode(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// Decoder extracts the text of a QR code from a single image frame.
// ok is false when the frame holds no readable code.
type Decoder interface {
	Decode(ctx context.Context, frame []byte) (text string, ok bool, err error)
}

// ImageDecoder decodes PNG or JPEG frames.
type ImageDecoder struct{}

func NewImageDecoder() *ImageDecoder {
	return &ImageDecoder{}
}

func (d *ImageDecoder) Decode(ctx context.Context, frame []byte) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return "", false, fmt.Errorf("failed to decode frame: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false, fmt.Errorf("failed to binarize frame: %w", err)
	}

	result, err := zxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		// not found, checksum and format failures all mean no usable code
		return "", false, nil
	}
	return result.GetText(), true, nil
}
