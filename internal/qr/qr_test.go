package qr

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	frame, err := Encode("BAT-2024-001", 256)
	require.NoError(t, err)

	text, ok, err := NewImageDecoder().Decode(context.Background(), frame)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "BAT-2024-001", text)
}

func TestDecodeBlankFrame(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	text, ok, err := NewImageDecoder().Decode(context.Background(), buf.Bytes())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestDecodeRejectsNonImage(t *testing.T) {
	_, ok, err := NewImageDecoder().Decode(context.Background(), []byte("not an image"))
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestDecodeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewImageDecoder().Decode(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
