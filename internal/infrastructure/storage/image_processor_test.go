package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestImageProcessorFit(t *testing.T) {
	p := &ImageProcessor{MaxDimension: 100}

	small := encodePNG(t, 80, 40)
	out, err := p.Fit(small, "image/png")
	require.NoError(t, err)
	assert.Equal(t, small, out)

	out, err = p.Fit(encodePNG(t, 400, 200), "image/png")
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestImageProcessorPassThroughAndErrors(t *testing.T) {
	p := NewImageProcessor()

	video := []byte("not decoded")
	out, err := p.Fit(video, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, video, out)

	_, err = p.Fit([]byte("garbage"), "image/jpeg")
	assert.ErrorIs(t, err, ErrMalformedDataURL)
}

func TestObjectMediaStoreResizesImages(t *testing.T) {
	up := &fakeUploader{uploads: map[string][]byte{}}
	store := NewObjectMediaStore(up).WithImageProcessor(&ImageProcessor{MaxDimension: 64})

	entry := "data:image/png;base64," + base64.StdEncoding.EncodeToString(encodePNG(t, 256, 128))
	out, err := store.Persist(context.Background(), "startups/x/logo", []string{entry})
	require.NoError(t, err)
	require.Len(t, out, 1)

	for _, data := range up.uploads {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 64, cfg.Width)
		assert.Equal(t, 32, cfg.Height)
	}
}
