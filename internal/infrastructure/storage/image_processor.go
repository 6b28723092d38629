package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

const DefaultMaxImageDimension = 1600

// ImageProcessor shrinks oversized JPEG and PNG uploads before they reach
// object storage. Other content types pass through untouched.
type ImageProcessor struct {
	MaxDimension int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxDimension: DefaultMaxImageDimension}
}

// Fit returns data unchanged when it already fits within MaxDimension.
// Otherwise the image is resized keeping its aspect ratio and re-encoded in
// its original format.
func (p *ImageProcessor) Fit(data []byte, contentType string) ([]byte, error) {
	format, ok := resizableFormats[contentType]
	if !ok {
		return data, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: not a %s image", ErrMalformedDataURL, contentType)
	}
	if cfg.Width <= p.MaxDimension && cfg.Height <= p.MaxDimension {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: cannot decode image", ErrMalformedDataURL)
	}

	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, format, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

var resizableFormats = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/jpg":  imaging.JPEG,
	"image/png":  imaging.PNG,
}
