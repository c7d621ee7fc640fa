package processor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

const (
	// maxImageDimension caps width and height so corrupt headers cannot force huge allocations.
	maxImageDimension = 32768
	// maxImagePixels bounds the decoded raster to roughly 64MP (256 MB of NRGBA).
	maxImagePixels int64 = 64 * 1024 * 1024
)

// Decode parses jpeg, png, gif or webp bytes into an ImageBuffer.
func Decode(data []byte) (*ImageBuffer, error) {
	const op = "processor.decode"

	if len(data) == 0 {
		return nil, apperrors.New(apperrors.KindDecode, op, "failed to decode image: empty image data")
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindDecode, op, fmt.Sprintf("failed to decode image: %v", err), err)
	}

	format, ok := models.ParseFormat(name)
	if !ok {
		return nil, apperrors.New(apperrors.KindDecode, op, fmt.Sprintf("unsupported source format %q", name))
	}

	if err := validateBounds(cfg.Width, cfg.Height); err != nil {
		return nil, apperrors.Wrap(apperrors.KindDecode, op, err.Error(), err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindDecode, op, fmt.Sprintf("failed to decode image: %v", err), err)
	}

	buf := NewImageBuffer(img, format)
	buf.EncodedSize = len(data)
	return buf, nil
}

func validateBounds(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("image bounds invalid (%d x %d)", width, height)
	}
	if width > maxImageDimension || height > maxImageDimension {
		return fmt.Errorf("image dimension exceeds limit (%d x %d)", width, height)
	}
	if pixels := int64(width) * int64(height); pixels > maxImagePixels {
		return fmt.Errorf("image pixel count %d exceeds limit %d", pixels, maxImagePixels)
	}
	return nil
}
