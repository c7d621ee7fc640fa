package processor

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
)

// Crop extracts the rectangle [x, x+width) x [y, y+height). The rectangle must lie inside buf.
func Crop(buf *ImageBuffer, x, y, width, height int) (*ImageBuffer, error) {
	if x < 0 || y < 0 || width < 1 || height < 1 {
		return nil, apperrors.New(apperrors.KindOutOfBounds, "processor.crop",
			"Invalid crop parameters. x and y must be non-negative, width and height must be positive")
	}

	// width and height are positive here, so the subtraction cannot overflow.
	if x > buf.Width()-width || y > buf.Height()-height {
		return nil, apperrors.New(apperrors.KindOutOfBounds, "processor.crop",
			fmt.Sprintf("crop rectangle (%d,%d %dx%d) exceeds image bounds %dx%d",
				x, y, width, height, buf.Width(), buf.Height()))
	}

	bounds := image.Rect(x, y, x+width, y+height)
	return buf.derive(imaging.Crop(buf.Image, bounds)), nil
}
