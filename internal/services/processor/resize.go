package processor

import (
	"fmt"
	"math"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
)

// Resize scales buf with Lanczos resampling. With keepAspect the result is the largest box
// no bigger than width x height that keeps the source aspect ratio; otherwise it is exactly
// width x height.
func Resize(buf *ImageBuffer, width, height int, keepAspect bool) (*ImageBuffer, error) {
	if width < 1 {
		return nil, apperrors.InvalidField("processor.resize", "width", "Width and height must be positive numbers")
	}
	if height < 1 {
		return nil, apperrors.InvalidField("processor.resize", "height", "Width and height must be positive numbers")
	}

	if width > maxImageDimension {
		return nil, apperrors.InvalidField("processor.resize", "width",
			fmt.Sprintf("Width and height must not exceed %d", maxImageDimension))
	}
	if height > maxImageDimension {
		return nil, apperrors.InvalidField("processor.resize", "height",
			fmt.Sprintf("Width and height must not exceed %d", maxImageDimension))
	}

	if keepAspect {
		width, height = FitInside(buf.Width(), buf.Height(), width, height)
	}
	if err := validateBounds(width, height); err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidParameter, "processor.resize", err.Error(), err)
	}

	return buf.derive(imaging.Resize(buf.Image, width, height, imaging.Lanczos)), nil
}

// FitInside returns the largest dimensions within maxWidth x maxHeight that preserve the
// srcWidth:srcHeight ratio. Both results are at least 1.
func FitInside(srcWidth, srcHeight, maxWidth, maxHeight int) (int, int) {
	width, height := maxWidth, maxHeight

	// Compare maxWidth/srcWidth with maxHeight/srcHeight without dividing.
	if int64(maxWidth)*int64(srcHeight) <= int64(maxHeight)*int64(srcWidth) {
		height = int(math.Round(float64(srcHeight) * float64(maxWidth) / float64(srcWidth)))
	} else {
		width = int(math.Round(float64(srcWidth) * float64(maxHeight) / float64(srcHeight)))
	}

	return max(1, min(width, maxWidth)), max(1, min(height, maxHeight))
}
