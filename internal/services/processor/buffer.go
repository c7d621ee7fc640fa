package processor

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-toolkit/internal/models"
)

// ImageBuffer is a decoded raster. Pixels are always held as non-premultiplied RGBA with
// the origin at (0, 0), so len(Image.Pix) == width*height*4.
type ImageBuffer struct {
	Image  *image.NRGBA
	Format models.Format
	// EncodedSize is the byte length of the data the buffer was decoded from, or 0.
	EncodedSize int
}

// NewImageBuffer copies img into a fresh NRGBA raster tagged with format.
func NewImageBuffer(img image.Image, format models.Format) *ImageBuffer {
	return &ImageBuffer{
		Image:  imaging.Clone(img),
		Format: format,
	}
}

func (b *ImageBuffer) Width() int {
	return b.Image.Rect.Dx()
}

func (b *ImageBuffer) Height() int {
	return b.Image.Rect.Dy()
}

// derive wraps a transformed raster, keeping the source format tag.
func (b *ImageBuffer) derive(img *image.NRGBA) *ImageBuffer {
	return &ImageBuffer{
		Image:  img,
		Format: b.Format,
	}
}
