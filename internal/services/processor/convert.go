package processor

import (
	"fmt"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
)

const (
	MinQuality = 1
	MaxQuality = 100
)

// Encoded is an encoded transform output.
type Encoded struct {
	Data   []byte
	Format models.Format
	// Quality is the encode quality, 0 when the format does not take one.
	Quality int
	Width   int
	Height  int
}

func (e *Encoded) Size() int {
	return len(e.Data)
}

// ConvertFormat re-encodes buf as jpeg, png or webp. quality must be 1-100 for the lossy
// formats and is ignored for png.
func ConvertFormat(buf *ImageBuffer, targetFormat string, quality int) (*Encoded, error) {
	format, ok := models.ParseFormat(targetFormat)
	if !ok || format == models.FormatGIF {
		return nil, apperrors.New(apperrors.KindUnsupportedFormat, "processor.convert",
			fmt.Sprintf("Unsupported format: %s", targetFormat))
	}

	if !format.Lossy() {
		quality = 0
	} else if err := checkQuality("processor.convert", quality); err != nil {
		return nil, err
	}

	return encode(buf, format, quality)
}

// CompressQuality re-encodes buf as jpeg at quality, whatever the source format.
func CompressQuality(buf *ImageBuffer, quality int) (*Encoded, error) {
	if err := checkQuality("processor.compress", quality); err != nil {
		return nil, err
	}
	return encode(buf, models.FormatJPEG, quality)
}

// EncodeOutput encodes buf according to opts, defaulting to png.
func EncodeOutput(buf *ImageBuffer, opts models.OutputOptions) (*Encoded, error) {
	format := opts.Format
	if format == "" {
		format = models.FormatPNG
	}

	quality := 0
	if format.Lossy() {
		quality = opts.Quality
		if quality == 0 {
			quality = models.DefaultQuality
		}
		if err := checkQuality("processor.encode", quality); err != nil {
			return nil, err
		}
	}
	return encode(buf, format, quality)
}

func encode(buf *ImageBuffer, format models.Format, quality int) (*Encoded, error) {
	data, err := Encode(buf, format, quality)
	if err != nil {
		return nil, err
	}

	return &Encoded{
		Data:    data,
		Format:  format,
		Quality: quality,
		Width:   buf.Width(),
		Height:  buf.Height(),
	}, nil
}

func checkQuality(op string, quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return apperrors.InvalidField(op, "quality", "Quality must be a number between 1 and 100")
	}
	return nil
}
