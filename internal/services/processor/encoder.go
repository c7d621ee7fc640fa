package processor

import (
	"bytes"
	"fmt"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
)

// Encode serialises buf in format. quality applies to jpeg and webp; a webp quality of 0
// selects lossless encoding.
func Encode(buf *ImageBuffer, format models.Format, quality int) ([]byte, error) {
	const op = "processor.encode"

	var (
		out bytes.Buffer
		err error
	)

	switch format {
	case models.FormatJPEG:
		err = imaging.Encode(&out, buf.Image, imaging.JPEG, imaging.JPEGQuality(quality))
	case models.FormatPNG:
		err = imaging.Encode(&out, buf.Image, imaging.PNG)
	case models.FormatWebP:
		err = webp.Encode(&out, buf.Image, &webp.Options{
			Lossless: quality <= 0,
			Quality:  float32(quality),
		})
	default:
		return nil, apperrors.New(apperrors.KindUnsupportedFormat, op,
			fmt.Sprintf("Unsupported format: %s", format))
	}

	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindEncode, op,
			fmt.Sprintf("failed to encode %s image: %v", format, err), err)
	}
	return out.Bytes(), nil
}
