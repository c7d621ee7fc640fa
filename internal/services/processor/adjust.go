package processor

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
)

const (
	MinAdjustment = -100
	MaxAdjustment = 100
)

// AdjustBrightness scales R, G and B by 1+delta/100: 0 is a no-op, -100 gives black and
// +100 doubles every channel before clamping. Alpha is kept.
func AdjustBrightness(buf *ImageBuffer, delta float64) (*ImageBuffer, error) {
	if err := checkAdjustment("processor.brightness", "brightness", delta); err != nil {
		return nil, err
	}

	factor := 1 + delta/100

	var lut [256]uint8
	for i := range lut {
		lut[i] = clampRound(float64(i) * factor)
	}
	return buf.derive(applyLUT(buf.Image, &lut)), nil
}

// AdjustContrast applies factor*(v-128)+128 per channel with
// factor = 259*(delta+255) / (255*(259-delta)). Alpha is kept.
func AdjustContrast(buf *ImageBuffer, delta float64) (*ImageBuffer, error) {
	if err := checkAdjustment("processor.contrast", "contrast", delta); err != nil {
		return nil, err
	}

	factor := (259 * (delta + 255)) / (255 * (259 - delta))

	var lut [256]uint8
	for i := range lut {
		lut[i] = clampRound(factor*(float64(i)-128) + 128)
	}
	return buf.derive(applyLUT(buf.Image, &lut)), nil
}

// Grayscale sets R=G=B to the rounded mean of the three channels. Alpha is kept.
func Grayscale(buf *ImageBuffer) *ImageBuffer {
	src := buf.Image
	dst := image.NewNRGBA(src.Rect)
	width, height := src.Rect.Dx(), src.Rect.Dy()

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			s := src.Pix[y*src.Stride : y*src.Stride+width*4]
			d := dst.Pix[y*dst.Stride : y*dst.Stride+width*4]
			for i := 0; i < len(s); i += 4 {
				// sum/3 never lands on .5, so (sum+1)/3 is the rounded mean.
				avg := uint8((int(s[i]) + int(s[i+1]) + int(s[i+2]) + 1) / 3)
				d[i], d[i+1], d[i+2], d[i+3] = avg, avg, avg, s[i+3]
			}
		}
	})

	return buf.derive(dst)
}

func applyLUT(src *image.NRGBA, lut *[256]uint8) *image.NRGBA {
	dst := image.NewNRGBA(src.Rect)
	width, height := src.Rect.Dx(), src.Rect.Dy()

	parallel.Line(height, func(start, end int) {
		for y := start; y < end; y++ {
			s := src.Pix[y*src.Stride : y*src.Stride+width*4]
			d := dst.Pix[y*dst.Stride : y*dst.Stride+width*4]
			for i := 0; i < len(s); i += 4 {
				d[i] = lut[s[i]]
				d[i+1] = lut[s[i+1]]
				d[i+2] = lut[s[i+2]]
				d[i+3] = s[i+3]
			}
		}
	})

	return dst
}

func checkAdjustment(op, field string, delta float64) error {
	if math.IsNaN(delta) || delta < MinAdjustment || delta > MaxAdjustment {
		return apperrors.InvalidField(op, field, field+" must be a number between -100 and 100")
	}
	return nil
}

func clampRound(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
