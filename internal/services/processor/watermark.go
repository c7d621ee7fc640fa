package processor

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const WatermarkPadding = 10

// Watermark draws text onto a copy of buf at one of the named positions.
func Watermark(buf *ImageBuffer, text, position string, opacity float64, hexColor string) (*ImageBuffer, error) {
	const op = "processor.watermark"

	if text == "" {
		return nil, apperrors.InvalidField(op, "text", "text is required")
	}
	if math.IsNaN(opacity) || opacity < 0 || opacity > 1 {
		return nil, apperrors.InvalidField(op, "opacity", "opacity must be between 0 and 1")
	}

	c, err := colorful.Hex(hexColor)
	if err != nil {
		return nil, apperrors.InvalidField(op, "color", "color must be a hex value such as #c8c8c8")
	}
	r, g, b := c.RGB255()

	face := basicfont.Face7x13
	dot, ok := watermarkOrigin(buf.Width(), buf.Height(), font.MeasureString(face, text).Ceil(), face.Metrics(), position)
	if !ok {
		return nil, apperrors.InvalidField(op, "position",
			"position must be one of top-left, top-right, bottom-left, bottom-right, center")
	}

	dst := imaging.Clone(buf.Image)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(255 * opacity))}),
		Face: face,
		Dot:  dot,
	}
	d.DrawString(text)

	return buf.derive(dst), nil
}

// watermarkOrigin returns the baseline origin of the text for position.
func watermarkOrigin(width, height, textWidth int, metrics font.Metrics, position string) (fixed.Point26_6, bool) {
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()

	positions := map[string]struct{ x, y int }{
		models.PositionTopLeft:     {WatermarkPadding, WatermarkPadding + ascent},
		models.PositionTopRight:    {width - textWidth - WatermarkPadding, WatermarkPadding + ascent},
		models.PositionBottomLeft:  {WatermarkPadding, height - WatermarkPadding - descent},
		models.PositionBottomRight: {width - textWidth - WatermarkPadding, height - WatermarkPadding - descent},
		models.PositionCenter:      {(width - textWidth) / 2, (height + ascent - descent) / 2},
	}

	pos, exists := positions[position]
	if !exists {
		return fixed.Point26_6{}, false
	}
	return fixed.P(pos.x, pos.y), true
}
