// Package validator turns raw form fields into typed transform parameters.
// Checks run in a fixed order for every field: presence, then coercion, then range.
package validator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
)

const (
	DefaultOpacity       = 0.5
	DefaultWatermarkHex  = "#c8c8c8"
	DefaultWatermarkSpot = models.PositionBottomRight

	minAdjustment = -100
	maxAdjustment = 100
)

// Params holds the non-file form fields of one request.
type Params map[string]string

// Get returns the trimmed value of key and whether it was present and non-empty.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func ParseCompress(p Params) (models.CompressParams, error) {
	const op = "validator.compress"

	quality, err := optionalQuality(op, p)
	if err != nil {
		return models.CompressParams{}, err
	}
	return models.CompressParams{Quality: quality}, nil
}

func ParseResize(p Params) (models.ResizeParams, error) {
	const op = "validator.resize"

	rawWidth, okWidth := p.Get("width")
	rawHeight, okHeight := p.Get("height")
	if !okWidth || !okHeight {
		field := "width"
		if okWidth {
			field = "height"
		}
		return models.ResizeParams{}, apperrors.InvalidField(op, field, "Width and height parameters are required")
	}

	width, errWidth := strconv.Atoi(rawWidth)
	height, errHeight := strconv.Atoi(rawHeight)
	if errWidth != nil || errHeight != nil || width < 1 || height < 1 {
		field := "width"
		if errWidth == nil && width >= 1 {
			field = "height"
		}
		return models.ResizeParams{}, apperrors.InvalidField(op, field, "Width and height must be positive numbers")
	}

	// Anything but an explicit "false" keeps the aspect ratio.
	keepAspect := true
	if raw, ok := p.Get("maintain_aspect_ratio"); ok && strings.EqualFold(raw, "false") {
		keepAspect = false
	}

	output, err := parseOutput(op, p)
	if err != nil {
		return models.ResizeParams{}, err
	}

	return models.ResizeParams{
		Width:               width,
		Height:              height,
		MaintainAspectRatio: keepAspect,
		Output:              output,
	}, nil
}

func ParseCrop(p Params) (models.CropParams, error) {
	const op = "validator.crop"

	fields := []string{"x", "y", "width", "height"}
	raw := make(map[string]string, len(fields))
	for _, field := range fields {
		v, ok := p.Get(field)
		if !ok {
			return models.CropParams{}, apperrors.InvalidField(op, field, "x, y, width, and height parameters are required")
		}
		raw[field] = v
	}

	values := make(map[string]int, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(raw[field])
		lower := 0
		if field == "width" || field == "height" {
			lower = 1
		}
		if err != nil || n < lower {
			return models.CropParams{}, apperrors.InvalidField(op, field,
				"Invalid crop parameters. x and y must be non-negative, width and height must be positive")
		}
		values[field] = n
	}

	output, err := parseOutput(op, p)
	if err != nil {
		return models.CropParams{}, err
	}

	return models.CropParams{
		X:      values["x"],
		Y:      values["y"],
		Width:  values["width"],
		Height: values["height"],
		Output: output,
	}, nil
}

func ParseConvert(p Params) (models.ConvertParams, error) {
	const op = "validator.convert"

	raw, ok := p.Get("format")
	if !ok {
		return models.ConvertParams{}, apperrors.InvalidField(op, "format", "Format parameter is required")
	}

	format, ok := models.ParseFormat(raw)
	if !ok || format == models.FormatGIF {
		return models.ConvertParams{}, unsupportedFormat(op, "format", "Invalid format. Supported formats: jpeg, jpg, png, webp")
	}

	quality, err := optionalQuality(op, p)
	if err != nil {
		return models.ConvertParams{}, err
	}
	return models.ConvertParams{Format: format, Requested: strings.ToLower(raw), Quality: quality}, nil
}

func ParseRemoveBackground(p Params) (models.RemoveBackgroundParams, error) {
	const op = "validator.remove_background"

	raw, ok := p.Get("return_format")
	if !ok {
		return models.RemoveBackgroundParams{Format: models.FormatPNG}, nil
	}

	format, ok := models.ParseFormat(raw)
	if !ok || (format != models.FormatPNG && format != models.FormatWebP) {
		return models.RemoveBackgroundParams{}, unsupportedFormat(op, "return_format", "Invalid return format. Supported formats: png, webp")
	}
	return models.RemoveBackgroundParams{Format: format}, nil
}

func ParseBrightness(p Params) (models.BrightnessParams, error) {
	const op = "validator.brightness"

	delta, err := requiredAdjustment(op, p, "brightness")
	if err != nil {
		return models.BrightnessParams{}, err
	}
	output, err := parseOutput(op, p)
	if err != nil {
		return models.BrightnessParams{}, err
	}
	return models.BrightnessParams{Delta: delta, Output: output}, nil
}

func ParseContrast(p Params) (models.ContrastParams, error) {
	const op = "validator.contrast"

	delta, err := requiredAdjustment(op, p, "contrast")
	if err != nil {
		return models.ContrastParams{}, err
	}
	output, err := parseOutput(op, p)
	if err != nil {
		return models.ContrastParams{}, err
	}
	return models.ContrastParams{Delta: delta, Output: output}, nil
}

func ParseGrayscale(p Params) (models.GrayscaleParams, error) {
	output, err := parseOutput("validator.grayscale", p)
	if err != nil {
		return models.GrayscaleParams{}, err
	}
	return models.GrayscaleParams{Output: output}, nil
}

func ParseWatermark(p Params) (models.WatermarkParams, error) {
	const op = "validator.watermark"

	text, ok := p.Get("text")
	if !ok {
		return models.WatermarkParams{}, apperrors.InvalidField(op, "text", "Text parameter is required")
	}

	position := DefaultWatermarkSpot
	if raw, ok := p.Get("position"); ok {
		position = strings.ToLower(raw)
		switch position {
		case models.PositionTopLeft, models.PositionTopRight, models.PositionBottomLeft,
			models.PositionBottomRight, models.PositionCenter:
		default:
			return models.WatermarkParams{}, apperrors.InvalidField(op, "position",
				"Invalid position. Supported positions: top-left, top-right, bottom-left, bottom-right, center")
		}
	}

	opacity := DefaultOpacity
	if raw, ok := p.Get("opacity"); ok {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
			return models.WatermarkParams{}, apperrors.InvalidField(op, "opacity", "Opacity must be a number between 0 and 1")
		}
		opacity = v
	}

	color := DefaultWatermarkHex
	if raw, ok := p.Get("color"); ok {
		if !strings.HasPrefix(raw, "#") {
			raw = "#" + raw
		}
		if !isHexColor(raw) {
			return models.WatermarkParams{}, apperrors.InvalidField(op, "color", "Color must be a hex value such as #ffffff")
		}
		color = strings.ToLower(raw)
	}

	output, err := parseOutput(op, p)
	if err != nil {
		return models.WatermarkParams{}, err
	}

	return models.WatermarkParams{
		Text:     text,
		Position: position,
		Opacity:  opacity,
		Color:    color,
		Output:   output,
	}, nil
}

func optionalQuality(op string, p Params) (int, error) {
	raw, ok := p.Get("quality")
	if !ok {
		return models.DefaultQuality, nil
	}
	quality, err := strconv.Atoi(raw)
	if err != nil || quality < 1 || quality > 100 {
		return 0, apperrors.InvalidField(op, "quality", "Quality must be a number between 1 and 100")
	}
	return quality, nil
}

func requiredAdjustment(op string, p Params, field string) (float64, error) {
	raw, ok := p.Get(field)
	if !ok {
		return 0, apperrors.InvalidField(op, field, fmt.Sprintf("%s parameter is required", capitalize(field)))
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < minAdjustment || v > maxAdjustment {
		return 0, apperrors.InvalidField(op, field,
			fmt.Sprintf("%s must be a number between %d and %d", capitalize(field), minAdjustment, maxAdjustment))
	}
	return v, nil
}

// parseOutput reads output_format and quality for the pixel transforms. Output defaults to
// png so that chained requests stay lossless.
func parseOutput(op string, p Params) (models.OutputOptions, error) {
	format := models.FormatPNG
	if raw, ok := p.Get("output_format"); ok {
		f, ok := models.ParseFormat(raw)
		if !ok || f == models.FormatGIF {
			return models.OutputOptions{}, unsupportedFormat(op, "output_format",
				"Invalid output format. Supported formats: jpeg, jpg, png, webp")
		}
		format = f
	}

	quality, err := optionalQuality(op, p)
	if err != nil {
		return models.OutputOptions{}, err
	}
	if !format.Lossy() {
		quality = 0
	}
	return models.OutputOptions{Format: format, Quality: quality}, nil
}

func unsupportedFormat(op, field, message string) error {
	return &apperrors.Error{
		Kind:    apperrors.KindUnsupportedFormat,
		Op:      op,
		Message: message,
		Field:   field,
	}
}

func isHexColor(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
