package processor

import (
	"math"

	"github.com/phambaophuc/image-toolkit/internal/models"
)

// Operation is one validated transform request applied to a decoded input.
type Operation interface {
	Kind() models.OperationKind
	Apply(src *ImageBuffer) (*Result, error)
}

// Result is an encoded output plus the facts reported back to the caller.
type Result struct {
	*Encoded
	Metadata map[string]any
}

type CompressOperation struct {
	Params models.CompressParams
}

func (o CompressOperation) Kind() models.OperationKind { return models.OperationCompress }

func (o CompressOperation) Apply(src *ImageBuffer) (*Result, error) {
	out, err := CompressQuality(src, o.Params.Quality)
	if err != nil {
		return nil, err
	}

	return &Result{
		Encoded: out,
		Metadata: map[string]any{
			"original_size":      src.EncodedSize,
			"compressed_size":    out.Size(),
			"savings_percentage": savingsPercentage(src.EncodedSize, out.Size()),
			"quality":            out.Quality,
			"format":             out.Format,
		},
	}, nil
}

type ResizeOperation struct {
	Params models.ResizeParams
}

func (o ResizeOperation) Kind() models.OperationKind { return models.OperationResize }

func (o ResizeOperation) Apply(src *ImageBuffer) (*Result, error) {
	resized, err := Resize(src, o.Params.Width, o.Params.Height, o.Params.MaintainAspectRatio)
	if err != nil {
		return nil, err
	}

	out, err := EncodeOutput(resized, o.Params.Output)
	if err != nil {
		return nil, err
	}

	return &Result{
		Encoded: out,
		Metadata: map[string]any{
			"original_width":        src.Width(),
			"original_height":       src.Height(),
			"new_width":             out.Width,
			"new_height":            out.Height,
			"target_width":          o.Params.Width,
			"target_height":         o.Params.Height,
			"maintain_aspect_ratio": o.Params.MaintainAspectRatio,
			"format":                out.Format,
		},
	}, nil
}

type CropOperation struct {
	Params models.CropParams
}

func (o CropOperation) Kind() models.OperationKind { return models.OperationCrop }

func (o CropOperation) Apply(src *ImageBuffer) (*Result, error) {
	cropped, err := Crop(src, o.Params.X, o.Params.Y, o.Params.Width, o.Params.Height)
	if err != nil {
		return nil, err
	}

	out, err := EncodeOutput(cropped, o.Params.Output)
	if err != nil {
		return nil, err
	}

	return &Result{
		Encoded: out,
		Metadata: map[string]any{
			"original_width":  src.Width(),
			"original_height": src.Height(),
			"crop_x":          o.Params.X,
			"crop_y":          o.Params.Y,
			"crop_width":      o.Params.Width,
			"crop_height":     o.Params.Height,
			"format":          out.Format,
		},
	}, nil
}

type ConvertOperation struct {
	Params models.ConvertParams
}

func (o ConvertOperation) Kind() models.OperationKind { return models.OperationConvert }

func (o ConvertOperation) Apply(src *ImageBuffer) (*Result, error) {
	out, err := ConvertFormat(src, string(o.Params.Format), o.Params.Quality)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"original_format":  src.Format,
		"original_size":    src.EncodedSize,
		"converted_format": o.convertedName(out.Format),
		"converted_size":   out.Size(),
	}
	if out.Format.Lossy() {
		metadata["quality"] = out.Quality
	}

	return &Result{Encoded: out, Metadata: metadata}, nil
}

func (o ConvertOperation) convertedName(format models.Format) string {
	if o.Params.Requested != "" {
		return o.Params.Requested
	}
	return string(format)
}

// RemoveBackgroundOperation only guarantees an alpha channel; see EnsureAlpha.
type RemoveBackgroundOperation struct {
	Params models.RemoveBackgroundParams
}

func (o RemoveBackgroundOperation) Kind() models.OperationKind {
	return models.OperationRemoveBackground
}

func (o RemoveBackgroundOperation) Apply(src *ImageBuffer) (*Result, error) {
	format := o.Params.Format
	if format == "" {
		format = models.FormatPNG
	}

	// Quality 0 keeps webp lossless so the alpha channel survives.
	out, err := encode(EnsureAlpha(src), format, 0)
	if err != nil {
		return nil, err
	}

	return &Result{
		Encoded:  out,
		Metadata: map[string]any{"format": out.Format},
	}, nil
}

type BrightnessOperation struct {
	Params models.BrightnessParams
}

func (o BrightnessOperation) Kind() models.OperationKind { return models.OperationBrightness }

func (o BrightnessOperation) Apply(src *ImageBuffer) (*Result, error) {
	adjusted, err := AdjustBrightness(src, o.Params.Delta)
	if err != nil {
		return nil, err
	}
	return encodeAdjusted(adjusted, o.Params.Output, "brightness", o.Params.Delta)
}

type ContrastOperation struct {
	Params models.ContrastParams
}

func (o ContrastOperation) Kind() models.OperationKind { return models.OperationContrast }

func (o ContrastOperation) Apply(src *ImageBuffer) (*Result, error) {
	adjusted, err := AdjustContrast(src, o.Params.Delta)
	if err != nil {
		return nil, err
	}
	return encodeAdjusted(adjusted, o.Params.Output, "contrast", o.Params.Delta)
}

type GrayscaleOperation struct {
	Params models.GrayscaleParams
}

func (o GrayscaleOperation) Kind() models.OperationKind { return models.OperationGrayscale }

func (o GrayscaleOperation) Apply(src *ImageBuffer) (*Result, error) {
	out, err := EncodeOutput(Grayscale(src), o.Params.Output)
	if err != nil {
		return nil, err
	}

	return &Result{
		Encoded:  out,
		Metadata: map[string]any{"format": out.Format},
	}, nil
}

type WatermarkOperation struct {
	Params models.WatermarkParams
}

func (o WatermarkOperation) Kind() models.OperationKind { return models.OperationWatermark }

func (o WatermarkOperation) Apply(src *ImageBuffer) (*Result, error) {
	marked, err := Watermark(src, o.Params.Text, o.Params.Position, o.Params.Opacity, o.Params.Color)
	if err != nil {
		return nil, err
	}

	out, err := EncodeOutput(marked, o.Params.Output)
	if err != nil {
		return nil, err
	}

	return &Result{
		Encoded: out,
		Metadata: map[string]any{
			"text":     o.Params.Text,
			"position": o.Params.Position,
			"format":   out.Format,
		},
	}, nil
}

func encodeAdjusted(buf *ImageBuffer, opts models.OutputOptions, key string, delta float64) (*Result, error) {
	out, err := EncodeOutput(buf, opts)
	if err != nil {
		return nil, err
	}

	return &Result{
		Encoded: out,
		Metadata: map[string]any{
			key:      delta,
			"format": out.Format,
		},
	}, nil
}

func savingsPercentage(originalSize, newSize int) int {
	if originalSize <= 0 {
		return 0
	}
	return int(math.Round(float64(originalSize-newSize) / float64(originalSize) * 100))
}
