package validator

import (
	"testing"

	"github.com/phambaophuc/image-toolkit/internal/apperrors"
	"github.com/phambaophuc/image-toolkit/internal/models"
)

func assertField(t *testing.T, err error, kind apperrors.Kind, field string) {
	t.Helper()
	if !apperrors.IsKind(err, kind) {
		t.Fatalf("expected %s, got %v", kind, err)
	}
	if e, ok := err.(*apperrors.Error); !ok || e.Field != field {
		t.Fatalf("expected field %q, got %v", field, err)
	}
}

func TestParseCompress(t *testing.T) {
	got, err := ParseCompress(Params{})
	if err != nil || got.Quality != 80 {
		t.Fatalf("default: got %+v, %v", got, err)
	}

	got, err = ParseCompress(Params{"quality": " 35 "})
	if err != nil || got.Quality != 35 {
		t.Fatalf("explicit: got %+v, %v", got, err)
	}

	for _, q := range []string{"0", "101", "abc", "-5", "50.5"} {
		_, err := ParseCompress(Params{"quality": q})
		assertField(t, err, apperrors.KindInvalidParameter, "quality")
	}
}

func TestParseResize(t *testing.T) {
	got, err := ParseResize(Params{"width": "800", "height": "600"})
	if err != nil {
		t.Fatalf("ParseResize failed: %v", err)
	}
	want := models.ResizeParams{
		Width: 800, Height: 600, MaintainAspectRatio: true,
		Output: models.OutputOptions{Format: models.FormatPNG},
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	got, err = ParseResize(Params{
		"width": "10", "height": "20", "maintain_aspect_ratio": "false",
		"output_format": "jpg", "quality": "70",
	})
	if err != nil {
		t.Fatalf("ParseResize failed: %v", err)
	}
	if got.MaintainAspectRatio || got.Output.Format != models.FormatJPEG || got.Output.Quality != 70 {
		t.Errorf("got %+v", got)
	}

	// Anything other than "false" keeps the aspect ratio.
	got, _ = ParseResize(Params{"width": "1", "height": "1", "maintain_aspect_ratio": "no"})
	if !got.MaintainAspectRatio {
		t.Error("only \"false\" should disable the aspect ratio")
	}
}

func TestParseResize_Errors(t *testing.T) {
	tests := []struct {
		name  string
		p     Params
		kind  apperrors.Kind
		field string
	}{
		{"missing height", Params{"width": "10"}, apperrors.KindInvalidParameter, "height"},
		{"zero width", Params{"width": "0", "height": "10"}, apperrors.KindInvalidParameter, "width"},
		{"bad height", Params{"width": "10", "height": "tall"}, apperrors.KindInvalidParameter, "height"},
		{"gif output", Params{"width": "10", "height": "10", "output_format": "gif"}, apperrors.KindUnsupportedFormat, "output_format"},
		{"bad quality", Params{"width": "10", "height": "10", "quality": "0"}, apperrors.KindInvalidParameter, "quality"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResize(tt.p)
			assertField(t, err, tt.kind, tt.field)
		})
	}
}

func TestParseCrop(t *testing.T) {
	got, err := ParseCrop(Params{"x": "0", "y": "5", "width": "10", "height": "20"})
	if err != nil {
		t.Fatalf("ParseCrop failed: %v", err)
	}
	if got.X != 0 || got.Y != 5 || got.Width != 10 || got.Height != 20 || got.Output.Format != models.FormatPNG {
		t.Errorf("got %+v", got)
	}

	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"missing y", Params{"x": "0", "width": "1", "height": "1"}, "y"},
		{"negative x", Params{"x": "-1", "y": "0", "width": "1", "height": "1"}, "x"},
		{"zero width", Params{"x": "0", "y": "0", "width": "0", "height": "1"}, "width"},
		{"non numeric height", Params{"x": "0", "y": "0", "width": "1", "height": "h"}, "height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCrop(tt.p)
			assertField(t, err, apperrors.KindInvalidParameter, tt.field)
		})
	}
}

func TestParseConvert(t *testing.T) {
	got, err := ParseConvert(Params{"format": "JPG"})
	if err != nil || got.Format != models.FormatJPEG || got.Requested != "jpg" || got.Quality != 80 {
		t.Fatalf("got %+v, %v", got, err)
	}

	_, err = ParseConvert(Params{})
	assertField(t, err, apperrors.KindInvalidParameter, "format")

	for _, f := range []string{"bmp", "gif", "tiff"} {
		_, err = ParseConvert(Params{"format": f})
		assertField(t, err, apperrors.KindUnsupportedFormat, "format")
	}

	_, err = ParseConvert(Params{"format": "webp", "quality": "500"})
	assertField(t, err, apperrors.KindInvalidParameter, "quality")
}

func TestParseRemoveBackground(t *testing.T) {
	got, err := ParseRemoveBackground(Params{})
	if err != nil || got.Format != models.FormatPNG {
		t.Fatalf("default: got %+v, %v", got, err)
	}

	got, err = ParseRemoveBackground(Params{"return_format": "WEBP"})
	if err != nil || got.Format != models.FormatWebP {
		t.Fatalf("webp: got %+v, %v", got, err)
	}

	_, err = ParseRemoveBackground(Params{"return_format": "jpeg"})
	assertField(t, err, apperrors.KindUnsupportedFormat, "return_format")
}

func TestParseAdjustments(t *testing.T) {
	b, err := ParseBrightness(Params{"brightness": "-25.5"})
	if err != nil || b.Delta != -25.5 {
		t.Fatalf("brightness: got %+v, %v", b, err)
	}

	c, err := ParseContrast(Params{"contrast": "100", "output_format": "webp"})
	if err != nil || c.Delta != 100 || c.Output.Format != models.FormatWebP || c.Output.Quality != 80 {
		t.Fatalf("contrast: got %+v, %v", c, err)
	}

	_, err = ParseBrightness(Params{})
	assertField(t, err, apperrors.KindInvalidParameter, "brightness")

	for _, v := range []string{"101", "-100.1", "NaN", "bright"} {
		_, err = ParseContrast(Params{"contrast": v})
		assertField(t, err, apperrors.KindInvalidParameter, "contrast")
	}

	g, err := ParseGrayscale(Params{"output_format": "png", "quality": "10"})
	if err != nil || g.Output.Format != models.FormatPNG || g.Output.Quality != 0 {
		t.Fatalf("grayscale: got %+v, %v", g, err)
	}
}

func TestParseWatermark(t *testing.T) {
	got, err := ParseWatermark(Params{"text": "© demo"})
	if err != nil {
		t.Fatalf("ParseWatermark failed: %v", err)
	}
	if got.Position != models.PositionBottomRight || got.Opacity != 0.5 || got.Color != "#c8c8c8" {
		t.Errorf("defaults: got %+v", got)
	}

	got, err = ParseWatermark(Params{"text": "x", "position": "Center", "opacity": "1", "color": "FF0000"})
	if err != nil {
		t.Fatalf("ParseWatermark failed: %v", err)
	}
	if got.Position != models.PositionCenter || got.Opacity != 1 || got.Color != "#ff0000" {
		t.Errorf("explicit: got %+v", got)
	}

	tests := []struct {
		name  string
		p     Params
		field string
	}{
		{"missing text", Params{"text": "  "}, "text"},
		{"bad position", Params{"text": "x", "position": "middle"}, "position"},
		{"opacity above one", Params{"text": "x", "opacity": "1.5"}, "opacity"},
		{"bad color", Params{"text": "x", "color": "#zzzzzz"}, "color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWatermark(tt.p)
			assertField(t, err, apperrors.KindInvalidParameter, tt.field)
		})
	}
}
