package models

type OperationKind string

const (
	OperationCompress         OperationKind = "compress"
	OperationResize           OperationKind = "resize"
	OperationCrop             OperationKind = "crop"
	OperationConvert          OperationKind = "convert"
	OperationRemoveBackground OperationKind = "remove_background"
	OperationBrightness       OperationKind = "brightness"
	OperationContrast         OperationKind = "contrast"
	OperationGrayscale        OperationKind = "grayscale"
	OperationWatermark        OperationKind = "watermark"
)

const DefaultQuality = 80

// OutputOptions selects the encoding of a pixel transform's result.
type OutputOptions struct {
	Format  Format `json:"format"`
	Quality int    `json:"quality"`
}

type CompressParams struct {
	Quality int `json:"quality"`
}

type ConvertParams struct {
	Format Format `json:"format"`
	// Requested is the lower-cased format name as sent, e.g. "jpg" for FormatJPEG.
	Requested string `json:"requested_format"`
	Quality   int    `json:"quality"`
}

type RemoveBackgroundParams struct {
	Format Format `json:"return_format"`
}
