package models

type ResizeParams struct {
	Width               int           `json:"width"`
	Height              int           `json:"height"`
	MaintainAspectRatio bool          `json:"maintain_aspect_ratio"`
	Output              OutputOptions `json:"output"`
}
