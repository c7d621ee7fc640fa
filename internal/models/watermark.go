package models

const (
	PositionTopLeft     = "top-left"
	PositionTopRight    = "top-right"
	PositionBottomLeft  = "bottom-left"
	PositionBottomRight = "bottom-right"
	PositionCenter      = "center"
)

type WatermarkParams struct {
	Text     string        `json:"text"`
	Position string        `json:"position"`
	Opacity  float64       `json:"opacity"`
	Color    string        `json:"color"`
	Output   OutputOptions `json:"output"`
}
