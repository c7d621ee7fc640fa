package models

type CropParams struct {
	X      int           `json:"x"`
	Y      int           `json:"y"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Output OutputOptions `json:"output"`
}
