package models

// BrightnessParams scales R, G and B by 1+Delta/100.
type BrightnessParams struct {
	Delta  float64       `json:"brightness"`
	Output OutputOptions `json:"output"`
}

type ContrastParams struct {
	Delta  float64       `json:"contrast"`
	Output OutputOptions `json:"output"`
}

type GrayscaleParams struct {
	Output OutputOptions `json:"output"`
}
