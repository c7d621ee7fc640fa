package models

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type APIResponse struct {
	Status    string         `json:"status"`
	OutputURL string         `json:"output_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Message   string         `json:"message,omitempty"`
}
