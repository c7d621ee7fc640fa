package models

import "time"

// Artifact is a persisted, write-once byte sequence: an uploaded original or a transform output.
type Artifact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArtifactEvent is published after a transform output has been stored.
type ArtifactEvent struct {
	Operation OperationKind  `json:"operation"`
	Input     *Artifact      `json:"input"`
	Output    *Artifact      `json:"output"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
