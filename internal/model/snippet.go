package model

import "time"

// Snippet records a piece of code written to storage by a save action.
// StoragePath is the location reported back to the user (a filesystem path
// for the local backend, an s3:// URI for object storage).
type Snippet struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Language    string    `json:"language"`
	Extension   string    `json:"extension"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
