package document

// Package document contains domain types for the student document vault.

import "time"

// Info describes a stored document without its contents.
type Info struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Blob is a downloaded document.
type Blob struct {
	Info Info
	Data []byte
}
