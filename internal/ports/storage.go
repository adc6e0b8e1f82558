package ports

import (
	"context"
	"time"

	"github.com/edupulse/edupulse/internal/domain/document"
)

// DocumentStore persists student documents. Paths are "<userID>/<folder>/<name>".
// Failures must surface as errors the caller can show inline; they never
// escalate past the handler layer.
type DocumentStore interface {
	List(ctx context.Context, prefix string) ([]document.Info, error)
	Upload(ctx context.Context, path string, contentType string, data []byte) (document.Info, error)
	Download(ctx context.Context, path string) (document.Blob, error)
	Delete(ctx context.Context, path string) error

	// CreateSignedURL issues a time-limited URL granting read access to the
	// document without an authenticated session.
	CreateSignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
