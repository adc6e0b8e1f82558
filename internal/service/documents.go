package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edupulse/edupulse/internal/domain/document"
	"github.com/edupulse/edupulse/internal/ports"
)

var (
	// ErrUploadTooLarge is returned when an upload exceeds the size cap.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
	// ErrInvalidDocumentPath is returned for traversal attempts or empty names.
	ErrInvalidDocumentPath = errors.New("invalid document path")
)

const (
	defaultSignedURLTTL   = 10 * time.Minute
	defaultMaxUploadBytes = 10 << 20 // 10 MiB
	previewConcurrency    = 4
)

// DocumentServiceOptions groups dependencies for DocumentService.
type DocumentServiceOptions struct {
	Store          ports.DocumentStore
	SignedURLTTL   time.Duration
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// DocumentService manages the student document vault. Every path is scoped
// under the owning user's ID, so one student can never list or fetch
// another's documents.
type DocumentService struct {
	store          ports.DocumentStore
	signedURLTTL   time.Duration
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(opts DocumentServiceOptions) *DocumentService {
	ttl := opts.SignedURLTTL
	if ttl <= 0 {
		ttl = defaultSignedURLTTL
	}
	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		store:          opts.Store,
		signedURLTTL:   ttl,
		maxUploadBytes: maxBytes,
		logger:         logger,
	}
}

// Listing is a user's documents plus preview URLs for the previewable ones.
type Listing struct {
	Documents []document.Info   `json:"documents"`
	Previews  map[string]string `json:"previews"`
}

// List returns the user's documents and preloads signed preview URLs for
// images and PDFs. A preview that fails to sign is skipped, not fatal.
func (s *DocumentService) List(ctx context.Context, userID string) (Listing, error) {
	docs, err := s.store.List(ctx, userID+"/")
	if err != nil {
		return Listing{}, fmt.Errorf("list documents: %w", err)
	}

	listing := Listing{Documents: docs, Previews: make(map[string]string)}

	var (
		g, gctx = errgroup.WithContext(ctx)
		results = make([]string, len(docs))
	)
	g.SetLimit(previewConcurrency)
	for i, doc := range docs {
		if !previewable(doc.ContentType) {
			continue
		}
		g.Go(func() error {
			url, signErr := s.store.CreateSignedURL(gctx, doc.Path, s.signedURLTTL)
			if signErr != nil {
				s.logger.WarnContext(gctx, "preview sign failed", "path", doc.Path, "error", signErr)
				return nil
			}
			results[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Listing{}, fmt.Errorf("preload previews: %w", err)
	}
	for i, doc := range docs {
		if results[i] != "" {
			listing.Previews[doc.Name] = results[i]
		}
	}
	return listing, nil
}

// Upload stores a document under the user's prefix.
func (s *DocumentService) Upload(
	ctx context.Context,
	userID string,
	upload UploadInput,
) (document.Info, error) {
	if int64(len(upload.Data)) > s.maxUploadBytes {
		return document.Info{}, ErrUploadTooLarge
	}
	path, err := scopedPath(userID, upload.Folder, upload.Name)
	if err != nil {
		return document.Info{}, err
	}

	info, err := s.store.Upload(ctx, path, upload.ContentType, upload.Data)
	if err != nil {
		return document.Info{}, fmt.Errorf("upload document: %w", err)
	}
	return info, nil
}

// UploadInput groups parameters for Upload.
type UploadInput struct {
	Folder      string
	Name        string
	ContentType string
	Data        []byte
}

// Download fetches one of the user's documents.
func (s *DocumentService) Download(ctx context.Context, userID, name string) (document.Blob, error) {
	path, err := ownedPath(userID, name)
	if err != nil {
		return document.Blob{}, err
	}
	return s.store.Download(ctx, path)
}

// SignedURL issues a time-limited URL for one of the user's documents.
func (s *DocumentService) SignedURL(ctx context.Context, userID, name string) (string, error) {
	path, err := ownedPath(userID, name)
	if err != nil {
		return "", err
	}
	return s.store.CreateSignedURL(ctx, path, s.signedURLTTL)
}

// Delete removes one of the user's documents.
func (s *DocumentService) Delete(ctx context.Context, userID, name string) error {
	path, err := ownedPath(userID, name)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, path)
}

func previewable(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

func scopedPath(userID, folder, name string) (string, error) {
	if userID == "" || name == "" {
		return "", ErrInvalidDocumentPath
	}
	for _, part := range []string{userID, folder, name} {
		if strings.Contains(part, "..") || strings.Contains(part, "//") || strings.HasPrefix(part, "/") {
			return "", ErrInvalidDocumentPath
		}
	}
	if folder == "" {
		return userID + "/" + name, nil
	}
	return userID + "/" + folder + "/" + name, nil
}

// ownedPath resolves a document reference relative to the user's prefix.
// Callers may pass "folder/name" or a bare name.
func ownedPath(userID, name string) (string, error) {
	if userID == "" || name == "" {
		return "", ErrInvalidDocumentPath
	}
	if strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return "", ErrInvalidDocumentPath
	}
	return userID + "/" + name, nil
}
