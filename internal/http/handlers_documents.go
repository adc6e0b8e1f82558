package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/edupulse/edupulse/internal/domain/document"
	"github.com/edupulse/edupulse/internal/ports"
	"github.com/edupulse/edupulse/internal/service"
)

// uploadFormMemory caps the in-memory portion of multipart parsing.
const uploadFormMemory = 4 << 20 // 4 MiB

// SignedDocumentStore serves documents through signed URLs, outside any
// session. Only implementations that mint signed URLs need to provide it.
type SignedDocumentStore interface {
	VerifySignedPath(path, expires, sig string) error
	Download(ctx context.Context, path string) (document.Blob, error)
}

// DocumentHandlers provides HTTP handlers for the student document vault.
// Every session-scoped handler reads the owner from the guard-resolved
// session in the request context.
type DocumentHandlers struct {
	Svc    *service.DocumentService
	Signed SignedDocumentStore // optional; enables GET /documents/signed
}

// List returns the caller's documents with preview URLs.
// GET /api/documents.
func (h *DocumentHandlers) List(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeNoSession(w)
		return
	}

	listing, err := h.Svc.List(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "list_failed",
			Err:     err,
		})
		return
	}
	WriteJSON(w, http.StatusOK, listing)
}

// Upload stores a document from a multipart form. The form carries the file
// under "file" and an optional "folder" field.
// POST /api/documents.
func (h *DocumentHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeNoSession(w)
		return
	}

	if err := r.ParseMultipartForm(uploadFormMemory); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_form",
			Err:     err,
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_file",
			Err:     errors.New("a file part named \"file\" is required"),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "read_failed",
			Err:     err,
		})
		return
	}

	info, err := h.Svc.Upload(r.Context(), session.UserID, service.UploadInput{
		Folder:      r.FormValue("folder"),
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeDocumentError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, info)
}

// Download streams one of the caller's documents.
// GET /api/documents/{name...}.
func (h *DocumentHandlers) Download(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeNoSession(w)
		return
	}

	blob, err := h.Svc.Download(r.Context(), session.UserID, r.PathValue("name"))
	if err != nil {
		writeDocumentError(w, err)
		return
	}

	serveBlob(w, blob)
}

// Delete removes one of the caller's documents.
// DELETE /api/documents/{name...}.
func (h *DocumentHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeNoSession(w)
		return
	}

	if err := h.Svc.Delete(r.Context(), session.UserID, r.PathValue("name")); err != nil {
		writeDocumentError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SignURL issues a time-limited share link for one of the caller's documents.
// POST /api/documents/sign with {"name"}.
func (h *DocumentHandlers) SignURL(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeNoSession(w)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	url, err := h.Svc.SignedURL(r.Context(), session.UserID, req.Name)
	if err != nil {
		writeDocumentError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

// ServeSigned serves a document through a signed URL, with no session at all.
// The signature, not a cookie, is the entire authorization.
// GET /documents/signed?path=<path>&expires=<unix>&sig=<sig>.
func (h *DocumentHandlers) ServeSigned(w http.ResponseWriter, r *http.Request) {
	if h.Signed == nil {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	path, expires, sig := q.Get("path"), q.Get("expires"), q.Get("sig")
	if err := h.Signed.VerifySignedPath(path, expires, sig); err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "invalid_signature",
			Err:     errors.New("signature invalid or expired"),
		})
		return
	}

	blob, err := h.Signed.Download(r.Context(), path)
	if err != nil {
		writeDocumentError(w, err)
		return
	}

	serveBlob(w, blob)
}

func serveBlob(w http.ResponseWriter, blob document.Blob) {
	contentType := blob.Info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(blob.Info.SizeBytes, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob.Data)
}

func writeNoSession(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// writeDocumentError maps service errors onto HTTP responses.
func writeDocumentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidDocumentPath):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: err})
	case errors.Is(err, service.ErrUploadTooLarge):
		WriteError(w, ErrorParams{Code: http.StatusRequestEntityTooLarge, ErrCode: "upload_too_large", Err: err})
	case errors.Is(err, ports.ErrDocumentNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "document_not_found", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "document_error", Err: err})
	}
}
