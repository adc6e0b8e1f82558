package data

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/edupulse/edupulse/internal/data/pgxutil"
	"github.com/edupulse/edupulse/internal/domain/document"
)

// DocumentRepo stores student documents as bytea rows and issues HMAC-signed
// time-limited download URLs. Document paths follow the
// "<userID>/<folder>/<name>" convention.
type DocumentRepo struct {
	DB         *sql.DB
	SigningKey []byte
	BaseURL    string
}

// DocumentRepoOptions bundles dependencies for NewDocumentRepo.
type DocumentRepoOptions struct {
	DB         *sql.DB
	SigningKey []byte
	BaseURL    string
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(opts DocumentRepoOptions) *DocumentRepo {
	return &DocumentRepo{DB: opts.DB, SigningKey: opts.SigningKey, BaseURL: strings.TrimRight(opts.BaseURL, "/")}
}

// List returns info for every document whose path starts with prefix,
// ordered by name.
func (r *DocumentRepo) List(ctx context.Context, prefix string) ([]document.Info, error) {
	var out []document.Info
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT path, name, content_type, size_bytes, updated_at
			FROM documents
			WHERE path LIKE $1 || '%'
			ORDER BY name ASC`, prefix)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[document.Info])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

// Upload inserts or replaces the document at path.
func (r *DocumentRepo) Upload(
	ctx context.Context,
	docPath string,
	contentType string,
	data []byte,
) (document.Info, error) {
	info := document.Info{
		Path:        docPath,
		Name:        path.Base(docPath),
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		UpdatedAt:   time.Now().UTC(),
	}
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO documents (path, name, content_type, size_bytes, data, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (path) DO UPDATE
			SET name = EXCLUDED.name,
			    content_type = EXCLUDED.content_type,
			    size_bytes = EXCLUDED.size_bytes,
			    data = EXCLUDED.data,
			    updated_at = EXCLUDED.updated_at`,
			info.Path, info.Name, info.ContentType, info.SizeBytes, data, info.UpdatedAt)
		return err
	}})
	if err != nil {
		return document.Info{}, fmt.Errorf("upload document: %w", err)
	}
	return info, nil
}

// Download returns the document stored at path.
func (r *DocumentRepo) Download(ctx context.Context, docPath string) (document.Blob, error) {
	var blob document.Blob
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT path, name, content_type, size_bytes, updated_at, data
			FROM documents WHERE path = $1`, docPath)
		return row.Scan(
			&blob.Info.Path,
			&blob.Info.Name,
			&blob.Info.ContentType,
			&blob.Info.SizeBytes,
			&blob.Info.UpdatedAt,
			&blob.Data,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Blob{}, ErrDocumentNotFound
		}
		return document.Blob{}, fmt.Errorf("download document: %w", err)
	}
	return blob, nil
}

// Delete removes the document at path. Deleting an absent path is not an error.
func (r *DocumentRepo) Delete(ctx context.Context, docPath string) error {
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, `DELETE FROM documents WHERE path = $1`, docPath)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// CreateSignedURL issues a URL that grants read access to the document until
// the TTL elapses, without requiring an authenticated session.
func (r *DocumentRepo) CreateSignedURL(
	ctx context.Context,
	docPath string,
	ttl time.Duration,
) (string, error) {
	// Only sign paths that exist; a signed URL to nothing is just confusing.
	exists := false
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE path = $1)`, docPath)
		return row.Scan(&exists)
	})
	if err != nil {
		return "", fmt.Errorf("check document: %w", err)
	}
	if !exists {
		return "", ErrDocumentNotFound
	}

	expires := time.Now().Add(ttl).Unix()
	token := r.signToken(docPath, expires)
	return fmt.Sprintf("%s/documents/signed?path=%s&expires=%d&sig=%s",
		r.BaseURL, url.QueryEscape(docPath), expires, token), nil
}

// VerifySignedPath checks a path/expires/sig triple from a signed URL and
// returns ErrSignatureInvalid when the signature does not match or the URL
// has expired.
func (r *DocumentRepo) VerifySignedPath(docPath string, expiresUnix string, sig string) error {
	expires, err := strconv.ParseInt(expiresUnix, 10, 64)
	if err != nil {
		return ErrSignatureInvalid
	}
	if time.Now().Unix() > expires {
		return ErrSignatureInvalid
	}
	want := r.signToken(docPath, expires)
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return ErrSignatureInvalid
	}
	return nil
}

func (r *DocumentRepo) signToken(docPath string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, r.SigningKey)
	fmt.Fprintf(mac, "%s\n%d", docPath, expiresUnix)
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
