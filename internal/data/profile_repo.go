package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edupulse/edupulse/internal/data/pgxutil"
	domainauth "github.com/edupulse/edupulse/internal/domain/auth"
	"github.com/edupulse/edupulse/internal/domain/profile"
)

const profileColumns = `id, role, name, email, password_hash, aadhaar, apar_id, aishe_code, official_id, created_at`

// ProfileRepo provides database operations for the profiles table, the
// authoritative role store.
type ProfileRepo struct {
	DB *sql.DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{DB: db}
}

// FindByUser returns the zero-or-one profile whose id equals userID.
func (r *ProfileRepo) FindByUser(ctx context.Context, userID string) (profile.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileColumns)
	return r.findOne(ctx, query, userID)
}

// FindByIdentifier returns the profile matching the role-specific identifier
// column. The column name comes from a closed mapping, never from input.
func (r *ProfileRepo) FindByIdentifier(
	ctx context.Context,
	role domainauth.Role,
	identifier string,
) (profile.Profile, error) {
	column, err := profile.IdentifierColumn(role)
	if err != nil {
		return profile.Profile{}, ErrProfileNotFound
	}
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE %s = $1 AND role = $2`, profileColumns, column)
	return r.findOne(ctx, query, strings.TrimSpace(identifier), string(role))
}

// Create inserts a new profile. The identifier lands in the column matching
// the profile's role; duplicates map to ErrIdentifierExists.
func (r *ProfileRepo) Create(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	if !p.Role.Valid() {
		return profile.Profile{}, fmt.Errorf("create profile: invalid role %q", p.Role)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`
		INSERT INTO profiles (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s`, profileColumns, profileColumns)

	var out profile.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			p.ID,
			string(p.Role),
			strings.TrimSpace(p.Name),
			strings.ToLower(strings.TrimSpace(p.Email)),
			p.PasswordHash,
			p.Aadhaar,
			p.AparID,
			p.AisheCode,
			p.OfficialID,
			p.CreatedAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[profile.Profile])
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return profile.Profile{}, ErrIdentifierExists
		}
		return profile.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return out, nil
}

func (r *ProfileRepo) findOne(ctx context.Context, query string, args ...any) (profile.Profile, error) {
	var out profile.Profile
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[profile.Profile])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("query profile: %w", err)
	}
	return out, nil
}
