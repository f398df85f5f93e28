package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"expertise-marketplace/internal/database"
	"expertise-marketplace/internal/domain/expert"

	"github.com/jackc/pgx/v5"
)

// PostgresExpertRepository keeps one JSONB document per expert. seq preserves
// insertion order, which is the store-native order listings return.
type PostgresExpertRepository struct {
	db    database.DB
	name  string
	table string
}

func NewPostgresExpertRepository(db database.DB, collection string) *PostgresExpertRepository {
	return &PostgresExpertRepository{db: db, name: collection, table: pgx.Identifier{collection}.Sanitize()}
}

func (r *PostgresExpertRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + r.table + ` (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL DEFAULT '',
			doc JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ` + pgx.Identifier{r.name + "_email_idx"}.Sanitize() +
			` ON ` + r.table + ` (email)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to prepare %s: %w", r.table, err)
		}
	}
	return nil
}

func (r *PostgresExpertRepository) List(ctx context.Context) ([]expert.Expert, error) {
	return r.query(ctx, `SELECT doc FROM `+r.table+` ORDER BY seq ASC`)
}

func (r *PostgresExpertRepository) FindByID(ctx context.Context, id string) (expert.Expert, error) {
	return r.queryOne(ctx, `SELECT doc FROM `+r.table+` WHERE id = $1`, id)
}

func (r *PostgresExpertRepository) FindByEmail(ctx context.Context, email string) (expert.Expert, error) {
	return r.queryOne(ctx, `SELECT doc FROM `+r.table+` WHERE email = $1 ORDER BY seq ASC LIMIT 1`, email)
}

func (r *PostgresExpertRepository) Search(ctx context.Context, query string) ([]expert.Expert, error) {
	q := `
		SELECT doc FROM ` + r.table + `
		WHERE doc->>'name' ILIKE $1
			OR doc->>'title' ILIKE $1
			OR doc->>'department' ILIKE $1
			OR EXISTS (
				SELECT 1 FROM jsonb_array_elements_text(COALESCE(doc->'skills', '[]'::jsonb)) AS s(skill)
				WHERE s.skill ILIKE $1
			)
		ORDER BY seq ASC`
	return r.query(ctx, q, likeContains(query))
}

func (r *PostgresExpertRepository) Insert(ctx context.Context, e expert.Expert) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO `+r.table+` (id, email, doc) VALUES ($1, $2, $3)`, e.ID, e.Email, doc)
	if err != nil {
		return fmt.Errorf("failed to insert expert: %w", err)
	}
	return nil
}

func (r *PostgresExpertRepository) Upsert(ctx context.Context, e expert.Expert) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO `+r.table+` (id, email, doc) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET email = EXCLUDED.email, doc = EXCLUDED.doc`,
		e.ID, e.Email, doc)
	if err != nil {
		return fmt.Errorf("failed to upsert expert: %w", err)
	}
	return nil
}

func (r *PostgresExpertRepository) query(ctx context.Context, q string, args ...any) ([]expert.Expert, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]expert.Expert, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var e expert.Expert
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresExpertRepository) queryOne(ctx context.Context, q string, args ...any) (expert.Expert, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, q, args...).Scan(&doc)
	if errors.Is(err, database.ErrNoRows) {
		return expert.Expert{}, expert.ErrNotFound
	}
	if err != nil {
		return expert.Expert{}, err
	}
	var e expert.Expert
	if err := json.Unmarshal(doc, &e); err != nil {
		return expert.Expert{}, err
	}
	return e, nil
}

var _ expert.Repository = (*PostgresExpertRepository)(nil)
