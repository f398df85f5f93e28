package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"expertise-marketplace/internal/database"
	"expertise-marketplace/internal/domain/expert"

	"github.com/jackc/pgx/v5"
)

type PostgresNominationRepository struct {
	db    database.DB
	table string
}

func NewPostgresNominationRepository(db database.DB, collection string) *PostgresNominationRepository {
	return &PostgresNominationRepository{db: db, table: pgx.Identifier{collection}.Sanitize()}
}

func (r *PostgresNominationRepository) EnsureCollection(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+r.table+` (
		seq BIGSERIAL PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		doc JSONB NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", r.table, err)
	}
	return nil
}

func (r *PostgresNominationRepository) Insert(ctx context.Context, n expert.Nomination) error {
	doc, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `INSERT INTO `+r.table+` (id, doc) VALUES ($1, $2)`, n.ID, doc); err != nil {
		return fmt.Errorf("failed to insert nomination: %w", err)
	}
	return nil
}

var _ expert.NominationRepository = (*PostgresNominationRepository)(nil)
