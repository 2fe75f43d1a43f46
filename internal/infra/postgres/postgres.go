package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crobro234/wuebuddy/internal/infra/config"
)

// NewPool builds a pgx pool from configuration and verifies connectivity.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id BIGSERIAL PRIMARY KEY,
		category_id BIGINT NOT NULL REFERENCES categories(id),
		question TEXT NOT NULL,
		answer TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS question_embeddings (
		question_id BIGINT PRIMARY KEY REFERENCES questions(id) ON DELETE CASCADE,
		embedding vector(1536) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_identities (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		provider TEXT NOT NULL,
		provider_subject TEXT NOT NULL,
		provider_email TEXT,
		refresh_token TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (provider, provider_subject)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS post_attachments (
		id UUID PRIMARY KEY,
		post_id BIGINT NOT NULL REFERENCES posts(id),
		file_name TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		size_bytes BIGINT NOT NULL,
		mime_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// seedCatalog mirrors the starter content shipped with the service: one
// category per common arrival topic, with curated answers.
var seedCatalog = []struct {
	category  string
	questions [][2]string
}{
	{
		category: "Visa",
		questions: [][2]string{
			{"How do I book a visa interview?", "Book a Termin on the Auslaenderbehoerde website and bring your passport, enrollment certificate, and proof of funds."},
			{"Where do I pick up my residence permit?", "At the Service Point inside the Auslaenderbehoerde building, after you receive the pickup notification letter."},
		},
	},
	{
		category: "Phone & SIM",
		questions: [][2]string{
			{"How do I get a German phone number?", "Buy an Aldi Talk SIM at REWE or Aldi, then register it online with your passport before it activates."},
		},
	},
}

// EnsureSchema creates the tables when absent and seeds the FAQ catalog the
// first time the store comes up empty.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	var count int64
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, entry := range seedCatalog {
		var categoryID int64
		if err := tx.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, entry.category).Scan(&categoryID); err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
		for _, qa := range entry.questions {
			if _, err := tx.Exec(ctx, `INSERT INTO questions (category_id, question, answer) VALUES ($1, $2, $3)`, categoryID, qa[0], qa[1]); err != nil {
				return fmt.Errorf("seed question: %w", err)
			}
		}
	}
	return tx.Commit(ctx)
}
