package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"welcome/pkg/domain"
)

// PostgresStore keeps one jsonb row per attendee. A merge is a single
// upsert, so concurrent merges on a key serialize on the row lock.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key domain.AttendeeKey) (domain.Card, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT fields FROM cards WHERE key = $1`, key.String()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return decodeFields(raw)
}

func (s *PostgresStore) Merge(ctx context.Context, key domain.AttendeeKey, updates domain.Card) (domain.Card, error) {
	payload, err := json.Marshal(updates.Clone())
	if err != nil {
		return nil, fmt.Errorf("encode card fields: %w", err)
	}

	query := `
		INSERT INTO cards (key, fields)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO UPDATE SET
			fields = cards.fields || EXCLUDED.fields,
			updated_at = NOW()
		RETURNING fields
	`
	var raw []byte
	if err := s.db.QueryRowContext(ctx, query, key.String(), string(payload)).Scan(&raw); err != nil {
		return nil, fmt.Errorf("merge card: %w", err)
	}
	return decodeFields(raw)
}

func decodeFields(raw []byte) (domain.Card, error) {
	card := domain.Card{}
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, fmt.Errorf("decode card fields: %w", err)
	}
	return card, nil
}

var _ Store = (*PostgresStore)(nil)
