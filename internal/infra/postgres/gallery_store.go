package postgres

import (
	"context"
	"fmt"

	"space-adventure-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// GalleryStore keeps characters in the characters table, ordered by insertion.
type GalleryStore struct {
	pool *pgxpool.Pool
}

func NewGalleryStore(pool *pgxpool.Pool) *GalleryStore {
	return &GalleryStore{pool: pool}
}

func (s *GalleryStore) Append(ctx context.Context, c domain.Character) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO characters (id, name, description, image_url, type, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Description, c.ImageURL, string(c.Type), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert character: %w", err)
	}
	return nil
}

func (s *GalleryStore) List(ctx context.Context) ([]domain.Character, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, image_url, type, created_at FROM characters ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []domain.Character
	for rows.Next() {
		var (
			c   domain.Character
			typ string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &typ, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		c.Type = domain.CharacterType(typ)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return out, nil
}
