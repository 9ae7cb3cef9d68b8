package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"reviewsense/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS reviews (
	id                   UUID PRIMARY KEY,
	attraction_thai_name TEXT NOT NULL,
	category             TEXT NOT NULL,
	attraction           TEXT NOT NULL,
	review               TEXT NOT NULL,
	label                TEXT NOT NULL,
	score                DOUBLE PRECISION NOT NULL,
	emojis               TEXT[] NOT NULL DEFAULT '{}',
	emoji_label          INTEGER NOT NULL,
	aspect               TEXT NOT NULL,
	source               TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS reviews_attraction_idx ON reviews (attraction);
CREATE INDEX IF NOT EXISTS reviews_category_aspect_idx ON reviews (category, aspect);
`

const reviewColumns = `id, attraction_thai_name, category, attraction, review, label, score, emojis, emoji_label, aspect, source, created_at`

type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *Postgres) Save(ctx context.Context, r domain.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO NOTHING
	`

	// pq encodes a nil slice as NULL.
	emojis := r.Emojis
	if emojis == nil {
		emojis = []string{}
	}

	_, err := p.db.ExecContext(ctx, query,
		r.ID,
		r.AttractionThaiName,
		r.Category,
		r.Attraction,
		r.Text,
		r.Label,
		r.Score,
		pq.Array(emojis),
		r.EmojiScalar,
		r.Aspect,
		r.Source,
		r.CreatedAt,
	)

	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(s scanner) (domain.Review, error) {
	var r domain.Review
	err := s.Scan(
		&r.ID,
		&r.AttractionThaiName,
		&r.Category,
		&r.Attraction,
		&r.Text,
		&r.Label,
		&r.Score,
		pq.Array(&r.Emojis),
		&r.EmojiScalar,
		&r.Aspect,
		&r.Source,
		&r.CreatedAt,
	)
	return r, err
}

func (p *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	r, err := scanReview(p.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// FindAll lists reviews newest first. An empty place lists every attraction
// and a limit of 0 returns every row from offset on.
func (p *Postgres) FindAll(ctx context.Context, place string, limit, offset int) ([]domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE $1::text = '' OR attraction = $1
		ORDER BY created_at DESC
		LIMIT NULLIF($2::int, 0) OFFSET $3
	`

	rows, err := p.db.QueryContext(ctx, query, place, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}

func (p *Postgres) Aspects(ctx context.Context, category string) ([]string, error) {
	query := `SELECT DISTINCT aspect FROM reviews WHERE category = $1 ORDER BY aspect`

	rows, err := p.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aspects := []string{}
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		aspects = append(aspects, a)
	}

	return aspects, rows.Err()
}

const labelCounts = `
	COUNT(*) FILTER (WHERE label = 'Positive') AS positive,
	COUNT(*) FILTER (WHERE label = 'Negative') AS negative
`

// Top ranks attractions by their number of reviews carrying label.
func (p *Postgres) Top(ctx context.Context, label domain.Label, limit int) ([]domain.LabelCount, error) {
	query := `
		SELECT attraction, ` + labelCounts + `
		FROM reviews
		GROUP BY attraction
		ORDER BY CASE WHEN $1::text = 'Positive'
			THEN COUNT(*) FILTER (WHERE label = 'Positive')
			ELSE COUNT(*) FILTER (WHERE label = 'Negative')
		END DESC, attraction
		LIMIT $2
	`
	return p.queryCounts(ctx, query, string(label), limit)
}

func (p *Postgres) CountsByPlace(ctx context.Context, category string) ([]domain.LabelCount, error) {
	query := `
		SELECT attraction, ` + labelCounts + `
		FROM reviews
		WHERE category = $1
		GROUP BY attraction
		ORDER BY attraction
	`
	return p.queryCounts(ctx, query, category)
}

func (p *Postgres) CountsByAspect(ctx context.Context, place string) ([]domain.LabelCount, error) {
	query := `
		SELECT aspect, ` + labelCounts + `
		FROM reviews
		WHERE attraction = $1
		GROUP BY aspect
		ORDER BY aspect
	`
	return p.queryCounts(ctx, query, place)
}

func (p *Postgres) AspectCounts(ctx context.Context, category, aspect string) (domain.LabelCount, error) {
	query := `
		SELECT ` + labelCounts + `
		FROM reviews
		WHERE category = $1 AND aspect = $2
	`

	c := domain.LabelCount{Key: aspect}
	err := p.db.QueryRowContext(ctx, query, category, aspect).Scan(&c.Positive, &c.Negative)
	return c, err
}

func (p *Postgres) AspectCountsByPlace(ctx context.Context, category, aspect string) ([]domain.LabelCount, error) {
	query := `
		SELECT attraction, ` + labelCounts + `
		FROM reviews
		WHERE category = $1 AND aspect = $2
		GROUP BY attraction
		ORDER BY attraction
	`
	return p.queryCounts(ctx, query, category, aspect)
}

func (p *Postgres) queryCounts(ctx context.Context, query string, args ...any) ([]domain.LabelCount, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.LabelCount{}
	for rows.Next() {
		var c domain.LabelCount
		if err := rows.Scan(&c.Key, &c.Positive, &c.Negative); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
