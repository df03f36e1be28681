package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/johnrirwin/fpviraq/internal/models"
)

// NewsItemStore archives fetched news items in Postgres
type NewsItemStore struct {
	db *DB
}

func NewNewsItemStore(db *DB) *NewsItemStore {
	return &NewsItemStore{db: db}
}

func (s *NewsItemStore) UpsertItems(ctx context.Context, items []models.NewsItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO news_items (
			id, title, url, source, source_type, category,
			summary, author, highlight, tags, published_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			NOW(), NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			url = EXCLUDED.url,
			source = EXCLUDED.source,
			source_type = EXCLUDED.source_type,
			category = EXCLUDED.category,
			summary = EXCLUDED.summary,
			author = EXCLUDED.author,
			highlight = EXCLUDED.highlight,
			tags = EXCLUDED.tags,
			published_at = EXCLUDED.published_at,
			updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}

		if _, err := stmt.ExecContext(ctx,
			item.ID,
			item.Title,
			item.URL,
			item.Source,
			item.SourceType,
			item.Category,
			nullString(item.Summary),
			nullString(item.Author),
			item.Highlight,
			pq.Array(tags),
			item.PublishedAt,
		); err != nil {
			return fmt.Errorf("upsert news item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *NewsItemStore) DeleteItemsOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM news_items WHERE published_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete old news items: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows, nil
}

// QueryItems returns the newest items, optionally restricted to one category
func (s *NewsItemStore) QueryItems(ctx context.Context, params models.NewsFilterParams) ([]models.NewsItem, error) {
	whereParts := []string{"TRUE"}
	args := make([]interface{}, 0, 2)
	argPos := 1

	if category := strings.TrimSpace(params.Category); category != "" && category != models.FilterAll {
		whereParts = append(whereParts, fmt.Sprintf("LOWER(category) = LOWER($%d)", argPos))
		args = append(args, category)
		argPos++
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, title, url, source, source_type, category, summary, author, highlight, tags, published_at
		FROM news_items
		WHERE %s
		ORDER BY published_at DESC
		LIMIT $%d
	`, strings.Join(whereParts, " AND "), argPos), args...)
	if err != nil {
		return nil, fmt.Errorf("query news items: %w", err)
	}
	defer rows.Close()

	items := []models.NewsItem{}
	for rows.Next() {
		var (
			item            models.NewsItem
			summary, author sql.NullString
			tags            pq.StringArray
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.URL, &item.Source, &item.SourceType, &item.Category,
			&summary, &author, &item.Highlight, &tags, &item.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan news item: %w", err)
		}
		item.Summary = summary.String
		item.Author = author.String
		item.Tags = []string(tags)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read news items: %w", err)
	}
	return items, nil
}
