package repository

import (
	"context"
	"fmt"

	"gw2/crafter/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ItemRepository is the local item-metadata index: a write-through mirror
// of fetched metadata, used as a degraded-mode source when the API is
// unreachable and as the corpus for name search.
type ItemRepository interface {
	SaveItems(ctx context.Context, items []domain.ItemMetadata) error
	GetItems(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error)
	AllItems(ctx context.Context) ([]domain.ItemMetadata, error)
}

type itemRepository struct {
	db *pgxpool.Pool
}

func NewItemRepository(db *pgxpool.Pool) ItemRepository {
	return &itemRepository{
		db: db,
	}
}

// EnsureSchema creates the items table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	query := `
	CREATE TABLE IF NOT EXISTS items (
		id     INTEGER PRIMARY KEY,
		name   TEXT NOT NULL,
		icon   TEXT NOT NULL DEFAULT '',
		rarity TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure items schema: %w", err)
	}
	return nil
}

func (r *itemRepository) SaveItems(ctx context.Context, items []domain.ItemMetadata) error {
	query := `
	INSERT INTO items (id, name, icon, rarity)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id)
	DO UPDATE SET name = $2, icon = $3, rarity = $4`

	for _, item := range items {
		if _, err := r.db.Exec(ctx, query, item.ID, item.Name, item.Icon, item.Rarity); err != nil {
			return fmt.Errorf("failed to save item %d: %w", item.ID, err)
		}
	}

	return nil
}

func (r *itemRepository) GetItems(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error) {
	query := `SELECT id, name, icon, rarity FROM items WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make(map[int]domain.ItemMetadata, len(ids))
	for rows.Next() {
		var item domain.ItemMetadata
		if err := rows.Scan(&item.ID, &item.Name, &item.Icon, &item.Rarity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items[item.ID] = item
	}

	return items, rows.Err()
}

func (r *itemRepository) AllItems(ctx context.Context) ([]domain.ItemMetadata, error) {
	query := `SELECT id, name, icon, rarity FROM items ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []domain.ItemMetadata
	for rows.Next() {
		var item domain.ItemMetadata
		if err := rows.Scan(&item.ID, &item.Name, &item.Icon, &item.Rarity); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
