// Package provider wraps the raw GW2 client with the provider-layer
// policies the engine stays agnostic of: response caching, metadata
// write-through to the local index, and degraded-mode fallbacks.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gw2/crafter/internal/cache"
	"gw2/crafter/internal/client"
	"gw2/crafter/internal/config"
	"gw2/crafter/internal/domain"
	"gw2/crafter/internal/engine"
	"gw2/crafter/internal/repository"

	log "github.com/sirupsen/logrus"
)

const (
	recipeKeyPrefix  = "gw2:cache:recipes:output:"
	itemKeyPrefix    = "gw2:cache:item:"
	listingKeyPrefix = "gw2:cache:listing:"
)

// Providers bundles the three data sources the engine consumes.
type Providers struct {
	Recipes  engine.RecipeProvider
	Items    engine.ItemProvider
	Listings engine.ListingProvider
}

// New builds cached providers over the client. repo may be nil when no
// database is configured; the item provider then skips persistence.
func New(gw2 client.GW2Client, store cache.Cache, repo repository.ItemRepository, cfg *config.Config) *Providers {
	staticTTL := time.Duration(cfg.Redis.StaticTTL) * time.Second
	listingTTL := time.Duration(cfg.Redis.ListingTTL) * time.Second

	return &Providers{
		Recipes:  &recipeProvider{gw2: gw2, cache: store, ttl: staticTTL},
		Items:    &itemProvider{gw2: gw2, cache: store, repo: repo, ttl: staticTTL},
		Listings: &listingProvider{gw2: gw2, cache: store, ttl: listingTTL},
	}
}

type recipeProvider struct {
	gw2   client.GW2Client
	cache cache.Cache
	ttl   time.Duration
}

func (p *recipeProvider) FindRecipesByOutput(ctx context.Context, itemID int) ([]domain.Recipe, error) {
	key := fmt.Sprintf("%s%d", recipeKeyPrefix, itemID)

	if data, ok := p.cache.Get(ctx, key); ok {
		var recipes []domain.Recipe
		if err := json.Unmarshal(data, &recipes); err == nil {
			return recipes, nil
		}
		log.Warnf("Discarding corrupt recipe cache entry for item %d", itemID)
	}

	recipes, err := p.gw2.FindRecipesByOutput(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// "No recipe" is cached too; base materials are looked up constantly.
	if data, err := json.Marshal(recipes); err == nil {
		p.cache.Set(ctx, key, data, p.ttl)
	}

	return recipes, nil
}

type itemProvider struct {
	gw2   client.GW2Client
	cache cache.Cache
	repo  repository.ItemRepository
	ttl   time.Duration
}

func (p *itemProvider) FetchItems(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error) {
	items := make(map[int]domain.ItemMetadata, len(ids))

	var missing []int
	for _, id := range ids {
		key := fmt.Sprintf("%s%d", itemKeyPrefix, id)
		data, ok := p.cache.Get(ctx, key)
		if !ok {
			missing = append(missing, id)
			continue
		}
		var item domain.ItemMetadata
		if err := json.Unmarshal(data, &item); err != nil {
			missing = append(missing, id)
			continue
		}
		items[id] = item
	}

	if len(missing) == 0 {
		return items, nil
	}

	fetched, err := p.gw2.FetchItems(ctx, missing)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// Degraded mode: serve last-known metadata from the local index.
		if p.repo == nil {
			return nil, err
		}
		log.Warnf("Item fetch failed, falling back to local index: %v", err)
		stored, repoErr := p.repo.GetItems(ctx, missing)
		if repoErr != nil {
			return nil, fmt.Errorf("item fetch failed and local index unavailable: %w", err)
		}
		for id, item := range stored {
			items[id] = item
		}
		return items, nil
	}

	for id, item := range fetched {
		items[id] = item
		key := fmt.Sprintf("%s%d", itemKeyPrefix, id)
		if data, err := json.Marshal(item); err == nil {
			p.cache.Set(ctx, key, data, p.ttl)
		}
	}

	if p.repo != nil && len(fetched) > 0 {
		toSave := make([]domain.ItemMetadata, 0, len(fetched))
		for _, item := range fetched {
			toSave = append(toSave, item)
		}
		if err := p.repo.SaveItems(ctx, toSave); err != nil {
			log.Warnf("Failed to persist %d items to local index: %v", len(toSave), err)
		}
	}

	return items, nil
}

type listingProvider struct {
	gw2   client.GW2Client
	cache cache.Cache
	ttl   time.Duration
}

func (p *listingProvider) FetchListings(ctx context.Context, ids []int) (map[int]domain.CommerceListing, error) {
	listings := make(map[int]domain.CommerceListing, len(ids))

	var missing []int
	for _, id := range ids {
		key := fmt.Sprintf("%s%d", listingKeyPrefix, id)
		data, ok := p.cache.Get(ctx, key)
		if !ok {
			missing = append(missing, id)
			continue
		}
		var listing domain.CommerceListing
		if err := json.Unmarshal(data, &listing); err != nil {
			missing = append(missing, id)
			continue
		}
		listings[id] = listing
	}

	if len(missing) == 0 {
		return listings, nil
	}

	fetched, err := p.gw2.FetchListings(ctx, missing)
	if err != nil {
		return nil, err
	}

	for id, listing := range fetched {
		listings[id] = listing
		key := fmt.Sprintf("%s%d", listingKeyPrefix, id)
		if data, err := json.Marshal(listing); err == nil {
			p.cache.Set(ctx, key, data, p.ttl)
		}
	}

	return listings, nil
}
