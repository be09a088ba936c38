package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gw2/crafter/internal/config"
	"gw2/crafter/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// GW2Client talks to the Guild Wars 2 public API. Batch lookups may return
// partial results: ids the API does not know are simply absent from the
// returned map.
type GW2Client interface {
	FindRecipesByOutput(ctx context.Context, itemID int) ([]domain.Recipe, error)
	FetchItems(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error)
	FetchListings(ctx context.Context, ids []int) (map[int]domain.CommerceListing, error)
}

// errNotFound marks a 404 from the API, which for batch endpoints means
// "none of these ids exist" rather than a transport failure.
var errNotFound = errors.New("not found")

type gw2Client struct {
	rl         ratelimit.Limiter
	config     config.GW2Config
	baseURL    string
	httpClient *resty.Client

	// Guards the result maps while batched chunks land concurrently.
	mu sync.Mutex
}

func NewGW2Client(cfg config.GW2Config) GW2Client {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("X-Schema-Version", cfg.SchemaVersion)

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &gw2Client{
		rl:         ratelimit.New(rps),
		config:     cfg,
		baseURL:    cfg.BaseURL,
		httpClient: client,
	}
}

func (c *gw2Client) FindRecipesByOutput(ctx context.Context, itemID int) ([]domain.Recipe, error) {
	url := fmt.Sprintf("%s/v2/recipes/search?output=%d", c.baseURL, itemID)

	var recipeIDs []int
	if err := c.fetchJSON(ctx, url, &recipeIDs); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to search recipes for item %d: %w", itemID, err)
	}

	if len(recipeIDs) == 0 {
		return nil, nil
	}

	// Deterministic "first recipe" semantics regardless of search order.
	sort.Ints(recipeIDs)

	url = fmt.Sprintf("%s/v2/recipes?ids=%s", c.baseURL, joinIDs(recipeIDs))

	var dtos []recipeDTO
	if err := c.fetchJSON(ctx, url, &dtos); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch recipes %v: %w", recipeIDs, err)
	}

	recipes := make([]domain.Recipe, 0, len(dtos))
	for _, dto := range dtos {
		recipes = append(recipes, dto.toDomain())
	}

	log.Debugf("Resolved %d recipe(s) producing item %d", len(recipes), itemID)
	return recipes, nil
}

func (c *gw2Client) FetchItems(ctx context.Context, ids []int) (map[int]domain.ItemMetadata, error) {
	items := make(map[int]domain.ItemMetadata, len(ids))

	err := c.fetchBatched(ctx, ids, func(chunk []int) error {
		url := fmt.Sprintf("%s/v2/items?ids=%s", c.baseURL, joinIDs(chunk))

		var dtos []itemDTO
		if err := c.fetchJSON(ctx, url, &dtos); err != nil {
			if errors.Is(err, errNotFound) {
				return nil // none of this chunk's ids exist
			}
			return fmt.Errorf("failed to fetch items: %w", err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		for _, dto := range dtos {
			items[dto.ID] = dto.toDomain()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (c *gw2Client) FetchListings(ctx context.Context, ids []int) (map[int]domain.CommerceListing, error) {
	listings := make(map[int]domain.CommerceListing, len(ids))

	err := c.fetchBatched(ctx, ids, func(chunk []int) error {
		url := fmt.Sprintf("%s/v2/commerce/listings?ids=%s", c.baseURL, joinIDs(chunk))

		var dtos []listingDTO
		if err := c.fetchJSON(ctx, url, &dtos); err != nil {
			if errors.Is(err, errNotFound) {
				return nil // no market data for any of this chunk
			}
			return fmt.Errorf("failed to fetch listings: %w", err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		for _, dto := range dtos {
			listings[dto.ID] = dto.toDomain()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return listings, nil
}

// fetchBatched splits ids into API-sized chunks and fetches them
// concurrently, bounded by max_concurrent.
func (c *gw2Client) fetchBatched(ctx context.Context, ids []int, fetch func(chunk []int) error) error {
	if len(ids) == 0 {
		return nil
	}

	pageSize := c.config.PageSize
	if pageSize <= 0 {
		pageSize = 200
	}

	chunks := chunkIDs(dedupeIDs(ids), pageSize)
	if len(chunks) == 1 {
		return fetch(chunks[0])
	}

	wg := &sync.WaitGroup{}
	semaphore := make(chan struct{}, max(1, c.config.MaxConcurrent))
	errCh := make(chan error, len(chunks))

	for _, chunk := range chunks {
		wg.Add(1)

		go func(chunk []int) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := fetch(chunk); err != nil {
				errCh <- err
			}
		}(chunk)
	}

	wg.Wait()
	close(errCh)

	return <-errCh
}

func (c *gw2Client) fetchJSON(ctx context.Context, url string, out any) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(url)

	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.StatusCode() == 404 {
		return errNotFound
	}

	if resp.IsError() {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if err := json.Unmarshal([]byte(resp.String()), out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return nil
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func dedupeIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func chunkIDs(ids []int, size int) [][]int {
	var chunks [][]int
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
