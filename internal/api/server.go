// Package api exposes the crafting engine over a small read-only JSON
// HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gw2/crafter/internal/config"
	"gw2/crafter/internal/engine"
	"gw2/crafter/internal/service"

	log "github.com/sirupsen/logrus"
)

// Server serves tree, compare, flip and item search endpoints.
type Server struct {
	svc  *service.Service
	addr string
}

func NewServer(svc *service.Service, cfg config.ServerConfig) *Server {
	return &Server{
		svc:  svc,
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tree", s.handleTree)
	mux.HandleFunc("/api/v1/compare", s.handleCompare)
	mux.HandleFunc("/api/v1/flip", s.handleFlip)
	mux.HandleFunc("/api/v1/items/search", s.handleItemSearch)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("HTTP server shutdown failed: %v", err)
		}
	}()

	log.Infof("HTTP API listening on %s", s.addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	itemID, quantity, ok := s.itemAndQuantity(w, r)
	if !ok {
		return
	}

	tree, err := s.svc.ResolveTree(r.Context(), itemID, quantity)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	itemID, quantity, ok := s.itemAndQuantity(w, r)
	if !ok {
		return
	}

	owned, err := ParseOwned(r.URL.Query().Get("owned"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	comparison, err := s.svc.Compare(r.Context(), itemID, quantity, owned)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comparison)
}

func (s *Server) handleFlip(w http.ResponseWriter, r *http.Request) {
	itemID, _, ok := s.itemAndQuantity(w, r)
	if !ok {
		return
	}

	flip, err := s.svc.Flip(r.Context(), itemID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, flip)
}

func (s *Server) handleItemSearch(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing required parameter: name"))
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	matches, err := s.svc.SearchItems(r.Context(), name, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}

// itemAndQuantity parses the item (numeric id or name) and quantity query
// parameters. Names resolve through the local index.
func (s *Server) itemAndQuantity(w http.ResponseWriter, r *http.Request) (int, int64, bool) {
	raw := r.URL.Query().Get("item")
	if raw == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("missing required parameter: item"))
		return 0, 0, false
	}

	itemID, err := strconv.Atoi(raw)
	if err != nil {
		meta, resolveErr := s.svc.ResolveItemName(r.Context(), raw)
		if resolveErr != nil {
			s.writeError(w, resolveErr)
			return 0, 0, false
		}
		itemID = meta.ID
	}

	quantity := int64(1)
	if rawQty := r.URL.Query().Get("quantity"); rawQty != "" {
		parsed, err := strconv.ParseInt(rawQty, 10, 64)
		if err != nil || parsed < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("quantity must be a non-negative integer"))
			return 0, 0, false
		}
		quantity = parsed
	}

	return itemID, quantity, true
}

// ParseOwned parses "id:qty,id:qty" into a map.
func ParseOwned(raw string) (map[int]int64, error) {
	if raw == "" {
		return nil, nil
	}

	owned := make(map[int]int64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed owned entry %q, expected id:quantity", pair)
		}
		id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("malformed owned item id %q", parts[0])
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err != nil || qty < 0 {
			return nil, fmt.Errorf("malformed owned quantity %q", parts[1])
		}
		owned[id] += qty
	}

	return owned, nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoMarketData), errors.Is(err, service.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	default:
		log.Errorf("Request failed: %v", err)
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
