package catalog

import (
	"context"
	"fmt"
	"strings"

	"leltar/internal/metrics"

	"go.uber.org/zap"
)

const defaultCreateAttempts = 3

// Resolver maps raw product names seen during an ingestion pass to catalog
// ids, creating the missing products.
type Resolver struct {
	repo     Repository
	state    *State
	logger   *zap.Logger
	metrics  *metrics.Recorder
	attempts int
}

func NewResolver(repo Repository, state *State, logger *zap.Logger, recorder *metrics.Recorder) *Resolver {
	return &Resolver{
		repo:     repo,
		state:    state,
		logger:   logger,
		metrics:  recorder,
		attempts: defaultCreateAttempts,
	}
}

// Resolve returns normalized name -> product id for every name it could map.
//
// Names absent from the catalog are created in one bulk insert, first-seen
// spelling kept. When the insert reports a Conflict another session created
// some of them first: the catalog is reloaded, and whatever is still missing
// is inserted again. A name left unresolved after the last attempt is simply
// absent from the result; callers skip its rows.
func (r *Resolver) Resolve(ctx context.Context, names []string) (map[string]int64, error) {
	resolved := map[string]int64{}
	if len(names) == 0 {
		return resolved, nil
	}

	if err := r.state.Initialize(ctx); err != nil {
		return nil, err
	}
	working, err := r.state.NameIndex()
	if err != nil {
		return nil, err
	}

	pending := map[string]struct{}{}
	var queue []string
	for _, raw := range names {
		key := NormalizeName(raw)
		if key == "" {
			continue
		}
		if _, known := working[key]; known {
			continue
		}
		if _, queued := pending[key]; queued {
			continue
		}
		pending[key] = struct{}{}
		queue = append(queue, strings.TrimSpace(raw))
	}

	for attempt := 1; len(queue) > 0; attempt++ {
		result, err := r.repo.CreateProducts(ctx, queue)
		if err != nil {
			return nil, fmt.Errorf("create %d products: %w", len(queue), err)
		}

		switch result.Kind {
		case Created:
			r.state.Add(result.Products)
			for _, p := range result.Products {
				working[NormalizeName(p.Name)] = p.ID
			}
			r.metrics.ProductsCreated(len(result.Products))
			r.logger.Info("Created products", zap.Int("count", len(result.Products)))
			queue = nil
		case Conflict:
			r.metrics.CatalogConflict()
			r.logger.Warn("Product insertion conflict, likely a concurrent upload; reloading catalog",
				zap.Int("attempt", attempt),
				zap.Int("queued", len(queue)),
			)
			if err := r.state.Refresh(ctx); err != nil {
				return nil, err
			}
			if working, err = r.state.NameIndex(); err != nil {
				return nil, err
			}
			queue = missing(queue, working)
			if len(queue) > 0 && attempt >= r.attempts {
				r.logger.Warn("Products still unresolved after conflicts",
					zap.Strings("names", queue),
					zap.Int("attempts", attempt),
				)
				queue = nil
			}
		default:
			return nil, fmt.Errorf("create products: unexpected result %s", result.Kind)
		}
	}

	for _, raw := range names {
		key := NormalizeName(raw)
		if id, ok := working[key]; ok {
			resolved[key] = id
		}
	}

	return resolved, nil
}

func missing(queue []string, index map[string]int64) []string {
	var out []string
	for _, name := range queue {
		if _, ok := index[NormalizeName(name)]; !ok {
			out = append(out, name)
		}
	}
	return out
}
