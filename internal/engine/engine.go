package engine

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/internal/catalog"
	"github.com/gcbaptista/go-catalog-search/internal/logger"
	"github.com/gcbaptista/go-catalog-search/internal/metrics"
)

// Open builds the catalog described by cfg and, when configured, seeds it
// with the sample catalog. m may be nil.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*Instance, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	instance, err := NewInstance(cfg.Search, m)
	if err != nil {
		return nil, err
	}

	if cfg.Seed.SampleCatalog {
		result, err := catalog.Seed(ctx, instance)
		if err != nil {
			return nil, err
		}
		logger.WithComponent("engine").Info("sample catalog loaded", "documents", result.Indexed)
	}
	return instance, nil
}

// ReseedSample resets the instance and loads the sample catalog again.
func ReseedSample(ctx context.Context, instance *Instance) (int, error) {
	result, err := instance.Reseed(ctx, catalog.Records())
	if err != nil {
		return result.Indexed, err
	}
	if len(result.Failed) > 0 {
		return result.Indexed, fmt.Errorf("reseeding sample catalog: %d records rejected, first: %s", len(result.Failed), result.Failed[0].Error)
	}
	return result.Indexed, nil
}
