// Package catalog holds the reference sample catalog used to seed a fresh instance.
package catalog

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-catalog-search/model"
	"github.com/gcbaptista/go-catalog-search/services"
)

var sampleItems = []model.Item{
	{IDArticle: 1, ColorID: 1, Model: 1, Quality: 1, Price: 10.0, Description: "Camiseta roja"},
	{IDArticle: 2, ColorID: 2, Model: 2, Quality: 2, Price: 20.0, Description: "Camiseta azul"},
	{IDArticle: 3, ColorID: 3, Model: 3, Quality: 3, Price: 30.0, Description: "Camiseta verde"},
	{IDArticle: 4, ColorID: 4, Model: 4, Quality: 4, Price: 40.0, Description: "Camiseta negra"},
	{IDArticle: 5, ColorID: 5, Model: 5, Quality: 5, Price: 50.0, Description: "Camiseta amarilla"},
	{IDArticle: 6, ColorID: 6, Model: 6, Quality: 6, Price: 60.0, Description: "Camiseta marron"},
	{IDArticle: 7, ColorID: 7, Model: 7, Quality: 7, Price: 70.0, Description: "Camiseta blanca"},
	{IDArticle: 8, ColorID: 8, Model: 8, Quality: 8, Price: 80.0, Description: "Camiseta gris"},
	{IDArticle: 9, ColorID: 9, Model: 9, Quality: 9, Price: 90.0, Description: "Camiseta rosa"},
	{IDArticle: 10, ColorID: 10, Model: 10, Quality: 10, Price: 100.0, Description: "Camiseta celeste"},
	{IDArticle: 9090, ColorID: 3429, Model: 123590, Quality: 90238, Price: 200.0, Description: "Camiseta tyron"},
}

// Items returns a copy of the sample items.
func Items() []model.Item {
	items := make([]model.Item, len(sampleItems))
	copy(items, sampleItems)
	return items
}

// Records returns the sample items as ingest records keyed "<idArticle>-<colorId>".
func Records() []services.Record {
	records := make([]services.Record, len(sampleItems))
	for i, item := range sampleItems {
		records[i] = services.Record{ID: item.DefaultID(), Item: item}
	}
	return records
}

// Seed ingests the sample catalog. Any rejected record is reported as an error,
// since the sample data is expected to be valid and unique.
func Seed(ctx context.Context, ingester services.Ingester) (services.BatchResult, error) {
	result, err := ingester.AddItems(ctx, Records())
	if err != nil {
		return result, fmt.Errorf("seeding sample catalog: %w", err)
	}
	if len(result.Failed) > 0 {
		return result, fmt.Errorf("seeding sample catalog: %d of %d records rejected, first: %s",
			len(result.Failed), len(sampleItems), result.Failed[0].Error)
	}
	return result, nil
}
