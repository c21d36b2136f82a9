// Package panels builds the category panels of the home page.
package panels

import (
	"context"
	"fmt"

	"centremart/feed"
	"centremart/models"

	"go.uber.org/zap"
)

// PanelSize is the number of products shown per panel
const PanelSize = 6

// CategorySource lists the categories enabled for the home page, in display order
type CategorySource interface {
	Enabled(ctx context.Context) ([]models.Category, error)
}

// ProductSource reads products for panels
type ProductSource interface {
	ByCategory(ctx context.Context, category string, limit int) ([]models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

// Builder assembles home page panels from the admin-ordered categories
// collection. When no category is enabled it falls back to grouping the
// product snapshot so a fresh catalog still shows panels.
type Builder struct {
	categories CategorySource
	products   ProductSource
	logger     *zap.Logger
}

// NewBuilder returns a Builder over the given sources
func NewBuilder(categories CategorySource, products ProductSource, logger *zap.Logger) *Builder {
	return &Builder{categories: categories, products: products, logger: logger}
}

// Build returns the non-empty panels, filtered by search when it is set
func (b *Builder) Build(ctx context.Context, search string) ([]models.Panel, error) {
	cats, err := b.categories.Enabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	var panels []models.Panel
	if len(cats) == 0 {
		b.logger.Debug("No enabled categories, grouping product snapshot")
		all, err := b.products.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("load products: %w", err)
		}
		panels = GroupSnapshot(all, PanelSize)
	} else {
		panels = make([]models.Panel, 0, len(cats))
		for _, c := range SortByRank(cats) {
			products, err := b.products.ByCategory(ctx, c.Name, PanelSize)
			if err != nil {
				return nil, fmt.Errorf("load panel %s: %w", c.Name, err)
			}
			if len(products) > 0 {
				panels = append(panels, models.Panel{Title: c.Name, Products: products})
			}
		}
	}
	return FilterPanels(panels, search), nil
}

// GroupSnapshot groups products by category in order of first appearance,
// keeps at most size products per group and drops products with no category
func GroupSnapshot(products []models.Product, size int) []models.Panel {
	index := map[string]int{}
	var panels []models.Panel
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		i, ok := index[p.Category]
		if !ok {
			i = len(panels)
			index[p.Category] = i
			panels = append(panels, models.Panel{Title: p.Category})
		}
		if len(panels[i].Products) < size {
			panels[i].Products = append(panels[i].Products, p)
		}
	}
	return panels
}

// FilterPanels applies the search term to each panel and drops panels left empty
func FilterPanels(panels []models.Panel, search string) []models.Panel {
	out := make([]models.Panel, 0, len(panels))
	for _, p := range panels {
		products := feed.Filter(p.Products, search)
		if len(products) == 0 {
			continue
		}
		out = append(out, models.Panel{Title: p.Title, Products: products})
	}
	return out
}
