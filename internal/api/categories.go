package api

import (
	"context"

	"github.com/nhle/maildesk/internal/model"
)

// MainCategories lists top-level categories with message counts.
func (c *Client) MainCategories(ctx context.Context) ([]model.CategoryCount, error) {
	var out struct {
		Categories []struct {
			Name  string `json:"main_category"`
			Count int    `json:"count"`
		} `json:"categories"`
	}
	if err := c.get(ctx, "/emails/categories/main", nil, &out); err != nil {
		return nil, err
	}

	counts := make([]model.CategoryCount, 0, len(out.Categories))
	for _, cat := range out.Categories {
		counts = append(counts, model.CategoryCount{Name: cat.Name, Count: cat.Count})
	}
	return counts, nil
}

// SubCategories lists the sub categories of main with message counts.
func (c *Client) SubCategories(ctx context.Context, main string) ([]model.CategoryCount, error) {
	var out struct {
		SubCategories []struct {
			Name  string `json:"sub_category"`
			Count int    `json:"count"`
		} `json:"sub_categories"`
	}
	if err := c.get(ctx, "/emails/categories/"+escape(main)+"/sub", nil, &out); err != nil {
		return nil, err
	}

	counts := make([]model.CategoryCount, 0, len(out.SubCategories))
	for _, cat := range out.SubCategories {
		counts = append(counts, model.CategoryCount{Name: cat.Name, Count: cat.Count})
	}
	return counts, nil
}
