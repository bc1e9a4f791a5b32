package resource

import (
	"context"
	"slices"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
)

// Categories is the two-level category tree. Sub categories load lazily the
// first time their parent is expanded.
type Categories struct {
	client *api.Client
	q      query[[]model.CategoryNode]
}

func NewCategories(client *api.Client) *Categories {
	return &Categories{client: client}
}

func (c *Categories) Snapshot() State[[]model.CategoryNode] {
	return c.q.snapshot()
}

// Load re-reads the main categories. Expansion state and loaded children of
// categories that still exist are kept.
func (c *Categories) Load(ctx context.Context) error {
	seq := c.q.begin()
	counts, err := c.client.MainCategories(ctx)
	if err != nil {
		c.q.finish(seq, nil, err)
		return err
	}

	previous := c.q.snapshot().Data
	nodes := make([]model.CategoryNode, 0, len(counts))
	for _, cnt := range counts {
		node := model.CategoryNode{Name: cnt.Name, Count: cnt.Count}
		if i := indexNode(previous, cnt.Name); i >= 0 {
			node.Expanded = previous[i].Expanded
			node.Loaded = previous[i].Loaded
			node.Children = previous[i].Children
		}
		nodes = append(nodes, node)
	}

	c.q.finish(seq, nodes, nil)
	return nil
}

func indexNode(nodes []model.CategoryNode, name string) int {
	return slices.IndexFunc(nodes, func(n model.CategoryNode) bool { return n.Name == name })
}

// Toggle expands or collapses main. The first expansion fetches the sub
// categories.
func (c *Categories) Toggle(ctx context.Context, main string) error {
	var needLoad bool
	c.q.patch(func(nodes *[]model.CategoryNode) {
		i := indexNode(*nodes, main)
		if i < 0 {
			return
		}
		next := slices.Clone(*nodes)
		next[i].Expanded = !next[i].Expanded
		needLoad = next[i].Expanded && !next[i].Loaded
		*nodes = next
	})
	if !needLoad {
		return nil
	}

	subs, err := c.client.SubCategories(ctx, main)
	if err != nil {
		c.q.fail(err)
		return err
	}

	c.q.patch(func(nodes *[]model.CategoryNode) {
		i := indexNode(*nodes, main)
		if i < 0 {
			return
		}
		next := slices.Clone(*nodes)
		next[i].Children = subs
		next[i].Loaded = true
		*nodes = next
	})
	return nil
}
