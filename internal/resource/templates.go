package resource

import (
	"context"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
)

// Templates is the reply template unit.
type Templates struct {
	client *api.Client
	q      query[[]model.Template]
}

func NewTemplates(client *api.Client) *Templates {
	return &Templates{client: client}
}

func (t *Templates) Snapshot() State[[]model.Template] {
	return t.q.snapshot()
}

// Load re-reads the template list.
func (t *Templates) Load(ctx context.Context) error {
	seq := t.q.begin()
	items, err := t.client.Templates(ctx)
	if !t.q.finish(seq, items, err) {
		return nil
	}
	return err
}

// Create saves a new template and reloads.
func (t *Templates) Create(ctx context.Context, in api.TemplateInput) error {
	if _, err := t.client.CreateTemplate(ctx, in); err != nil {
		return err
	}
	return t.Load(ctx)
}

// Update replaces a template and reloads.
func (t *Templates) Update(ctx context.Context, id model.ID, in api.TemplateInput) error {
	if err := t.client.UpdateTemplate(ctx, id, in); err != nil {
		return err
	}
	return t.Load(ctx)
}

// Delete removes a template and reloads.
func (t *Templates) Delete(ctx context.Context, id model.ID) error {
	if err := t.client.DeleteTemplate(ctx, id); err != nil {
		return err
	}
	return t.Load(ctx)
}
