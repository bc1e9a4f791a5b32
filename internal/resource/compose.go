package resource

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/render"
	"github.com/nhle/maildesk/internal/store"
)

// DraftStore persists unsent replies.
type DraftStore interface {
	SaveDraft(ctx context.Context, d model.Draft) (model.Draft, error)
	DraftForMessage(ctx context.Context, replyToID string) (*model.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Composer prepares and sends replies. Drafts are kept locally when a
// DraftStore is configured.
type Composer struct {
	client *api.Client
	drafts DraftStore
}

func NewComposer(client *api.Client, drafts DraftStore) *Composer {
	return &Composer{client: client, drafts: drafts}
}

// Compose is everything the reply form needs to start.
type Compose struct {
	Draft    model.Draft
	Accounts []model.Account
	// Resumed is set when Draft came from the local store.
	Resumed bool
}

// Start prepares a reply to replyTo. A saved draft for that message wins over
// the server's suggestion.
func (c *Composer) Start(ctx context.Context, replyTo model.ID) (*Compose, error) {
	accounts, err := c.client.SendingAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sending accounts: %w", err)
	}

	out := &Compose{Accounts: accounts}
	if c.drafts != nil {
		d, err := c.drafts.DraftForMessage(ctx, replyTo.String())
		switch {
		case err == nil:
			out.Draft, out.Resumed = *d, true
			return out, nil
		case !errors.Is(err, store.ErrNotFound):
			log.Printf("loading draft for %s: %v", replyTo, err)
		}
	}

	seed, err := c.client.ReplySeed(ctx, replyTo)
	if err != nil {
		return nil, err
	}
	out.Draft = model.Draft{
		ReplyToID: seed.ReplyToID.String(),
		ToEmail:   seed.ToEmail,
		Subject:   seed.Subject,
		Body:      seed.Body,
	}
	if out.Draft.ReplyToID == "" {
		out.Draft.ReplyToID = replyTo.String()
	}
	if seed.Original.AccountEmail != "" {
		out.Draft.AccountEmail = seed.Original.AccountEmail
	} else if len(accounts) > 0 {
		out.Draft.AccountEmail = accounts[0].Email
	}
	return out, nil
}

// ApplyTemplate replaces the body with t's content, and the subject too when
// the template has one.
func ApplyTemplate(d model.Draft, t model.Template) model.Draft {
	if strings.TrimSpace(t.Subject) != "" {
		d.Subject = t.Subject
	}
	d.Body = t.Content
	return d
}

// SaveDraft stores d locally.
func (c *Composer) SaveDraft(ctx context.Context, d model.Draft) (model.Draft, error) {
	if c.drafts == nil {
		return d, errors.New("no draft storage configured")
	}
	return c.drafts.SaveDraft(ctx, d)
}

// Send renders the markdown body to HTML, sends the reply, and drops the
// local draft.
func (c *Composer) Send(ctx context.Context, d model.Draft) error {
	if strings.TrimSpace(d.ToEmail) == "" {
		return errors.New("recipient is required")
	}
	if strings.TrimSpace(d.AccountEmail) == "" {
		return errors.New("sending account is required")
	}

	reply := d.Reply()
	reply.BodyHTML = render.MarkdownToHTML(d.Body)
	if err := c.client.SendReply(ctx, reply); err != nil {
		return err
	}

	if c.drafts != nil && d.ID != "" {
		if err := c.drafts.DeleteDraft(ctx, d.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("removing sent draft %s: %v", d.ID, err)
		}
	}
	return nil
}

// Discard drops the stored draft for d, if there is one.
func (c *Composer) Discard(ctx context.Context, d model.Draft) error {
	if c.drafts == nil || d.ID == "" {
		return nil
	}
	if err := c.drafts.DeleteDraft(ctx, d.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	return nil
}
