package app

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/config"
	"github.com/nhle/maildesk/internal/imapcheck"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/refresh"
	"github.com/nhle/maildesk/internal/resource"
	"github.com/nhle/maildesk/internal/session"
	"github.com/nhle/maildesk/internal/store"
)

// Units is everything the views read from and act through.
type Units struct {
	Client  *api.Client
	Session *session.Session
	Bus     *refresh.Bus
	Store   store.Store

	Messages      *resource.Messages
	Browser       *resource.Browser
	Dispatcher    *resource.Dispatcher
	Stats         *resource.Stats
	Accounts      *resource.Accounts
	Managed       *resource.Accounts
	Categories    *resource.Categories
	Notifications *resource.Notifications
	Templates     *resource.Templates
	Users         *resource.Users
	Composer      *resource.Composer
}

// NewUnits wires the data units to client. st may be nil, in which case
// drafts and the offline page cache are unavailable.
func NewUnits(client *api.Client, sess *session.Session, st store.Store, cfg *config.Config) *Units {
	bus := refresh.NewBus()
	messages := resource.NewMessages(client, bus, model.MessageFilter{
		Folder:  cfg.UI.DefaultFolder,
		PerPage: cfg.UI.PerPage,
	})

	var drafts resource.DraftStore
	if st != nil {
		messages.Cache = st
		drafts = st
	}

	checker := imapcheck.New()
	managed := resource.NewManagedAccounts(client)
	managed.Verify = func(ctx context.Context, acct model.NewAccount) error {
		res, err := checker.Check(ctx, acct)
		if err != nil {
			return err
		}
		log.Printf("imap check %s: %d mailboxes, %d in INBOX", res.Server, res.Mailboxes, res.InboxMessages)
		return nil
	}

	return &Units{
		Client:        client,
		Session:       sess,
		Bus:           bus,
		Store:         st,
		Messages:      messages,
		Browser:       resource.NewBrowser(messages),
		Dispatcher:    resource.NewDispatcher(client, messages, bus, cfg.ConfirmDelay()),
		Stats:         resource.NewStats(client),
		Accounts:      resource.NewAccounts(client),
		Managed:       managed,
		Categories:    resource.NewCategories(client),
		Notifications: resource.NewNotifications(client),
		Templates:     resource.NewTemplates(client),
		Users:         resource.NewUsers(client, sess),
		Composer:      resource.NewComposer(client, drafts),
	}
}

// Bootstrap loads the first page and the header data concurrently. Each
// unit records its own failure; the first error is returned.
func (u *Units) Bootstrap(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return u.Messages.Refetch(ctx) })
	g.Go(func() error { return u.Stats.Load(ctx) })
	g.Go(func() error { return u.Notifications.Load(ctx) })
	g.Go(func() error { return u.Categories.Load(ctx) })
	g.Go(func() error { return u.Accounts.Load(ctx) })
	return g.Wait()
}
