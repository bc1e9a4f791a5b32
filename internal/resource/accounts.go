package resource

import (
	"context"
	"fmt"
	"log"

	"github.com/mrz1836/go-sanitize"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
)

// Accounts is an account list. NewAccounts backs the message filter and is
// readable by every user; NewManagedAccounts backs the admin account manager.
type Accounts struct {
	client *api.Client
	list   func(context.Context) ([]model.Account, error)
	q      query[[]model.Account]

	// Verify, when set, tries the credentials locally before Add sends them.
	// A failure is reported as a warning and does not stop the request.
	Verify func(context.Context, model.NewAccount) error
}

func NewAccounts(client *api.Client) *Accounts {
	return &Accounts{client: client, list: client.MailAccounts}
}

// NewManagedAccounts lists accounts through the admin settings endpoint.
func NewManagedAccounts(client *api.Client) *Accounts {
	return &Accounts{client: client, list: client.Accounts}
}

func (a *Accounts) Snapshot() State[[]model.Account] {
	return a.q.snapshot()
}

// Load re-reads the account list.
func (a *Accounts) Load(ctx context.Context) error {
	seq := a.q.begin()
	accounts, err := a.list(ctx)
	if !a.q.finish(seq, accounts, err) {
		return nil
	}
	return err
}

// mutate runs an admin change and reloads on success.
func (a *Accounts) mutate(ctx context.Context, fn func() error) error {
	if err := fn(); err != nil {
		return err
	}
	return a.Load(ctx)
}

// Add registers a new account. The address is normalized first. When the
// local check fails the account is still sent, since the service may reach
// servers this machine cannot; the check's error comes back as warning.
func (a *Accounts) Add(ctx context.Context, acct model.NewAccount) (warning error, err error) {
	acct.Email = sanitize.Email(acct.Email, false)
	if acct.Email == "" {
		return nil, fmt.Errorf("email address is required")
	}
	if a.Verify != nil {
		if err := a.Verify(ctx, acct); err != nil {
			log.Printf("local IMAP check for %s: %v", acct.Email, err)
			warning = err
		}
	}
	return warning, a.mutate(ctx, func() error { return a.client.AddAccount(ctx, acct) })
}

// Remove deletes an account.
func (a *Accounts) Remove(ctx context.Context, email string) error {
	return a.mutate(ctx, func() error { return a.client.DeleteAccount(ctx, email) })
}

// SetActive enables or disables fetching for an account.
func (a *Accounts) SetActive(ctx context.Context, email string, active bool) error {
	return a.mutate(ctx, func() error { return a.client.SetAccountActive(ctx, email, active) })
}

// Test asks the server to verify an account's IMAP login.
func (a *Accounts) Test(ctx context.Context, email string) error {
	return a.client.TestAccount(ctx, email)
}
