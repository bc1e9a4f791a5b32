// Package imapcheck verifies IMAP credentials before an account is handed to
// the mail service, so an admin sees a login failure immediately instead of
// after the next server-side fetch.
package imapcheck

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/maildesk/internal/model"
)

const (
	DefaultPort    = 993
	startTLSPort   = 143
	DefaultTimeout = 15 * time.Second
)

// ErrAuth is returned when the server rejects the credentials.
var ErrAuth = errors.New("imap authentication failed")

// Result summarizes a successful check.
type Result struct {
	Server    string
	Mailboxes int
	// InboxMessages is the message count of INBOX.
	InboxMessages uint32
}

// Checker logs in to an IMAP server and inspects INBOX read-only.
type Checker struct {
	Timeout   time.Duration
	TLSConfig *tls.Config
}

// New returns a Checker with the default timeout.
func New() *Checker {
	return &Checker{Timeout: DefaultTimeout}
}

// Address returns host:port for acct, deriving the host from the email
// domain and defaulting to the implicit-TLS port.
func Address(acct model.NewAccount) (string, error) {
	host := strings.TrimSpace(acct.IMAPServer)
	if host == "" {
		at := strings.LastIndex(acct.Email, "@")
		if at < 0 || at == len(acct.Email)-1 {
			return "", fmt.Errorf("cannot derive IMAP server from %q", acct.Email)
		}
		host = "imap." + acct.Email[at+1:]
	}

	port := acct.IMAPPort
	if port == 0 {
		port = DefaultPort
	}
	if port < 0 || port > 65535 {
		return "", fmt.Errorf("invalid IMAP port %d", port)
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

// connect dials addr. Port 143 upgrades with STARTTLS, anything else uses
// implicit TLS.
func (c *Checker) connect(ctx context.Context, addr string) (*imapclient.Client, error) {
	_, port, _ := net.SplitHostPort(addr)
	if port == strconv.Itoa(startTLSPort) {
		return dialStartTLS(ctx, addr, &imapclient.Options{TLSConfig: c.TLSConfig})
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.timeout()},
		Config:    c.TLSConfig,
	}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	return imapclient.New(conn, nil), nil
}

// dialStartTLS runs imapclient.DialStartTLS, giving up when ctx ends. A
// connection that completes after that is closed.
func dialStartTLS(ctx context.Context, addr string, opts *imapclient.Options) (*imapclient.Client, error) {
	type dialed struct {
		client *imapclient.Client
		err    error
	}
	done := make(chan dialed, 1)
	go func() {
		client, err := imapclient.DialStartTLS(addr, opts)
		done <- dialed{client, err}
	}()

	select {
	case d := <-done:
		if d.err != nil {
			return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, d.err)
		}
		return d.client, nil
	case <-ctx.Done():
		go func() {
			if d := <-done; d.client != nil {
				d.client.Close()
			}
		}()
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, ctx.Err())
	}
}

func (c *Checker) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Check logs in with acct's credentials, counts mailboxes and selects INBOX
// read-only. Credential rejections wrap ErrAuth.
func (c *Checker) Check(ctx context.Context, acct model.NewAccount) (*Result, error) {
	if strings.TrimSpace(acct.Email) == "" || acct.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	addr, err := Address(acct)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	client, err := c.connect(ctx, addr)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.Login(acct.Email, acct.Password).Wait(); err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrAuth, acct.Email, err)
	}
	defer func() { _ = client.Logout().Wait() }()

	mailboxes, err := client.List("", "*", nil).Collect()
	if err != nil {
		return nil, fmt.Errorf("listing mailboxes: %w", err)
	}

	inbox, err := client.Select("INBOX", &imap.SelectOptions{ReadOnly: true}).Wait()
	if err != nil {
		return nil, fmt.Errorf("selecting INBOX: %w", err)
	}

	return &Result{
		Server:        addr,
		Mailboxes:     len(mailboxes),
		InboxMessages: inbox.NumMessages,
	}, nil
}
