package imapcheck

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/model"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name string
		acct model.NewAccount
		want string
		err  bool
	}{
		{"explicit", model.NewAccount{Email: "a@b.com", IMAPServer: "mail.b.com", IMAPPort: 143}, "mail.b.com:143", false},
		{"default port", model.NewAccount{Email: "a@b.com", IMAPServer: "mail.b.com"}, "mail.b.com:993", false},
		{"derived host", model.NewAccount{Email: "me@gmail.com"}, "imap.gmail.com:993", false},
		{"no domain", model.NewAccount{Email: "me@"}, "", true},
		{"bad port", model.NewAccount{Email: "a@b.com", IMAPPort: 70000}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Address(tt.acct)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckRequiresCredentials(t *testing.T) {
	_, err := New().Check(context.Background(), model.NewAccount{Email: "a@b.com"})
	assert.Error(t, err)
}

func TestCheckConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	c := &Checker{Timeout: time.Second}
	_, err = c.Check(context.Background(), model.NewAccount{
		Email:      "a@b.com",
		Password:   "pw",
		IMAPServer: "127.0.0.1",
		IMAPPort:   addr.Port,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuth)
	assert.Contains(t, err.Error(), "connecting to IMAP")
}

func TestStartTLSDialHonorsDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	// Accept and stay silent so the client waits for a greeting forever.
	conns := make(chan net.Conn, 1)
	go func() {
		if conn, err := ln.Accept(); err == nil {
			conns <- conn
		}
	}()
	t.Cleanup(func() {
		select {
		case conn := <-conns:
			conn.Close()
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = dialStartTLS(ctx, ln.Addr().String(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}
