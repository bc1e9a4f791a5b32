package resource

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/refresh"
	"github.com/nhle/maildesk/internal/session"
)

// backend is an in-process stand-in for the mail service that counts every
// request by "METHOD /path".
type backend struct {
	t   *testing.T
	mux *http.ServeMux
	srv *httptest.Server

	mu   sync.Mutex
	hits map[string]int
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{t: t, mux: http.NewServeMux(), hits: map[string]int{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) handle(pattern string, h http.HandlerFunc) {
	b.mux.HandleFunc(pattern, h)
}

func (b *backend) json(pattern string, status int, body any) {
	b.handle(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

func (b *backend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.hits {
		n += c
	}
	return n
}

func (b *backend) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hits = map[string]int{}
}

// client returns an API client signed in as role.
func (b *backend) client(role model.Role) (*api.Client, *session.Session) {
	sess := session.New(nil)
	require.NoError(b.t, sess.Begin("tok", "", model.User{ID: "1", Name: "Me", Role: role}))
	return api.NewClient(b.srv.URL, sess, 0), sess
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func pageOf(msgs ...model.Message) model.MessagePage {
	return model.MessagePage{
		Messages:   msgs,
		Pagination: model.Pagination{Page: 1, PerPage: 50, Total: len(msgs), Pages: 1},
	}
}

// withList serves page for every list request.
func (b *backend) withList(page model.MessagePage) {
	b.json("GET /api/emails/{$}", http.StatusOK, page)
}

func newUnits(t *testing.T, b *backend) (*Messages, *refresh.Bus) {
	t.Helper()
	c, _ := b.client(model.RoleUser)
	bus := refresh.NewBus()
	return NewMessages(c, bus, model.MessageFilter{Folder: model.FolderInbox, PerPage: 50}), bus
}
