package resource

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
)

func TestNotificationDeleteIsOptimistic(t *testing.T) {
	ctx := context.Background()
	feed := map[string]any{
		"notifications": []map[string]any{
			{"id": 1, "type": "info", "title": "a", "is_read": false},
			{"id": 2, "type": "error", "title": "b", "is_read": true},
			{"id": 3, "type": "success", "title": "c", "is_read": false},
		},
		"total": 3, "unread_count": 2,
	}

	t.Run("Removed on success", func(t *testing.T) {
		assert := assert.New(t)

		b := newBackend(t)
		b.json("GET /api/notifications/{$}", http.StatusOK, feed)
		b.json("DELETE /api/notifications/{id}", http.StatusOK, map[string]string{})
		c, _ := b.client(model.RoleUser)

		n := NewNotifications(c)
		require.NoError(t, n.Load(ctx))
		assert.Equal(2, n.Unread())

		require.NoError(t, n.Delete(ctx, "1"))
		items := n.Snapshot().Data
		require.Len(t, items, 2)
		assert.Equal(model.ID("2"), items[0].ID)
		assert.Equal(1, n.Unread())
	})

	t.Run("Restored in place on failure", func(t *testing.T) {
		assert := assert.New(t)

		b := newBackend(t)
		b.json("GET /api/notifications/{$}", http.StatusOK, feed)
		c, _ := b.client(model.RoleUser)

		n := NewNotifications(c)
		require.NoError(t, n.Load(ctx))

		assert.Error(n.Delete(ctx, "2"))
		items := n.Snapshot().Data
		require.Len(t, items, 3)
		assert.Equal(model.ID("2"), items[1].ID)
		assert.Error(n.Snapshot().Err)
	})

	t.Run("Mark read", func(t *testing.T) {
		b := newBackend(t)
		b.json("GET /api/notifications/{$}", http.StatusOK, feed)
		b.json("POST /api/notifications/{id}/read", http.StatusOK, map[string]string{})
		c, _ := b.client(model.RoleUser)

		n := NewNotifications(c)
		require.NoError(t, n.Load(ctx))
		require.NoError(t, n.MarkRead(ctx, "3"))
		assert.Equal(t, 1, n.Unread())
	})
}

func TestCategoriesLoadLazily(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.json("GET /api/emails/categories/main", http.StatusOK, map[string]any{
		"success":    true,
		"categories": []map[string]any{{"main_category": "work", "count": 3}, {"main_category": "personal", "count": 1}},
	})
	b.json("GET /api/emails/categories/{main}/sub", http.StatusOK, map[string]any{
		"success":        true,
		"sub_categories": []map[string]any{{"sub_category": "meetings", "count": 2}},
	})
	c, _ := b.client(model.RoleUser)

	cats := NewCategories(c)
	require.NoError(t, cats.Load(ctx))
	require.Len(t, cats.Snapshot().Data, 2)

	require.NoError(t, cats.Toggle(ctx, "work"))
	work := cats.Snapshot().Data[0]
	assert.True(work.Expanded)
	assert.True(work.Loaded)
	assert.Equal([]model.CategoryCount{{Name: "meetings", Count: 2}}, work.Children)

	require.NoError(t, cats.Toggle(ctx, "work"))
	require.NoError(t, cats.Toggle(ctx, "work"))
	assert.Equal(1, b.count("GET /api/emails/categories/work/sub"), "children are fetched once")

	require.NoError(t, cats.Load(ctx))
	assert.True(cats.Snapshot().Data[0].Expanded, "reload keeps expansion")
}

func TestUsersRoleGating(t *testing.T) {
	ctx := context.Background()
	list := map[string]any{
		"users": []map[string]any{
			{"id": 1, "name": "Me", "email": "me@x", "role": "admin", "is_active": true},
			{"id": 2, "name": "Boss", "email": "boss@x", "role": "super_admin", "is_active": true},
			{"id": 3, "name": "Pat", "email": "pat@x", "role": "user", "is_active": true},
		},
		"total_users": 3,
	}

	setup := func(t *testing.T, role model.Role) (*Users, *backend) {
		b := newBackend(t)
		b.json("GET /api/admin/users", http.StatusOK, list)
		b.json("POST /api/admin/users", http.StatusCreated, map[string]string{})
		b.json("PUT /api/admin/users/{id}", http.StatusOK, map[string]string{})
		b.json("PUT /api/admin/users/{id}/status", http.StatusOK, map[string]string{})
		b.json("DELETE /api/admin/users/{id}", http.StatusOK, map[string]string{})
		c, sess := b.client(role)
		u := NewUsers(c, sess)
		require.NoError(t, u.Load(ctx))
		b.reset()
		return u, b
	}

	t.Run("Admin manages plain users only", func(t *testing.T) {
		assert := assert.New(t)
		u, b := setup(t, model.RoleAdmin)

		assert.ErrorIs(u.Create(ctx, model.UserInput{Name: "N", Email: "n@x", Password: "pw", Role: model.RoleAdmin}), ErrRoleForbidden)
		assert.ErrorIs(u.Delete(ctx, "2"), ErrRoleForbidden)
		assert.ErrorIs(u.Update(ctx, "3", model.UserInput{Role: model.RoleAdmin}), ErrRoleForbidden)
		assert.Equal(0, b.total())

		assert.NoError(u.Create(ctx, model.UserInput{Name: "N", Email: "n@x", Password: "pw"}))
		assert.NoError(u.Delete(ctx, "3"))
		assert.NoError(u.SetActive(ctx, "3", false))
		assert.Equal(1, b.count("POST /api/admin/users"))
		assert.Equal(1, b.count("DELETE /api/admin/users/3"))
		assert.Equal(1, b.count("PUT /api/admin/users/3/status"))
	})

	t.Run("Super admin manages admins", func(t *testing.T) {
		u, _ := setup(t, model.RoleSuperAdmin)
		assert.NoError(t, u.Update(ctx, "1", model.UserInput{Role: model.RoleUser}))
	})

	t.Run("Cannot delete self", func(t *testing.T) {
		u, b := setup(t, model.RoleAdmin)
		assert.ErrorIs(t, u.Delete(ctx, "1"), ErrSelfDelete)
		assert.Equal(t, 0, b.total())
	})
}

func TestTemplatesAndAccountsReload(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	b := newBackend(t)
	b.json("GET /api/replies/{$}", http.StatusOK, map[string]any{
		"templates": []map[string]any{{"id": 4, "name": "Thanks", "subject": "Re", "content": "Thank you"}},
		"total":     1,
	})
	b.json("POST /api/replies/{$}", http.StatusCreated, map[string]any{"template_id": 5})
	b.json("DELETE /api/replies/{id}", http.StatusOK, map[string]string{})
	b.json("GET /api/settings/email-accounts", http.StatusOK, []map[string]any{{"email": "a@x", "active": true}})
	b.json("PUT /api/settings/email-accounts/{email}/update", http.StatusOK, map[string]string{})
	c, _ := b.client(model.RoleAdmin)

	tpl := NewTemplates(c)
	require.NoError(t, tpl.Create(ctx, api.TemplateInput{Name: "N", Subject: "S", Content: "C"}))
	require.NoError(t, tpl.Delete(ctx, "4"))
	assert.Equal(2, b.count("GET /api/replies/"))
	assert.Equal(model.ID("4"), tpl.Snapshot().Data[0].ID)

	accts := NewManagedAccounts(c)
	require.NoError(t, accts.SetActive(ctx, "a@x", false))
	assert.Equal(1, b.count("GET /api/settings/email-accounts"))
	assert.True(accts.Snapshot().Loaded)
}

func TestAccountListsUseTheirOwnEndpoints(t *testing.T) {
	ctx := context.Background()

	b := newBackend(t)
	b.json("GET /api/emails/accounts", http.StatusOK, []map[string]any{{"email": "me@x", "active": true}})
	b.json("GET /api/settings/email-accounts", http.StatusForbidden, map[string]string{"error": "Admin access required"})
	c, _ := b.client(model.RoleUser)

	filter := NewAccounts(c)
	require.NoError(t, filter.Load(ctx))
	require.Len(t, filter.Snapshot().Data, 1)
	assert.Equal(t, 1, b.count("GET /api/emails/accounts"))

	managed := NewManagedAccounts(c)
	err := managed.Load(ctx)
	assert.ErrorIs(t, err, api.ErrForbidden)
	assert.Equal(t, 1, b.count("GET /api/settings/email-accounts"))
}

func TestAccountsAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and verifies before sending", func(t *testing.T) {
		b := newBackend(t)
		b.json("POST /api/settings/email-accounts", http.StatusCreated, map[string]string{})
		b.json("GET /api/settings/email-accounts", http.StatusOK, []map[string]any{})
		c, _ := b.client(model.RoleAdmin)

		var verified string
		accts := NewManagedAccounts(c)
		accts.Verify = func(_ context.Context, acct model.NewAccount) error {
			verified = acct.Email
			return nil
		}

		warning, err := accts.Add(ctx, model.NewAccount{Email: " Me@Example.COM ", Password: "pw"})
		require.NoError(t, err)
		assert.NoError(t, warning)
		assert.Equal(t, "me@example.com", verified)
		assert.Equal(t, 1, b.count("POST /api/settings/email-accounts"))
	})

	t.Run("failed local check still sends the account", func(t *testing.T) {
		b := newBackend(t)
		b.json("POST /api/settings/email-accounts", http.StatusCreated, map[string]string{})
		b.json("GET /api/settings/email-accounts", http.StatusOK, []map[string]any{{"email": "a@b.com", "active": true}})
		c, _ := b.client(model.RoleAdmin)

		accts := NewManagedAccounts(c)
		accts.Verify = func(context.Context, model.NewAccount) error { return errors.New("host unreachable") }

		warning, err := accts.Add(ctx, model.NewAccount{Email: "a@b.com", Password: "pw"})
		require.NoError(t, err)
		assert.EqualError(t, warning, "host unreachable")
		assert.Equal(t, 1, b.count("POST /api/settings/email-accounts"))
		assert.Len(t, accts.Snapshot().Data, 1)
	})

	t.Run("missing address sends nothing", func(t *testing.T) {
		b := newBackend(t)
		c, _ := b.client(model.RoleAdmin)

		_, err := NewManagedAccounts(c).Add(ctx, model.NewAccount{Email: "  ", Password: "pw"})
		assert.Error(t, err)
		assert.Equal(t, 0, b.total())
	})
}
