package resource

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/maildesk/internal/api"
	"github.com/nhle/maildesk/internal/model"
	"github.com/nhle/maildesk/internal/session"
)

// ErrRoleForbidden is returned when the signed-in user may not manage the
// target role. The check mirrors the server's so the form fails fast.
var ErrRoleForbidden = errors.New("only a super admin can manage admin accounts")

// ErrSelfDelete is returned when a user tries to delete their own account.
var ErrSelfDelete = errors.New("cannot delete your own account")

// Users is the admin user-management unit.
type Users struct {
	client *api.Client
	sess   *session.Session
	q      query[[]model.User]
}

func NewUsers(client *api.Client, sess *session.Session) *Users {
	return &Users{client: client, sess: sess}
}

func (u *Users) Snapshot() State[[]model.User] {
	return u.q.snapshot()
}

// Load re-reads the user list.
func (u *Users) Load(ctx context.Context) error {
	seq := u.q.begin()
	users, err := u.client.Users(ctx)
	if !u.q.finish(seq, users, err) {
		return nil
	}
	return err
}

func (u *Users) find(id model.ID) (model.User, bool) {
	for _, user := range u.q.snapshot().Data {
		if user.ID == id {
			return user, true
		}
	}
	return model.User{}, false
}

func (u *Users) authorize(target model.Role) error {
	if !u.sess.Role().CanManage(target) {
		return fmt.Errorf("%w (role %s)", ErrRoleForbidden, target)
	}
	return nil
}

// Create adds a user. An empty role defaults to user.
func (u *Users) Create(ctx context.Context, in model.UserInput) error {
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return fmt.Errorf("unknown role %q", in.Role)
	}
	if err := u.authorize(in.Role); err != nil {
		return err
	}
	if err := u.client.CreateUser(ctx, in); err != nil {
		return err
	}
	return u.Load(ctx)
}

// Update edits a user. Changing to or from an admin role needs super admin.
func (u *Users) Update(ctx context.Context, id model.ID, in model.UserInput) error {
	if current, ok := u.find(id); ok {
		if err := u.authorize(current.Role); err != nil {
			return err
		}
	}
	if in.Role != "" {
		if err := u.authorize(in.Role); err != nil {
			return err
		}
	}
	if err := u.client.UpdateUser(ctx, id, in); err != nil {
		return err
	}
	return u.Load(ctx)
}

// SetActive enables or disables a user.
func (u *Users) SetActive(ctx context.Context, id model.ID, active bool) error {
	if err := u.client.SetUserActive(ctx, id, active); err != nil {
		return err
	}
	return u.Load(ctx)
}

// Delete removes a user other than the signed-in one.
func (u *Users) Delete(ctx context.Context, id model.ID) error {
	if me, ok := u.sess.User(); ok && me.ID == id {
		return ErrSelfDelete
	}
	if target, ok := u.find(id); ok {
		if err := u.authorize(target.Role); err != nil {
			return err
		}
	}
	if err := u.client.DeleteUser(ctx, id); err != nil {
		return err
	}
	return u.Load(ctx)
}
