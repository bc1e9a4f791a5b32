package model

import "time"

// Draft is an unsent reply kept in the local cache.
type Draft struct {
	ID           string    `db:"id"`
	ReplyToID    string    `db:"reply_to_id"`
	AccountEmail string    `db:"account_email"`
	ToEmail      string    `db:"to_email"`
	Subject      string    `db:"subject"`
	Body         string    `db:"body"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Reply converts the draft into a sendable reply. BodyHTML is left for the
// caller to render.
func (d Draft) Reply() Reply {
	return Reply{
		AccountEmail: d.AccountEmail,
		ToEmail:      d.ToEmail,
		Subject:      d.Subject,
		Body:         d.Body,
		ReplyToID:    ID(d.ReplyToID),
	}
}
