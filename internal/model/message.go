package model

import "encoding/json"

// Folder names understood by the list endpoint.
const (
	FolderInbox   = "inbox"
	FolderUnread  = "unread"
	FolderStarred = "starred"
	FolderArchive = "archive"
	FolderSpam    = "spam"
	FolderTrash   = "trash"
	FolderSent    = "sent"
)

// Folders lists the folders in the order they are offered in the UI.
var Folders = []string{
	FolderInbox,
	FolderUnread,
	FolderStarred,
	FolderArchive,
	FolderSpam,
	FolderTrash,
}

// Message is an email record as surfaced by the remote service. The client
// holds a read-mostly copy per filter and page.
type Message struct {
	// ID is the service-assigned identifier.
	ID ID `json:"id"`

	// AccountEmail is the address of the IMAP account that received it.
	AccountEmail string `json:"account_email"`

	Subject string `json:"subject"`

	// Sender is the raw display string ("Name <addr>").
	Sender string `json:"sender"`

	Date Time `json:"date"`

	// Body is HTML or plain text exactly as delivered; which one is decided
	// heuristically at render time.
	Body string `json:"body"`

	// Category is the coarse single-level label.
	Category string `json:"category"`

	MainCategory string `json:"main_category,omitempty"`
	SubCategory  string `json:"sub_category,omitempty"`

	IsRead     bool `json:"is_read"`
	IsStarred  bool `json:"is_starred"`
	IsArchived bool `json:"is_archived"`
	IsSpam     bool `json:"is_spam"`
	IsTrashed  bool `json:"is_trashed"`

	Folder string   `json:"folder"`
	Tags   []string `json:"tags"`

	// Metadata is a free-form bag. It may carry an attachment list and
	// transport trace fields.
	Metadata map[string]any `json:"metadata"`

	CreatedAt Time   `json:"created_at"`
	MessageID string `json:"message_id"`
}

// Attachment describes one entry of a message's attachment list.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Attachments decodes the attachment list from the metadata bag. Malformed
// entries are skipped.
func (m Message) Attachments() []Attachment {
	raw, ok := m.Metadata["attachments"]
	if !ok || raw == nil {
		return nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}

	attachments := make([]Attachment, 0, len(items))
	for _, item := range items {
		var a Attachment
		if err := json.Unmarshal(item, &a); err != nil {
			continue
		}
		if a.Filename == "" {
			continue
		}
		attachments = append(attachments, a)
	}
	return attachments
}

// CategoryLabel returns the most specific category available.
func (m Message) CategoryLabel() string {
	switch {
	case m.MainCategory != "" && m.SubCategory != "":
		return m.MainCategory + "/" + m.SubCategory
	case m.MainCategory != "":
		return m.MainCategory
	default:
		return m.Category
	}
}

// MessageFilter is the active filter set of the message list.
type MessageFilter struct {
	Folder       string
	Search       string
	Category     string
	MainCategory string
	SubCategory  string
	Account      string
	Page         int
	PerPage      int
}

// Pagination is the pagination block of a list response. It is always copied
// from the server, never synthesized.
type Pagination struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// HasNext reports whether a page after the current one exists.
func (p Pagination) HasNext() bool {
	return p.Page < p.Pages
}

// HasPrev reports whether a page before the current one exists.
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

// MessagePage is one page of the message list.
type MessagePage struct {
	Messages   []Message  `json:"emails"`
	Pagination Pagination `json:"pagination"`
}
