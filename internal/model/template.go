package model

// Template is a saved reply template.
type Template struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
	CreatedAt Time   `json:"created_at"`
	UpdatedAt Time   `json:"updated_at"`
}

// Reply is an outgoing reply sent through the compose endpoint.
type Reply struct {
	AccountEmail string   `json:"account_email"`
	ToEmail      string   `json:"to_email"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	BodyHTML     string   `json:"body_html,omitempty"`
	CC           []string `json:"cc,omitempty"`
	BCC          []string `json:"bcc,omitempty"`
	ReplyToID    ID       `json:"reply_to_id,omitempty"`
}

// ReplySeed is the server-suggested starting point for replying to a message.
type ReplySeed struct {
	ToEmail   string  `json:"to_email"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	ReplyToID ID      `json:"reply_to_id"`
	Original  Message `json:"original_email"`
}
