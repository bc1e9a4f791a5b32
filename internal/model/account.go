package model

// Account is an IMAP account the remote service fetches from.
type Account struct {
	Email       string `json:"email"`
	Active      bool   `json:"active"`
	IMAPServer  string `json:"imap_server,omitempty"`
	IMAPPort    int    `json:"imap_port,omitempty"`
	AccountType string `json:"account_type,omitempty"`
}

// NewAccount is the payload for adding an account.
type NewAccount struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	IMAPServer string `json:"imap_server"`
	IMAPPort   int    `json:"imap_port"`
}
