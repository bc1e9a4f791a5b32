package model

// Stats is the aggregate statistics block shown in the header.
type Stats struct {
	TotalEmails      int            `json:"total_emails"`
	TotalAccounts    int            `json:"total_accounts"`
	ReadEmails       int            `json:"read_emails"`
	UnreadEmails     int            `json:"unread_emails"`
	EmailsByCategory map[string]int `json:"emails_by_category"`
	EmailsByAccount  map[string]int `json:"emails_by_account"`
	LastFetchTime    Time           `json:"last_fetch_time"`
}
