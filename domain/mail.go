package domain

import "time"

// Mail is an outbound template message queued in the outbox until the mail
// provider accepts it.
type Mail struct {
	ID        string            `json:"id"`
	To        string            `json:"to"`
	Subject   string            `json:"subject"`
	Template  string            `json:"template"`
	Variables map[string]string `json:"variables,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Mail templates known to the provider account.
const (
	MailTemplateVerify      = "account-verify"
	MailTemplateReset       = "password-reset"
	MailTemplateEmailChange = "email-change"
)
