package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ConfirmationCodeEmailData holds data for the account confirmation email.
type ConfirmationCodeEmailData struct {
	Email            string
	Username         string
	Code             string
	ExpiresInMinutes int
}

// EventInvitationEmailData holds data for the invitation notification email.
type EventInvitationEmailData struct {
	Email       string
	InviterName string
	EventTitle  string
	Message     string
}

// EmailService defines the contract for sending domain-level emails. Callers
// treat failures as non-fatal: a failed send never fails the primary
// operation.
type EmailService interface {
	SendConfirmationCode(ctx context.Context, data *ConfirmationCodeEmailData) error
	SendEventInvitation(ctx context.Context, data *EventInvitationEmailData) error
}
