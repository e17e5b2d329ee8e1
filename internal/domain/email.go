package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// GroupInvitationEmailData holds data for the group invitation email.
type GroupInvitationEmailData struct {
	Email           string
	InviteeUsername string
	InviterUsername string
	GroupName       string
	InvitationID    int64
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendGroupInvitation(ctx context.Context, data *GroupInvitationEmailData) error
}
