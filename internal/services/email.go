package services

import (
	"context"
	"fmt"
	"log/slog"

	"gatherly/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendGroupInvitation renders the "group_invitation" template and sends it to the invitee.
func (s *emailService) SendGroupInvitation(ctx context.Context, data *domain.GroupInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("group invitation data is nil")
	}
	if data.Email == "" {
		return fmt.Errorf("group invitation recipient has no email")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("group_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render group_invitation template: %w", err)
	}
	if err := s.mailer.Send(ctx, data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send group invitation email: %w", err)
	}
	s.logger.InfoContext(ctx, "group invitation email sent", "invitation_id", data.InvitationID)
	return nil
}
