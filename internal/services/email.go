package services

import (
	"context"
	"fmt"
	"log"

	"eventplanner/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendConfirmationCode sends the account confirmation email using the
// "confirmation_code" template.
func (s *emailService) SendConfirmationCode(ctx context.Context, data *domain.ConfirmationCodeEmailData) error {
	if data == nil {
		return fmt.Errorf("confirmation code email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("confirmation_code", data)
	if err != nil {
		return fmt.Errorf("failed to render confirmation_code template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send confirmation code email: %w", err)
	}
	log.Printf("[EMAIL] Confirmation code sent to %s", data.Email)
	return nil
}

// SendEventInvitation sends the invitation notification using the
// "event_invitation" template.
func (s *emailService) SendEventInvitation(ctx context.Context, data *domain.EventInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("event invitation email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render event_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("[EMAIL] Invitation email sent to %s", data.Email)
	return nil
}
